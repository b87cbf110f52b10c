package domain

import (
	"fmt"
	"strings"
	"time"
)

// Bill is the shop metadata given at checkout.
type Bill struct {
	ShopName    string
	ShopNumber  string
	PaymentMode PaymentMode
}

func (b Bill) Validate() error {
	if strings.TrimSpace(b.ShopName) == "" {
		return fmt.Errorf("%w: shop name is required", ErrValidation)
	}
	switch b.PaymentMode {
	case PaymentCash, PaymentOnline:
	default:
		return fmt.Errorf("%w: unknown payment mode %q", ErrValidation, b.PaymentMode)
	}
	return nil
}

// Receipt is the outcome of a successful checkout.
type Receipt struct {
	Order     Order
	Message   string
	ShareLink string
}

const summaryDateLayout = "02 Jan 2006 15:04"

// SummaryMessage composes the human readable order text handed to the
// notification channel.
func SummaryMessage(o Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bill: %s\n", o.ShopName)
	if o.ShopNumber != "" {
		fmt.Fprintf(&b, "Phone: %s\n", o.ShopNumber)
	}
	b.WriteString("\n")
	for _, i := range o.Items {
		fmt.Fprintf(&b, "%d x %s = %s\n", i.Qty, i.Name, i.Amount().StringFixedBank(2))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total: %s\n", o.TotalAmount.StringFixedBank(2))
	fmt.Fprintf(&b, "Payment: %s\n", o.PaymentMode)
	fmt.Fprintf(&b, "Date: %s", o.Date.In(time.Local).Format(summaryDateLayout))
	return b.String()
}
