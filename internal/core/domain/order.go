package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMode string

const (
	PaymentCash   PaymentMode = "Cash"
	PaymentOnline PaymentMode = "Online"
)

// ParsePaymentMode accepts modes case-insensitively. Empty input means cash.
func ParsePaymentMode(s string) (PaymentMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cash":
		return PaymentCash, nil
	case "online":
		return PaymentOnline, nil
	}
	return "", fmt.Errorf("%w: unknown payment mode %q", ErrValidation, s)
}

// StockSync tracks whether the stock decrement of an order was applied.
// Untracked orders are recorded as is, their stock is adjusted by a
// separate decrement call.
type StockSync string

const (
	StockSyncPending   StockSync = "pending"
	StockSyncSynced    StockSync = "synced"
	StockSyncUntracked StockSync = "untracked"
)

type (
	// OrderItem is a value copy of a cart line at submit time.
	OrderItem struct {
		ProductID string
		Name      string
		Qty       int
		Price     decimal.Decimal
	}

	// Order is an append-only ledger record.
	Order struct {
		ID          string
		ShopName    string
		ShopNumber  string
		Items       []OrderItem
		TotalAmount decimal.Decimal
		PaymentMode PaymentMode
		StockSync   StockSync
		Date        time.Time
	}
)

func (i OrderItem) Amount() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}

// ItemsTotal sums qty*price over items.
func ItemsTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, i := range items {
		total = total.Add(i.Amount())
	}
	return total
}

// Validate checks the fields required to persist an order.
func (o Order) Validate() error {
	if strings.TrimSpace(o.ShopName) == "" {
		return fmt.Errorf("%w: shop name is required", ErrValidation)
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("%w: order has no items", ErrValidation)
	}
	for n, i := range o.Items {
		if strings.TrimSpace(i.Name) == "" {
			return fmt.Errorf("%w: item %d: name is required", ErrValidation, n)
		}
		if i.Qty < 1 {
			return fmt.Errorf("%w: item %d: qty must be positive", ErrValidation, n)
		}
		if err := validateMoney(fmt.Sprintf("item %d: price", n), i.Price); err != nil {
			return err
		}
	}
	if err := validateMoney("total amount", o.TotalAmount); err != nil {
		return err
	}
	switch o.PaymentMode {
	case PaymentCash, PaymentOnline:
	default:
		return fmt.Errorf("%w: unknown payment mode %q", ErrValidation, o.PaymentMode)
	}
	return nil
}

// Decrements returns one stock decrement per item that references a product.
func (o Order) Decrements() []StockDecrement {
	ds := make([]StockDecrement, 0, len(o.Items))
	for _, i := range o.Items {
		if i.ProductID == "" {
			continue
		}
		ds = append(ds, StockDecrement{ProductID: i.ProductID, Qty: i.Qty})
	}
	return ds
}
