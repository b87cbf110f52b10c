package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type (
	// Product is a catalog item. Price is the petti (case) rate,
	// PricePerBottle is the optional bottle MRP, zero means not offered.
	Product struct {
		ID             string
		Name           string
		Price          decimal.Decimal
		PricePerBottle decimal.Decimal
		Stock          int
		Image          string
	}

	// ProductFields holds the fields used on admin create.
	ProductFields struct {
		Name           string
		Price          decimal.Decimal
		PricePerBottle decimal.Decimal
		Stock          int
		Image          string
	}

	// ProductPatch is a partial admin edit. Nil fields are left untouched.
	ProductPatch struct {
		Name           *string
		Price          *decimal.Decimal
		PricePerBottle *decimal.Decimal
		Stock          *int
		Image          *string
	}

	// StockDecrement subtracts Qty from the stock of product ID.
	StockDecrement struct {
		ProductID string
		Qty       int
	}
)

// MoneyPlaces is the number of fractional digits stored for money.
const MoneyPlaces = 2

// validateMoney rejects negative amounts and amounts with more fractional
// digits than storage keeps.
func validateMoney(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: %s must be non-negative", ErrValidation, field)
	}
	if !d.Equal(d.Round(MoneyPlaces)) {
		return fmt.Errorf(
			"%w: %s must have at most %d decimal places",
			ErrValidation, field, MoneyPlaces,
		)
	}
	return nil
}

func (f ProductFields) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if err := validateMoney("price", f.Price); err != nil {
		return err
	}
	return validateMoney("price per bottle", f.PricePerBottle)
}

func (p ProductPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("%w: name must not be blank", ErrValidation)
	}
	if p.Price != nil {
		if err := validateMoney("price", *p.Price); err != nil {
			return err
		}
	}
	if p.PricePerBottle != nil {
		return validateMoney("price per bottle", *p.PricePerBottle)
	}
	return nil
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.PricePerBottle == nil &&
		p.Stock == nil && p.Image == nil
}

// Apply returns a copy of v with the patch applied.
func (p ProductPatch) Apply(v Product) Product {
	if p.Name != nil {
		v.Name = strings.TrimSpace(*p.Name)
	}
	if p.Price != nil {
		v.Price = *p.Price
	}
	if p.PricePerBottle != nil {
		v.PricePerBottle = *p.PricePerBottle
	}
	if p.Stock != nil {
		v.Stock = *p.Stock
	}
	if p.Image != nil {
		v.Image = strings.TrimSpace(*p.Image)
	}
	return v
}

func (d StockDecrement) Validate() error {
	if d.ProductID == "" {
		return fmt.Errorf("%w: product id is required", ErrValidation)
	}
	if d.Qty < 1 {
		return fmt.Errorf("%w: qty must be positive", ErrValidation)
	}
	return nil
}
