package domain

import "fmt"

// StockFloor decides what a decrement does when it would go below zero.
type StockFloor string

const (
	// StockFloorAllowNegative keeps the blind decrement; negative stock
	// is a backorder signal.
	StockFloorAllowNegative StockFloor = "allow_negative"
	// StockFloorClamp stops the decrement at zero.
	StockFloorClamp StockFloor = "clamp"
)

func ParseStockFloor(s string) (StockFloor, error) {
	switch StockFloor(s) {
	case "", StockFloorAllowNegative:
		return StockFloorAllowNegative, nil
	case StockFloorClamp:
		return StockFloorClamp, nil
	}
	return "", fmt.Errorf("%w: unknown stock floor %q", ErrValidation, s)
}

// Apply returns the stock left after subtracting qty.
func (f StockFloor) Apply(stock, qty int) int {
	left := stock - qty
	if f == StockFloorClamp && left < 0 {
		return 0
	}
	return left
}

// CartPolicy holds the guard conditions of the cart engine.
type CartPolicy struct {
	// EnforceStockCap rejects adds that would put more units of a product
	// in the cart than its stock.
	EnforceStockCap bool
}
