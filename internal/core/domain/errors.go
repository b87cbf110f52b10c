package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrOutOfStock   = errors.New("out of stock")
	ErrNotFound     = errors.New("not found")
	ErrPersistence  = errors.New("persistence error")
	ErrNotification = errors.New("notification error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnsupported  = errors.New("unsupported")
)

// A CheckoutError reports a failed checkout step after validation passed.
//
// OrderSaved and StockSynced tell the caller what was made durable
// before the failure.
type CheckoutError struct {
	OrderID     string
	OrderSaved  bool
	StockSynced bool
	Err         error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf(
		"%s: order saved=%t, stock synced=%t: %v",
		ErrPersistence, e.OrderSaved, e.StockSynced, e.Err,
	)
}

func (e *CheckoutError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}
