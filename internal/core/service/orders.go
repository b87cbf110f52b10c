package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/niksmo/shop-pos/internal/core/domain"
)

func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	const op = "Service.ListOrders"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

// CreateOrder records an order as given, without touching stock.
//
// A zero total is computed from the items, a zero date is set to now.
func (s *Service) CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	const op = "Service.CreateOrder"

	o.ShopName = strings.TrimSpace(o.ShopName)
	o.ShopNumber = strings.TrimSpace(o.ShopNumber)
	if o.PaymentMode == "" {
		o.PaymentMode = domain.PaymentCash
	}

	if err := o.Validate(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	if o.TotalAmount.IsZero() {
		o.TotalAmount = domain.ItemsTotal(o.Items)
	}
	if o.Date.IsZero() {
		o.Date = s.now()
	}
	o.StockSync = domain.StockSyncUntracked

	saved, err := s.orders.CreateOrder(ctx, o)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
	}

	slog.Info(
		"order recorded",
		"op", op, "orderID", saved.ID, "total", saved.TotalAmount.String(),
	)
	return saved, nil
}
