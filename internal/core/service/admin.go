package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/shop-pos/internal/core/domain"
)

var ErrResetUnsupported = fmt.Errorf(
	"%w: storage does not support reset", domain.ErrUnsupported,
)

// Reset wipes the catalog and the order history.
func (s *Service) Reset(ctx context.Context) error {
	const op = "Service.Reset"

	if s.resetter == nil {
		return fmt.Errorf("%s: %w", op, ErrResetUnsupported)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.resetter.Reset(ctx); err != nil {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
	}

	slog.Warn("catalog and orders wiped", "op", op)
	return nil
}

// SalesReport computes the per-product report from the catalog and the
// full order history.
func (s *Service) SalesReport(ctx context.Context) ([]domain.SalesReportRow, error) {
	const op = "Service.SalesReport"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return domain.BuildSalesReport(ps, domain.SoldByName(orders)), nil
}

// SalesTally returns sold qty per item name. It reads the live tally when
// one is wired and falls back to the order history when there is none or
// it cannot answer yet.
func (s *Service) SalesTally(ctx context.Context) (map[string]int, error) {
	const op = "Service.SalesTally"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.tally != nil {
		sold, err := s.tally.SoldQty(ctx)
		if err == nil {
			return sold, nil
		}
		slog.Warn("live tally unavailable, reading history", "op", op, "err", err)
	}

	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return domain.SoldByName(orders), nil
}
