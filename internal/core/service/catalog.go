package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/niksmo/shop-pos/internal/core/domain"
)

// ListProducts returns the catalog. A non-empty query keeps products whose
// name contains it, case-insensitively.
func (s *Service) ListProducts(ctx context.Context, query string) ([]domain.Product, error) {
	const op = "Service.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return ps, nil
	}

	filtered := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		if strings.Contains(strings.ToLower(p.Name), query) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s *Service) CreateProduct(
	ctx context.Context, f domain.ProductFields,
) (domain.Product, error) {
	const op = "Service.CreateProduct"

	if err := f.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	f.Name = strings.TrimSpace(f.Name)
	f.Image = strings.TrimSpace(f.Image)

	p, err := s.products.CreateProduct(ctx, f)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	slog.Info("product created", "op", op, "productID", p.ID, "name", p.Name)
	return p, nil
}

func (s *Service) UpdateProduct(
	ctx context.Context, id string, patch domain.ProductPatch,
) (domain.Product, error) {
	const op = "Service.UpdateProduct"

	if id == "" {
		return domain.Product{}, fmt.Errorf(
			"%s: %w: product id is required", op, domain.ErrValidation,
		)
	}

	if patch.Empty() {
		return domain.Product{}, fmt.Errorf(
			"%s: %w: nothing to update", op, domain.ErrValidation,
		)
	}

	if err := patch.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.products.UpdateProduct(ctx, id, patch)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	slog.Info("product updated", "op", op, "productID", p.ID, "stock", p.Stock)
	return p, nil
}

// DecrementStock applies each decrement in order. Unknown products are
// skipped.
func (s *Service) DecrementStock(ctx context.Context, ds []domain.StockDecrement) error {
	const op = "Service.DecrementStock"
	log := slog.With("op", op)

	if len(ds) == 0 {
		return fmt.Errorf("%s: %w: no items to decrement", op, domain.ErrValidation)
	}

	for _, d := range ds {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, d := range ds {
		err := s.products.DecrementStock(ctx, d.ProductID, d.Qty, s.cfg.StockFloor)
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn("skip decrement of unknown product", "productID", d.ProductID)
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
		}
	}
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	const op = "Service.DeleteProduct"

	if id == "" {
		return fmt.Errorf("%s: %w: product id is required", op, domain.ErrValidation)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	slog.Info("product deleted", "op", op, "productID", id)
	return nil
}
