// Package memstore keeps the catalog and the order history in process
// memory. It backs the till when no database is configured.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/niksmo/shop-pos/internal/core/domain"
	"github.com/niksmo/shop-pos/internal/core/port"
)

var _ port.ProductsStorage = (*Store)(nil)
var _ port.OrdersStorage = (*Store)(nil)
var _ port.OrderPlacer = (*Store)(nil)
var _ port.Resetter = (*Store)(nil)

type Store struct {
	mu       sync.RWMutex
	products []domain.Product
	orders   []domain.Order
}

func New() *Store {
	return &Store{}
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "Store.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products), nil
}

func (s *Store) ReadProduct(ctx context.Context, id string) (domain.Product, error) {
	const op = "Store.ReadProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := s.productIndex(id)
	if n < 0 {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return s.products[n], nil
}

func (s *Store) CreateProduct(
	ctx context.Context, f domain.ProductFields,
) (domain.Product, error) {
	const op = "Store.CreateProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p := domain.Product{
		ID:             uuid.NewString(),
		Name:           f.Name,
		Price:          f.Price,
		PricePerBottle: f.PricePerBottle,
		Stock:          f.Stock,
		Image:          f.Image,
	}

	s.mu.Lock()
	s.products = append(s.products, p)
	s.mu.Unlock()
	return p, nil
}

func (s *Store) UpdateProduct(
	ctx context.Context, id string, patch domain.ProductPatch,
) (domain.Product, error) {
	const op = "Store.UpdateProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.productIndex(id)
	if n < 0 {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	s.products[n] = patch.Apply(s.products[n])
	return s.products[n], nil
}

func (s *Store) DecrementStock(
	ctx context.Context, id string, qty int, floor domain.StockFloor,
) error {
	const op = "Store.DecrementStock"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.decrement(id, qty, floor) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	const op = "Store.DeleteProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.productIndex(id)
	if n < 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	s.products = slices.Delete(s.products, n, n+1)
	return nil
}

// ListOrders returns orders newest first.
func (s *Store) ListOrders(ctx context.Context) ([]domain.Order, error) {
	const op = "Store.ListOrders"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	vs := make([]domain.Order, len(s.orders))
	for n, o := range s.orders {
		vs[len(s.orders)-1-n] = cloneOrder(o)
	}
	slices.SortStableFunc(vs, func(a, b domain.Order) int {
		return b.Date.Compare(a.Date)
	})
	return vs, nil
}

func (s *Store) CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	const op = "Store.CreateOrder"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendOrder(o), nil
}

func (s *Store) MarkStockSynced(ctx context.Context, orderID string) error {
	const op = "Store.MarkStockSynced"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for n := range s.orders {
		if s.orders[n].ID == orderID {
			s.orders[n].StockSync = domain.StockSyncSynced
			return nil
		}
	}
	return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
}

// PlaceOrder appends the order and applies its decrements under one lock.
func (s *Store) PlaceOrder(
	ctx context.Context, o domain.Order, floor domain.StockFloor,
) (domain.Order, error) {
	const op = "Store.PlaceOrder"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.appendOrder(o)
	for _, d := range saved.Decrements() {
		s.decrement(d.ProductID, d.Qty, floor)
	}
	return saved, nil
}

func (s *Store) Reset(ctx context.Context) error {
	const op = "Store.Reset"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.products = nil
	s.orders = nil
	s.mu.Unlock()
	return nil
}

func (s *Store) productIndex(id string) int {
	return slices.IndexFunc(s.products, func(p domain.Product) bool {
		return p.ID == id
	})
}

func (s *Store) decrement(id string, qty int, floor domain.StockFloor) bool {
	n := s.productIndex(id)
	if n < 0 {
		return false
	}
	s.products[n].Stock = floor.Apply(s.products[n].Stock, qty)
	return true
}

func (s *Store) appendOrder(o domain.Order) domain.Order {
	o = cloneOrder(o)
	o.ID = uuid.NewString()
	s.orders = append(s.orders, o)
	return cloneOrder(o)
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = slices.Clone(o.Items)
	return o
}
