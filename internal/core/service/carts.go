package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/niksmo/shop-pos/internal/core/domain"
)

type cartSession struct {
	mu   sync.Mutex
	cart *domain.Cart
}

// cartRegistry holds the open till sessions. Every session has its own
// lock, so two tills never wait on each other.
type cartRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*cartSession
}

func (r *cartRegistry) open(policy domain.CartPolicy) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = &cartSession{cart: domain.NewCart(policy)}
	r.mu.Unlock()
	return id
}

func (r *cartRegistry) get(id string) (*cartSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: cart %q", domain.ErrNotFound, id)
	}
	return sess, nil
}

func (r *cartRegistry) drop(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

func (s *Service) OpenCart(ctx context.Context) (string, error) {
	const op = "Service.OpenCart"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return s.carts.open(s.cfg.CartPolicy), nil
}

func (s *Service) ViewCart(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	const op = "Service.ViewCart"

	sess, err := s.carts.get(cartID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.cart.Lines(), nil
}

// AddToCart reads the product from the catalog and adds qty units of it
// to the cart.
func (s *Service) AddToCart(
	ctx context.Context, cartID, productID string, qty int,
) ([]domain.CartLine, error) {
	const op = "Service.AddToCart"

	sess, err := s.carts.get(cartID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if qty < 1 {
		return nil, fmt.Errorf("%s: %w: qty must be positive", op, domain.ErrValidation)
	}

	p, err := s.products.ReadProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.cart.AddLine(p, qty); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sess.cart.Lines(), nil
}

func (s *Service) DecreaseInCart(
	ctx context.Context, cartID, productID string,
) ([]domain.CartLine, error) {
	const op = "Service.DecreaseInCart"
	return s.editCart(op, cartID, productID, (*domain.Cart).DecreaseLine)
}

func (s *Service) RemoveFromCart(
	ctx context.Context, cartID, productID string,
) ([]domain.CartLine, error) {
	const op = "Service.RemoveFromCart"
	return s.editCart(op, cartID, productID, (*domain.Cart).RemoveLine)
}

func (s *Service) editCart(
	op, cartID, productID string, edit func(*domain.Cart, string) bool,
) ([]domain.CartLine, error) {
	sess, err := s.carts.get(cartID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !edit(sess.cart, productID) {
		return nil, fmt.Errorf(
			"%s: %w: product %q is not in cart", op, domain.ErrNotFound, productID,
		)
	}
	return sess.cart.Lines(), nil
}

func (s *Service) DropCart(ctx context.Context, cartID string) error {
	const op = "Service.DropCart"

	if !s.carts.drop(cartID) {
		return fmt.Errorf("%s: %w: cart %q", op, domain.ErrNotFound, cartID)
	}
	return nil
}

// CheckoutCart submits the bill of an open cart. The session stays open
// and empty after success, and keeps its lines after a failure.
func (s *Service) CheckoutCart(
	ctx context.Context, cartID string, bill domain.Bill,
) (domain.Receipt, error) {
	const op = "Service.CheckoutCart"

	sess, err := s.carts.get(cartID)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	r, err := s.SubmitBill(ctx, sess.cart, bill)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// QuickCheckout builds a one-shot cart from items and submits it.
func (s *Service) QuickCheckout(
	ctx context.Context, items []domain.StockDecrement, bill domain.Bill,
) (domain.Receipt, error) {
	const op = "Service.QuickCheckout"

	if len(items) == 0 {
		return domain.Receipt{}, fmt.Errorf(
			"%s: %w: cart is empty", op, domain.ErrValidation,
		)
	}
	for _, i := range items {
		if err := i.Validate(); err != nil {
			return domain.Receipt{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := bill.Validate(); err != nil {
		return domain.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}

	cart := domain.NewCart(s.cfg.CartPolicy)
	for _, i := range items {
		p, err := s.products.ReadProduct(ctx, i.ProductID)
		if err != nil {
			return domain.Receipt{}, fmt.Errorf("%s: %w", op, err)
		}
		if err := cart.AddLine(p, i.Qty); err != nil {
			return domain.Receipt{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	r, err := s.SubmitBill(ctx, cart, bill)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}
