package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/niksmo/shop-pos/internal/core/domain"
	"github.com/niksmo/shop-pos/pkg/retry"
)

// SubmitBill turns the cart into an order, decrements stock for every line
// and hands the order summary to the notifier.
//
// Validation failures perform no I/O. The cart is cleared only when the
// order and its decrements are durable. Notification runs in background
// and never fails the checkout.
func (s *Service) SubmitBill(
	ctx context.Context, cart *domain.Cart, bill domain.Bill,
) (domain.Receipt, error) {
	const op = "Service.SubmitBill"

	if cart == nil || cart.Empty() {
		return domain.Receipt{}, fmt.Errorf(
			"%s: %w: cart is empty", op, domain.ErrValidation,
		)
	}

	bill.ShopName = strings.TrimSpace(bill.ShopName)
	bill.ShopNumber = strings.TrimSpace(bill.ShopNumber)
	if err := bill.Validate(); err != nil {
		return domain.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := ctx.Err(); err != nil {
		return domain.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.CheckoutTimeout)
	defer cancel()

	order := domain.Order{
		ShopName:    bill.ShopName,
		ShopNumber:  bill.ShopNumber,
		Items:       cart.Snapshot(),
		TotalAmount: cart.Total(),
		PaymentMode: bill.PaymentMode,
		StockSync:   domain.StockSyncPending,
		Date:        s.now(),
	}

	var (
		saved domain.Order
		err   error
	)
	switch s.cfg.CheckoutMode {
	case CheckoutAtomic:
		saved, err = s.placeAtomic(ctx, order)
	default:
		saved, err = s.placeSequential(ctx, order)
	}
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}

	cart.Clear()

	message := domain.SummaryMessage(saved)
	s.notify(saved, message)

	slog.Info(
		"bill submitted",
		"op", op,
		"orderID", saved.ID,
		"items", len(saved.Items),
		"total", saved.TotalAmount.String(),
		"paymentMode", saved.PaymentMode,
	)

	return domain.Receipt{
		Order:     saved,
		Message:   message,
		ShareLink: s.shareLink(saved.ShopNumber, message),
	}, nil
}

func (s *Service) placeAtomic(ctx context.Context, o domain.Order) (domain.Order, error) {
	o.StockSync = domain.StockSyncSynced
	saved, err := s.placer.PlaceOrder(ctx, o, s.cfg.StockFloor)
	if err != nil {
		return domain.Order{}, &domain.CheckoutError{Err: err}
	}
	return saved, nil
}

// placeSequential creates the order, then decrements line by line. A failed
// decrement leaves the order saved with pending stock sync and earlier
// decrements applied.
func (s *Service) placeSequential(ctx context.Context, o domain.Order) (domain.Order, error) {
	const op = "Service.placeSequential"
	log := slog.With("op", op)

	saved, err := s.orders.CreateOrder(ctx, o)
	if err != nil {
		return domain.Order{}, &domain.CheckoutError{Err: err}
	}

	for _, d := range saved.Decrements() {
		err := s.products.DecrementStock(ctx, d.ProductID, d.Qty, s.cfg.StockFloor)
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn(
				"skip decrement of unknown product",
				"orderID", saved.ID, "productID", d.ProductID,
			)
			continue
		}
		if err != nil {
			log.Error(
				"stock decrement failed, order saved",
				"orderID", saved.ID, "productID", d.ProductID, "err", err,
			)
			return domain.Order{}, &domain.CheckoutError{
				OrderID:    saved.ID,
				OrderSaved: true,
				Err:        err,
			}
		}
	}

	if err := s.orders.MarkStockSynced(ctx, saved.ID); err != nil {
		log.Warn("mark stock synced failed", "orderID", saved.ID, "err", err)
		return saved, nil
	}
	saved.StockSync = domain.StockSyncSynced
	return saved, nil
}

func (s *Service) notify(o domain.Order, message string) {
	if s.notifier == nil {
		return
	}

	s.notifyWg.Add(1)
	go func() {
		const op = "Service.notify"
		defer s.notifyWg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.NotifyTimeout)
		defer cancel()

		err := retry.Do(ctx, retry.Config{
			MaxAttempts: s.cfg.NotifyAttempts,
			Backoff:     retry.ExponentialBackoff(notifyBackoff),
		}, func() error {
			return s.notifier.NotifyOrder(ctx, o, message)
		})
		if err != nil {
			slog.Warn(
				"order saved, notification failed",
				"op", op,
				"orderID", o.ID,
				"err", fmt.Errorf("%w: %w", domain.ErrNotification, err),
			)
		}
	}()
}

func (s *Service) shareLink(phone, message string) string {
	if s.linker == nil {
		return ""
	}
	return s.linker.ShareLink(phone, message)
}
