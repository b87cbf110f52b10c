package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/niksmo/shop-pos/internal/core/domain"
	"github.com/niksmo/shop-pos/internal/core/port"
)

var _ port.Catalog = (*Service)(nil)
var _ port.History = (*Service)(nil)
var _ port.Checkout = (*Service)(nil)
var _ port.Carts = (*Service)(nil)
var _ port.Administration = (*Service)(nil)

const (
	defaultCheckoutTimeout = 5 * time.Second
	defaultNotifyTimeout   = 5 * time.Second
	defaultNotifyAttempts  = 3
	notifyBackoff          = 100 * time.Millisecond
)

type CheckoutMode string

const (
	// CheckoutAtomic places the order and its decrements in one unit of work.
	CheckoutAtomic CheckoutMode = "atomic"
	// CheckoutSequential creates the order, then decrements stock line by
	// line, then marks the order synced. No rollback on partial failure.
	CheckoutSequential CheckoutMode = "sequential"
)

type Config struct {
	CartPolicy      domain.CartPolicy
	StockFloor      domain.StockFloor
	CheckoutMode    CheckoutMode
	CheckoutTimeout time.Duration

	// NotifyTimeout bounds all notification attempts of one order.
	NotifyTimeout  time.Duration
	NotifyAttempts int
}

func (c *Config) normalize() {
	if c.StockFloor == "" {
		c.StockFloor = domain.StockFloorAllowNegative
	}
	if c.CheckoutMode == "" {
		c.CheckoutMode = CheckoutAtomic
	}
	if c.CheckoutTimeout <= 0 {
		c.CheckoutTimeout = defaultCheckoutTimeout
	}
	if c.NotifyTimeout <= 0 {
		c.NotifyTimeout = defaultNotifyTimeout
	}
	if c.NotifyAttempts <= 0 {
		c.NotifyAttempts = defaultNotifyAttempts
	}
}

// Deps are the outbound adapters of the service.
//
// Products and Orders are required, the rest is optional.
type Deps struct {
	Products  port.ProductsStorage
	Orders    port.OrdersStorage
	Placer    port.OrderPlacer
	Resetter  port.Resetter
	Notifier  port.OrderNotifier
	Linker    port.ShareLinker
	Tally     port.SalesTallyReader
	TallyProc port.SalesTallyProcessor
	Clock     func() time.Time
}

type Service struct {
	cfg       Config
	products  port.ProductsStorage
	orders    port.OrdersStorage
	placer    port.OrderPlacer
	resetter  port.Resetter
	notifier  port.OrderNotifier
	linker    port.ShareLinker
	tally     port.SalesTallyReader
	tallyProc port.SalesTallyProcessor
	now       func() time.Time

	carts    cartRegistry
	notifyWg sync.WaitGroup
}

func New(cfg Config, deps Deps) *Service {
	const op = "service.New"
	log := slog.With("op", op)

	if deps.Products == nil || deps.Orders == nil {
		panic(op + ": products and orders storage are required") // develop mistake
	}

	cfg.normalize()

	if cfg.CheckoutMode == CheckoutAtomic && deps.Placer == nil {
		log.Warn("storage has no unit of work, falling back to sequential checkout")
		cfg.CheckoutMode = CheckoutSequential
	}

	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	s := &Service{
		cfg:       cfg,
		products:  deps.Products,
		orders:    deps.Orders,
		placer:    deps.Placer,
		resetter:  deps.Resetter,
		notifier:  deps.Notifier,
		linker:    deps.Linker,
		tally:     deps.Tally,
		tallyProc: deps.TallyProc,
		now:       deps.Clock,
	}
	s.carts.sessions = make(map[string]*cartSession)
	return s
}

// Run runs the background components in separate goroutines.
//
// Blocks current goroutine while components is preparing to ready state.
func (s *Service) Run(ctx context.Context, stopFn context.CancelFunc) {
	if s.tallyProc == nil {
		return
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go s.tallyProc.Run(ctx, stopFn, &wg)
	wg.Wait()
}

// Close waits for in-flight notifications until ctx is done and stops
// the background components.
func (s *Service) Close(ctx context.Context) {
	const op = "Service.Close"
	log := slog.With("op", op)

	done := make(chan struct{})
	go func() {
		s.notifyWg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Warn("notifications still in flight", "err", ctx.Err())
	}

	if s.tallyProc != nil {
		s.tallyProc.Close()
	}
}
