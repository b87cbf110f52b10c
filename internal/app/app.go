package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"

	"github.com/niksmo/shop-pos/config"
	"github.com/niksmo/shop-pos/internal/adapter"
	"github.com/niksmo/shop-pos/internal/adapter/auth"
	"github.com/niksmo/shop-pos/internal/adapter/httphandler"
	"github.com/niksmo/shop-pos/internal/adapter/kafka"
	"github.com/niksmo/shop-pos/internal/adapter/memstore"
	"github.com/niksmo/shop-pos/internal/adapter/storage"
	"github.com/niksmo/shop-pos/internal/adapter/whatsapp"
	"github.com/niksmo/shop-pos/internal/core/domain"
	"github.com/niksmo/shop-pos/internal/core/service"
	"github.com/niksmo/shop-pos/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type storages struct {
	sqlDB *storage.SQLDB
	deps  service.Deps
}

type broker struct {
	tlsConfig *tls.Config
	serde     schema.Serde
	producer  *kafka.OrdersProducer
	tallyProc *kafka.SalesTallyProcessor
	tallyView *kafka.SalesTallyView
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	storages   storages
	broker     broker
	service    *service.Service
	httpServer httphandler.HTTPServer
}

func New(context context.Context, config config.Config) *App {
	app := &App{ctx: context, cfg: config}

	app.initLogger()
	app.initStorage()
	app.initBroker()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	switch app.cfg.Storage {
	case config.StorageMemory:
		s := memstore.New()
		app.storages.deps = service.Deps{
			Products: s,
			Orders:   s,
			Placer:   s,
			Resetter: s,
		}
		slog.Warn("in-memory storage, data is lost on restart", "op", op)

	default:
		sqlDB, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
		if err != nil {
			app.fallDown(op, err)
		}
		orders := storage.NewOrdersRepository(sqlDB)
		app.storages.sqlDB = &sqlDB
		app.storages.deps = service.Deps{
			Products: storage.NewProductsRepository(sqlDB),
			Orders:   orders,
			Placer:   orders,
			Resetter: storage.NewResetter(sqlDB),
		}
	}
}

func (app *App) initBroker() {
	const op = "App.initBroker"

	if !app.cfg.Broker.Enabled {
		slog.Info("broker is disabled, order events are not published", "op", op)
		return
	}

	app.initBrokerTLS()
	app.initSerdes()
	app.initOutboundAdapters()
}

func (app *App) initBrokerTLS() {
	const op = "App.initBrokerTLS"

	tlsCfg := app.cfg.Broker.TLS
	if !tlsCfg.Enabled() {
		return
	}

	tlsConfig, err := adapter.MakeTLSConfig(tlsCfg.CA, tlsCfg.Cert, tlsCfg.Key)
	if err != nil {
		app.fallDown(op, err)
	}
	kafka.ApplyTLS(tlsConfig)
	app.broker.tlsConfig = tlsConfig
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"
	urls := app.cfg.Broker.SchemaRegistryURLs
	ctx := app.ctx

	srOpts := []sr.ClientOpt{sr.URLs(urls...)}
	if app.broker.tlsConfig != nil {
		srOpts = append(srOpts, sr.DialTLSConfig(app.broker.tlsConfig))
	}

	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		app.fallDown(op, err)
	}

	schemaIdentifier := schema.NewSchemaIdentifier(srClient)

	orderSS := app.cfg.Broker.Topics.OrdersPlaced + "-value"
	orderSerde, err := schema.NewSerdeOrderPlacedV1(
		ctx,
		schema.SubjectOpt(orderSS),
		schema.SchemaIdentifierOpt(schemaIdentifier),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.broker.serde = orderSerde
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	ctx := app.ctx
	seedBrokers := app.cfg.Broker.SeedBrokers
	ordersTopic := app.cfg.Broker.Topics.OrdersPlaced
	tallyGroup := app.cfg.Broker.Topics.SalesTallyGroup

	ordersProducer, err := kafka.NewOrdersProducer(
		kafka.ProducerClientOpt(ctx, seedBrokers, ordersTopic, app.broker.tlsConfig),
		kafka.ProducerEncoderOpt(app.broker.serde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	tallyProc, err := kafka.NewSalesTallyProc(
		seedBrokers, ordersTopic, tallyGroup, app.broker.serde,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	tallyView, err := kafka.NewSalesTallyView(seedBrokers, tallyGroup)
	if err != nil {
		app.fallDown(op, err)
	}

	app.broker.producer = &ordersProducer
	app.broker.tallyProc = tallyProc
	app.broker.tallyView = tallyView
}

func (app *App) initCoreService() {
	const op = "App.initCoreService"

	floor, err := domain.ParseStockFloor(app.cfg.Checkout.StockFloor)
	if err != nil {
		app.fallDown(op, err)
	}

	mode := service.CheckoutMode(app.cfg.Checkout.Mode)
	switch mode {
	case service.CheckoutAtomic, service.CheckoutSequential:
	default:
		app.fallDown(op, fmt.Errorf("unknown checkout mode %q", mode))
	}

	deps := app.storages.deps
	deps.Linker = whatsapp.NewLinkBuilder(
		app.cfg.Notify.WhatsAppBaseURL, app.cfg.Notify.CountryCode,
	)
	if app.broker.producer != nil {
		deps.Notifier = app.broker.producer
		deps.TallyProc = app.broker.tallyProc
		deps.Tally = app.broker.tallyView
	}

	app.service = service.New(service.Config{
		CartPolicy:      domain.CartPolicy{EnforceStockCap: app.cfg.Checkout.EnforceStockCap},
		StockFloor:      floor,
		CheckoutMode:    mode,
		CheckoutTimeout: app.cfg.Checkout.Timeout,
		NotifyTimeout:   app.cfg.Notify.Timeout,
		NotifyAttempts:  app.cfg.Notify.Attempts,
	}, deps)
}

func (app *App) initInboundAdapters() {
	const op = "App.initInboundAdapters"

	authn, err := auth.New(auth.Config{
		PasswordHash: app.cfg.Admin.PasswordHash,
		TokenSecret:  app.cfg.Admin.TokenSecret,
		TokenTTL:     app.cfg.Admin.TokenTTL,
	})
	if err != nil {
		app.fallDown(op, err)
	}

	handler := httphandler.NewHandler(httphandler.Ports{
		Catalog: app.service,
		History: app.service,
		Carts:   app.service,
		Admin:   app.service,
		Authn:   authn,
	})

	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr, handler, app.cfg.HTTPRequestTimeout,
	)
}

// Run blocks until the background components are ready, then serves
// HTTP in a separate goroutine.
func (app *App) Run(stopFn context.CancelFunc) {
	if app.broker.tallyView != nil {
		go app.broker.tallyView.Run(app.ctx)
	}

	app.service.Run(app.ctx, stopFn)

	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.service.Close(ctx)

	if app.broker.producer != nil {
		app.broker.producer.Close()
	}

	if app.storages.sqlDB != nil {
		app.storages.sqlDB.Close()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
