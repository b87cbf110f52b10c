package httphandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/niksmo/shop-pos/internal/core/port"
)

type Ports struct {
	Catalog port.Catalog
	History port.History
	Carts   port.Carts
	Admin   port.Administration
	Authn   port.Authenticator
}

// NewHandler registers every route on one mux.
func NewHandler(p Ports) http.Handler {
	mux := http.NewServeMux()
	RegisterProducts(mux, p.Catalog, p.Authn)
	RegisterOrders(mux, p.History)
	RegisterCarts(mux, p.Carts)
	RegisterAdmin(mux, p.Admin, p.Authn)
	return AllowJSON(mux)
}

type HTTPServer struct {
	httpServer *http.Server
}

// NewHTTPServer answers 503 to any request running longer than
// requestTimeout.
func NewHTTPServer(
	addr string, handler http.Handler, requestTimeout time.Duration,
) HTTPServer {
	handler = http.TimeoutHandler(handler, requestTimeout, "unavailable")
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
	return HTTPServer{s}
}

func (s HTTPServer) Run(stopFn context.CancelFunc) {
	const op = "HTTPServer.Run"
	log := slog.With("op", op)

	defer stopFn()

	log.Info("listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return
		}
		log.Error("unexpected servers shutdown", "err", err)
	}
}

func (s HTTPServer) Close(ctx context.Context) {
	const op = "HTTPServer.Close"
	log := slog.With("op", op)

	log.Info("closing http server...")
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		log.Error("failed to shutdown gracefully", "err", err)
	}
	log.Info("http server is closed")
}
