// Package sigctx ties a context to process termination signals.
package sigctx

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}

// NotifyContext returns a context that is done on the first shutdown
// signal or when the returned cancel is called.
func NotifyContext() (context.Context, context.CancelFunc) {
	return WithSignals(context.Background(), shutdownSignals...)
}

// WithSignals is NotifyContext for a parent context and signal set. The
// received signal is logged.
func WithSignals(
	parent context.Context, signals ...os.Signal,
) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, signals...)

	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			slog.Info("shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
