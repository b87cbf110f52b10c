package httphandler

import (
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/niksmo/shop-pos/internal/core/domain"
	"github.com/niksmo/shop-pos/internal/core/port"
)

func AllowJSON(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}
		mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mt != "application/json" {
			http.Error(w, "invalid media type", http.StatusUnsupportedMediaType)
			return
		}
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

// A guard checks the admin bearer token of a request.
type guard struct {
	authn port.Authenticator
}

func (g guard) verify(r *http.Request) error {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return fmt.Errorf("%w: bearer token required", domain.ErrUnauthorized)
	}
	return g.authn.Verify(strings.TrimSpace(h[len(prefix):]))
}

// require rejects requests without a valid admin token.
func (g guard) require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := g.verify(r); err != nil {
			writeErr(w, err, slog.With("op", "guard.require", "path", r.URL.Path))
			return
		}
		next(w, r)
	}
}
