package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/niksmo/shop-pos/internal/core/domain"
	"github.com/niksmo/shop-pos/internal/core/port"
)

const maxBodyBytes = 1 << 20

type okBody struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errBody struct {
	Success     bool   `json:"success"`
	Error       string `json:"error"`
	OrderID     string `json:"orderId,omitempty"`
	OrderSaved  *bool  `json:"orderSaved,omitempty"`
	StockSynced *bool  `json:"stockSynced,omitempty"`
}

var errStatus = []struct {
	err    error
	status int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrOutOfStock, http.StatusBadRequest},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrUnsupported, http.StatusNotImplemented},
	{domain.ErrPersistence, http.StatusBadGateway},
	{context.DeadlineExceeded, http.StatusGatewayTimeout},
}

func writeJSON(w http.ResponseWriter, status int, v any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func writeOK(w http.ResponseWriter, status int, data any, log *slog.Logger) {
	writeJSON(w, status, okBody{Success: true, Data: data}, log)
}

// writeErr maps err to a status code. Client errors carry the domain
// message, server errors a generic one.
func writeErr(w http.ResponseWriter, err error, log *slog.Logger) {
	status := http.StatusInternalServerError
	body := errBody{Error: "internal error"}

	for _, e := range errStatus {
		if errors.Is(err, e.err) {
			status = e.status
			body.Error = publicMessage(err, e.err)
			break
		}
	}

	var ce *domain.CheckoutError
	if errors.As(err, &ce) {
		body.OrderID = ce.OrderID
		body.OrderSaved = &ce.OrderSaved
		body.StockSynced = &ce.StockSynced
		if ce.OrderSaved {
			body.Error = "bill saved, stock update failed"
		} else {
			body.Error = "bill not saved"
		}
	}

	if status >= http.StatusInternalServerError {
		log.Error("request failed", "err", err)
	} else {
		log.Warn("request rejected", "err", err)
	}
	writeJSON(w, status, body, log)
}

// publicMessage cuts the operation prefixes off err, starting at sentinel.
func publicMessage(err, sentinel error) string {
	msg, s := err.Error(), sentinel.Error()
	if i := strings.Index(msg, s); i >= 0 {
		return msg[i:]
	}
	return s
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON data", domain.ErrValidation)
	}
	return nil
}

// GET /products?q=name
// POST /products JSON {name, price, pricePerBottle, stock, image} admin
// PUT /products JSON {items:[{id, qty}]} or {id, ...fields} admin
// DELETE /products?id=ID admin
type ProductsHandler struct {
	catalog port.Catalog
	guard   guard
}

func RegisterProducts(
	mux *http.ServeMux, catalog port.Catalog, authn port.Authenticator,
) {
	h := ProductsHandler{catalog, guard{authn}}
	mux.HandleFunc("GET /products", h.GetProducts)
	mux.HandleFunc("POST /products", h.guard.require(h.PostProducts))
	mux.HandleFunc("PUT /products", h.PutProducts)
	mux.HandleFunc("DELETE /products", h.guard.require(h.DeleteProducts))
}

func (h ProductsHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProducts"
	log := slog.With("op", op)

	ps, err := h.catalog.ListProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeErr(w, err, log)
		return
	}
	writeOK(w, http.StatusOK, productsFromDomain(ps), log)
}

func (h ProductsHandler) PostProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PostProducts"
	log := slog.With("op", op)

	var req CreateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, err, log)
		return
	}

	p, err := h.catalog.CreateProduct(r.Context(), req.toDomain())
	if err != nil {
		writeErr(w, err, log)
		return
	}
	writeOK(w, http.StatusCreated, productFromDomain(p), log)
}

// PutProducts decrements stock when the body has items, otherwise it
// updates one product and needs an admin token.
func (h ProductsHandler) PutProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PutProducts"
	log := slog.With("op", op)

	var req PutProductsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, err, log)
		return
	}

	if req.isDecrement() {
		if err := h.catalog.DecrementStock(r.Context(), req.decrements()); err != nil {
			writeErr(w, err, log)
			return
		}
		writeOK(w, http.StatusOK, nil, log)
		return
	}

	if err := h.guard.verify(r); err != nil {
		writeErr(w, err, log)
		return
	}

	p, err := h.catalog.UpdateProduct(r.Context(), req.productID(), req.patch())
	if err != nil {
		writeErr(w, err, log)
		return
	}
	writeOK(w, http.StatusOK, productFromDomain(p), log)
}

func (h ProductsHandler) DeleteProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.DeleteProducts"
	log := slog.With("op", op)

	id := r.URL.Query().Get("id")
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		writeErr(w, err, log)
		return
	}
	writeOK(w, http.StatusOK, nil, log)
}
