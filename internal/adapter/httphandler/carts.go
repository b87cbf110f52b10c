package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/shop-pos/internal/core/domain"
	"github.com/niksmo/shop-pos/internal/core/port"
)

// POST /carts
// GET /carts/{id}
// POST /carts/{id}/lines JSON {productId, qty}
// POST /carts/{id}/lines/{productId}/decrease
// DELETE /carts/{id}/lines/{productId}
// DELETE /carts/{id}
// POST /carts/{id}/checkout JSON {shopName, shopNumber, paymentMode}
// POST /checkout JSON {shopName, shopNumber, paymentMode, items:[{id, qty}]}
type CartsHandler struct {
	carts port.Carts
}

func RegisterCarts(mux *http.ServeMux, carts port.Carts) {
	h := CartsHandler{carts}
	mux.HandleFunc("POST /carts", h.PostCarts)
	mux.HandleFunc("GET /carts/{id}", h.GetCart)
	mux.HandleFunc("POST /carts/{id}/lines", h.PostLine)
	mux.HandleFunc("POST /carts/{id}/lines/{productId}/decrease", h.DecreaseLine)
	mux.HandleFunc("DELETE /carts/{id}/lines/{productId}", h.DeleteLine)
	mux.HandleFunc("DELETE /carts/{id}", h.DeleteCart)
	mux.HandleFunc("POST /carts/{id}/checkout", h.PostCheckout)
	mux.HandleFunc("POST /checkout", h.PostQuickCheckout)
}

func (h CartsHandler) PostCarts(w http.ResponseWriter, r *http.Request) {
	const op = "CartsHandler.PostCarts"
	log := slog.With("op", op)

	id, err := h.carts.OpenCart(r.Context())
	if err != nil {
		writeErr(w, err, log)
		return
	}
	writeOK(w, http.StatusCreated, cartFromDomain(id, nil), log)
}

func (h CartsHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartsHandler.GetCart"
	log := slog.With("op", op)

	id := r.PathValue("id")
	ls, err := h.carts.ViewCart(r.Context(), id)
	h.writeCart(w, id, ls, err, log)
}

func (h CartsHandler) PostLine(w http.ResponseWriter, r *http.Request) {
	const op = "CartsHandler.PostLine"
	log := slog.With("op", op)

	var req AddLineRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, err, log)
		return
	}
	if req.Qty == 0 {
		req.Qty = 1
	}

	id := r.PathValue("id")
	ls, err := h.carts.AddToCart(r.Context(), id, req.ProductID, req.Qty)
	h.writeCart(w, id, ls, err, log)
}

func (h CartsHandler) DecreaseLine(w http.ResponseWriter, r *http.Request) {
	const op = "CartsHandler.DecreaseLine"
	log := slog.With("op", op)

	id := r.PathValue("id")
	ls, err := h.carts.DecreaseInCart(r.Context(), id, r.PathValue("productId"))
	h.writeCart(w, id, ls, err, log)
}

func (h CartsHandler) DeleteLine(w http.ResponseWriter, r *http.Request) {
	const op = "CartsHandler.DeleteLine"
	log := slog.With("op", op)

	id := r.PathValue("id")
	ls, err := h.carts.RemoveFromCart(r.Context(), id, r.PathValue("productId"))
	h.writeCart(w, id, ls, err, log)
}

func (h CartsHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartsHandler.DeleteCart"
	log := slog.With("op", op)

	if err := h.carts.DropCart(r.Context(), r.PathValue("id")); err != nil {
		writeErr(w, err, log)
		return
	}
	writeOK(w, http.StatusOK, nil, log)
}

func (h CartsHandler) PostCheckout(w http.ResponseWriter, r *http.Request) {
	const op = "CartsHandler.PostCheckout"
	log := slog.With("op", op)

	var req BillRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, err, log)
		return
	}

	bill, err := req.toDomain()
	if err != nil {
		writeErr(w, err, log)
		return
	}

	rcpt, err := h.carts.CheckoutCart(r.Context(), r.PathValue("id"), bill)
	h.writeReceipt(w, rcpt, err, log)
}

// PostQuickCheckout builds a cart from the items and submits it in one
// call.
func (h CartsHandler) PostQuickCheckout(w http.ResponseWriter, r *http.Request) {
	const op = "CartsHandler.PostQuickCheckout"
	log := slog.With("op", op)

	var req CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, err, log)
		return
	}

	bill, err := req.BillRequest.toDomain()
	if err != nil {
		writeErr(w, err, log)
		return
	}

	rcpt, err := h.carts.QuickCheckout(r.Context(), req.items(), bill)
	h.writeReceipt(w, rcpt, err, log)
}

func (CartsHandler) writeCart(
	w http.ResponseWriter, id string, ls []domain.CartLine, err error, log *slog.Logger,
) {
	if err != nil {
		writeErr(w, err, log)
		return
	}
	writeOK(w, http.StatusOK, cartFromDomain(id, ls), log)
}

func (CartsHandler) writeReceipt(
	w http.ResponseWriter, rcpt domain.Receipt, err error, log *slog.Logger,
) {
	if err != nil {
		writeErr(w, err, log)
		return
	}
	log.Info("bill submitted", "orderID", rcpt.Order.ID)
	writeOK(w, http.StatusCreated, receiptFromDomain(rcpt), log)
}
