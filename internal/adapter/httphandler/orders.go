package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/shop-pos/internal/core/port"
)

// GET /orders
// POST /orders JSON {shopName, shopNumber, items, totalAmount, paymentMode, date}
type OrdersHandler struct {
	history port.History
}

func RegisterOrders(mux *http.ServeMux, history port.History) {
	h := OrdersHandler{history}
	mux.HandleFunc("GET /orders", h.GetOrders)
	mux.HandleFunc("POST /orders", h.PostOrders)
}

func (h OrdersHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.GetOrders"
	log := slog.With("op", op)

	orders, err := h.history.ListOrders(r.Context())
	if err != nil {
		writeErr(w, err, log)
		return
	}
	writeOK(w, http.StatusOK, ordersFromDomain(orders), log)
}

// PostOrders records an order as is. Stock is not touched.
func (h OrdersHandler) PostOrders(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.PostOrders"
	log := slog.With("op", op)

	var req CreateOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, err, log)
		return
	}

	o, err := req.toDomain()
	if err != nil {
		writeErr(w, err, log)
		return
	}

	o, err = h.history.CreateOrder(r.Context(), o)
	if err != nil {
		writeErr(w, err, log)
		return
	}
	writeOK(w, http.StatusCreated, orderFromDomain(o), log)
}
