package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/gocarina/gocsv"
	"github.com/niksmo/shop-pos/internal/core/port"
)

// POST /admin/login JSON {password}
// GET /admin/report?format=csv admin
// GET /admin/sales/tally admin
// DELETE /reset admin
type AdminHandler struct {
	admin port.Administration
	authn port.Authenticator
	guard guard
}

func RegisterAdmin(
	mux *http.ServeMux, admin port.Administration, authn port.Authenticator,
) {
	h := AdminHandler{admin, authn, guard{authn}}
	mux.HandleFunc("POST /admin/login", h.PostLogin)
	mux.HandleFunc("GET /admin/report", h.guard.require(h.GetReport))
	mux.HandleFunc("GET /admin/sales/tally", h.guard.require(h.GetTally))
	mux.HandleFunc("DELETE /reset", h.guard.require(h.DeleteReset))
}

func (h AdminHandler) PostLogin(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.PostLogin"
	log := slog.With("op", op)

	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, err, log)
		return
	}

	token, err := h.authn.Login(r.Context(), req.Password)
	if err != nil {
		writeErr(w, err, log)
		return
	}
	log.Info("admin logged in")
	writeOK(w, http.StatusOK, LoginResponse{token}, log)
}

func (h AdminHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.GetReport"
	log := slog.With("op", op)

	rows, err := h.admin.SalesReport(r.Context())
	if err != nil {
		writeErr(w, err, log)
		return
	}
	report := reportFromDomain(rows)

	if r.URL.Query().Get("format") != "csv" {
		writeOK(w, http.StatusOK, report, log)
		return
	}

	data, err := gocsv.MarshalBytes(report)
	if err != nil {
		writeErr(w, err, log)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set(
		"Content-Disposition", `attachment; filename="sales-report.csv"`,
	)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func (h AdminHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.GetTally"
	log := slog.With("op", op)

	sold, err := h.admin.SalesTally(r.Context())
	if err != nil {
		writeErr(w, err, log)
		return
	}
	writeOK(w, http.StatusOK, sold, log)
}

// DeleteReset wipes the catalog and the order history.
func (h AdminHandler) DeleteReset(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.DeleteReset"
	log := slog.With("op", op)

	if err := h.admin.Reset(r.Context()); err != nil {
		writeErr(w, err, log)
		return
	}
	log.Warn("reset done")
	writeOK(w, http.StatusOK, nil, log)
}
