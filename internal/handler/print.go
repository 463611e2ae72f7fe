package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/dinepos/api/internal/billing"
	"github.com/dinepos/api/internal/database"
	"github.com/dinepos/api/internal/enum"
	"github.com/dinepos/api/internal/middleware"
	"github.com/dinepos/api/internal/render"
	"github.com/dinepos/api/internal/service"
	"github.com/go-chi/chi/v5"
)

// PrintStore reads and writes an outlet's print settings.
// Satisfied by *database.Queries.
type PrintStore interface {
	GetOutlet(ctx context.Context, id int64) (database.Outlet, error)
	UpdatePrintSettings(ctx context.Context, outletID int64, settings string) error
}

// OrderReader loads an order for printing. Satisfied by *service.OrderService.
type OrderReader interface {
	GetOrder(ctx context.Context, outletID, orderID int64) (*service.OrderDetail, error)
}

// PrintHandler serves plain-text KOT and bill printouts.
type PrintHandler struct {
	store  PrintStore
	orders OrderReader
}

// NewPrintHandler creates a new PrintHandler.
func NewPrintHandler(store PrintStore, orders OrderReader) *PrintHandler {
	return &PrintHandler{store: store, orders: orders}
}

// RegisterRoutes registers print endpoints inside /outlets/{oid}.
func (h *PrintHandler) RegisterRoutes(r chi.Router) {
	r.Get("/print-settings", h.GetSettings)
	r.With(middleware.RequireRole(enum.UserRoleOwner, enum.UserRoleManager)).Put("/print-settings", h.UpdateSettings)
	r.Get("/orders/{txnId}/kots/{kotNo}/print", h.PrintKOT)
	r.Get("/orders/{txnId}/bill/print", h.PrintBill)
}

// GetSettings returns the effective settings: stored values over defaults.
func (h *PrintHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	outletID, _ := middleware.OutletIDFromRequest(r)

	settings, err := h.settings(r.Context(), outletID)
	if err != nil {
		h.writeLookupError(w, err, "get print settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UpdateSettings replaces the stored settings. Keys left out fall back to
// their defaults.
func (h *PrintHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	outletID, _ := middleware.OutletIDFromRequest(r)

	settings := render.DefaultPrintSettings()
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := settings.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error(), "kind": string(billing.KindValidation)})
		return
	}

	raw, err := json.Marshal(settings)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if err := h.store.UpdatePrintSettings(r.Context(), outletID, string(raw)); err != nil {
		h.writeLookupError(w, err, "update print settings")
		return
	}

	stored, err := render.LoadPrintSettings(string(raw))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// PrintKOT renders one KOT of an order.
func (h *PrintHandler) PrintKOT(w http.ResponseWriter, r *http.Request) {
	outletID, _ := middleware.OutletIDFromRequest(r)
	orderID, err := parseIDParam(r, "txnId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}
	kotNo, err := strconv.Atoi(chi.URLParam(r, "kotNo"))
	if err != nil || kotNo <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid KOT number"})
		return
	}

	settings, err := h.settings(r.Context(), outletID)
	if err != nil {
		h.writeLookupError(w, err, "print kot settings")
		return
	}
	detail, err := h.orders.GetOrder(r.Context(), outletID, orderID)
	if err != nil {
		writeServiceError(w, err, "print kot")
		return
	}
	kot, ok := detail.Order.KOT(kotNo)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": fmt.Sprintf("KOT %d not found on order %d", kotNo, orderID),
			"kind":  string(billing.KindNotFound),
		})
		return
	}

	writeText(w, render.KOT(kot, detail.Order, settings))
}

// PrintBill renders the bill of an order.
func (h *PrintHandler) PrintBill(w http.ResponseWriter, r *http.Request) {
	outletID, _ := middleware.OutletIDFromRequest(r)
	orderID, err := parseIDParam(r, "txnId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	settings, err := h.settings(r.Context(), outletID)
	if err != nil {
		h.writeLookupError(w, err, "print bill settings")
		return
	}
	detail, err := h.orders.GetOrder(r.Context(), outletID, orderID)
	if err != nil {
		writeServiceError(w, err, "print bill")
		return
	}

	writeText(w, render.Bill(detail.Order, settings))
}

func (h *PrintHandler) settings(ctx context.Context, outletID int64) (render.PrintSettings, error) {
	outlet, err := h.store.GetOutlet(ctx, outletID)
	if err != nil {
		return render.PrintSettings{}, err
	}
	settings, err := render.LoadPrintSettings(outlet.PrintSettings)
	if err != nil {
		log.Printf("WARN: outlet %d has unreadable print settings, using defaults: %v", outletID, err)
	}
	if settings.OutletName == "" {
		settings.OutletName = outlet.Name
	}
	return settings, nil
}

func (h *PrintHandler) writeLookupError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, database.ErrNoRows) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "outlet not found", "kind": string(billing.KindNotFound)})
		return
	}
	log.Printf("ERROR: %s: %v", op, err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Printf("ERROR: failed to write text response: %v", err)
	}
}
