package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/dinepos/api/internal/billing"
	"github.com/dinepos/api/internal/database"
	"github.com/dinepos/api/internal/enum"
	"github.com/dinepos/api/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// MasterStore defines the read-only reference data the POS screens need.
// Satisfied by *database.Queries.
type MasterStore interface {
	ListTables(ctx context.Context, outletID int64) ([]database.DiningTable, error)
	ListOpenOrdersByOutlet(ctx context.Context, outletID int64) ([]database.Order, error)
	ListMenuItems(ctx context.Context, outletID int64) ([]database.MenuItem, error)
	ListPaymentModes(ctx context.Context, outletID int64) ([]database.PaymentMode, error)
}

// MasterHandler serves the table map, menu and payment modes.
type MasterHandler struct {
	store MasterStore
}

// NewMasterHandler creates a new MasterHandler.
func NewMasterHandler(store MasterStore) *MasterHandler {
	return &MasterHandler{store: store}
}

// RegisterRoutes registers master data endpoints inside /outlets/{oid}.
func (h *MasterHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tables", h.ListTables)
	r.Get("/menu", h.ListMenu)
	r.Get("/payment-modes", h.ListPaymentModes)
}

// --- Response types ---

type tableResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	DepartmentID   int64   `json:"department_id"`
	DepartmentName string  `json:"department_name"`
	Status         string  `json:"status"`
	OrderID        *int64  `json:"order_id"`
	OrderState     string  `json:"order_state"`
	BillNo         *int64  `json:"bill_no"`
	NetDue         *string `json:"net_due"`
}

type menuItemResponse struct {
	ID     int64  `json:"id"`
	ItemNo string `json:"item_no"`
	Name   string `json:"name"`
	Rate   string `json:"rate"`
}

type paymentModeResponse struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// --- Handlers ---

// ListTables returns every table with its occupancy derived from the open
// order on it.
func (h *MasterHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	outletID, _ := middleware.OutletIDFromRequest(r)

	tables, err := h.store.ListTables(r.Context(), outletID)
	if err != nil {
		log.Printf("ERROR: list tables: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	open, err := h.store.ListOpenOrdersByOutlet(r.Context(), outletID)
	if err != nil {
		log.Printf("ERROR: list open orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	byTable := make(map[int64]database.Order, len(open))
	for _, o := range open {
		// A billed order wins over an unbilled one on the same table.
		if cur, ok := byTable[o.TableID]; ok && cur.State == enum.OrderStateBilled {
			continue
		}
		byTable[o.TableID] = o
	}

	resp := make([]tableResponse, len(tables))
	for i, t := range tables {
		tr := tableResponse{
			ID:             t.ID,
			Name:           t.Name,
			DepartmentID:   t.DepartmentID,
			DepartmentName: t.DepartmentName,
			Status:         enum.TableStatusFree,
			OrderState:     enum.OrderStateEmpty,
		}
		if o, ok := byTable[t.ID]; ok {
			id := o.ID
			tr.OrderID = &id
			tr.OrderState = o.State
			tr.Status = billing.TableStatus(o.State)
			if o.BillNo.Valid {
				billNo := o.BillNo.Int64
				tr.BillNo = &billNo
			}
			if o.State == enum.OrderStateBilled {
				due := money(o.NetDue)
				tr.NetDue = &due
			}
		}
		resp[i] = tr
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListMenu returns the active menu items of the outlet.
func (h *MasterHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	outletID, _ := middleware.OutletIDFromRequest(r)

	items, err := h.store.ListMenuItems(r.Context(), outletID)
	if err != nil {
		log.Printf("ERROR: list menu items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]menuItemResponse, 0, len(items))
	for _, it := range items {
		if !it.IsActive {
			continue
		}
		resp = append(resp, menuItemResponse{ID: it.ID, ItemNo: it.ItemNo, Name: it.Name, Rate: money(it.Rate)})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListPaymentModes returns the active payment modes of the outlet.
func (h *MasterHandler) ListPaymentModes(w http.ResponseWriter, r *http.Request) {
	outletID, _ := middleware.OutletIDFromRequest(r)

	modes, err := h.store.ListPaymentModes(r.Context(), outletID)
	if err != nil {
		log.Printf("ERROR: list payment modes: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]paymentModeResponse, 0, len(modes))
	for _, m := range modes {
		if !m.IsActive {
			continue
		}
		resp = append(resp, paymentModeResponse{ID: m.ID, Code: m.Code, Name: m.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}
