package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/dinepos/api/internal/billing"
	"github.com/dinepos/api/internal/database"
	"github.com/dinepos/api/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// CustomerStore defines the database methods needed by customer handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type CustomerStore interface {
	GetCustomer(ctx context.Context, outletID, id int64) (database.Customer, error)
	GetCustomerByMobile(ctx context.Context, outletID int64, mobile string) (database.Customer, error)
	CreateCustomer(ctx context.Context, outletID int64, name, mobile string) (int64, error)
	UpdateCustomerName(ctx context.Context, id int64, name string) error
}

// CustomerHandler handles the outlet's customer directory, keyed by mobile.
type CustomerHandler struct {
	store CustomerStore
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(store CustomerStore) *CustomerHandler {
	return &CustomerHandler{store: store}
}

// RegisterRoutes registers customer endpoints inside /outlets/{oid}.
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/customers", h.Find)
	r.Post("/customers", h.Create)
	r.Put("/customers/{customerId}", h.Rename)
}

// --- Request / Response types ---

type createCustomerRequest struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

type renameCustomerRequest struct {
	Name string `json:"name"`
}

type customerResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

func toCustomerResponse(c database.Customer) customerResponse {
	return customerResponse{ID: c.ID, Name: c.Name, Mobile: c.Mobile}
}

// --- Handlers ---

// Find looks a customer up by mobile number.
func (h *CustomerHandler) Find(w http.ResponseWriter, r *http.Request) {
	outletID, _ := middleware.OutletIDFromRequest(r)
	mobile := strings.TrimSpace(r.URL.Query().Get("mobile"))
	if mobile == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "mobile is required", "kind": string(billing.KindValidation)})
		return
	}

	c, err := h.store.GetCustomerByMobile(r.Context(), outletID, mobile)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found", "kind": string(billing.KindNotFound)})
			return
		}
		log.Printf("ERROR: find customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(c))
}

// Create registers a customer ahead of billing.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	outletID, _ := middleware.OutletIDFromRequest(r)

	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Mobile = strings.TrimSpace(req.Mobile)
	if req.Mobile == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "mobile is required", "kind": string(billing.KindValidation)})
		return
	}

	id, err := h.store.CreateCustomer(r.Context(), outletID, req.Name, req.Mobile)
	if err != nil {
		if database.IsUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "mobile already exists for this outlet"})
			return
		}
		log.Printf("ERROR: create customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, customerResponse{ID: id, Name: req.Name, Mobile: req.Mobile})
}

// Rename sets the display name of an existing customer.
func (h *CustomerHandler) Rename(w http.ResponseWriter, r *http.Request) {
	outletID, _ := middleware.OutletIDFromRequest(r)
	id, err := parseIDParam(r, "customerId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer ID"})
		return
	}

	var req renameCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required", "kind": string(billing.KindValidation)})
		return
	}

	c, err := h.store.GetCustomer(r.Context(), outletID, id)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found", "kind": string(billing.KindNotFound)})
			return
		}
		log.Printf("ERROR: get customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := h.store.UpdateCustomerName(r.Context(), c.ID, req.Name); err != nil {
		log.Printf("ERROR: rename customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	c.Name = req.Name
	writeJSON(w, http.StatusOK, toCustomerResponse(c))
}
