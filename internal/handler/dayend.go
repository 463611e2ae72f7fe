package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dinepos/api/internal/database"
	"github.com/dinepos/api/internal/enum"
	"github.com/dinepos/api/internal/middleware"
	"github.com/dinepos/api/internal/service"
	"github.com/go-chi/chi/v5"
)

// DayEndServicer defines the service methods needed by day-end handlers.
// Satisfied by *service.DayEndService.
type DayEndServicer interface {
	Summary(ctx context.Context, outletID int64) (*service.DayEndSummary, error)
	CloseDay(ctx context.Context, outletID, userID int64) (*database.DayEndRecord, *service.DayEndSummary, error)
}

// DayEndHandler handles business-date endpoints.
type DayEndHandler struct {
	svc DayEndServicer
}

// NewDayEndHandler creates a new DayEndHandler.
func NewDayEndHandler(svc DayEndServicer) *DayEndHandler {
	return &DayEndHandler{svc: svc}
}

// RegisterRoutes registers day-end endpoints inside /outlets/{oid}.
// Closing a day is limited to owners and managers.
func (h *DayEndHandler) RegisterRoutes(r chi.Router) {
	r.Get("/day-end", h.Summary)
	r.With(middleware.RequireRole(enum.UserRoleOwner, enum.UserRoleManager)).Post("/day-end", h.Close)
}

type dayEndRecordResponse struct {
	ID          int64     `json:"id"`
	DayEndDate  string    `json:"dayend_date"`
	NextDate    string    `json:"next_date"`
	OrderCount  int       `json:"order_count"`
	TotalAmount string    `json:"total_amount"`
	CreatedBy   int64     `json:"created_by"`
	ClosedAt    time.Time `json:"closed_at"`
}

type closeDayResponse struct {
	Record  dayEndRecordResponse   `json:"record"`
	Summary *service.DayEndSummary `json:"summary"`
}

// Summary returns the current business date and its totals so far.
func (h *DayEndHandler) Summary(w http.ResponseWriter, r *http.Request) {
	outletID, _ := middleware.OutletIDFromRequest(r)

	summary, err := h.svc.Summary(r.Context(), outletID)
	if err != nil {
		writeServiceError(w, err, "day-end summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Close ends the current business date.
func (h *DayEndHandler) Close(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	outletID, _ := middleware.OutletIDFromRequest(r)

	rec, summary, err := h.svc.CloseDay(r.Context(), outletID, claims.UserID)
	if err != nil {
		writeServiceError(w, err, "close day")
		return
	}

	writeJSON(w, http.StatusCreated, closeDayResponse{
		Record: dayEndRecordResponse{
			ID:          rec.ID,
			DayEndDate:  rec.DayEndDate,
			NextDate:    rec.NextDate,
			OrderCount:  rec.OrderCount,
			TotalAmount: money(rec.TotalAmount),
			CreatedBy:   rec.CreatedBy,
			ClosedAt:    rec.ClosedAt,
		},
		Summary: summary,
	})
}
