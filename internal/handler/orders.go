package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/dinepos/api/internal/billing"
	"github.com/dinepos/api/internal/database"
	"github.com/dinepos/api/internal/enum"
	"github.com/dinepos/api/internal/middleware"
	"github.com/dinepos/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	LoadForTable(ctx context.Context, outletID, tableID int64) (*billing.TableOrder, error)
	GetOrder(ctx context.Context, outletID, orderID int64) (*service.OrderDetail, error)
	AppendKOT(ctx context.Context, req service.AppendKOTRequest) (*service.AppendKOTResult, error)
	Reverse(ctx context.Context, req service.ReverseRequest) (*service.ReverseResult, error)
	MarkBilled(ctx context.Context, req service.MarkBilledRequest) (*billing.Order, error)
	ApplyDiscount(ctx context.Context, req service.ApplyDiscountRequest) (*billing.Order, error)
	Settle(ctx context.Context, req service.SettleRequest) (*service.SettleResult, error)
	ReverseBill(ctx context.Context, req service.ReverseBillRequest) (*billing.Order, error)
}

// OrderHandler handles KOT, reversal, billing and settlement endpoints.
type OrderHandler struct {
	svc OrderServicer
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted inside an outlet-scoped subrouter: /outlets/{oid}
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tables/{tableId}/order", h.LoadForTable)
	r.Get("/unbilled-items/{tableId}", h.UnbilledItems)
	r.Get("/billed-bill/by-table/{tableId}", h.BilledBill)
	r.Post("/create-kot", h.CreateKOT)
	r.Post("/create-reverse-kot", h.ReverseKOT)
	r.Get("/orders/{txnId}", h.Get)
	r.Put("/orders/{txnId}/mark-billed", h.MarkBilled)
	r.Post("/orders/{txnId}/discount", h.ApplyDiscount)
	r.Post("/orders/{txnId}/settle", h.Settle)
	r.Post("/orders/{txnId}/reverse", h.ReverseBill)
}

// --- Request / Response types ---

type createKOTRequest struct {
	TableID    int64                  `json:"table_id"`
	OrderType  string                 `json:"order_type"`
	WaiterName string                 `json:"waiter_name"`
	Pax        int                    `json:"pax"`
	KOTType    string                 `json:"kot_type"`
	IsNC       bool                   `json:"is_nc"`
	NCName     string                 `json:"nc_name"`
	NCPurpose  string                 `json:"nc_purpose"`
	Items      []createKOTItemRequest `json:"items"`
}

type createKOTItemRequest struct {
	ItemID      int64  `json:"item_id"`
	Qty         int64  `json:"qty"`
	SpecialInst string `json:"special_inst"`
}

type reverseKOTRequest struct {
	OrderID   int64                   `json:"order_id"`
	AuthProof string                  `json:"auth_proof"`
	Items     []reverseKOTItemRequest `json:"items"`
}

type reverseKOTItemRequest struct {
	LineID int64  `json:"line_id"`
	Qty    int64  `json:"qty"`
	Reason string `json:"reason"`
}

type markBilledRequest struct {
	Customer *customerRequest `json:"customer"`
}

type customerRequest struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

type discountRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type settleRequest struct {
	Entries []settleEntryRequest `json:"entries"`
}

type settleEntryRequest struct {
	PaymentMode string `json:"payment_mode"`
	Amount      string `json:"amount"`
	Reference   string `json:"reference"`
}

type reverseBillRequest struct {
	AuthProof string `json:"auth_proof"`
}

type tableOrderResponse struct {
	State       string         `json:"state"`
	TableStatus string         `json:"table_status"`
	Order       *orderResponse `json:"order"`
}

type orderResponse struct {
	ID           int64                  `json:"id"`
	OutletID     int64                  `json:"outlet_id"`
	TableID      int64                  `json:"table_id"`
	TableName    string                 `json:"table_name"`
	OrderType    string                 `json:"order_type"`
	State        string                 `json:"state"`
	TableStatus  string                 `json:"table_status"`
	WaiterName   string                 `json:"waiter_name"`
	Pax          int                    `json:"pax"`
	Customer     *orderCustomerResponse `json:"customer"`
	BusinessDate string                 `json:"business_date"`
	BillNo       *int64                 `json:"bill_no"`
	TaxMode      string                 `json:"tax_mode"`
	TaxRates     billing.TaxRates       `json:"tax_rates"`
	Discount     *discountResponse      `json:"discount"`
	KOTNumbers   []int                  `json:"kot_numbers"`
	KOTs         []kotResponse          `json:"kots"`
	Lines        []lineResponse         `json:"lines"`
	Bill         billResponse           `json:"bill"`
	BilledAt     *time.Time             `json:"billed_at"`
	SettledAt    *time.Time             `json:"settled_at"`
	CreatedAt    time.Time              `json:"created_at"`
}

type orderCustomerResponse struct {
	ID     *int64 `json:"id"`
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

type discountResponse struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type kotResponse struct {
	ID        int64     `json:"id"`
	KOTNo     int       `json:"kot_no"`
	KOTType   string    `json:"kot_type"`
	IsNC      bool      `json:"is_nc"`
	NCName    string    `json:"nc_name,omitempty"`
	NCPurpose string    `json:"nc_purpose,omitempty"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type lineResponse struct {
	ID          int64  `json:"id"`
	KOTNo       int    `json:"kot_no"`
	ItemID      int64  `json:"item_id"`
	ItemName    string `json:"item_name"`
	Rate        string `json:"rate"`
	OriginalQty int64  `json:"original_qty"`
	ReversedQty int64  `json:"reversed_qty"`
	NetQty      int64  `json:"net_qty"`
	Amount      string `json:"amount"`
	IsNC        bool   `json:"is_nc"`
	SpecialInst string `json:"special_inst,omitempty"`
	IsNew       bool   `json:"is_new"`
}

type billResponse struct {
	Gross          string `json:"gross"`
	DiscountAmount string `json:"discount_amount"`
	Taxable        string `json:"taxable"`
	CGSTAmount     string `json:"cgst_amount"`
	SGSTAmount     string `json:"sgst_amount"`
	IGSTAmount     string `json:"igst_amount"`
	CESSAmount     string `json:"cess_amount"`
	TaxTotal       string `json:"tax_total"`
	GrandTotal     string `json:"grand_total"`
	NetDue         string `json:"net_due"`
}

type reversalResponse struct {
	ID         int64     `json:"id"`
	LineID     int64     `json:"line_id"`
	ItemName   string    `json:"item_name"`
	Qty        int64     `json:"qty"`
	Reason     string    `json:"reason"`
	OrderState string    `json:"order_state"`
	ReversedBy int64     `json:"reversed_by"`
	CreatedAt  time.Time `json:"created_at"`
}

type settlementResponse struct {
	ID          int64     `json:"id"`
	BatchID     string    `json:"batch_id"`
	PaymentMode string    `json:"payment_mode"`
	Amount      string    `json:"amount"`
	Reference   string    `json:"reference,omitempty"`
	SettledBy   int64     `json:"settled_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type orderDetailResponse struct {
	Order       orderResponse        `json:"order"`
	Reversals   []reversalResponse   `json:"reversals"`
	Settlements []settlementResponse `json:"settlements"`
}

type createKOTResponse struct {
	KOT   kotResponse   `json:"kot"`
	Order orderResponse `json:"order"`
}

type reverseKOTResponse struct {
	Reversals []reversalResponse `json:"reversals"`
	Order     orderResponse      `json:"order"`
}

type settleResponse struct {
	BatchID     string               `json:"batch_id"`
	Settlements []settlementResponse `json:"settlements"`
	Order       orderResponse        `json:"order"`
}

// --- Handlers ---

// LoadForTable returns the tagged state of a table: EMPTY, ORDERING or BILLED.
func (h *OrderHandler) LoadForTable(w http.ResponseWriter, r *http.Request) {
	h.tableOrder(w, r, "")
}

// UnbilledItems returns the table's order only while it is still ORDERING.
func (h *OrderHandler) UnbilledItems(w http.ResponseWriter, r *http.Request) {
	h.tableOrder(w, r, enum.OrderStateOrdering)
}

// BilledBill returns the table's order only while it is BILLED.
func (h *OrderHandler) BilledBill(w http.ResponseWriter, r *http.Request) {
	h.tableOrder(w, r, enum.OrderStateBilled)
}

func (h *OrderHandler) tableOrder(w http.ResponseWriter, r *http.Request, only string) {
	outletID, _ := middleware.OutletIDFromRequest(r)
	tableID, err := parseIDParam(r, "tableId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table ID"})
		return
	}

	tbl, err := h.svc.LoadForTable(r.Context(), outletID, tableID)
	if err != nil {
		writeServiceError(w, err, "load table order")
		return
	}

	resp := tableOrderResponse{State: tbl.State, TableStatus: billing.TableStatus(tbl.State)}
	if tbl.Order != nil && (only == "" || tbl.State == only) {
		o := toOrderResponse(tbl.Order)
		resp.Order = &o
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateKOT issues a KOT on a table, opening an order when the table is free.
func (h *OrderHandler) CreateKOT(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	outletID, _ := middleware.OutletIDFromRequest(r)

	var req createKOTRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.TableID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "table_id is required", "kind": string(billing.KindValidation)})
		return
	}

	items := make([]service.KOTItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.KOTItem{ItemID: it.ItemID, Qty: it.Qty, SpecialInst: it.SpecialInst}
	}

	result, err := h.svc.AppendKOT(r.Context(), service.AppendKOTRequest{
		OutletID:   outletID,
		TableID:    req.TableID,
		OrderType:  req.OrderType,
		WaiterName: req.WaiterName,
		Pax:        req.Pax,
		KOTType:    req.KOTType,
		IsNoCharge: req.IsNC,
		NCName:     req.NCName,
		NCPurpose:  req.NCPurpose,
		CreatedBy:  claims.UserID,
		Items:      items,
	})
	if err != nil {
		writeServiceError(w, err, "create kot")
		return
	}

	writeJSON(w, http.StatusCreated, createKOTResponse{
		KOT:   toKOTResponse(result.KOT),
		Order: toOrderResponse(result.Order),
	})
}

// ReverseKOT reduces quantities on an order's lines as one batch.
func (h *OrderHandler) ReverseKOT(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	outletID, _ := middleware.OutletIDFromRequest(r)

	var req reverseKOTRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.OrderID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order_id is required", "kind": string(billing.KindValidation)})
		return
	}

	lines := make([]billing.ReversalRequest, len(req.Items))
	for i, it := range req.Items {
		lines[i] = billing.ReversalRequest{LineID: it.LineID, Qty: it.Qty, Reason: it.Reason}
	}

	result, err := h.svc.Reverse(r.Context(), service.ReverseRequest{
		OutletID:  outletID,
		OrderID:   req.OrderID,
		UserID:    claims.UserID,
		AuthProof: req.AuthProof,
		Lines:     lines,
	})
	if err != nil {
		writeServiceError(w, err, "reverse kot")
		return
	}

	writeJSON(w, http.StatusOK, reverseKOTResponse{
		Reversals: toReversalResponses(result.Records),
		Order:     toOrderResponse(result.Order),
	})
}

// Get returns an order with its reversal and settlement history.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	outletID, _ := middleware.OutletIDFromRequest(r)
	orderID, err := parseIDParam(r, "txnId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	detail, err := h.svc.GetOrder(r.Context(), outletID, orderID)
	if err != nil {
		writeServiceError(w, err, "get order")
		return
	}

	writeJSON(w, http.StatusOK, orderDetailResponse{
		Order:       toOrderResponse(detail.Order),
		Reversals:   toReversalResponses(detail.Reversals),
		Settlements: toSettlementResponses(detail.Settlements),
	})
}

// MarkBilled freezes the order into a bill. The body is optional.
func (h *OrderHandler) MarkBilled(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	outletID, _ := middleware.OutletIDFromRequest(r)
	orderID, err := parseIDParam(r, "txnId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req markBilledRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	svcReq := service.MarkBilledRequest{OutletID: outletID, OrderID: orderID, UserID: claims.UserID}
	if req.Customer != nil {
		svcReq.Customer = &service.CustomerInfo{Name: req.Customer.Name, Mobile: req.Customer.Mobile}
	}

	o, err := h.svc.MarkBilled(r.Context(), svcReq)
	if err != nil {
		writeServiceError(w, err, "mark billed")
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// ApplyDiscount sets the order-level discount.
func (h *OrderHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	outletID, _ := middleware.OutletIDFromRequest(r)
	orderID, err := parseIDParam(r, "txnId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req discountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid discount value", "kind": string(billing.KindValidation)})
		return
	}

	o, err := h.svc.ApplyDiscount(r.Context(), service.ApplyDiscountRequest{
		OutletID: outletID,
		OrderID:  orderID,
		UserID:   claims.UserID,
		Discount: billing.Discount{Type: req.Type, Value: value},
	})
	if err != nil {
		writeServiceError(w, err, "apply discount")
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// Settle records payment entries against a billed order.
func (h *OrderHandler) Settle(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	outletID, _ := middleware.OutletIDFromRequest(r)
	orderID, err := parseIDParam(r, "txnId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	entries := make([]billing.SettlementEntry, len(req.Entries))
	for i, e := range req.Entries {
		amount, err := decimal.NewFromString(e.Amount)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("entries[%d]: invalid amount", i),
				"kind":  string(billing.KindValidation),
			})
			return
		}
		entries[i] = billing.SettlementEntry{PaymentMode: e.PaymentMode, Amount: amount, Reference: e.Reference}
	}

	result, err := h.svc.Settle(r.Context(), service.SettleRequest{
		OutletID: outletID,
		OrderID:  orderID,
		UserID:   claims.UserID,
		Entries:  entries,
	})
	if err != nil {
		writeServiceError(w, err, "settle")
		return
	}

	writeJSON(w, http.StatusOK, settleResponse{
		BatchID:     result.BatchID.String(),
		Settlements: toSettlementResponses(result.Settlements),
		Order:       toOrderResponse(result.Order),
	})
}

// ReverseBill un-bills an order. Requires an auth proof.
func (h *OrderHandler) ReverseBill(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	outletID, _ := middleware.OutletIDFromRequest(r)
	orderID, err := parseIDParam(r, "txnId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req reverseBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	o, err := h.svc.ReverseBill(r.Context(), service.ReverseBillRequest{
		OutletID:  outletID,
		OrderID:   orderID,
		UserID:    claims.UserID,
		AuthProof: req.AuthProof,
	})
	if err != nil {
		writeServiceError(w, err, "reverse bill")
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// --- Helpers ---

func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

var kindStatus = map[billing.Kind]int{
	billing.KindValidation:         http.StatusBadRequest,
	billing.KindEmptyOrder:         http.StatusBadRequest,
	billing.KindEmptyEntries:       http.StatusBadRequest,
	billing.KindAuthRequired:       http.StatusUnauthorized,
	billing.KindInvalidCredentials: http.StatusUnauthorized,
	billing.KindNotFound:           http.StatusNotFound,
	billing.KindInvalidState:       http.StatusConflict,
	billing.KindFinalized:          http.StatusConflict,
	billing.KindOverReversal:       http.StatusConflict,
	billing.KindAmountMismatch:     http.StatusConflict,
}

// writeServiceError maps engine errors to their status and kind. Anything
// else is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, err error, op string) {
	kind, ok := billing.KindOf(err)
	if !ok {
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": string(kind)})
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toOrderResponse(o *billing.Order) orderResponse {
	resp := orderResponse{
		ID:           o.ID,
		OutletID:     o.OutletID,
		TableID:      o.TableID,
		TableName:    o.TableName,
		OrderType:    o.OrderType,
		State:        o.State,
		TableStatus:  billing.TableStatus(o.State),
		WaiterName:   o.WaiterName,
		Pax:          o.Pax,
		BusinessDate: o.BusinessDate,
		BillNo:       o.BillNo,
		TaxMode:      string(o.TaxMode),
		TaxRates:     o.Rates,
		KOTNumbers:   o.KOTNumbers(),
		KOTs:         make([]kotResponse, len(o.KOTs)),
		Lines:        make([]lineResponse, len(o.Lines)),
		BilledAt:     o.BilledAt,
		SettledAt:    o.SettledAt,
		CreatedAt:    o.CreatedAt,
		Bill: billResponse{
			Gross:          money(o.Bill.Gross),
			DiscountAmount: money(o.Bill.DiscountAmount),
			Taxable:        money(o.Bill.Tax.Subtotal),
			CGSTAmount:     money(o.Bill.Tax.CGSTAmount),
			SGSTAmount:     money(o.Bill.Tax.SGSTAmount),
			IGSTAmount:     money(o.Bill.Tax.IGSTAmount),
			CESSAmount:     money(o.Bill.Tax.CESSAmount),
			TaxTotal:       money(o.Bill.Tax.TaxTotal()),
			GrandTotal:     money(o.Bill.Tax.GrandTotal),
			NetDue:         money(o.Bill.NetDue),
		},
	}
	if o.CustomerID != nil || o.CustomerMobile != "" {
		resp.Customer = &orderCustomerResponse{ID: o.CustomerID, Name: o.CustomerName, Mobile: o.CustomerMobile}
	}
	if o.Discount != nil {
		resp.Discount = &discountResponse{Type: o.Discount.Type, Value: o.Discount.Value.String()}
	}
	for i, k := range o.KOTs {
		resp.KOTs[i] = toKOTResponse(k)
	}

	// Lines of the latest KOT are tagged new while the order is still open
	// for ordering.
	latest := 0
	if o.State == enum.OrderStateOrdering {
		latest = o.LatestKOTNo()
	}
	for i, l := range o.Lines {
		resp.Lines[i] = lineResponse{
			ID:          l.ID,
			KOTNo:       l.KOTNo,
			ItemID:      l.ItemID,
			ItemName:    l.ItemName,
			Rate:        money(l.Rate),
			OriginalQty: l.OriginalQty,
			ReversedQty: l.ReversedQty,
			NetQty:      l.NetQty(),
			Amount:      money(l.Amount()),
			IsNC:        l.IsNoCharge,
			SpecialInst: l.SpecialInst,
			IsNew:       latest > 0 && l.KOTNo == latest,
		}
	}
	return resp
}

func toKOTResponse(k billing.KOT) kotResponse {
	return kotResponse{
		ID:        k.ID,
		KOTNo:     k.KOTNo,
		KOTType:   k.KOTType,
		IsNC:      k.IsNoCharge,
		NCName:    k.NCName,
		NCPurpose: k.NCPurpose,
		CreatedBy: k.CreatedBy,
		CreatedAt: k.CreatedAt,
	}
}

func toReversalResponses(records []database.ReversalRecord) []reversalResponse {
	out := make([]reversalResponse, len(records))
	for i, rec := range records {
		out[i] = reversalResponse{
			ID:         rec.ID,
			LineID:     rec.LineID,
			ItemName:   rec.ItemName,
			Qty:        rec.Qty,
			Reason:     rec.Reason,
			OrderState: rec.OrderState,
			ReversedBy: rec.ReversedBy,
			CreatedAt:  rec.CreatedAt,
		}
	}
	return out
}

func toSettlementResponses(settlements []database.Settlement) []settlementResponse {
	out := make([]settlementResponse, len(settlements))
	for i, s := range settlements {
		out[i] = settlementResponse{
			ID:          s.ID,
			BatchID:     s.BatchID,
			PaymentMode: s.PaymentMode,
			Amount:      money(s.Amount),
			Reference:   s.Reference,
			SettledBy:   s.SettledBy,
			CreatedAt:   s.CreatedAt,
		}
	}
	return out
}
