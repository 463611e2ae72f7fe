package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dinepos/api/internal/auth"
	"github.com/dinepos/api/internal/billing"
	"github.com/dinepos/api/internal/database"
	"github.com/dinepos/api/internal/enum"
	"github.com/dinepos/api/internal/handler"
	"github.com/dinepos/api/internal/middleware"
	"github.com/dinepos/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Mock OrderServicer ---

type mockOrderService struct {
	loadForTableFn  func(ctx context.Context, outletID, tableID int64) (*billing.TableOrder, error)
	getOrderFn      func(ctx context.Context, outletID, orderID int64) (*service.OrderDetail, error)
	appendKOTFn     func(ctx context.Context, req service.AppendKOTRequest) (*service.AppendKOTResult, error)
	reverseFn       func(ctx context.Context, req service.ReverseRequest) (*service.ReverseResult, error)
	markBilledFn    func(ctx context.Context, req service.MarkBilledRequest) (*billing.Order, error)
	applyDiscountFn func(ctx context.Context, req service.ApplyDiscountRequest) (*billing.Order, error)
	settleFn        func(ctx context.Context, req service.SettleRequest) (*service.SettleResult, error)
	reverseBillFn   func(ctx context.Context, req service.ReverseBillRequest) (*billing.Order, error)
}

func (m *mockOrderService) LoadForTable(ctx context.Context, outletID, tableID int64) (*billing.TableOrder, error) {
	if m.loadForTableFn != nil {
		return m.loadForTableFn(ctx, outletID, tableID)
	}
	return &billing.TableOrder{State: enum.OrderStateEmpty}, nil
}

func (m *mockOrderService) GetOrder(ctx context.Context, outletID, orderID int64) (*service.OrderDetail, error) {
	if m.getOrderFn != nil {
		return m.getOrderFn(ctx, outletID, orderID)
	}
	return nil, billing.ErrNotFound
}

func (m *mockOrderService) AppendKOT(ctx context.Context, req service.AppendKOTRequest) (*service.AppendKOTResult, error) {
	if m.appendKOTFn != nil {
		return m.appendKOTFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockOrderService) Reverse(ctx context.Context, req service.ReverseRequest) (*service.ReverseResult, error) {
	if m.reverseFn != nil {
		return m.reverseFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockOrderService) MarkBilled(ctx context.Context, req service.MarkBilledRequest) (*billing.Order, error) {
	if m.markBilledFn != nil {
		return m.markBilledFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockOrderService) ApplyDiscount(ctx context.Context, req service.ApplyDiscountRequest) (*billing.Order, error) {
	if m.applyDiscountFn != nil {
		return m.applyDiscountFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockOrderService) Settle(ctx context.Context, req service.SettleRequest) (*service.SettleResult, error) {
	if m.settleFn != nil {
		return m.settleFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockOrderService) ReverseBill(ctx context.Context, req service.ReverseBillRequest) (*billing.Order, error) {
	if m.reverseBillFn != nil {
		return m.reverseBillFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

// --- Test helpers ---

func setupOrderRouter(svc *mockOrderService) *chi.Mux {
	h := handler.NewOrderHandler(svc)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testSecret))
	r.Route("/outlets/{oid}", func(r chi.Router) {
		r.Use(middleware.RequireOutlet)
		h.RegisterRoutes(r)
	})
	return r
}

func doAuthRequest(t *testing.T, router http.Handler, method, path string, body interface{}, claims *auth.Claims) *httptest.ResponseRecorder {
	t.Helper()

	// Generate a real JWT token from claims
	token, err := auth.GenerateToken(testSecret, claims.UserID, claims.OutletID, claims.Role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func testClaims(outletID int64) *auth.Claims {
	return &auth.Claims{
		UserID:   11,
		OutletID: outletID,
		Role:     enum.UserRoleCashier,
	}
}

// testOrder is a two-KOT dine-in order priced at 5% exclusive GST.
func testOrder(state string) *billing.Order {
	created := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	o := &billing.Order{
		ID:           7,
		OutletID:     1,
		TableID:      3,
		TableName:    "T3",
		OrderType:    enum.OrderTypeDineIn,
		State:        state,
		BusinessDate: "2026-10-18",
		TaxMode:      billing.TaxExclusive,
		Rates:        billing.TaxRates{CGST: decimal.RequireFromString("2.5"), SGST: decimal.RequireFromString("2.5")},
		CreatedAt:    created,
		KOTs: []billing.KOT{
			{ID: 1, KOTNo: 1, CreatedAt: created},
			{ID: 2, KOTNo: 2, CreatedAt: created},
		},
		Lines: []billing.Line{
			{ID: 1, KOTNo: 1, ItemID: 100, ItemName: "Paneer", Rate: decimal.NewFromInt(100), OriginalQty: 2},
			{ID: 2, KOTNo: 2, ItemID: 101, ItemName: "Lassi", Rate: decimal.NewFromInt(50), OriginalQty: 1},
		},
	}
	o.Bill = o.Recompute()
	return o
}

// --- Load for table ---

func TestLoadForTable_Empty(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{})

	rr := doAuthRequest(t, router, "GET", "/outlets/1/tables/3/order", nil, testClaims(1))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["state"] != enum.OrderStateEmpty {
		t.Errorf("state: got %v, want EMPTY", resp["state"])
	}
	if resp["table_status"] != enum.TableStatusFree {
		t.Errorf("table_status: got %v, want FREE", resp["table_status"])
	}
	if resp["order"] != nil {
		t.Errorf("order: got %v, want null", resp["order"])
	}
}

func TestLoadForTable_Ordering(t *testing.T) {
	svc := &mockOrderService{
		loadForTableFn: func(ctx context.Context, outletID, tableID int64) (*billing.TableOrder, error) {
			if outletID != 1 || tableID != 3 {
				t.Errorf("ids: got outlet %d table %d", outletID, tableID)
			}
			o := testOrder(enum.OrderStateOrdering)
			return &billing.TableOrder{State: o.State, Order: o}, nil
		},
	}
	router := setupOrderRouter(svc)

	rr := doAuthRequest(t, router, "GET", "/outlets/1/tables/3/order", nil, testClaims(1))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeResponse(t, rr)
	order := resp["order"].(map[string]interface{})
	bill := order["bill"].(map[string]interface{})
	if bill["net_due"] != "262.50" {
		t.Errorf("net_due: got %v, want 262.50", bill["net_due"])
	}

	lines := order["lines"].([]interface{})
	first := lines[0].(map[string]interface{})
	second := lines[1].(map[string]interface{})
	if first["is_new"] != false || second["is_new"] != true {
		t.Errorf("only lines of the latest KOT are new: got %v, %v", first["is_new"], second["is_new"])
	}
}

func TestUnbilledItems_HidesBilledOrder(t *testing.T) {
	svc := &mockOrderService{
		loadForTableFn: func(ctx context.Context, outletID, tableID int64) (*billing.TableOrder, error) {
			o := testOrder(enum.OrderStateBilled)
			return &billing.TableOrder{State: o.State, Order: o}, nil
		},
	}
	router := setupOrderRouter(svc)

	rr := doAuthRequest(t, router, "GET", "/outlets/1/unbilled-items/3", nil, testClaims(1))
	resp := decodeResponse(t, rr)
	if resp["state"] != enum.OrderStateBilled || resp["order"] != nil {
		t.Errorf("unbilled projection of billed table: got state %v order %v", resp["state"], resp["order"])
	}

	rr = doAuthRequest(t, router, "GET", "/outlets/1/billed-bill/by-table/3", nil, testClaims(1))
	resp = decodeResponse(t, rr)
	if resp["order"] == nil {
		t.Error("billed projection should include the order")
	}
}

func TestLoadForTable_OtherOutletForbidden(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{})

	rr := doAuthRequest(t, router, "GET", "/outlets/2/tables/3/order", nil, testClaims(1))

	if rr.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestLoadForTable_InvalidTableID(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{})

	rr := doAuthRequest(t, router, "GET", "/outlets/1/tables/abc/order", nil, testClaims(1))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

// --- Create KOT ---

func TestCreateKOT_Success(t *testing.T) {
	var got service.AppendKOTRequest
	svc := &mockOrderService{
		appendKOTFn: func(ctx context.Context, req service.AppendKOTRequest) (*service.AppendKOTResult, error) {
			got = req
			o := testOrder(enum.OrderStateOrdering)
			return &service.AppendKOTResult{KOT: o.KOTs[1], Order: o}, nil
		},
	}
	router := setupOrderRouter(svc)

	body := map[string]interface{}{
		"table_id":    3,
		"order_type":  "DINE_IN",
		"waiter_name": "Ravi",
		"pax":         2,
		"items": []map[string]interface{}{
			{"item_id": 101, "qty": 1, "special_inst": "no sugar"},
		},
	}
	rr := doAuthRequest(t, router, "POST", "/outlets/1/create-kot", body, testClaims(1))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	if got.OutletID != 1 || got.TableID != 3 || got.CreatedBy != 11 {
		t.Errorf("request ids: %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0].SpecialInst != "no sugar" {
		t.Errorf("items: %+v", got.Items)
	}

	resp := decodeResponse(t, rr)
	kot := resp["kot"].(map[string]interface{})
	if kot["kot_no"] != float64(2) {
		t.Errorf("kot_no: got %v, want 2", kot["kot_no"])
	}
}

func TestCreateKOT_MissingTable(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{})

	rr := doAuthRequest(t, router, "POST", "/outlets/1/create-kot", map[string]interface{}{"items": []interface{}{}}, testClaims(1))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCreateKOT_ValidationErrorKind(t *testing.T) {
	svc := &mockOrderService{
		appendKOTFn: func(ctx context.Context, req service.AppendKOTRequest) (*service.AppendKOTResult, error) {
			return nil, fmt.Errorf("%w: nc_name is required for a No-Charge KOT", billing.ErrValidation)
		},
	}
	router := setupOrderRouter(svc)

	rr := doAuthRequest(t, router, "POST", "/outlets/1/create-kot", map[string]interface{}{"table_id": 3, "is_nc": true}, testClaims(1))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	resp := decodeResponse(t, rr)
	if resp["kind"] != "VALIDATION_ERROR" {
		t.Errorf("kind: got %v, want VALIDATION_ERROR", resp["kind"])
	}
}

// --- Reverse KOT ---

func TestReverseKOT_OverReversal(t *testing.T) {
	svc := &mockOrderService{
		reverseFn: func(ctx context.Context, req service.ReverseRequest) (*service.ReverseResult, error) {
			if req.OrderID != 7 || len(req.Lines) != 1 || req.Lines[0].Qty != 5 {
				t.Errorf("request: %+v", req)
			}
			return nil, fmt.Errorf("%w: Paneer has 2 left", billing.ErrOverReversal)
		},
	}
	router := setupOrderRouter(svc)

	body := map[string]interface{}{
		"order_id": 7,
		"items":    []map[string]interface{}{{"line_id": 1, "qty": 5, "reason": "wrong"}},
	}
	rr := doAuthRequest(t, router, "POST", "/outlets/1/create-reverse-kot", body, testClaims(1))

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
	if kind := decodeResponse(t, rr)["kind"]; kind != "OVER_REVERSAL" {
		t.Errorf("kind: got %v, want OVER_REVERSAL", kind)
	}
}

func TestReverseKOT_PassesAuthProof(t *testing.T) {
	svc := &mockOrderService{
		reverseFn: func(ctx context.Context, req service.ReverseRequest) (*service.ReverseResult, error) {
			if req.AuthProof != "proof" || req.UserID != 11 {
				t.Errorf("proof/user: %q %d", req.AuthProof, req.UserID)
			}
			return &service.ReverseResult{
				Records: []database.ReversalRecord{{ID: 1, LineID: 1, ItemName: "Paneer", Qty: 1, Reason: "spilled"}},
				Order:   testOrder(enum.OrderStateBilled),
			}, nil
		},
	}
	router := setupOrderRouter(svc)

	body := map[string]interface{}{
		"order_id":   7,
		"auth_proof": "proof",
		"items":      []map[string]interface{}{{"line_id": 1, "qty": 1, "reason": "spilled"}},
	}
	rr := doAuthRequest(t, router, "POST", "/outlets/1/create-reverse-kot", body, testClaims(1))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if n := len(resp["reversals"].([]interface{})); n != 1 {
		t.Errorf("reversals: got %d, want 1", n)
	}
}

func TestReverseKOT_AuthRequired(t *testing.T) {
	svc := &mockOrderService{
		reverseFn: func(ctx context.Context, req service.ReverseRequest) (*service.ReverseResult, error) {
			return nil, billing.ErrAuthRequired
		},
	}
	router := setupOrderRouter(svc)

	body := map[string]interface{}{"order_id": 7, "items": []map[string]interface{}{{"line_id": 1, "qty": 1}}}
	rr := doAuthRequest(t, router, "POST", "/outlets/1/create-reverse-kot", body, testClaims(1))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	if kind := decodeResponse(t, rr)["kind"]; kind != "AUTHENTICATION_REQUIRED" {
		t.Errorf("kind: got %v", kind)
	}
}

// --- Get ---

func TestGetOrder_NotFound(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{})

	rr := doAuthRequest(t, router, "GET", "/outlets/1/orders/99", nil, testClaims(1))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestGetOrder_WithHistory(t *testing.T) {
	svc := &mockOrderService{
		getOrderFn: func(ctx context.Context, outletID, orderID int64) (*service.OrderDetail, error) {
			return &service.OrderDetail{
				Order:       testOrder(enum.OrderStateSettled),
				Settlements: []database.Settlement{{ID: 1, BatchID: "b", PaymentMode: "CASH", Amount: decimal.RequireFromString("262.5")}},
			}, nil
		},
	}
	router := setupOrderRouter(svc)

	rr := doAuthRequest(t, router, "GET", "/outlets/1/orders/7", nil, testClaims(1))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeResponse(t, rr)
	settlements := resp["settlements"].([]interface{})
	if settlements[0].(map[string]interface{})["amount"] != "262.50" {
		t.Errorf("settlement amount: %v", settlements[0])
	}
	if reversals := resp["reversals"].([]interface{}); len(reversals) != 0 {
		t.Errorf("reversals: got %d, want 0", len(reversals))
	}
}

// --- Mark billed ---

func TestMarkBilled_EmptyBody(t *testing.T) {
	svc := &mockOrderService{
		markBilledFn: func(ctx context.Context, req service.MarkBilledRequest) (*billing.Order, error) {
			if req.Customer != nil {
				t.Error("customer should be nil")
			}
			return testOrder(enum.OrderStateBilled), nil
		},
	}
	router := setupOrderRouter(svc)

	rr := doAuthRequest(t, router, "PUT", "/outlets/1/orders/7/mark-billed", nil, testClaims(1))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if state := decodeResponse(t, rr)["state"]; state != enum.OrderStateBilled {
		t.Errorf("state: got %v", state)
	}
}

func TestMarkBilled_WithCustomer(t *testing.T) {
	svc := &mockOrderService{
		markBilledFn: func(ctx context.Context, req service.MarkBilledRequest) (*billing.Order, error) {
			if req.Customer == nil || req.Customer.Mobile != "9876543210" {
				t.Errorf("customer: %+v", req.Customer)
			}
			o := testOrder(enum.OrderStateBilled)
			id := int64(5)
			o.CustomerID = &id
			o.CustomerName = "Asha"
			o.CustomerMobile = "9876543210"
			return o, nil
		},
	}
	router := setupOrderRouter(svc)

	body := map[string]interface{}{"customer": map[string]string{"name": "Asha", "mobile": "9876543210"}}
	rr := doAuthRequest(t, router, "PUT", "/outlets/1/orders/7/mark-billed", body, testClaims(1))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeResponse(t, rr)
	customer, ok := resp["customer"].(map[string]interface{})
	if !ok {
		t.Fatalf("customer missing from response: %v", resp["customer"])
	}
	if customer["id"] != float64(5) || customer["name"] != "Asha" || customer["mobile"] != "9876543210" {
		t.Errorf("customer: %v", customer)
	}
}

func TestMarkBilled_InvalidState(t *testing.T) {
	svc := &mockOrderService{
		markBilledFn: func(ctx context.Context, req service.MarkBilledRequest) (*billing.Order, error) {
			return nil, fmt.Errorf("%w: order is already billed", billing.ErrInvalidState)
		},
	}
	router := setupOrderRouter(svc)

	rr := doAuthRequest(t, router, "PUT", "/outlets/1/orders/7/mark-billed", nil, testClaims(1))

	if rr.Code != http.StatusConflict {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}

// --- Discount ---

func TestApplyDiscount(t *testing.T) {
	svc := &mockOrderService{
		applyDiscountFn: func(ctx context.Context, req service.ApplyDiscountRequest) (*billing.Order, error) {
			if req.Discount.Type != enum.DiscountTypePercentage || !req.Discount.Value.Equal(decimal.NewFromInt(10)) {
				t.Errorf("discount: %+v", req.Discount)
			}
			o := testOrder(enum.OrderStateOrdering)
			o.Discount = &req.Discount
			o.Bill = o.Recompute()
			return o, nil
		},
	}
	router := setupOrderRouter(svc)

	rr := doAuthRequest(t, router, "POST", "/outlets/1/orders/7/discount",
		map[string]string{"type": "PERCENTAGE", "value": "10"}, testClaims(1))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	bill := decodeResponse(t, rr)["bill"].(map[string]interface{})
	if bill["discount_amount"] != "25.00" {
		t.Errorf("discount_amount: got %v, want 25.00", bill["discount_amount"])
	}
}

func TestApplyDiscount_InvalidValue(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{})

	rr := doAuthRequest(t, router, "POST", "/outlets/1/orders/7/discount",
		map[string]string{"type": "PERCENTAGE", "value": "ten"}, testClaims(1))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

// --- Settle ---

func TestSettle_Success(t *testing.T) {
	batch := uuid.New()
	svc := &mockOrderService{
		settleFn: func(ctx context.Context, req service.SettleRequest) (*service.SettleResult, error) {
			if len(req.Entries) != 2 {
				t.Fatalf("entries: got %d, want 2", len(req.Entries))
			}
			if !req.Entries[1].Amount.Equal(decimal.RequireFromString("62.50")) {
				t.Errorf("amount: %s", req.Entries[1].Amount)
			}
			return &service.SettleResult{
				BatchID: batch,
				Settlements: []database.Settlement{
					{ID: 1, BatchID: batch.String(), PaymentMode: "CASH", Amount: decimal.NewFromInt(200)},
					{ID: 2, BatchID: batch.String(), PaymentMode: "CARD", Amount: decimal.RequireFromString("62.5")},
				},
				Order: testOrder(enum.OrderStateSettled),
			}, nil
		},
	}
	router := setupOrderRouter(svc)

	body := map[string]interface{}{
		"entries": []map[string]string{
			{"payment_mode": "CASH", "amount": "200"},
			{"payment_mode": "CARD", "amount": "62.50", "reference": "TXN1"},
		},
	}
	rr := doAuthRequest(t, router, "POST", "/outlets/1/orders/7/settle", body, testClaims(1))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["batch_id"] != batch.String() {
		t.Errorf("batch_id: got %v", resp["batch_id"])
	}
	order := resp["order"].(map[string]interface{})
	if order["table_status"] != enum.TableStatusFree {
		t.Errorf("settled table should be free: %v", order["table_status"])
	}
}

func TestSettle_AmountMismatch(t *testing.T) {
	svc := &mockOrderService{
		settleFn: func(ctx context.Context, req service.SettleRequest) (*service.SettleResult, error) {
			return nil, fmt.Errorf("%w: paid 200.00, due 262.50", billing.ErrAmountMismatch)
		},
	}
	router := setupOrderRouter(svc)

	body := map[string]interface{}{"entries": []map[string]string{{"payment_mode": "CASH", "amount": "200"}}}
	rr := doAuthRequest(t, router, "POST", "/outlets/1/orders/7/settle", body, testClaims(1))

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
	resp := decodeResponse(t, rr)
	if resp["kind"] != "AMOUNT_MISMATCH" {
		t.Errorf("kind: got %v", resp["kind"])
	}
}

func TestSettle_InvalidAmount(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{})

	body := map[string]interface{}{"entries": []map[string]string{{"payment_mode": "CASH", "amount": "lots"}}}
	rr := doAuthRequest(t, router, "POST", "/outlets/1/orders/7/settle", body, testClaims(1))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

// --- Reverse bill ---

func TestReverseBill_InvalidCredentials(t *testing.T) {
	svc := &mockOrderService{
		reverseBillFn: func(ctx context.Context, req service.ReverseBillRequest) (*billing.Order, error) {
			if req.AuthProof != "stale" {
				t.Errorf("auth proof: %q", req.AuthProof)
			}
			return nil, billing.ErrInvalidCredentials
		},
	}
	router := setupOrderRouter(svc)

	rr := doAuthRequest(t, router, "POST", "/outlets/1/orders/7/reverse", map[string]string{"auth_proof": "stale"}, testClaims(1))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestReverseBill_Finalized(t *testing.T) {
	svc := &mockOrderService{
		reverseBillFn: func(ctx context.Context, req service.ReverseBillRequest) (*billing.Order, error) {
			return nil, billing.ErrFinalized
		},
	}
	router := setupOrderRouter(svc)

	rr := doAuthRequest(t, router, "POST", "/outlets/1/orders/7/reverse", map[string]string{"auth_proof": "p"}, testClaims(1))

	if rr.Code != http.StatusConflict {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestReverseBill_InfrastructureError(t *testing.T) {
	svc := &mockOrderService{
		reverseBillFn: func(ctx context.Context, req service.ReverseBillRequest) (*billing.Order, error) {
			return nil, errors.New("connection refused")
		},
	}
	router := setupOrderRouter(svc)

	rr := doAuthRequest(t, router, "POST", "/outlets/1/orders/7/reverse", map[string]string{"auth_proof": "p"}, testClaims(1))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if msg := decodeResponse(t, rr)["error"]; msg != "internal server error" {
		t.Errorf("error: got %v", msg)
	}
}
