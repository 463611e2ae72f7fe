package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/dinepos/api/internal/database"
	"github.com/dinepos/api/internal/handler"
	"github.com/dinepos/api/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// --- Mock store ---

type mockCustomerStore struct {
	customers map[int64]database.Customer
	nextID    int64
	createErr error
}

func newMockCustomerStore() *mockCustomerStore {
	return &mockCustomerStore{customers: make(map[int64]database.Customer), nextID: 1}
}

func (m *mockCustomerStore) GetCustomer(_ context.Context, outletID, id int64) (database.Customer, error) {
	c, ok := m.customers[id]
	if !ok || c.OutletID != outletID {
		return database.Customer{}, database.ErrNoRows
	}
	return c, nil
}

func (m *mockCustomerStore) GetCustomerByMobile(_ context.Context, outletID int64, mobile string) (database.Customer, error) {
	for _, c := range m.customers {
		if c.OutletID == outletID && c.Mobile == mobile {
			return c, nil
		}
	}
	return database.Customer{}, database.ErrNoRows
}

func (m *mockCustomerStore) CreateCustomer(_ context.Context, outletID int64, name, mobile string) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	id := m.nextID
	m.nextID++
	m.customers[id] = database.Customer{ID: id, OutletID: outletID, Name: name, Mobile: mobile}
	return id, nil
}

func (m *mockCustomerStore) UpdateCustomerName(_ context.Context, id int64, name string) error {
	c, ok := m.customers[id]
	if !ok {
		return database.ErrNoRows
	}
	c.Name = name
	m.customers[id] = c
	return nil
}

func setupCustomerRouter(store *mockCustomerStore) *chi.Mux {
	h := handler.NewCustomerHandler(store)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testSecret))
	r.Route("/outlets/{oid}", func(r chi.Router) {
		r.Use(middleware.RequireOutlet)
		h.RegisterRoutes(r)
	})
	return r
}

// --- Tests ---

func TestFindCustomer(t *testing.T) {
	store := newMockCustomerStore()
	store.customers[5] = database.Customer{ID: 5, OutletID: 1, Name: "Asha", Mobile: "9876543210"}
	store.customers[6] = database.Customer{ID: 6, OutletID: 2, Name: "Ravi", Mobile: "9000000000"}
	router := setupCustomerRouter(store)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"found", "?mobile=9876543210", http.StatusOK},
		{"unknown", "?mobile=1111111111", http.StatusNotFound},
		{"other outlet", "?mobile=9000000000", http.StatusNotFound},
		{"missing", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doAuthRequest(t, router, "GET", "/outlets/1/customers"+tt.query, nil, testClaims(1))
			if rr.Code != tt.status {
				t.Errorf("status: got %d, want %d", rr.Code, tt.status)
			}
		})
	}
}

func TestCreateCustomer(t *testing.T) {
	store := newMockCustomerStore()
	router := setupCustomerRouter(store)

	rr := doAuthRequest(t, router, "POST", "/outlets/1/customers", map[string]string{"name": " Meera ", "mobile": "9812345678"}, testClaims(1))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["name"] != "Meera" || resp["mobile"] != "9812345678" {
		t.Errorf("unexpected response: %v", resp)
	}
	if c := store.customers[1]; c.OutletID != 1 {
		t.Errorf("customer stored under outlet %d", c.OutletID)
	}
}

func TestCreateCustomer_MissingMobile(t *testing.T) {
	router := setupCustomerRouter(newMockCustomerStore())

	rr := doAuthRequest(t, router, "POST", "/outlets/1/customers", map[string]string{"name": "Meera"}, testClaims(1))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCreateCustomer_StoreError(t *testing.T) {
	store := newMockCustomerStore()
	store.createErr = errors.New("db down")
	router := setupCustomerRouter(store)

	rr := doAuthRequest(t, router, "POST", "/outlets/1/customers", map[string]string{"mobile": "9812345678"}, testClaims(1))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func TestRenameCustomer(t *testing.T) {
	store := newMockCustomerStore()
	store.customers[5] = database.Customer{ID: 5, OutletID: 1, Mobile: "9876543210"}
	store.customers[6] = database.Customer{ID: 6, OutletID: 2, Mobile: "9000000000"}
	router := setupCustomerRouter(store)

	rr := doAuthRequest(t, router, "PUT", "/outlets/1/customers/5", map[string]string{"name": "Asha"}, testClaims(1))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if store.customers[5].Name != "Asha" {
		t.Errorf("name not updated: %q", store.customers[5].Name)
	}

	rr = doAuthRequest(t, router, "PUT", "/outlets/1/customers/6", map[string]string{"name": "Ravi"}, testClaims(1))
	if rr.Code != http.StatusNotFound {
		t.Errorf("other outlet: expected 404, got %d", rr.Code)
	}

	rr = doAuthRequest(t, router, "PUT", "/outlets/1/customers/5", map[string]string{"name": "  "}, testClaims(1))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("blank name: expected 400, got %d", rr.Code)
	}
}
