package render

import (
	"strings"
	"testing"
	"time"

	"github.com/dinepos/api/internal/billing"
	"github.com/dinepos/api/internal/enum"
	"github.com/shopspring/decimal"
)

func testOrder() *billing.Order {
	billNo := int64(12)
	created := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	o := &billing.Order{
		ID:         1,
		TableName:  "T1",
		OrderType:  enum.OrderTypeDineIn,
		WaiterName: "Ravi",
		Pax:        4,
		BillNo:     &billNo,
		TaxMode:    billing.TaxExclusive,
		Rates: billing.TaxRates{
			CGST: decimal.RequireFromString("2.5"),
			SGST: decimal.RequireFromString("2.5"),
		},
		CreatedAt: created,
		KOTs: []billing.KOT{
			{ID: 1, KOTNo: 1, CreatedAt: created},
			{ID: 2, KOTNo: 2, IsNoCharge: true, NCName: "Manager", NCPurpose: "Tasting", CreatedAt: created},
		},
		Lines: []billing.Line{
			{ID: 1, KOTNo: 1, ItemName: "Paneer Tikka", Rate: decimal.NewFromInt(100), OriginalQty: 3, ReversedQty: 1, SpecialInst: "less spicy"},
			{ID: 2, KOTNo: 1, ItemName: "Lassi", Rate: decimal.NewFromInt(50), OriginalQty: 1, ReversedQty: 1},
			{ID: 3, KOTNo: 2, ItemName: "Soup", Rate: decimal.NewFromInt(80), OriginalQty: 1, IsNoCharge: true},
		},
	}
	o.Bill = o.Recompute()
	return o
}

func TestLoadPrintSettings_Defaults(t *testing.T) {
	s, err := LoadPrintSettings("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.PaperWidth != defaultPaperWidth || !s.ShowWaiter || s.ShowItemPrice {
		t.Errorf("unexpected defaults: %+v", s)
	}
}

func TestLoadPrintSettings_MergesOverDefaults(t *testing.T) {
	s, err := LoadPrintSettings(`{"show_item_price": true, "outlet_name": "Spice Route", "paper_width": 10}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.ShowItemPrice {
		t.Error("show_item_price should be true")
	}
	if s.OutletName != "Spice Route" {
		t.Errorf("outlet name: got %q", s.OutletName)
	}
	if !s.ShowWaiter {
		t.Error("unset keys should keep their defaults")
	}
	if s.PaperWidth != defaultPaperWidth {
		t.Errorf("paper width: got %d, want %d", s.PaperWidth, defaultPaperWidth)
	}
}

func TestLoadPrintSettings_InvalidJSON(t *testing.T) {
	if _, err := LoadPrintSettings(`{not json`); err == nil {
		t.Fatal("expected error")
	}
}

func TestPrintSettings_Validate(t *testing.T) {
	s := DefaultPrintSettings()
	s.PaperWidth = 10
	if err := s.Validate(); err == nil {
		t.Error("expected error for narrow paper")
	}
	s.PaperWidth = 32
	if err := s.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestKOTPrefix(t *testing.T) {
	s := DefaultPrintSettings()
	tests := map[string]string{
		enum.OrderTypeDineIn:    "DI",
		enum.OrderTypePickup:    "PU",
		enum.OrderTypeDelivery:  "DL",
		enum.OrderTypeQuickBill: "QB",
	}
	for orderType, want := range tests {
		if got := s.KOTPrefix(orderType); got != want {
			t.Errorf("%s: got %q, want %q", orderType, got, want)
		}
	}
}

func TestKOT(t *testing.T) {
	o := testOrder()
	s := DefaultPrintSettings()
	s.OutletName = "Spice Route"

	out := KOT(o.KOTs[0], o, s)

	for _, want := range []string{"Spice Route", "NEW ORDER", "KOT No: DI1", "Table: T1", "Waiter: Ravi", "Guests: 4", "Paneer Tikka", "(reversed 1)", "* less spicy"} {
		if !strings.Contains(out, want) {
			t.Errorf("KOT missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Soup") {
		t.Error("KOT 1 should not list lines of KOT 2")
	}
	if strings.Contains(out, "100.00") {
		t.Error("prices hidden by default")
	}
}

func TestKOT_NoChargeAndPrices(t *testing.T) {
	o := testOrder()
	s := DefaultPrintSettings()
	s.ShowItemPrice = true
	s.ShowWaiter = false

	out := KOT(o.KOTs[1], o, s)

	for _, want := range []string{"NO CHARGE KOT", "RUNNING ORDER", "NC For: Manager", "Purpose: Tasting", "80.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("KOT missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Waiter") {
		t.Error("waiter should be hidden")
	}
}

func TestBill(t *testing.T) {
	o := testOrder()
	out := Bill(o, DefaultPrintSettings())

	for _, want := range []string{"TAX INVOICE", "Bill No: 12", "Paneer Tikka", "200.00", "CGST @ 2.5%", "5.00", "NET PAYABLE", "210.00", "Thank you"} {
		if !strings.Contains(out, want) {
			t.Errorf("bill missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Lassi") {
		t.Error("fully reversed line should not print")
	}
	if !strings.Contains(out, "NC") {
		t.Error("no-charge line should print as NC")
	}
	if strings.Contains(out, "IGST") {
		t.Error("zero-rate components should be omitted")
	}
}

func TestBill_HidesTableForQuickBill(t *testing.T) {
	o := testOrder()
	o.OrderType = enum.OrderTypeQuickBill
	s := DefaultPrintSettings()
	s.HideTableNameQuickBill = true

	if out := Bill(o, s); strings.Contains(out, "Table:") {
		t.Errorf("table should be hidden:\n%s", out)
	}
}

func TestBill_Discount(t *testing.T) {
	o := testOrder()
	o.Discount = &billing.Discount{Type: enum.DiscountTypePercentage, Value: decimal.NewFromInt(10)}
	o.Bill = o.Recompute()

	out := Bill(o, DefaultPrintSettings())
	if !strings.Contains(out, "Discount 10%") || !strings.Contains(out, "-20.00") {
		t.Errorf("discount line missing:\n%s", out)
	}
}
