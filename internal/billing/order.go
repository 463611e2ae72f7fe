package billing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Order is the aggregate for one table tab: header, KOTs and lines. It is a
// read projection rebuilt from the store for every request.
type Order struct {
	ID             int64
	OutletID       int64
	TableID        int64
	TableName      string
	DepartmentID   int64
	OrderType      string
	State          string
	WaiterName     string
	Pax            int
	CustomerID     *int64
	CustomerName   string
	CustomerMobile string
	Discount       *Discount
	BusinessDate   string
	BillNo         *int64
	TaxMode        TaxMode
	Rates          TaxRates
	Bill           Bill
	BilledAt       *time.Time
	SettledAt      *time.Time
	CreatedBy      int64
	CreatedAt      time.Time
	KOTs           []KOT
	Lines          []Line
}

// KOT is one kitchen order ticket: a numbered batch of lines.
type KOT struct {
	ID         int64
	OrderID    int64
	KOTNo      int
	KOTType    string
	IsNoCharge bool
	NCName     string
	NCPurpose  string
	CreatedBy  int64
	CreatedAt  time.Time
}

// Line is one item entry of a KOT.
type Line struct {
	ID          int64
	OrderID     int64
	KOTID       int64
	KOTNo       int
	ItemID      int64
	ItemName    string
	Rate        decimal.Decimal
	OriginalQty int64
	ReversedQty int64
	IsNoCharge  bool
	SpecialInst string
}

// NetQty is the quantity still standing after reversals.
func (l Line) NetQty() int64 {
	return l.OriginalQty - l.ReversedQty
}

// Amount is rate times net quantity.
func (l Line) Amount() decimal.Decimal {
	return l.Rate.Mul(decimal.NewFromInt(l.NetQty()))
}

// NetLines returns lines with a positive net quantity, in line order.
func (o *Order) NetLines() []Line {
	var out []Line
	for _, l := range o.Lines {
		if l.NetQty() > 0 {
			out = append(out, l)
		}
	}
	return out
}

// HasNetLines reports whether anything is left on the order.
func (o *Order) HasNetLines() bool {
	for _, l := range o.Lines {
		if l.NetQty() > 0 {
			return true
		}
	}
	return false
}

// Line finds a line by id.
func (o *Order) Line(id int64) (Line, bool) {
	for _, l := range o.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return Line{}, false
}

// KOTNumbers returns the sorted, de-duplicated KOT numbers that contribute
// lines to the order, so the UI can show "KOT 1, 2, 3".
func (o *Order) KOTNumbers() []int {
	seen := make(map[int]bool)
	var nums []int
	for _, l := range o.Lines {
		if !seen[l.KOTNo] {
			seen[l.KOTNo] = true
			nums = append(nums, l.KOTNo)
		}
	}
	sort.Ints(nums)
	return nums
}

// LatestKOTNo is the highest KOT number issued on the order, 0 if none.
func (o *Order) LatestKOTNo() int {
	latest := 0
	for _, k := range o.KOTs {
		if k.KOTNo > latest {
			latest = k.KOTNo
		}
	}
	return latest
}

// NextKOTNo is the number the next KOT on this order receives.
func (o *Order) NextKOTNo() int {
	return o.LatestKOTNo() + 1
}

// KOT finds a ticket by its number.
func (o *Order) KOT(kotNo int) (KOT, bool) {
	for _, k := range o.KOTs {
		if k.KOTNo == kotNo {
			return k, true
		}
	}
	return KOT{}, false
}

// LinesOfKOT returns the lines issued by the given KOT number.
func (o *Order) LinesOfKOT(kotNo int) []Line {
	var out []Line
	for _, l := range o.Lines {
		if l.KOTNo == kotNo {
			out = append(out, l)
		}
	}
	return out
}

// Recompute prices the current net lines with the order's tax snapshot and
// discount.
func (o *Order) Recompute() Bill {
	return ComputeBill(o.Lines, o.Rates, o.TaxMode, o.Discount)
}

// TableOrder is the result of loading a table: the state tag plus the order
// when the table is not empty.
type TableOrder struct {
	State string
	Order *Order
}
