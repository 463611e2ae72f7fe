package database

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type Outlet struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	Address       string    `db:"address"`
	TaxMode       string    `db:"tax_mode"`
	BillPrefix    string    `db:"bill_prefix"`
	PrintSettings string    `db:"print_settings"`
	CreatedAt     time.Time `db:"created_at"`
}

type TaxGroup struct {
	ID       int64           `db:"id"`
	OutletID int64           `db:"outlet_id"`
	Name     string          `db:"name"`
	CGST     decimal.Decimal `db:"cgst"`
	SGST     decimal.Decimal `db:"sgst"`
	IGST     decimal.Decimal `db:"igst"`
	CESS     decimal.Decimal `db:"cess"`
}

type Department struct {
	ID         int64         `db:"id"`
	OutletID   int64         `db:"outlet_id"`
	Name       string        `db:"name"`
	TaxGroupID sql.NullInt64 `db:"tax_group_id"`
}

type DiningTable struct {
	ID             int64  `db:"id"`
	OutletID       int64  `db:"outlet_id"`
	DepartmentID   int64  `db:"department_id"`
	DepartmentName string `db:"department_name"`
	Name           string `db:"name"`
	SortOrder      int    `db:"sort_order"`
	IsActive       bool   `db:"is_active"`
}

type MenuItem struct {
	ID       int64           `db:"id"`
	OutletID int64           `db:"outlet_id"`
	ItemNo   string          `db:"item_no"`
	Name     string          `db:"name"`
	Rate     decimal.Decimal `db:"rate"`
	IsActive bool            `db:"is_active"`
}

type PaymentMode struct {
	ID       int64  `db:"id"`
	OutletID int64  `db:"outlet_id"`
	Code     string `db:"code"`
	Name     string `db:"name"`
	IsActive bool   `db:"is_active"`
}

type User struct {
	ID           int64         `db:"id"`
	OutletID     sql.NullInt64 `db:"outlet_id"`
	Email        string        `db:"email"`
	FullName     string        `db:"full_name"`
	PasswordHash string        `db:"password_hash"`
	Role         string        `db:"role"`
	IsActive     bool          `db:"is_active"`
}

type Customer struct {
	ID        int64     `db:"id"`
	OutletID  int64     `db:"outlet_id"`
	Name      string    `db:"name"`
	Mobile    string    `db:"mobile"`
	CreatedAt time.Time `db:"created_at"`
}

// Order is the order header row, including the bill snapshot written at
// billing time.
type Order struct {
	ID             int64               `db:"id"`
	OutletID       int64               `db:"outlet_id"`
	TableID        int64               `db:"table_id"`
	TableName      string              `db:"table_name"`
	DepartmentID   int64               `db:"department_id"`
	OrderType      string              `db:"order_type"`
	State          string              `db:"state"`
	WaiterName     string              `db:"waiter_name"`
	Pax            int                 `db:"pax"`
	CustomerID     sql.NullInt64       `db:"customer_id"`
	CustomerName   sql.NullString      `db:"customer_name"`
	CustomerMobile sql.NullString      `db:"customer_mobile"`
	BusinessDate   string              `db:"business_date"`
	BillNo         sql.NullInt64       `db:"bill_no"`
	DiscountType   sql.NullString      `db:"discount_type"`
	DiscountValue  decimal.NullDecimal `db:"discount_value"`
	TaxMode        string              `db:"tax_mode"`
	CGSTRate       decimal.Decimal     `db:"cgst_rate"`
	SGSTRate       decimal.Decimal     `db:"sgst_rate"`
	IGSTRate       decimal.Decimal     `db:"igst_rate"`
	CESSRate       decimal.Decimal     `db:"cess_rate"`
	Gross          decimal.Decimal     `db:"gross"`
	DiscountAmount decimal.Decimal     `db:"discount_amount"`
	Taxable        decimal.Decimal     `db:"taxable"`
	CGSTAmount     decimal.Decimal     `db:"cgst_amount"`
	SGSTAmount     decimal.Decimal     `db:"sgst_amount"`
	IGSTAmount     decimal.Decimal     `db:"igst_amount"`
	CESSAmount     decimal.Decimal     `db:"cess_amount"`
	GrandTotal     decimal.Decimal     `db:"grand_total"`
	NetDue         decimal.Decimal     `db:"net_due"`
	BilledAt       sql.NullTime        `db:"billed_at"`
	SettledAt      sql.NullTime        `db:"settled_at"`
	CreatedBy      int64               `db:"created_by"`
	CreatedAt      time.Time           `db:"created_at"`
	UpdatedAt      time.Time           `db:"updated_at"`
}

type KOT struct {
	ID        int64     `db:"id"`
	OrderID   int64     `db:"order_id"`
	KOTNo     int       `db:"kot_no"`
	KOTType   string    `db:"kot_type"`
	IsNC      bool      `db:"is_nc"`
	NCName    string    `db:"nc_name"`
	NCPurpose string    `db:"nc_purpose"`
	CreatedBy int64     `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
}

type OrderLine struct {
	ID          int64           `db:"id"`
	OrderID     int64           `db:"order_id"`
	KOTID       int64           `db:"kot_id"`
	KOTNo       int             `db:"kot_no"`
	ItemID      int64           `db:"item_id"`
	ItemName    string          `db:"item_name"`
	Rate        decimal.Decimal `db:"rate"`
	OriginalQty int64           `db:"original_qty"`
	ReversedQty int64           `db:"reversed_qty"`
	IsNC        bool            `db:"is_nc"`
	SpecialInst string          `db:"special_inst"`
}

type ReversalRecord struct {
	ID         int64     `db:"id"`
	OrderID    int64     `db:"order_id"`
	LineID     int64     `db:"line_id"`
	ItemName   string    `db:"item_name"`
	Qty        int64     `db:"qty"`
	Reason     string    `db:"reason"`
	OrderState string    `db:"order_state"`
	ReversedBy int64     `db:"reversed_by"`
	CreatedAt  time.Time `db:"created_at"`
}

type Settlement struct {
	ID          int64           `db:"id"`
	OrderID     int64           `db:"order_id"`
	BatchID     string          `db:"batch_id"`
	PaymentMode string          `db:"payment_mode"`
	Amount      decimal.Decimal `db:"amount"`
	Reference   string          `db:"reference"`
	SettledBy   int64           `db:"settled_by"`
	CreatedAt   time.Time       `db:"created_at"`
}

type DayEndRecord struct {
	ID          int64           `db:"id"`
	OutletID    int64           `db:"outlet_id"`
	DayEndDate  string          `db:"dayend_date"`
	NextDate    string          `db:"next_date"`
	OrderCount  int             `db:"order_count"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	CreatedBy   int64           `db:"created_by"`
	ClosedAt    time.Time       `db:"closed_at"`
}

type IdempotencyKey struct {
	Key          string    `db:"idem_key"`
	UserID       int64     `db:"user_id"`
	Method       string    `db:"method"`
	Path         string    `db:"path"`
	StatusCode   int       `db:"status_code"`
	ResponseBody string    `db:"response_body"`
	CreatedAt    time.Time `db:"created_at"`
}
