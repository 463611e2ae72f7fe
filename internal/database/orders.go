package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

const orderColumns = `o.id, o.outlet_id, o.table_id, t.name AS table_name, o.department_id, o.order_type,
	o.state, o.waiter_name, o.pax, o.customer_id, c.name AS customer_name, c.mobile AS customer_mobile,
	o.business_date, o.bill_no, o.discount_type, o.discount_value, o.tax_mode,
	o.cgst_rate, o.sgst_rate, o.igst_rate, o.cess_rate,
	o.gross, o.discount_amount, o.taxable, o.cgst_amount, o.sgst_amount, o.igst_amount, o.cess_amount,
	o.grand_total, o.net_due, o.billed_at, o.settled_at, o.created_by, o.created_at, o.updated_at`

const orderFrom = ` FROM orders o
	JOIN dining_tables t ON t.id = o.table_id
	LEFT JOIN customers c ON c.id = o.customer_id`

// GetOrder returns an order header scoped to its outlet.
func (q *Queries) GetOrder(ctx context.Context, outletID, orderID int64) (Order, error) {
	var o Order
	err := q.get(ctx, &o, `SELECT `+orderColumns+orderFrom+` WHERE o.id = ? AND o.outlet_id = ?`, orderID, outletID)
	return o, err
}

// ListOpenOrdersForTable returns the open orders of a table, billed first.
// The schema allows at most one; the ordering keeps the billed-wins rule
// explicit if older data ever violates that.
func (q *Queries) ListOpenOrdersForTable(ctx context.Context, outletID, tableID int64) ([]Order, error) {
	var orders []Order
	err := q.list(ctx, &orders, `SELECT `+orderColumns+orderFrom+`
		WHERE o.outlet_id = ? AND o.table_id = ? AND o.state IN ('BILLED', 'ORDERING')
		ORDER BY CASE o.state WHEN 'BILLED' THEN 0 ELSE 1 END, o.id DESC`, outletID, tableID)
	return orders, err
}

// ListOpenOrdersByOutlet returns every order still holding a table.
func (q *Queries) ListOpenOrdersByOutlet(ctx context.Context, outletID int64) ([]Order, error) {
	var orders []Order
	err := q.list(ctx, &orders, `SELECT `+orderColumns+orderFrom+`
		WHERE o.outlet_id = ? AND o.state IN ('BILLED', 'ORDERING')
		ORDER BY t.sort_order, t.name`, outletID)
	return orders, err
}

// ListOrdersByBusinessDate returns all orders of an outlet for one business date.
func (q *Queries) ListOrdersByBusinessDate(ctx context.Context, outletID int64, businessDate string) ([]Order, error) {
	var orders []Order
	err := q.list(ctx, &orders, `SELECT `+orderColumns+orderFrom+`
		WHERE o.outlet_id = ? AND o.business_date = ?
		ORDER BY o.id`, outletID, businessDate)
	return orders, err
}

type CreateOrderParams struct {
	OutletID     int64
	TableID      int64
	DepartmentID int64
	OrderType    string
	WaiterName   string
	Pax          int
	BusinessDate string
	TaxMode      string
	CreatedBy    int64
	CreatedAt    time.Time
}

// CreateOrder opens a new order in ORDERING state.
func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (int64, error) {
	return q.insert(ctx, `INSERT INTO orders
		(outlet_id, table_id, department_id, order_type, state, waiter_name, pax, business_date,
		 tax_mode, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, 'ORDERING', ?, ?, ?, ?, ?, ?, ?)`,
		arg.OutletID, arg.TableID, arg.DepartmentID, arg.OrderType, arg.WaiterName, arg.Pax,
		arg.BusinessDate, arg.TaxMode, arg.CreatedBy, arg.CreatedAt, arg.CreatedAt)
}

// UpdateOrderState moves an order to a new state.
func (q *Queries) UpdateOrderState(ctx context.Context, orderID int64, state string, at time.Time) error {
	_, err := q.exec(ctx, `UPDATE orders SET state = ?, updated_at = ? WHERE id = ?`, state, at, orderID)
	return err
}

// SetOrderDiscount stores the discount definition of an order.
func (q *Queries) SetOrderDiscount(ctx context.Context, orderID int64, discountType string, value decimal.Decimal, at time.Time) error {
	_, err := q.exec(ctx, `UPDATE orders SET discount_type = ?, discount_value = ?, updated_at = ? WHERE id = ?`,
		discountType, value, at, orderID)
	return err
}

type SaveBillParams struct {
	OrderID        int64
	TaxMode        string
	CGSTRate       decimal.Decimal
	SGSTRate       decimal.Decimal
	IGSTRate       decimal.Decimal
	CESSRate       decimal.Decimal
	Gross          decimal.Decimal
	DiscountAmount decimal.Decimal
	Taxable        decimal.Decimal
	CGSTAmount     decimal.Decimal
	SGSTAmount     decimal.Decimal
	IGSTAmount     decimal.Decimal
	CESSAmount     decimal.Decimal
	GrandTotal     decimal.Decimal
	NetDue         decimal.Decimal
	UpdatedAt      time.Time
}

// SaveBill writes the tax snapshot and computed amounts of an order.
func (q *Queries) SaveBill(ctx context.Context, arg SaveBillParams) error {
	_, err := q.exec(ctx, `UPDATE orders SET
		tax_mode = ?, cgst_rate = ?, sgst_rate = ?, igst_rate = ?, cess_rate = ?,
		gross = ?, discount_amount = ?, taxable = ?,
		cgst_amount = ?, sgst_amount = ?, igst_amount = ?, cess_amount = ?,
		grand_total = ?, net_due = ?, updated_at = ?
		WHERE id = ?`,
		arg.TaxMode, arg.CGSTRate, arg.SGSTRate, arg.IGSTRate, arg.CESSRate,
		arg.Gross, arg.DiscountAmount, arg.Taxable,
		arg.CGSTAmount, arg.SGSTAmount, arg.IGSTAmount, arg.CESSAmount,
		arg.GrandTotal, arg.NetDue, arg.UpdatedAt, arg.OrderID)
	return err
}

type MarkBilledParams struct {
	OrderID    int64
	BillNo     int64
	CustomerID sql.NullInt64
	BilledAt   time.Time
}

// MarkOrderBilled moves an ORDERING order to BILLED. It returns false when
// the order was no longer in ORDERING.
func (q *Queries) MarkOrderBilled(ctx context.Context, arg MarkBilledParams) (bool, error) {
	n, err := q.exec(ctx, `UPDATE orders SET state = 'BILLED', bill_no = ?, customer_id = COALESCE(?, customer_id),
		billed_at = ?, updated_at = ?
		WHERE id = ? AND state = 'ORDERING'`,
		arg.BillNo, arg.CustomerID, arg.BilledAt, arg.BilledAt, arg.OrderID)
	return n == 1, err
}

// ReopenOrder un-bills an order. The bill number is kept so re-billing
// reuses it.
func (q *Queries) ReopenOrder(ctx context.Context, orderID int64, state string, at time.Time) error {
	_, err := q.exec(ctx, `UPDATE orders SET state = ?, billed_at = NULL, updated_at = ? WHERE id = ? AND state = 'BILLED'`,
		state, at, orderID)
	return err
}

// MarkOrderSettled closes a BILLED order.
func (q *Queries) MarkOrderSettled(ctx context.Context, orderID int64, at time.Time) (bool, error) {
	n, err := q.exec(ctx, `UPDATE orders SET state = 'SETTLED', settled_at = ?, updated_at = ? WHERE id = ? AND state = 'BILLED'`,
		at, at, orderID)
	return n == 1, err
}

// NextBillNo returns the next bill number of an outlet.
func (q *Queries) NextBillNo(ctx context.Context, outletID int64) (int64, error) {
	var n int64
	err := q.get(ctx, &n, `SELECT COALESCE(MAX(bill_no), 0) + 1 FROM orders WHERE outlet_id = ?`, outletID)
	return n, err
}

// NextKOTNo returns the next KOT number of an order.
func (q *Queries) NextKOTNo(ctx context.Context, orderID int64) (int, error) {
	var n int
	err := q.get(ctx, &n, `SELECT COALESCE(MAX(kot_no), 0) + 1 FROM kots WHERE order_id = ?`, orderID)
	return n, err
}

type CreateKOTParams struct {
	OrderID   int64
	KOTNo     int
	KOTType   string
	IsNC      bool
	NCName    string
	NCPurpose string
	CreatedBy int64
	CreatedAt time.Time
}

func (q *Queries) CreateKOT(ctx context.Context, arg CreateKOTParams) (int64, error) {
	return q.insert(ctx, `INSERT INTO kots (order_id, kot_no, kot_type, is_nc, nc_name, nc_purpose, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.OrderID, arg.KOTNo, arg.KOTType, arg.IsNC, arg.NCName, arg.NCPurpose, arg.CreatedBy, arg.CreatedAt)
}

func (q *Queries) ListKOTs(ctx context.Context, orderID int64) ([]KOT, error) {
	var kots []KOT
	err := q.list(ctx, &kots, `SELECT id, order_id, kot_no, kot_type, is_nc, nc_name, nc_purpose, created_by, created_at
		FROM kots WHERE order_id = ? ORDER BY kot_no`, orderID)
	return kots, err
}

type CreateOrderLineParams struct {
	OrderID     int64
	KOTID       int64
	ItemID      int64
	ItemName    string
	Rate        decimal.Decimal
	Qty         int64
	IsNC        bool
	SpecialInst string
}

func (q *Queries) CreateOrderLine(ctx context.Context, arg CreateOrderLineParams) (int64, error) {
	return q.insert(ctx, `INSERT INTO order_lines (order_id, kot_id, item_id, item_name, rate, original_qty, reversed_qty, is_nc, special_inst)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		arg.OrderID, arg.KOTID, arg.ItemID, arg.ItemName, arg.Rate, arg.Qty, arg.IsNC, arg.SpecialInst)
}

func (q *Queries) ListOrderLines(ctx context.Context, orderID int64) ([]OrderLine, error) {
	var lines []OrderLine
	err := q.list(ctx, &lines, `SELECT l.id, l.order_id, l.kot_id, k.kot_no, l.item_id, l.item_name, l.rate,
		l.original_qty, l.reversed_qty, l.is_nc, l.special_inst
		FROM order_lines l JOIN kots k ON k.id = l.kot_id
		WHERE l.order_id = ? ORDER BY k.kot_no, l.id`, orderID)
	return lines, err
}

// AddReversedQty increases a line's reversed quantity. It returns false if
// the update would push reversed past original.
func (q *Queries) AddReversedQty(ctx context.Context, lineID, qty int64) (bool, error) {
	n, err := q.exec(ctx, `UPDATE order_lines SET reversed_qty = reversed_qty + ?
		WHERE id = ? AND reversed_qty + ? <= original_qty`, qty, lineID, qty)
	return n == 1, err
}

type CreateReversalParams struct {
	OrderID    int64
	LineID     int64
	Qty        int64
	Reason     string
	OrderState string
	ReversedBy int64
	CreatedAt  time.Time
}

func (q *Queries) CreateReversal(ctx context.Context, arg CreateReversalParams) (int64, error) {
	return q.insert(ctx, `INSERT INTO reversal_records (order_id, line_id, qty, reason, order_state, reversed_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.OrderID, arg.LineID, arg.Qty, arg.Reason, arg.OrderState, arg.ReversedBy, arg.CreatedAt)
}

func (q *Queries) ListReversals(ctx context.Context, orderID int64) ([]ReversalRecord, error) {
	var recs []ReversalRecord
	err := q.list(ctx, &recs, `SELECT r.id, r.order_id, r.line_id, l.item_name, r.qty, r.reason, r.order_state,
		r.reversed_by, r.created_at
		FROM reversal_records r JOIN order_lines l ON l.id = r.line_id
		WHERE r.order_id = ? ORDER BY r.id`, orderID)
	return recs, err
}

type CreateSettlementParams struct {
	OrderID     int64
	BatchID     string
	PaymentMode string
	Amount      decimal.Decimal
	Reference   string
	SettledBy   int64
	CreatedAt   time.Time
}

func (q *Queries) CreateSettlement(ctx context.Context, arg CreateSettlementParams) (int64, error) {
	return q.insert(ctx, `INSERT INTO settlements (order_id, batch_id, payment_mode, amount, reference, settled_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.OrderID, arg.BatchID, arg.PaymentMode, arg.Amount, arg.Reference, arg.SettledBy, arg.CreatedAt)
}

func (q *Queries) ListSettlements(ctx context.Context, orderID int64) ([]Settlement, error) {
	var s []Settlement
	err := q.list(ctx, &s, `SELECT id, order_id, batch_id, payment_mode, amount, reference, settled_by, created_at
		FROM settlements WHERE order_id = ? ORDER BY id`, orderID)
	return s, err
}

// ListSettlementsByBusinessDate returns settlement rows of all orders of one
// business date.
func (q *Queries) ListSettlementsByBusinessDate(ctx context.Context, outletID int64, businessDate string) ([]Settlement, error) {
	var s []Settlement
	err := q.list(ctx, &s, `SELECT s.id, s.order_id, s.batch_id, s.payment_mode, s.amount, s.reference, s.settled_by, s.created_at
		FROM settlements s JOIN orders o ON o.id = s.order_id
		WHERE o.outlet_id = ? AND o.business_date = ? AND o.state = 'SETTLED'
		ORDER BY s.id`, outletID, businessDate)
	return s, err
}
