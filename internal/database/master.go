package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

func (q *Queries) GetOutlet(ctx context.Context, id int64) (Outlet, error) {
	var o Outlet
	err := q.get(ctx, &o, `SELECT id, name, address, tax_mode, bill_prefix, print_settings, created_at
		FROM outlets WHERE id = ?`, id)
	return o, err
}

// LockOutlet holds the outlet row until the current transaction ends, so
// opening an order and closing the business day cannot interleave. SQLite
// runs on a single connection where transactions are already serial, so no
// statement is issued there.
func (q *Queries) LockOutlet(ctx context.Context, outletID int64) error {
	if q.db.DriverName() != DriverPostgres {
		return nil
	}
	var id int64
	return q.get(ctx, &id, `SELECT id FROM outlets WHERE id = ? FOR UPDATE`, outletID)
}

type CreateOutletParams struct {
	Name       string
	Address    string
	TaxMode    string
	BillPrefix string
}

func (q *Queries) CreateOutlet(ctx context.Context, arg CreateOutletParams) (int64, error) {
	return q.insert(ctx, `INSERT INTO outlets (name, address, tax_mode, bill_prefix, print_settings, created_at)
		VALUES (?, ?, ?, ?, '{}', ?)`, arg.Name, arg.Address, arg.TaxMode, arg.BillPrefix, time.Now().UTC())
}

// UpdatePrintSettings stores the print settings JSON of an outlet.
func (q *Queries) UpdatePrintSettings(ctx context.Context, outletID int64, settings string) error {
	n, err := q.exec(ctx, `UPDATE outlets SET print_settings = ? WHERE id = ?`, settings, outletID)
	if err == nil && n == 0 {
		return ErrNoRows
	}
	return err
}

func (q *Queries) CreateTaxGroup(ctx context.Context, arg TaxGroup) (int64, error) {
	return q.insert(ctx, `INSERT INTO tax_groups (outlet_id, name, cgst, sgst, igst, cess) VALUES (?, ?, ?, ?, ?, ?)`,
		arg.OutletID, arg.Name, arg.CGST, arg.SGST, arg.IGST, arg.CESS)
}

func (q *Queries) CreateDepartment(ctx context.Context, outletID int64, name string, taxGroupID sql.NullInt64) (int64, error) {
	return q.insert(ctx, `INSERT INTO departments (outlet_id, name, tax_group_id) VALUES (?, ?, ?)`,
		outletID, name, taxGroupID)
}

// GetTaxRates resolves the tax group of a department. A department without
// a tax group has all rates zero.
func (q *Queries) GetTaxRates(ctx context.Context, outletID, departmentID int64) (TaxGroup, error) {
	var tg TaxGroup
	err := q.get(ctx, &tg, `SELECT g.id, g.outlet_id, g.name, g.cgst, g.sgst, g.igst, g.cess
		FROM departments d JOIN tax_groups g ON g.id = d.tax_group_id
		WHERE d.id = ? AND d.outlet_id = ?`, departmentID, outletID)
	if errors.Is(err, sql.ErrNoRows) {
		return TaxGroup{OutletID: outletID, CGST: decimal.Zero, SGST: decimal.Zero, IGST: decimal.Zero, CESS: decimal.Zero}, nil
	}
	return tg, err
}

const tableColumns = `t.id, t.outlet_id, t.department_id, d.name AS department_name, t.name, t.sort_order, t.is_active`

func (q *Queries) GetTable(ctx context.Context, outletID, tableID int64) (DiningTable, error) {
	var t DiningTable
	err := q.get(ctx, &t, `SELECT `+tableColumns+`
		FROM dining_tables t JOIN departments d ON d.id = t.department_id
		WHERE t.id = ? AND t.outlet_id = ?`, tableID, outletID)
	return t, err
}

func (q *Queries) ListTables(ctx context.Context, outletID int64) ([]DiningTable, error) {
	var tables []DiningTable
	err := q.list(ctx, &tables, `SELECT `+tableColumns+`
		FROM dining_tables t JOIN departments d ON d.id = t.department_id
		WHERE t.outlet_id = ? AND t.is_active = ?
		ORDER BY t.sort_order, t.name`, outletID, true)
	return tables, err
}

func (q *Queries) CreateTable(ctx context.Context, outletID, departmentID int64, name string, sortOrder int) (int64, error) {
	return q.insert(ctx, `INSERT INTO dining_tables (outlet_id, department_id, name, sort_order, is_active) VALUES (?, ?, ?, ?, ?)`,
		outletID, departmentID, name, sortOrder, true)
}

func (q *Queries) GetMenuItem(ctx context.Context, outletID, itemID int64) (MenuItem, error) {
	var m MenuItem
	err := q.get(ctx, &m, `SELECT id, outlet_id, item_no, name, rate, is_active
		FROM menu_items WHERE id = ? AND outlet_id = ?`, itemID, outletID)
	return m, err
}

func (q *Queries) ListMenuItems(ctx context.Context, outletID int64) ([]MenuItem, error) {
	var items []MenuItem
	err := q.list(ctx, &items, `SELECT id, outlet_id, item_no, name, rate, is_active
		FROM menu_items WHERE outlet_id = ? AND is_active = ? ORDER BY name`, outletID, true)
	return items, err
}

func (q *Queries) CreateMenuItem(ctx context.Context, outletID int64, itemNo, name string, rate decimal.Decimal) (int64, error) {
	return q.insert(ctx, `INSERT INTO menu_items (outlet_id, item_no, name, rate, is_active) VALUES (?, ?, ?, ?, ?)`,
		outletID, itemNo, name, rate, true)
}

func (q *Queries) ListPaymentModes(ctx context.Context, outletID int64) ([]PaymentMode, error) {
	var modes []PaymentMode
	err := q.list(ctx, &modes, `SELECT id, outlet_id, code, name, is_active
		FROM payment_modes WHERE outlet_id = ? AND is_active = ? ORDER BY id`, outletID, true)
	return modes, err
}

func (q *Queries) CreatePaymentMode(ctx context.Context, outletID int64, code, name string) (int64, error) {
	return q.insert(ctx, `INSERT INTO payment_modes (outlet_id, code, name, is_active) VALUES (?, ?, ?, ?)`,
		outletID, code, name, true)
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := q.get(ctx, &u, `SELECT id, outlet_id, email, full_name, password_hash, role, is_active
		FROM users WHERE email = ? AND is_active = ?`, email, true)
	return u, err
}

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := q.get(ctx, &u, `SELECT id, outlet_id, email, full_name, password_hash, role, is_active
		FROM users WHERE id = ? AND is_active = ?`, id, true)
	return u, err
}

type CreateUserParams struct {
	OutletID     sql.NullInt64
	Email        string
	FullName     string
	PasswordHash string
	Role         string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (int64, error) {
	return q.insert(ctx, `INSERT INTO users (outlet_id, email, full_name, password_hash, role, is_active)
		VALUES (?, ?, ?, ?, ?, ?)`, arg.OutletID, arg.Email, arg.FullName, arg.PasswordHash, arg.Role, true)
}

func (q *Queries) GetCustomerByMobile(ctx context.Context, outletID int64, mobile string) (Customer, error) {
	var c Customer
	err := q.get(ctx, &c, `SELECT id, outlet_id, name, mobile, created_at
		FROM customers WHERE outlet_id = ? AND mobile = ?`, outletID, mobile)
	return c, err
}

func (q *Queries) GetCustomer(ctx context.Context, outletID, id int64) (Customer, error) {
	var c Customer
	err := q.get(ctx, &c, `SELECT id, outlet_id, name, mobile, created_at
		FROM customers WHERE outlet_id = ? AND id = ?`, outletID, id)
	return c, err
}

func (q *Queries) CreateCustomer(ctx context.Context, outletID int64, name, mobile string) (int64, error) {
	return q.insert(ctx, `INSERT INTO customers (outlet_id, name, mobile, created_at) VALUES (?, ?, ?, ?)`,
		outletID, name, mobile, time.Now().UTC())
}

// UpdateCustomerName fills in a name for a customer first seen by mobile only.
func (q *Queries) UpdateCustomerName(ctx context.Context, id int64, name string) error {
	_, err := q.exec(ctx, `UPDATE customers SET name = ? WHERE id = ?`, name, id)
	return err
}
