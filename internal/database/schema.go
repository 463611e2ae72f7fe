package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// column types per dialect, substituted into the schema below.
var dialects = map[string]*strings.Replacer{
	DriverSQLite: strings.NewReplacer(
		"{{id}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
		"{{money}}", "TEXT",
		"{{bool}}", "INTEGER",
		"{{ts}}", "TIMESTAMP",
		"{{false}}", "0",
		"{{true}}", "1",
	),
	DriverPostgres: strings.NewReplacer(
		"{{id}}", "BIGSERIAL PRIMARY KEY",
		"{{money}}", "NUMERIC(14,4)",
		"{{bool}}", "BOOLEAN",
		"{{ts}}", "TIMESTAMPTZ",
		"{{false}}", "FALSE",
		"{{true}}", "TRUE",
	),
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS outlets (
		id {{id}},
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		tax_mode TEXT NOT NULL DEFAULT 'EXCLUSIVE' CHECK (tax_mode IN ('EXCLUSIVE', 'INCLUSIVE')),
		bill_prefix TEXT NOT NULL DEFAULT '',
		print_settings TEXT NOT NULL DEFAULT '{}',
		created_at {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tax_groups (
		id {{id}},
		outlet_id BIGINT NOT NULL REFERENCES outlets(id),
		name TEXT NOT NULL,
		cgst {{money}} NOT NULL DEFAULT '0',
		sgst {{money}} NOT NULL DEFAULT '0',
		igst {{money}} NOT NULL DEFAULT '0',
		cess {{money}} NOT NULL DEFAULT '0'
	)`,
	`CREATE TABLE IF NOT EXISTS departments (
		id {{id}},
		outlet_id BIGINT NOT NULL REFERENCES outlets(id),
		name TEXT NOT NULL,
		tax_group_id BIGINT REFERENCES tax_groups(id)
	)`,
	`CREATE TABLE IF NOT EXISTS dining_tables (
		id {{id}},
		outlet_id BIGINT NOT NULL REFERENCES outlets(id),
		department_id BIGINT NOT NULL REFERENCES departments(id),
		name TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		is_active {{bool}} NOT NULL DEFAULT {{true}}
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id {{id}},
		outlet_id BIGINT NOT NULL REFERENCES outlets(id),
		item_no TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		rate {{money}} NOT NULL,
		is_active {{bool}} NOT NULL DEFAULT {{true}}
	)`,
	`CREATE TABLE IF NOT EXISTS payment_modes (
		id {{id}},
		outlet_id BIGINT NOT NULL REFERENCES outlets(id),
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		is_active {{bool}} NOT NULL DEFAULT {{true}},
		UNIQUE (outlet_id, code)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id {{id}},
		outlet_id BIGINT REFERENCES outlets(id),
		email TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('OWNER', 'MANAGER', 'CASHIER', 'WAITER')),
		is_active {{bool}} NOT NULL DEFAULT {{true}}
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id {{id}},
		outlet_id BIGINT NOT NULL REFERENCES outlets(id),
		name TEXT NOT NULL DEFAULT '',
		mobile TEXT NOT NULL,
		created_at {{ts}} NOT NULL,
		UNIQUE (outlet_id, mobile)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id {{id}},
		outlet_id BIGINT NOT NULL REFERENCES outlets(id),
		table_id BIGINT NOT NULL REFERENCES dining_tables(id),
		department_id BIGINT NOT NULL,
		order_type TEXT NOT NULL CHECK (order_type IN ('DINE_IN', 'PICKUP', 'DELIVERY', 'QUICK_BILL')),
		state TEXT NOT NULL CHECK (state IN ('ORDERING', 'BILLED', 'SETTLED', 'REVERSED')),
		waiter_name TEXT NOT NULL DEFAULT '',
		pax INTEGER NOT NULL DEFAULT 0,
		customer_id BIGINT REFERENCES customers(id),
		business_date TEXT NOT NULL,
		bill_no BIGINT,
		discount_type TEXT,
		discount_value {{money}},
		tax_mode TEXT NOT NULL DEFAULT 'EXCLUSIVE',
		cgst_rate {{money}} NOT NULL DEFAULT '0',
		sgst_rate {{money}} NOT NULL DEFAULT '0',
		igst_rate {{money}} NOT NULL DEFAULT '0',
		cess_rate {{money}} NOT NULL DEFAULT '0',
		gross {{money}} NOT NULL DEFAULT '0',
		discount_amount {{money}} NOT NULL DEFAULT '0',
		taxable {{money}} NOT NULL DEFAULT '0',
		cgst_amount {{money}} NOT NULL DEFAULT '0',
		sgst_amount {{money}} NOT NULL DEFAULT '0',
		igst_amount {{money}} NOT NULL DEFAULT '0',
		cess_amount {{money}} NOT NULL DEFAULT '0',
		grand_total {{money}} NOT NULL DEFAULT '0',
		net_due {{money}} NOT NULL DEFAULT '0',
		billed_at {{ts}},
		settled_at {{ts}},
		created_by BIGINT NOT NULL,
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL,
		UNIQUE (outlet_id, bill_no)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS orders_one_open_per_table
		ON orders (table_id) WHERE state IN ('ORDERING', 'BILLED')`,
	`CREATE TABLE IF NOT EXISTS kots (
		id {{id}},
		order_id BIGINT NOT NULL REFERENCES orders(id),
		kot_no INTEGER NOT NULL,
		kot_type TEXT NOT NULL DEFAULT '',
		is_nc {{bool}} NOT NULL DEFAULT {{false}},
		nc_name TEXT NOT NULL DEFAULT '',
		nc_purpose TEXT NOT NULL DEFAULT '',
		created_by BIGINT NOT NULL,
		created_at {{ts}} NOT NULL,
		UNIQUE (order_id, kot_no)
	)`,
	`CREATE TABLE IF NOT EXISTS order_lines (
		id {{id}},
		order_id BIGINT NOT NULL REFERENCES orders(id),
		kot_id BIGINT NOT NULL REFERENCES kots(id),
		item_id BIGINT NOT NULL,
		item_name TEXT NOT NULL,
		rate {{money}} NOT NULL,
		original_qty BIGINT NOT NULL CHECK (original_qty > 0),
		reversed_qty BIGINT NOT NULL DEFAULT 0,
		is_nc {{bool}} NOT NULL DEFAULT {{false}},
		special_inst TEXT NOT NULL DEFAULT '',
		CHECK (reversed_qty >= 0 AND reversed_qty <= original_qty)
	)`,
	`CREATE TABLE IF NOT EXISTS reversal_records (
		id {{id}},
		order_id BIGINT NOT NULL REFERENCES orders(id),
		line_id BIGINT NOT NULL REFERENCES order_lines(id),
		qty BIGINT NOT NULL CHECK (qty > 0),
		reason TEXT NOT NULL,
		order_state TEXT NOT NULL,
		reversed_by BIGINT NOT NULL,
		created_at {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS settlements (
		id {{id}},
		order_id BIGINT NOT NULL REFERENCES orders(id),
		batch_id TEXT NOT NULL,
		payment_mode TEXT NOT NULL,
		amount {{money}} NOT NULL,
		reference TEXT NOT NULL DEFAULT '',
		settled_by BIGINT NOT NULL,
		created_at {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS dayend_records (
		id {{id}},
		outlet_id BIGINT NOT NULL REFERENCES outlets(id),
		dayend_date TEXT NOT NULL,
		next_date TEXT NOT NULL,
		order_count INTEGER NOT NULL DEFAULT 0,
		total_amount {{money}} NOT NULL DEFAULT '0',
		created_by BIGINT NOT NULL,
		closed_at {{ts}} NOT NULL,
		UNIQUE (outlet_id, dayend_date)
	)`,
	`CREATE TABLE IF NOT EXISTS idempotency_keys (
		idem_key TEXT NOT NULL,
		user_id BIGINT NOT NULL,
		method TEXT NOT NULL,
		path TEXT NOT NULL,
		status_code INTEGER NOT NULL,
		response_body TEXT NOT NULL,
		created_at {{ts}} NOT NULL,
		PRIMARY KEY (idem_key, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_outlet_date ON orders (outlet_id, business_date)`,
	`CREATE INDEX IF NOT EXISTS idx_order_lines_order ON order_lines (order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_settlements_order ON settlements (order_id)`,
}

// Migrate creates the schema for the given driver. Statements are idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	rep, ok := dialects[db.DriverName()]
	if !ok {
		return fmt.Errorf("no schema dialect for driver %q", db.DriverName())
	}
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, rep.Replace(stmt)); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
