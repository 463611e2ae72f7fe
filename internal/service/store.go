package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/dinepos/api/internal/database"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const maxUniqueRetries = 3

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// OrderStore defines the DB methods needed by the order engine.
// Satisfied by *database.Queries (over the pool or a transaction).
type OrderStore interface {
	GetOutlet(ctx context.Context, id int64) (database.Outlet, error)
	LockOutlet(ctx context.Context, outletID int64) error
	GetTable(ctx context.Context, outletID, tableID int64) (database.DiningTable, error)
	GetTaxRates(ctx context.Context, outletID, departmentID int64) (database.TaxGroup, error)
	GetMenuItem(ctx context.Context, outletID, itemID int64) (database.MenuItem, error)
	ListPaymentModes(ctx context.Context, outletID int64) ([]database.PaymentMode, error)
	GetCustomerByMobile(ctx context.Context, outletID int64, mobile string) (database.Customer, error)
	CreateCustomer(ctx context.Context, outletID int64, name, mobile string) (int64, error)
	UpdateCustomerName(ctx context.Context, id int64, name string) error
	GetLatestDayEnd(ctx context.Context, outletID int64) (database.DayEndRecord, error)

	GetOrder(ctx context.Context, outletID, orderID int64) (database.Order, error)
	ListOpenOrdersForTable(ctx context.Context, outletID, tableID int64) ([]database.Order, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (int64, error)
	UpdateOrderState(ctx context.Context, orderID int64, state string, at time.Time) error
	SetOrderDiscount(ctx context.Context, orderID int64, discountType string, value decimal.Decimal, at time.Time) error
	SaveBill(ctx context.Context, arg database.SaveBillParams) error
	MarkOrderBilled(ctx context.Context, arg database.MarkBilledParams) (bool, error)
	ReopenOrder(ctx context.Context, orderID int64, state string, at time.Time) error
	MarkOrderSettled(ctx context.Context, orderID int64, at time.Time) (bool, error)
	NextBillNo(ctx context.Context, outletID int64) (int64, error)
	NextKOTNo(ctx context.Context, orderID int64) (int, error)
	CreateKOT(ctx context.Context, arg database.CreateKOTParams) (int64, error)
	ListKOTs(ctx context.Context, orderID int64) ([]database.KOT, error)
	CreateOrderLine(ctx context.Context, arg database.CreateOrderLineParams) (int64, error)
	ListOrderLines(ctx context.Context, orderID int64) ([]database.OrderLine, error)
	AddReversedQty(ctx context.Context, lineID, qty int64) (bool, error)
	CreateReversal(ctx context.Context, arg database.CreateReversalParams) (int64, error)
	ListReversals(ctx context.Context, orderID int64) ([]database.ReversalRecord, error)
	CreateSettlement(ctx context.Context, arg database.CreateSettlementParams) (int64, error)
	ListSettlements(ctx context.Context, orderID int64) ([]database.Settlement, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// DefaultOrderStore builds stores backed by database.Queries.
func DefaultOrderStore(db database.DBTX) OrderStore {
	return database.New(db)
}

// EventPublisher receives table-map events after a mutation commits.
// Satisfied by *ws.Hub.
type EventPublisher interface {
	Publish(outletID int64, eventType string, payload interface{})
}

// ProofVerifier checks a re-authentication proof issued to userID.
type ProofVerifier func(proof string, userID int64) error

// withRetry re-runs fn when it fails on a unique constraint (a concurrent
// writer took the same KOT or bill number).
func withRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxUniqueRetries; attempt++ {
		err = fn()
		if err == nil || !database.IsUniqueViolation(err) {
			return err
		}
	}
	return err
}
