package database

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// GetLatestDayEnd returns the most recent day-end record of an outlet.
func (q *Queries) GetLatestDayEnd(ctx context.Context, outletID int64) (DayEndRecord, error) {
	var r DayEndRecord
	err := q.get(ctx, &r, `SELECT id, outlet_id, dayend_date, next_date, order_count, total_amount, created_by, closed_at
		FROM dayend_records WHERE outlet_id = ? ORDER BY dayend_date DESC, id DESC LIMIT 1`, outletID)
	return r, err
}

type CreateDayEndParams struct {
	OutletID    int64
	DayEndDate  string
	NextDate    string
	OrderCount  int
	TotalAmount decimal.Decimal
	CreatedBy   int64
	ClosedAt    time.Time
}

func (q *Queries) CreateDayEnd(ctx context.Context, arg CreateDayEndParams) (int64, error) {
	return q.insert(ctx, `INSERT INTO dayend_records (outlet_id, dayend_date, next_date, order_count, total_amount, created_by, closed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.OutletID, arg.DayEndDate, arg.NextDate, arg.OrderCount, arg.TotalAmount, arg.CreatedBy, arg.ClosedAt)
}
