package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dinepos/api/internal/billing"
	"github.com/dinepos/api/internal/database"
	"github.com/dinepos/api/internal/enum"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// DayEndStore defines the DB methods needed for day-end.
type DayEndStore interface {
	LockOutlet(ctx context.Context, outletID int64) error
	GetLatestDayEnd(ctx context.Context, outletID int64) (database.DayEndRecord, error)
	CreateDayEnd(ctx context.Context, arg database.CreateDayEndParams) (int64, error)
	ListOpenOrdersByOutlet(ctx context.Context, outletID int64) ([]database.Order, error)
	ListOrdersByBusinessDate(ctx context.Context, outletID int64, businessDate string) ([]database.Order, error)
	ListSettlementsByBusinessDate(ctx context.Context, outletID int64, businessDate string) ([]database.Settlement, error)
}

type latestDayEndGetter interface {
	GetLatestDayEnd(ctx context.Context, outletID int64) (database.DayEndRecord, error)
}

// businessDate is the next_date of the latest day-end record, or today.
func businessDate(ctx context.Context, store latestDayEndGetter, outletID int64, now time.Time) (string, error) {
	rec, err := store.GetLatestDayEnd(ctx, outletID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return now.Format(dateLayout), nil
		}
		return "", fmt.Errorf("get latest day end: %w", err)
	}
	return rec.NextDate, nil
}

// PaymentTotal is the settled amount of one payment mode.
type PaymentTotal struct {
	PaymentMode string          `json:"payment_mode"`
	Amount      decimal.Decimal `json:"amount"`
}

// DayEndSummary describes the current business date of an outlet.
type DayEndSummary struct {
	BusinessDate  string          `json:"business_date"`
	OrdersByState map[string]int  `json:"orders_by_state"`
	PendingTables []string        `json:"pending_tables"`
	Payments      []PaymentTotal  `json:"payments"`
	TotalSettled  decimal.Decimal `json:"total_settled"`
}

// DayEndService closes business days.
type DayEndService struct {
	pool     TxBeginner
	reader   DayEndStore
	newStore func(db database.DBTX) DayEndStore
	events   EventPublisher
	now      func() time.Time
}

// NewDayEndService creates a new DayEndService. events may be nil.
func NewDayEndService(pool TxBeginner, reader DayEndStore, newStore func(db database.DBTX) DayEndStore, events EventPublisher) *DayEndService {
	return &DayEndService{
		pool:     pool,
		reader:   reader,
		newStore: newStore,
		events:   events,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// DefaultDayEndStore builds stores backed by database.Queries.
func DefaultDayEndStore(db database.DBTX) DayEndStore {
	return database.New(db)
}

// BusinessDate returns the outlet's current business date.
func (s *DayEndService) BusinessDate(ctx context.Context, outletID int64) (string, error) {
	return businessDate(ctx, s.reader, outletID, s.now())
}

// Summary counts the orders of the current business date and totals their
// settlements per payment mode.
func (s *DayEndService) Summary(ctx context.Context, outletID int64) (*DayEndSummary, error) {
	return summarize(ctx, s.reader, outletID, s.now())
}

func summarize(ctx context.Context, store DayEndStore, outletID int64, now time.Time) (*DayEndSummary, error) {
	date, err := businessDate(ctx, store, outletID, now)
	if err != nil {
		return nil, err
	}

	orders, err := store.ListOrdersByBusinessDate(ctx, outletID, date)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	byState := make(map[string]int)
	for _, o := range orders {
		byState[o.State]++
	}

	open, err := store.ListOpenOrdersByOutlet(ctx, outletID)
	if err != nil {
		return nil, fmt.Errorf("list open orders: %w", err)
	}
	pending := make([]string, 0, len(open))
	for _, o := range open {
		pending = append(pending, o.TableName)
	}

	settlements, err := store.ListSettlementsByBusinessDate(ctx, outletID, date)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	totals := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, st := range settlements {
		totals[st.PaymentMode] = totals[st.PaymentMode].Add(st.Amount)
		total = total.Add(st.Amount)
	}
	payments := make([]PaymentTotal, 0, len(totals))
	for mode, amt := range totals {
		payments = append(payments, PaymentTotal{PaymentMode: mode, Amount: amt})
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].PaymentMode < payments[j].PaymentMode })

	return &DayEndSummary{
		BusinessDate:  date,
		OrdersByState: byState,
		PendingTables: pending,
		Payments:      payments,
		TotalSettled:  total,
	}, nil
}

// CloseDay records the end of the current business date. It refuses while
// any table still holds an open order. The outlet lock keeps a first KOT from
// opening an order on the day being closed.
func (s *DayEndService) CloseDay(ctx context.Context, outletID, userID int64) (*database.DayEndRecord, *DayEndSummary, error) {
	tx, err := s.pool.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	store := s.newStore(tx)
	now := s.now()

	if err := store.LockOutlet(ctx, outletID); err != nil {
		return nil, nil, fmt.Errorf("lock outlet: %w", err)
	}
	sum, err := summarize(ctx, store, outletID, now)
	if err != nil {
		return nil, nil, err
	}
	if len(sum.PendingTables) > 0 {
		return nil, nil, fmt.Errorf("%w: settle pending tables first: %s", billing.ErrInvalidState, strings.Join(sum.PendingTables, ", "))
	}

	day, err := time.Parse(dateLayout, sum.BusinessDate)
	if err != nil {
		return nil, nil, fmt.Errorf("parse business date %q: %w", sum.BusinessDate, err)
	}
	rec := database.DayEndRecord{
		OutletID:    outletID,
		DayEndDate:  sum.BusinessDate,
		NextDate:    day.AddDate(0, 0, 1).Format(dateLayout),
		OrderCount:  sum.OrdersByState[enum.OrderStateSettled],
		TotalAmount: sum.TotalSettled,
		CreatedBy:   userID,
		ClosedAt:    now,
	}
	rec.ID, err = store.CreateDayEnd(ctx, database.CreateDayEndParams{
		OutletID:    rec.OutletID,
		DayEndDate:  rec.DayEndDate,
		NextDate:    rec.NextDate,
		OrderCount:  rec.OrderCount,
		TotalAmount: rec.TotalAmount,
		CreatedBy:   rec.CreatedBy,
		ClosedAt:    rec.ClosedAt,
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, nil, fmt.Errorf("%w: day %s is already closed", billing.ErrInvalidState, rec.DayEndDate)
		}
		return nil, nil, fmt.Errorf("create day end: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit tx: %w", err)
	}
	if s.events != nil {
		s.events.Publish(outletID, enum.EventDayClosed, map[string]string{
			"dayend_date": rec.DayEndDate,
			"next_date":   rec.NextDate,
		})
	}
	return &rec, sum, nil
}
