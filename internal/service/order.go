package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dinepos/api/internal/billing"
	"github.com/dinepos/api/internal/database"
	"github.com/dinepos/api/internal/enum"
	"github.com/google/uuid"
)

// AppendKOTRequest is the validated input for issuing a KOT on a table.
// The first KOT on a free table opens the order.
type AppendKOTRequest struct {
	OutletID   int64
	TableID    int64
	OrderType  string
	WaiterName string
	Pax        int
	KOTType    string
	IsNoCharge bool
	NCName     string
	NCPurpose  string
	CreatedBy  int64
	Items      []KOTItem
}

// KOTItem is a single menu item on a KOT.
type KOTItem struct {
	ItemID      int64
	Qty         int64
	SpecialInst string
}

// AppendKOTResult is the new ticket plus the refreshed order.
type AppendKOTResult struct {
	KOT   billing.KOT
	Order *billing.Order
}

// ReverseRequest reduces quantities on an order.
type ReverseRequest struct {
	OutletID  int64
	OrderID   int64
	UserID    int64
	AuthProof string
	Lines     []billing.ReversalRequest
}

// ReverseResult holds the audit rows written by a reversal batch.
type ReverseResult struct {
	Records []database.ReversalRecord
	Order   *billing.Order
}

// CustomerInfo is the optional customer captured at billing.
type CustomerInfo struct {
	Name   string
	Mobile string
}

// MarkBilledRequest freezes an order into a bill.
type MarkBilledRequest struct {
	OutletID int64
	OrderID  int64
	UserID   int64
	Customer *CustomerInfo
}

// ApplyDiscountRequest sets the order-level discount.
type ApplyDiscountRequest struct {
	OutletID int64
	OrderID  int64
	UserID   int64
	Discount billing.Discount
}

// SettleRequest records payment for a billed order.
type SettleRequest struct {
	OutletID int64
	OrderID  int64
	UserID   int64
	Entries  []billing.SettlementEntry
}

// SettleResult is the settlement batch and the closed order.
type SettleResult struct {
	BatchID     uuid.UUID
	Settlements []database.Settlement
	Order       *billing.Order
}

// ReverseBillRequest un-bills an order.
type ReverseBillRequest struct {
	OutletID  int64
	OrderID   int64
	UserID    int64
	AuthProof string
}

// OrderDetail is an order with its audit trail.
type OrderDetail struct {
	Order       *billing.Order
	Reversals   []database.ReversalRecord
	Settlements []database.Settlement
}

// TableEvent is the payload broadcast on the table map.
type TableEvent struct {
	TableID     int64  `json:"table_id"`
	OrderID     int64  `json:"order_id"`
	State       string `json:"state"`
	TableStatus string `json:"table_status"`
}

// OrderService runs the order lifecycle of a table: KOTs, reversals,
// billing, discount, settlement and bill reversal. Every mutation holds the
// table's lock and runs in one transaction.
type OrderService struct {
	pool        TxBeginner
	reader      OrderStore
	newStore    NewOrderStore
	verifyProof ProofVerifier
	events      EventPublisher
	locks       *tableLocks
	now         func() time.Time
}

// NewOrderService creates a new OrderService. reader serves lock-free reads;
// newStore builds a store over each transaction. events may be nil.
func NewOrderService(pool TxBeginner, reader OrderStore, newStore NewOrderStore, verifyProof ProofVerifier, events EventPublisher) *OrderService {
	return &OrderService{
		pool:        pool,
		reader:      reader,
		newStore:    newStore,
		verifyProof: verifyProof,
		events:      events,
		locks:       newTableLocks(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// LoadForTable returns the single order shown for a table: a billed order
// wins over an unbilled one; with neither the table is EMPTY.
func (s *OrderService) LoadForTable(ctx context.Context, outletID, tableID int64) (*billing.TableOrder, error) {
	if _, err := s.reader.GetTable(ctx, outletID, tableID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: table %d", billing.ErrNotFound, tableID)
		}
		return nil, fmt.Errorf("get table: %w", err)
	}

	rows, err := s.reader.ListOpenOrdersForTable(ctx, outletID, tableID)
	if err != nil {
		return nil, fmt.Errorf("list open orders: %w", err)
	}
	if len(rows) == 0 {
		return &billing.TableOrder{State: enum.OrderStateEmpty}, nil
	}

	o, err := hydrate(ctx, s.reader, rows[0])
	if err != nil {
		return nil, err
	}
	return &billing.TableOrder{State: o.State, Order: o}, nil
}

// GetOrder returns an order with its reversals and settlements.
func (s *OrderService) GetOrder(ctx context.Context, outletID, orderID int64) (*OrderDetail, error) {
	row, err := s.reader.GetOrder(ctx, outletID, orderID)
	if err != nil {
		return nil, orderLookupErr(err, orderID)
	}
	o, err := hydrate(ctx, s.reader, row)
	if err != nil {
		return nil, err
	}
	reversals, err := s.reader.ListReversals(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list reversals: %w", err)
	}
	settlements, err := s.reader.ListSettlements(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	return &OrderDetail{Order: o, Reversals: reversals, Settlements: settlements}, nil
}

// AppendKOT issues the next KOT on the table's open order, opening one if
// the table is free.
func (s *OrderService) AppendKOT(ctx context.Context, req AppendKOTRequest) (*AppendKOTResult, error) {
	// --- Validate input ---
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items are required", billing.ErrValidation)
	}
	for i, it := range req.Items {
		if it.Qty <= 0 {
			return nil, fmt.Errorf("%w: items[%d]: quantity must be > 0", billing.ErrValidation, i)
		}
	}
	if req.IsNoCharge && (strings.TrimSpace(req.NCName) == "" || strings.TrimSpace(req.NCPurpose) == "") {
		return nil, fmt.Errorf("%w: no-charge KOT requires nc_name and nc_purpose", billing.ErrValidation)
	}
	if req.OrderType == "" {
		req.OrderType = enum.OrderTypeDineIn
	}
	if !isValidOrderType(req.OrderType) {
		return nil, fmt.Errorf("%w: invalid order_type %q", billing.ErrValidation, req.OrderType)
	}

	unlock := s.locks.lock(req.TableID)
	defer unlock()

	var (
		orderID int64
		kotNo   int
	)
	err := withRetry(func() error {
		var err error
		orderID, kotNo, err = s.appendKOTTx(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	o, err := s.reload(ctx, req.OutletID, orderID)
	if err != nil {
		return nil, err
	}
	kot, _ := o.KOT(kotNo)
	s.publish(o, enum.EventKOTCreated)
	return &AppendKOTResult{KOT: kot, Order: o}, nil
}

func (s *OrderService) appendKOTTx(ctx context.Context, req AppendKOTRequest) (int64, int, error) {
	tx, err := s.pool.BeginTxx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	store := s.newStore(tx)
	now := s.now()

	table, err := store.GetTable(ctx, req.OutletID, req.TableID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, fmt.Errorf("%w: table %d", billing.ErrNotFound, req.TableID)
		}
		return 0, 0, fmt.Errorf("get table: %w", err)
	}

	// --- Find or open the order ---
	open, err := store.ListOpenOrdersForTable(ctx, req.OutletID, req.TableID)
	if err != nil {
		return 0, 0, fmt.Errorf("list open orders: %w", err)
	}
	var orderID int64
	if len(open) > 0 {
		if err := billing.CheckTransition(open[0].State, billing.ActionAppendKOT); err != nil {
			return 0, 0, err
		}
		orderID = open[0].ID
	} else {
		if err := store.LockOutlet(ctx, req.OutletID); err != nil {
			return 0, 0, fmt.Errorf("lock outlet: %w", err)
		}
		outlet, err := store.GetOutlet(ctx, req.OutletID)
		if err != nil {
			return 0, 0, fmt.Errorf("get outlet: %w", err)
		}
		bizDate, err := businessDate(ctx, store, req.OutletID, now)
		if err != nil {
			return 0, 0, err
		}
		orderID, err = store.CreateOrder(ctx, database.CreateOrderParams{
			OutletID:     req.OutletID,
			TableID:      table.ID,
			DepartmentID: table.DepartmentID,
			OrderType:    req.OrderType,
			WaiterName:   req.WaiterName,
			Pax:          req.Pax,
			BusinessDate: bizDate,
			TaxMode:      outlet.TaxMode,
			CreatedBy:    req.CreatedBy,
			CreatedAt:    now,
		})
		if err != nil {
			return 0, 0, fmt.Errorf("create order: %w", err)
		}
	}

	// --- Number and write the KOT ---
	kotNo, err := store.NextKOTNo(ctx, orderID)
	if err != nil {
		return 0, 0, fmt.Errorf("next kot no: %w", err)
	}
	kotID, err := store.CreateKOT(ctx, database.CreateKOTParams{
		OrderID:   orderID,
		KOTNo:     kotNo,
		KOTType:   req.KOTType,
		IsNC:      req.IsNoCharge,
		NCName:    strings.TrimSpace(req.NCName),
		NCPurpose: strings.TrimSpace(req.NCPurpose),
		CreatedBy: req.CreatedBy,
		CreatedAt: now,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("create kot: %w", err)
	}

	for i, it := range req.Items {
		item, err := store.GetMenuItem(ctx, req.OutletID, it.ItemID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, 0, fmt.Errorf("%w: items[%d]: item %d not found in outlet", billing.ErrValidation, i, it.ItemID)
			}
			return 0, 0, fmt.Errorf("items[%d]: get menu item: %w", i, err)
		}
		if !item.IsActive {
			return 0, 0, fmt.Errorf("%w: items[%d]: %s is not available", billing.ErrValidation, i, item.Name)
		}
		if _, err := store.CreateOrderLine(ctx, database.CreateOrderLineParams{
			OrderID:     orderID,
			KOTID:       kotID,
			ItemID:      item.ID,
			ItemName:    item.Name,
			Rate:        item.Rate,
			Qty:         it.Qty,
			IsNC:        req.IsNoCharge,
			SpecialInst: strings.TrimSpace(it.SpecialInst),
		}); err != nil {
			return 0, 0, fmt.Errorf("items[%d]: create order line: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit tx: %w", err)
	}
	return orderID, kotNo, nil
}

// Reverse takes quantities off order lines. The batch is validated as a
// whole before anything is written. On a billed order it needs a fresh
// password proof and the bill is recomputed.
func (s *OrderService) Reverse(ctx context.Context, req ReverseRequest) (*ReverseResult, error) {
	var recIDs []int64
	o, err := s.mutate(ctx, req.OutletID, req.OrderID, func(store OrderStore, o *billing.Order, now time.Time) error {
		if err := billing.CheckTransition(o.State, billing.ActionReverse); err != nil {
			return err
		}
		if billing.RequiresReauth(o.State, billing.ActionReverse) {
			if err := s.checkProof(req.AuthProof, req.UserID); err != nil {
				return err
			}
		}
		totals, err := billing.ValidateReversal(o, req.Lines)
		if err != nil {
			return err
		}

		for lineID, qty := range totals {
			ok, err := store.AddReversedQty(ctx, lineID, qty)
			if err != nil {
				return fmt.Errorf("reverse line %d: %w", lineID, err)
			}
			if !ok {
				return fmt.Errorf("%w: line %d changed concurrently", billing.ErrOverReversal, lineID)
			}
			for i := range o.Lines {
				if o.Lines[i].ID == lineID {
					o.Lines[i].ReversedQty += qty
				}
			}
		}
		for _, r := range req.Lines {
			id, err := store.CreateReversal(ctx, database.CreateReversalParams{
				OrderID:    o.ID,
				LineID:     r.LineID,
				Qty:        r.Qty,
				Reason:     strings.TrimSpace(r.Reason),
				OrderState: o.State,
				ReversedBy: req.UserID,
				CreatedAt:  now,
			})
			if err != nil {
				return fmt.Errorf("create reversal: %w", err)
			}
			recIDs = append(recIDs, id)
		}

		// --- Follow-on state ---
		if !o.HasNetLines() {
			return store.UpdateOrderState(ctx, o.ID, enum.OrderStateReversed, now)
		}
		if o.State == enum.OrderStateBilled {
			p := saveBillParams(o, o.Recompute())
			p.UpdatedAt = now
			return store.SaveBill(ctx, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	all, err := s.reader.ListReversals(ctx, o.ID)
	if err != nil {
		return nil, fmt.Errorf("list reversals: %w", err)
	}
	want := make(map[int64]bool, len(recIDs))
	for _, id := range recIDs {
		want[id] = true
	}
	res := &ReverseResult{Order: o}
	for _, r := range all {
		if want[r.ID] {
			res.Records = append(res.Records, r)
		}
	}
	s.publish(o, enum.EventKOTReversed)
	return res, nil
}

// MarkBilled prices the order's net lines with the department's tax rates,
// freezes that snapshot and assigns a bill number.
func (s *OrderService) MarkBilled(ctx context.Context, req MarkBilledRequest) (*billing.Order, error) {
	var mobile string
	if req.Customer != nil {
		mobile = strings.TrimSpace(req.Customer.Mobile)
		if req.Customer.Name != "" && mobile == "" {
			return nil, fmt.Errorf("%w: customer mobile is required", billing.ErrValidation)
		}
	}

	o, err := s.mutate(ctx, req.OutletID, req.OrderID, func(store OrderStore, o *billing.Order, now time.Time) error {
		if err := billing.CheckTransition(o.State, billing.ActionMarkBilled); err != nil {
			return err
		}
		if !o.HasNetLines() {
			return billing.ErrEmptyOrder
		}

		mode, rates, err := liveTax(ctx, store, o.OutletID, o.DepartmentID)
		if err != nil {
			return err
		}
		o.TaxMode, o.Rates = mode, rates
		p := saveBillParams(o, o.Recompute())
		p.UpdatedAt = now
		if err := store.SaveBill(ctx, p); err != nil {
			return fmt.Errorf("save bill: %w", err)
		}

		var customerID sql.NullInt64
		if mobile != "" {
			id, err := findOrCreateCustomer(ctx, store, o.OutletID, strings.TrimSpace(req.Customer.Name), mobile)
			if err != nil {
				return err
			}
			customerID = sql.NullInt64{Int64: id, Valid: true}
		}

		billNo := int64(0)
		if o.BillNo != nil {
			billNo = *o.BillNo
		} else if billNo, err = store.NextBillNo(ctx, o.OutletID); err != nil {
			return fmt.Errorf("next bill no: %w", err)
		}

		ok, err := store.MarkOrderBilled(ctx, database.MarkBilledParams{
			OrderID:    o.ID,
			BillNo:     billNo,
			CustomerID: customerID,
			BilledAt:   now,
		})
		if err != nil {
			return fmt.Errorf("mark billed: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: order is no longer open for billing", billing.ErrInvalidState)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(o, enum.EventOrderBilled)
	return o, nil
}

// ApplyDiscount stores the order-level discount. On a billed order the bill
// is recomputed with its frozen tax snapshot.
func (s *OrderService) ApplyDiscount(ctx context.Context, req ApplyDiscountRequest) (*billing.Order, error) {
	if err := req.Discount.Validate(); err != nil {
		return nil, err
	}

	o, err := s.mutate(ctx, req.OutletID, req.OrderID, func(store OrderStore, o *billing.Order, now time.Time) error {
		if err := billing.CheckTransition(o.State, billing.ActionApplyDiscount); err != nil {
			return err
		}
		if err := store.SetOrderDiscount(ctx, o.ID, req.Discount.Type, req.Discount.Value, now); err != nil {
			return fmt.Errorf("set discount: %w", err)
		}
		if o.State == enum.OrderStateBilled {
			d := req.Discount
			o.Discount = &d
			p := saveBillParams(o, o.Recompute())
			p.UpdatedAt = now
			if err := store.SaveBill(ctx, p); err != nil {
				return fmt.Errorf("save bill: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(o, enum.EventOrderDiscounted)
	return o, nil
}

// Settle records the payment entries of a billed order and closes it. The
// entries must add up to the net due exactly.
func (s *OrderService) Settle(ctx context.Context, req SettleRequest) (*SettleResult, error) {
	batchID := uuid.New()
	o, err := s.mutate(ctx, req.OutletID, req.OrderID, func(store OrderStore, o *billing.Order, now time.Time) error {
		if err := billing.CheckTransition(o.State, billing.ActionSettle); err != nil {
			return err
		}

		modes, err := store.ListPaymentModes(ctx, o.OutletID)
		if err != nil {
			return fmt.Errorf("list payment modes: %w", err)
		}
		known := make(map[string]bool, len(modes))
		for _, m := range modes {
			known[m.Code] = true
		}
		if err := billing.ValidateSettlement(o.Bill.NetDue, req.Entries, func(code string) bool { return known[code] }); err != nil {
			return err
		}

		for i, e := range req.Entries {
			if _, err := store.CreateSettlement(ctx, database.CreateSettlementParams{
				OrderID:     o.ID,
				BatchID:     batchID.String(),
				PaymentMode: strings.TrimSpace(e.PaymentMode),
				Amount:      e.Amount,
				Reference:   e.Reference,
				SettledBy:   req.UserID,
				CreatedAt:   now,
			}); err != nil {
				return fmt.Errorf("entries[%d]: create settlement: %w", i, err)
			}
		}
		ok, err := store.MarkOrderSettled(ctx, o.ID, now)
		if err != nil {
			return fmt.Errorf("mark settled: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: order is no longer billed", billing.ErrInvalidState)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	settlements, err := s.reader.ListSettlements(ctx, o.ID)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	s.publish(o, enum.EventOrderSettled)
	return &SettleResult{BatchID: batchID, Settlements: settlements, Order: o}, nil
}

// ReverseBill un-bills an order so it can take more KOTs. It needs a fresh
// password proof. An order with nothing left goes to REVERSED.
func (s *OrderService) ReverseBill(ctx context.Context, req ReverseBillRequest) (*billing.Order, error) {
	o, err := s.mutate(ctx, req.OutletID, req.OrderID, func(store OrderStore, o *billing.Order, now time.Time) error {
		if err := billing.CheckTransition(o.State, billing.ActionReverseBill); err != nil {
			return err
		}
		if err := s.checkProof(req.AuthProof, req.UserID); err != nil {
			return err
		}
		next := enum.OrderStateOrdering
		if !o.HasNetLines() {
			next = enum.OrderStateReversed
		}
		if err := store.ReopenOrder(ctx, o.ID, next, now); err != nil {
			return fmt.Errorf("reopen order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(o, enum.EventOrderBillReverse)
	return o, nil
}

// mutate locks the order's table, re-reads the order inside a transaction,
// runs fn and commits. The refreshed order is returned.
func (s *OrderService) mutate(ctx context.Context, outletID, orderID int64, fn func(store OrderStore, o *billing.Order, now time.Time) error) (*billing.Order, error) {
	head, err := s.reader.GetOrder(ctx, outletID, orderID)
	if err != nil {
		return nil, orderLookupErr(err, orderID)
	}

	unlock := s.locks.lock(head.TableID)
	defer unlock()

	err = withRetry(func() error {
		tx, err := s.pool.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck

		store := s.newStore(tx)
		row, err := store.GetOrder(ctx, outletID, orderID)
		if err != nil {
			return orderLookupErr(err, orderID)
		}
		o, err := hydrate(ctx, store, row)
		if err != nil {
			return err
		}
		if err := fn(store, o, s.now()); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, outletID, orderID)
}

func (s *OrderService) reload(ctx context.Context, outletID, orderID int64) (*billing.Order, error) {
	row, err := s.reader.GetOrder(ctx, outletID, orderID)
	if err != nil {
		return nil, orderLookupErr(err, orderID)
	}
	return hydrate(ctx, s.reader, row)
}

func (s *OrderService) checkProof(proof string, userID int64) error {
	if strings.TrimSpace(proof) == "" {
		return billing.ErrAuthRequired
	}
	if s.verifyProof == nil {
		return billing.ErrInvalidCredentials
	}
	if err := s.verifyProof(proof, userID); err != nil {
		return fmt.Errorf("%w: %v", billing.ErrInvalidCredentials, err)
	}
	return nil
}

func (s *OrderService) publish(o *billing.Order, eventType string) {
	if s.events == nil {
		return
	}
	s.events.Publish(o.OutletID, eventType, TableEvent{
		TableID:     o.TableID,
		OrderID:     o.ID,
		State:       o.State,
		TableStatus: billing.TableStatus(o.State),
	})
}

func findOrCreateCustomer(ctx context.Context, store OrderStore, outletID int64, name, mobile string) (int64, error) {
	c, err := store.GetCustomerByMobile(ctx, outletID, mobile)
	if err == nil {
		if c.Name == "" && name != "" {
			if err := store.UpdateCustomerName(ctx, c.ID, name); err != nil {
				return 0, fmt.Errorf("update customer: %w", err)
			}
		}
		return c.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("get customer: %w", err)
	}
	id, err := store.CreateCustomer(ctx, outletID, name, mobile)
	if err != nil {
		return 0, fmt.Errorf("create customer: %w", err)
	}
	return id, nil
}

func orderLookupErr(err error, orderID int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: order %d", billing.ErrNotFound, orderID)
	}
	return fmt.Errorf("get order: %w", err)
}

func isValidOrderType(t string) bool {
	switch t {
	case enum.OrderTypeDineIn, enum.OrderTypePickup, enum.OrderTypeDelivery, enum.OrderTypeQuickBill:
		return true
	}
	return false
}
