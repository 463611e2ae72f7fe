package service

import (
	"context"
	"fmt"

	"github.com/dinepos/api/internal/billing"
	"github.com/dinepos/api/internal/database"
	"github.com/dinepos/api/internal/enum"
)

// hydrate builds the domain order from its header row plus KOTs and lines.
// Billed and settled orders carry the bill frozen at billing; open orders are
// priced with the live tax rates of the table's department.
func hydrate(ctx context.Context, store OrderStore, row database.Order) (*billing.Order, error) {
	o := toDomainOrder(row)

	kots, err := store.ListKOTs(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("list kots: %w", err)
	}
	for _, k := range kots {
		o.KOTs = append(o.KOTs, billing.KOT{
			ID:         k.ID,
			OrderID:    k.OrderID,
			KOTNo:      k.KOTNo,
			KOTType:    k.KOTType,
			IsNoCharge: k.IsNC,
			NCName:     k.NCName,
			NCPurpose:  k.NCPurpose,
			CreatedBy:  k.CreatedBy,
			CreatedAt:  k.CreatedAt,
		})
	}

	lines, err := store.ListOrderLines(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	for _, l := range lines {
		o.Lines = append(o.Lines, billing.Line{
			ID:          l.ID,
			OrderID:     l.OrderID,
			KOTID:       l.KOTID,
			KOTNo:       l.KOTNo,
			ItemID:      l.ItemID,
			ItemName:    l.ItemName,
			Rate:        l.Rate,
			OriginalQty: l.OriginalQty,
			ReversedQty: l.ReversedQty,
			IsNoCharge:  l.IsNC,
			SpecialInst: l.SpecialInst,
		})
	}

	switch row.State {
	case enum.OrderStateBilled, enum.OrderStateSettled:
		o.Bill = storedBill(row)
	default:
		mode, rates, err := liveTax(ctx, store, row.OutletID, row.DepartmentID)
		if err != nil {
			return nil, err
		}
		o.TaxMode = mode
		o.Rates = rates
		o.Bill = o.Recompute()
	}
	return o, nil
}

// liveTax resolves the current tax mode of the outlet and the rates of the
// department's tax group.
func liveTax(ctx context.Context, store OrderStore, outletID, departmentID int64) (billing.TaxMode, billing.TaxRates, error) {
	outlet, err := store.GetOutlet(ctx, outletID)
	if err != nil {
		return "", billing.TaxRates{}, fmt.Errorf("get outlet: %w", err)
	}
	tg, err := store.GetTaxRates(ctx, outletID, departmentID)
	if err != nil {
		return "", billing.TaxRates{}, fmt.Errorf("get tax rates: %w", err)
	}
	return billing.ParseTaxMode(outlet.TaxMode), billing.TaxRates{CGST: tg.CGST, SGST: tg.SGST, IGST: tg.IGST, CESS: tg.CESS}, nil
}

func toDomainOrder(r database.Order) *billing.Order {
	o := &billing.Order{
		ID:             r.ID,
		OutletID:       r.OutletID,
		TableID:        r.TableID,
		TableName:      r.TableName,
		DepartmentID:   r.DepartmentID,
		OrderType:      r.OrderType,
		State:          r.State,
		WaiterName:     r.WaiterName,
		Pax:            r.Pax,
		CustomerName:   r.CustomerName.String,
		CustomerMobile: r.CustomerMobile.String,
		BusinessDate:   r.BusinessDate,
		TaxMode:        billing.ParseTaxMode(r.TaxMode),
		Rates: billing.TaxRates{
			CGST: r.CGSTRate,
			SGST: r.SGSTRate,
			IGST: r.IGSTRate,
			CESS: r.CESSRate,
		},
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
	}
	if r.CustomerID.Valid {
		id := r.CustomerID.Int64
		o.CustomerID = &id
	}
	if r.BillNo.Valid {
		n := r.BillNo.Int64
		o.BillNo = &n
	}
	if r.DiscountType.Valid && r.DiscountType.String != "" {
		o.Discount = &billing.Discount{Type: r.DiscountType.String, Value: r.DiscountValue.Decimal}
	}
	if r.BilledAt.Valid {
		t := r.BilledAt.Time
		o.BilledAt = &t
	}
	if r.SettledAt.Valid {
		t := r.SettledAt.Time
		o.SettledAt = &t
	}
	return o
}

func storedBill(r database.Order) billing.Bill {
	return billing.Bill{
		Gross:          r.Gross,
		DiscountAmount: r.DiscountAmount,
		Tax: billing.TaxBreakdown{
			LineTotal:  r.Gross.Sub(r.DiscountAmount),
			Subtotal:   r.Taxable,
			CGSTAmount: r.CGSTAmount,
			SGSTAmount: r.SGSTAmount,
			IGSTAmount: r.IGSTAmount,
			CESSAmount: r.CESSAmount,
			GrandTotal: r.GrandTotal,
		},
		NetDue: r.NetDue,
	}
}

func saveBillParams(o *billing.Order, b billing.Bill) database.SaveBillParams {
	return database.SaveBillParams{
		OrderID:        o.ID,
		TaxMode:        string(o.TaxMode),
		CGSTRate:       o.Rates.CGST,
		SGSTRate:       o.Rates.SGST,
		IGSTRate:       o.Rates.IGST,
		CESSRate:       o.Rates.CESS,
		Gross:          b.Gross,
		DiscountAmount: b.DiscountAmount,
		Taxable:        b.Tax.Subtotal,
		CGSTAmount:     b.Tax.CGSTAmount,
		SGSTAmount:     b.Tax.SGSTAmount,
		IGSTAmount:     b.Tax.IGSTAmount,
		CESSAmount:     b.Tax.CESSAmount,
		GrandTotal:     b.Tax.GrandTotal,
		NetDue:         b.NetDue,
	}
}
