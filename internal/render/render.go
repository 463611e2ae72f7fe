// Package render turns orders into plain-text KOT and bill printouts.
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dinepos/api/internal/billing"
	"github.com/dinepos/api/internal/enum"
	"github.com/shopspring/decimal"
)

const timeLayout = "02-01-2006 15:04"

type page struct {
	b     strings.Builder
	width int
}

func newPage(width int) *page {
	if width < minPaperWidth {
		width = defaultPaperWidth
	}
	return &page{width: width}
}

func (p *page) line(s string) {
	p.b.WriteString(s)
	p.b.WriteByte('\n')
}

func (p *page) center(s string) {
	n := utf8.RuneCountInString(s)
	if n >= p.width {
		p.line(s)
		return
	}
	p.line(strings.Repeat(" ", (p.width-n)/2) + s)
}

func (p *page) rule() {
	p.line(strings.Repeat("-", p.width))
}

// pair prints left and right aligned to the page edges.
func (p *page) pair(left, right string) {
	gap := p.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		gap = 1
	}
	p.line(left + strings.Repeat(" ", gap) + right)
}

func (p *page) String() string {
	return p.b.String()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func pct(d decimal.Decimal) string {
	return d.String() + "%"
}

func stamp(t time.Time) string {
	return t.Format(timeLayout)
}

func (s PrintSettings) header(p *page) {
	if s.ShowStoreName && s.OutletName != "" {
		p.center(s.OutletName)
	}
	for _, h := range s.HeaderLines {
		p.center(h)
	}
}

func (s PrintSettings) tableLabel(o *billing.Order) string {
	if o.OrderType == enum.OrderTypeQuickBill && s.HideTableNameQuickBill {
		return ""
	}
	return o.TableName
}

// KOT renders one kitchen order ticket of an order.
func KOT(kot billing.KOT, o *billing.Order, s PrintSettings) string {
	p := newPage(s.PaperWidth)
	s.header(p)

	if kot.IsNoCharge {
		p.center("*** NO CHARGE KOT ***")
	} else {
		p.center("KOT")
	}
	switch {
	case kot.KOTNo == 1 && s.ShowNewOrderTag:
		p.center("NEW ORDER")
	case kot.KOTNo > 1 && s.ShowRunningOrderTag:
		p.center("RUNNING ORDER")
	}
	p.rule()

	p.pair(fmt.Sprintf("KOT No: %s%d", s.KOTPrefix(o.OrderType), kot.KOTNo), stamp(kot.CreatedAt))
	if table := s.tableLabel(o); table != "" {
		p.line("Table: " + table)
	}
	if s.ShowWaiter && o.WaiterName != "" {
		p.line("Waiter: " + o.WaiterName)
	}
	if s.ShowCoversAsGuest && o.Pax > 0 {
		p.line(fmt.Sprintf("Guests: %d", o.Pax))
	}
	if kot.IsNoCharge {
		p.line("NC For: " + kot.NCName)
		p.line("Purpose: " + kot.NCPurpose)
	}
	p.rule()

	if s.ShowItemPrice {
		p.pair("Item", "Qty   Amount")
	} else {
		p.pair("Item", "Qty")
	}
	p.rule()

	for _, l := range o.LinesOfKOT(kot.KOTNo) {
		qty := fmt.Sprintf("%d", l.OriginalQty)
		if s.ShowItemPrice {
			qty = fmt.Sprintf("%-5d %s", l.OriginalQty, money(l.Rate.Mul(decimal.NewFromInt(l.OriginalQty))))
		}
		p.pair(l.ItemName, qty)
		if l.ReversedQty > 0 {
			p.line(fmt.Sprintf("  (reversed %d)", l.ReversedQty))
		}
		if s.ShowKOTNote && l.SpecialInst != "" {
			p.line("  * " + l.SpecialInst)
		}
	}
	p.rule()
	return p.String()
}

// Bill renders the customer bill of an order from its priced view.
func Bill(o *billing.Order, s PrintSettings) string {
	p := newPage(s.PaperWidth)
	s.header(p)
	p.center("TAX INVOICE")
	p.rule()

	billNo := "-"
	if o.BillNo != nil {
		billNo = fmt.Sprintf("%d", *o.BillNo)
	}
	billedAt := o.CreatedAt
	if o.BilledAt != nil {
		billedAt = *o.BilledAt
	}
	p.pair("Bill No: "+billNo, stamp(billedAt))
	if table := s.tableLabel(o); table != "" {
		p.line("Table: " + table)
	}
	if s.ShowWaiter && o.WaiterName != "" {
		p.line("Waiter: " + o.WaiterName)
	}
	if s.ShowCustomerOnBill && o.CustomerName != "" {
		p.line("Customer: " + o.CustomerName)
	}
	if s.ShowCustomerOnBill && o.CustomerMobile != "" {
		p.line("Mobile: " + o.CustomerMobile)
	}
	p.rule()
	p.pair("Item", "Qty   Rate   Amount")
	p.rule()

	for _, l := range o.NetLines() {
		if l.IsNoCharge {
			p.pair(l.ItemName, fmt.Sprintf("%d   NC", l.NetQty()))
			continue
		}
		p.pair(l.ItemName, fmt.Sprintf("%d   %s   %s", l.NetQty(), money(l.Rate), money(l.Amount())))
	}
	p.rule()

	bill := o.Bill
	p.pair("Gross", money(bill.Gross))
	if bill.DiscountAmount.IsPositive() {
		label := "Discount"
		if o.Discount != nil && o.Discount.Type == enum.DiscountTypePercentage {
			label = "Discount " + pct(o.Discount.Value)
		}
		p.pair(label, "-"+money(bill.DiscountAmount))
	}
	if s.ShowTaxBreakdown {
		p.pair("Taxable", money(bill.Tax.Subtotal))
		taxLine(p, "CGST", o.Rates.CGST, bill.Tax.CGSTAmount)
		taxLine(p, "SGST", o.Rates.SGST, bill.Tax.SGSTAmount)
		taxLine(p, "IGST", o.Rates.IGST, bill.Tax.IGSTAmount)
		taxLine(p, "CESS", o.Rates.CESS, bill.Tax.CESSAmount)
	}
	if o.TaxMode == billing.TaxInclusive {
		p.line("(Prices inclusive of tax)")
	}
	p.rule()
	p.pair("NET PAYABLE", money(bill.NetDue))
	p.rule()

	for _, f := range s.FooterLines {
		p.center(f)
	}
	return p.String()
}

func taxLine(p *page, name string, rate, amount decimal.Decimal) {
	if rate.IsZero() {
		return
	}
	p.pair(fmt.Sprintf("%s @ %s", name, pct(rate)), money(amount))
}
