package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dinepos/api/internal/enum"
)

const (
	minPaperWidth     = 24
	defaultPaperWidth = 42
)

// PrintSettings controls what a KOT or bill printout shows. Stored per
// outlet as JSON; keys missing from the stored document keep their defaults.
type PrintSettings struct {
	OutletName             string   `json:"outlet_name"`
	HeaderLines            []string `json:"header_lines"`
	FooterLines            []string `json:"footer_lines"`
	PaperWidth             int      `json:"paper_width"`
	ShowStoreName          bool     `json:"show_store_name"`
	ShowItemPrice          bool     `json:"show_item_price"`
	ShowWaiter             bool     `json:"show_waiter"`
	ShowCoversAsGuest      bool     `json:"show_covers_as_guest"`
	ShowKOTNote            bool     `json:"show_kot_note"`
	ShowNewOrderTag        bool     `json:"show_new_order_tag"`
	ShowRunningOrderTag    bool     `json:"show_running_order_tag"`
	HideTableNameQuickBill bool     `json:"hide_table_name_quick_bill"`
	ShowTaxBreakdown       bool     `json:"show_tax_breakdown"`
	ShowCustomerOnBill     bool     `json:"show_customer_on_bill"`
	DineInKOTPrefix        string   `json:"dine_in_kot_prefix"`
	PickupKOTPrefix        string   `json:"pickup_kot_prefix"`
	DeliveryKOTPrefix      string   `json:"delivery_kot_prefix"`
	QuickBillKOTPrefix     string   `json:"quick_bill_kot_prefix"`
}

// DefaultPrintSettings returns the settings used for an outlet that never
// saved any.
func DefaultPrintSettings() PrintSettings {
	return PrintSettings{
		FooterLines:         []string{"Thank you! Visit again."},
		PaperWidth:          defaultPaperWidth,
		ShowStoreName:       true,
		ShowWaiter:          true,
		ShowCoversAsGuest:   true,
		ShowKOTNote:         true,
		ShowNewOrderTag:     true,
		ShowRunningOrderTag: true,
		ShowTaxBreakdown:    true,
		ShowCustomerOnBill:  true,
		DineInKOTPrefix:     "DI",
		PickupKOTPrefix:     "PU",
		DeliveryKOTPrefix:   "DL",
		QuickBillKOTPrefix:  "QB",
	}
}

// LoadPrintSettings merges a stored JSON document over the defaults.
// An empty document yields the defaults.
func LoadPrintSettings(raw string) (PrintSettings, error) {
	s := DefaultPrintSettings()
	if strings.TrimSpace(raw) == "" {
		return s, nil
	}
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return DefaultPrintSettings(), fmt.Errorf("decode print settings: %w", err)
	}
	return s.normalized(), nil
}

// Validate rejects settings that cannot be printed.
func (s PrintSettings) Validate() error {
	if s.PaperWidth != 0 && s.PaperWidth < minPaperWidth {
		return fmt.Errorf("paper_width must be at least %d", minPaperWidth)
	}
	return nil
}

func (s PrintSettings) normalized() PrintSettings {
	if s.PaperWidth < minPaperWidth {
		s.PaperWidth = defaultPaperWidth
	}
	return s
}

// KOTPrefix is the ticket number prefix for an order type.
func (s PrintSettings) KOTPrefix(orderType string) string {
	switch orderType {
	case enum.OrderTypePickup:
		return s.PickupKOTPrefix
	case enum.OrderTypeDelivery:
		return s.DeliveryKOTPrefix
	case enum.OrderTypeQuickBill:
		return s.QuickBillKOTPrefix
	default:
		return s.DineInKOTPrefix
	}
}
