package enum

// ── Group A: State machines (CHECK constrained in DB) ──

// Order states. EMPTY is never stored; it is what loadForTable reports when a
// table has no open order.
const (
	OrderStateEmpty    = "EMPTY"
	OrderStateOrdering = "ORDERING"
	OrderStateBilled   = "BILLED"
	OrderStateSettled  = "SETTLED"
	OrderStateReversed = "REVERSED"
)

const (
	TableStatusFree     = "FREE"
	TableStatusOccupied = "OCCUPIED"
	TableStatusBilled   = "BILLED"
)

// ── Group C: Borderline (CHECK constrained in DB) ──

const (
	UserRoleOwner   = "OWNER"
	UserRoleManager = "MANAGER"
	UserRoleCashier = "CASHIER"
	UserRoleWaiter  = "WAITER"
)

const (
	OrderTypeDineIn    = "DINE_IN"
	OrderTypePickup    = "PICKUP"
	OrderTypeDelivery  = "DELIVERY"
	OrderTypeQuickBill = "QUICK_BILL"
)

const (
	TaxModeExclusive = "EXCLUSIVE"
	TaxModeInclusive = "INCLUSIVE"
)

// ── Group B: Configurable labels (no DB constraint) ──

const (
	PaymentModeCash = "CASH"
	PaymentModeCard = "CARD"
	PaymentModeUPI  = "UPI"
)

const (
	DiscountTypePercentage = "PERCENTAGE"
	DiscountTypeFixed      = "FIXED_AMOUNT"
)

// Websocket event types broadcast on the outlet table map.
const (
	EventKOTCreated       = "kot.created"
	EventKOTReversed      = "kot.reversed"
	EventOrderBilled      = "order.billed"
	EventOrderDiscounted  = "order.discounted"
	EventOrderSettled     = "order.settled"
	EventOrderBillReverse = "order.bill_reversed"
	EventDayClosed        = "day.closed"
)
