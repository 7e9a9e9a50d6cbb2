package enum

// ── Group A: State machines ──

// Fulfillment status. pending is the only initial state; completed and
// cancelled are terminal.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Payment status is a one-way unpaid -> paid machine, independent of
// fulfillment status.
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// Payment gate states for the online confirmation sub-flow.
const (
	GateStatusProcessing = "processing"
	GateStatusSucceeded  = "succeeded"
	GateStatusFailed     = "failed"
)

// ── Group B: Labels ──

const (
	PaymentMethodCash   = "cash"
	PaymentMethodOnline = "online"
)

// Event types carried over the event channel.
const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
)
