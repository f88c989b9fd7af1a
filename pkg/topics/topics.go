// Package topics holds the logical topic names of the saga. The names are
// versioned because the payload contracts are stable: a breaking schema
// change gets a new topic, never a silent rewrite of an existing one.
package topics

const (
	Orders      = "orders.v1"
	Payments    = "payments.v1"
	Inventory   = "inventory.v1"
	OrderStatus = "order-status.v1"
	DeadLetter  = "dead-letter.v1"
)
