// Package domain defines the event contracts shared by every service in the
// saga. Events are immutable once published; the correlation id travels in
// transport headers, never inside these payloads.
package domain

import "time"

// Payment and inventory outcome statuses as they appear on the wire. The
// status aggregator treats any other value as a programmer error.
const (
	PaymentStatusAuthorized = "AUTHORIZED"
	PaymentStatusFailed     = "FAILED"

	InventoryStatusReserved = "RESERVED"
	InventoryStatusRejected = "REJECTED"

	FinalStatusConfirmed = "CONFIRMED"
	FinalStatusRejected  = "REJECTED"
)

type OrderLine struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

// OrderCreated is produced exactly once per order by the order service.
// Total is a decimal string; parsing it is the payment service's concern.
type OrderCreated struct {
	OrderID    string      `json:"orderId"`
	CustomerID string      `json:"customerId"`
	Lines      []OrderLine `json:"lines"`
	Total      string      `json:"total"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
}

type StockReserved struct {
	OrderID    string      `json:"orderId"`
	Lines      []OrderLine `json:"lines"`
	ReservedAt time.Time   `json:"reservedAt"`
}

type StockRejected struct {
	OrderID    string    `json:"orderId"`
	Reason     string    `json:"reason"`
	RejectedAt time.Time `json:"rejectedAt"`
}

type PaymentAuthorized struct {
	OrderID      string    `json:"orderId"`
	Amount       string    `json:"amount"`
	AuthorizedAt time.Time `json:"authorizedAt"`
}

type PaymentFailed struct {
	OrderID  string    `json:"orderId"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failedAt"`
}

// OrderStatusChanged is the terminal saga result, emitted at most once per
// order per saga round by the status service.
type OrderStatusChanged struct {
	OrderID         string    `json:"orderId"`
	PaymentStatus   string    `json:"paymentStatus"`
	InventoryStatus string    `json:"inventoryStatus"`
	FinalStatus     string    `json:"finalStatus"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
