package domain

import (
	"time"

	sharedDomain "github.com/streamcart/order-saga/pkg/domain"
)

// OrderView is the denormalized read model of one order. It is created from
// OrderCreated and later patched in place by OrderStatusChanged; the status
// fields stay empty until the saga round completes.
type OrderView struct {
	OrderID         string                   `json:"orderId" db:"id"`
	CustomerID      string                   `json:"customerId" db:"customer_id"`
	Lines           []sharedDomain.OrderLine `json:"lines" db:"lines"`
	Total           string                   `json:"total" db:"total"`
	Status          string                   `json:"status" db:"status"`
	CreatedAt       time.Time                `json:"createdAt" db:"created_at"`
	PaymentStatus   string                   `json:"paymentStatus,omitempty" db:"payment_status"`
	InventoryStatus string                   `json:"inventoryStatus,omitempty" db:"inventory_status"`
	FinalStatus     string                   `json:"finalStatus,omitempty" db:"final_status"`
	UpdatedAt       *time.Time               `json:"updatedAt,omitempty" db:"updated_at"`
}
