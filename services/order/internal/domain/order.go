package domain

import (
	"time"

	common "github.com/streamcart/order-saga/pkg/domain"
)

const StatusCreated = "CREATED"

// Order is the command-side record kept by the intake service. The saga
// outcome never flows back here: the authoritative post-saga state lives in
// the materialized view.
type Order struct {
	ID         string             `json:"orderId"`
	CustomerID string             `json:"customerId"`
	Lines      []common.OrderLine `json:"lines"`
	Total      string             `json:"total"`
	Status     string             `json:"status"`
	CreatedAt  time.Time          `json:"createdAt"`
}
