package domain

import (
	"encoding/json"
	"fmt"
)

// Envelope is the wire wrapper around every event payload. Consumers
// dispatch on Event before decoding Payload into a concrete type.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Event type names as carried in the envelope.
const (
	EventOrderCreated       = "OrderCreated"
	EventStockReserved      = "StockReserved"
	EventStockRejected      = "StockRejected"
	EventPaymentAuthorized  = "PaymentAuthorized"
	EventPaymentFailed      = "PaymentFailed"
	EventOrderStatusChanged = "OrderStatusChanged"
)

func Wrap(event string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal %s payload: %w", event, err)
	}

	return Envelope{Event: event, Payload: raw}, nil
}

func (e Envelope) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", e.Event, err)
	}

	return nil
}
