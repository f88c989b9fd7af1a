package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/streamcart/order-saga/pkg/domain"
	"go.uber.org/zap"
)

// orderAggregation holds the two independently-arriving outcomes for one
// order until both are present. It exists only between the first outcome and
// the join; nothing outside the aggregator reads or writes it.
type orderAggregation struct {
	paymentStatus   string
	inventoryStatus string
	correlationID   string
}

func (a *orderAggregation) setCorrelationID(id string) {
	// First writer wins: both branches trace back to the same order.
	if a.correlationID == "" {
		a.correlationID = id
	}
}

func (a *orderAggregation) complete() bool {
	return a.paymentStatus != "" && a.inventoryStatus != ""
}

// Result makes the two aggregator outcomes explicit: Completed false means
// the join is still pending and Event is meaningless; Completed true carries
// the single terminal event of the round plus its sticky correlation token.
type Result struct {
	Event         domain.OrderStatusChanged
	CorrelationID string
	Completed     bool
}

// OrderStatusAggregator joins the payment and inventory outcome streams per
// order id. The read-check-mutate-emit sequence for one order is serialized
// by a keyed mutex; distinct orders proceed fully in parallel. Exactly one
// terminal event is produced per order per saga round, after which the
// aggregation is destroyed and a fresh round may begin.
type OrderStatusAggregator struct {
	locks *keyedMutex

	mu           sync.Mutex
	aggregations map[string]*orderAggregation

	logger *zap.Logger
}

func NewOrderStatusAggregator(logger *zap.Logger) *OrderStatusAggregator {
	return &OrderStatusAggregator{
		locks:        newKeyedMutex(),
		aggregations: make(map[string]*orderAggregation),
		logger:       logger,
	}
}

// HandlePaymentOutcome records a payment outcome for an order. An
// unrecognized status is a programmer error and panics rather than
// miscounting silently.
func (a *OrderStatusAggregator) HandlePaymentOutcome(orderID, paymentStatus, correlationID string) Result {
	switch paymentStatus {
	case domain.PaymentStatusAuthorized, domain.PaymentStatusFailed:
	default:
		panic(fmt.Sprintf("order status aggregator: unknown payment status %q for order %s", paymentStatus, orderID))
	}

	a.locks.Lock(orderID)
	defer a.locks.Unlock(orderID)

	agg := a.aggregation(orderID)
	agg.paymentStatus = paymentStatus
	agg.setCorrelationID(correlationID)

	a.logger.Info("Payment outcome recorded",
		zap.String("order_id", orderID),
		zap.String("payment_status", paymentStatus),
	)

	if agg.complete() {
		return a.buildAndCleanup(orderID, agg)
	}

	return Result{}
}

// HandleInventoryOutcome is the symmetric counterpart for the inventory
// stream; arrival order is irrelevant to the result.
func (a *OrderStatusAggregator) HandleInventoryOutcome(orderID, inventoryStatus, correlationID string) Result {
	switch inventoryStatus {
	case domain.InventoryStatusReserved, domain.InventoryStatusRejected:
	default:
		panic(fmt.Sprintf("order status aggregator: unknown inventory status %q for order %s", inventoryStatus, orderID))
	}

	a.locks.Lock(orderID)
	defer a.locks.Unlock(orderID)

	agg := a.aggregation(orderID)
	agg.inventoryStatus = inventoryStatus
	agg.setCorrelationID(correlationID)

	a.logger.Info("Inventory outcome recorded",
		zap.String("order_id", orderID),
		zap.String("inventory_status", inventoryStatus),
	)

	if agg.complete() {
		return a.buildAndCleanup(orderID, agg)
	}

	return Result{}
}

func (a *OrderStatusAggregator) aggregation(orderID string) *orderAggregation {
	a.mu.Lock()
	defer a.mu.Unlock()

	agg, ok := a.aggregations[orderID]
	if !ok {
		agg = &orderAggregation{}
		a.aggregations[orderID] = agg
	}

	return agg
}

func (a *OrderStatusAggregator) buildAndCleanup(orderID string, agg *orderAggregation) Result {
	finalStatus := domain.FinalStatusRejected
	if agg.paymentStatus == domain.PaymentStatusAuthorized && agg.inventoryStatus == domain.InventoryStatusReserved {
		finalStatus = domain.FinalStatusConfirmed
	}

	a.logger.Info("Order aggregation complete",
		zap.String("order_id", orderID),
		zap.String("payment_status", agg.paymentStatus),
		zap.String("inventory_status", agg.inventoryStatus),
		zap.String("final_status", finalStatus),
	)

	a.mu.Lock()
	delete(a.aggregations, orderID)
	a.mu.Unlock()

	return Result{
		Event: domain.OrderStatusChanged{
			OrderID:         orderID,
			PaymentStatus:   agg.paymentStatus,
			InventoryStatus: agg.inventoryStatus,
			FinalStatus:     finalStatus,
			UpdatedAt:       time.Now(),
		},
		CorrelationID: agg.correlationID,
		Completed:     true,
	}
}
