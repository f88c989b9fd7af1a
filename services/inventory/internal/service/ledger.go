package service

import (
	"fmt"
	"sync"

	"github.com/streamcart/order-saga/pkg/domain"
)

// InsufficientStockError names the first line that failed the availability
// check. The whole order is rejected; no partial deduction happens.
type InsufficientStockError struct {
	SKU       string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for SKU %s: available=%d, requested=%d", e.SKU, e.Available, e.Requested)
}

// Ledger owns the sku -> available quantity table. All mutation goes through
// Reserve, which holds one lock across the whole check-then-deduct sequence
// so two concurrent orders can never both pass the check against the same
// not-yet-decremented stock.
type Ledger struct {
	mu     sync.Mutex
	levels map[string]int
}

func NewLedger(seed map[string]int) *Ledger {
	levels := make(map[string]int, len(seed))
	for sku, qty := range seed {
		levels[sku] = qty
	}

	return &Ledger{levels: levels}
}

// DefaultStockLevels seeds the ledger for local runs and tests.
func DefaultStockLevels() map[string]int {
	return map[string]int{
		"SKU-001": 100,
		"SKU-002": 50,
		"SKU-003": 200,
		"SKU-004": 0,
		"SKU-005": 10,
	}
}

func (l *Ledger) Available(sku string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.levels[sku]
}

// Reserve checks every line against availability and deducts all of them
// only if every check passes. An unknown SKU counts as zero availability.
func (l *Ledger) Reserve(lines []domain.OrderLine) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, line := range lines {
		available := l.levels[line.SKU]
		if available < line.Qty {
			return &InsufficientStockError{
				SKU:       line.SKU,
				Available: available,
				Requested: line.Qty,
			}
		}
	}

	for _, line := range lines {
		if _, ok := l.levels[line.SKU]; ok {
			l.levels[line.SKU] -= line.Qty
		}
	}

	return nil
}
