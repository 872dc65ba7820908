package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sayur5/storefront/internal/core/domain"
	"github.com/sayur5/storefront/internal/port"
)

// OrderLedger owns the append-only order history, newest first. Orders are
// created only through Checkout and never mutated afterwards.
type OrderLedger struct {
	mu     sync.Mutex
	store  port.KVStore
	slots  Slots
	orders []domain.Order
}

func NewOrderLedger(store port.KVStore, slots Slots) *OrderLedger {
	return &OrderLedger{store: store, slots: slots}
}

// Load reads the persisted ledger.
func (l *OrderLedger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	raw, err := l.store.Get(ctx, l.slots.Orders())
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &l.orders); err != nil {
			return fmt.Errorf("decode orders: %w", err)
		}
	}
	return nil
}

// Orders returns a copy of the ledger, newest first.
func (l *OrderLedger) Orders() []domain.Order {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Order, len(l.orders))
	copy(out, l.orders)
	return out
}

// Len reports the number of recorded orders.
func (l *OrderLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.orders)
}

// prepended returns a copy of the ledger with the order at the front.
// It does not mutate or persist; checkout commits the result.
func (l *OrderLedger) prepended(order domain.Order) []domain.Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]domain.Order, 0, len(l.orders)+1)
	next = append(next, order)
	next = append(next, l.orders...)
	return next
}

// replace swaps in a ledger that has already been persisted.
func (l *OrderLedger) replace(orders []domain.Order) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.orders = orders
}

func encodeOrders(orders []domain.Order) ([]byte, error) {
	raw, err := json.Marshal(orders)
	if err != nil {
		return nil, fmt.Errorf("encode orders: %w", err)
	}
	return raw, nil
}
