package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sayur5/storefront/internal/core/domain"
	"github.com/sayur5/storefront/internal/core/pricing"
	"github.com/sayur5/storefront/internal/port"
)

// Checkout turns the current cart into an immutable order: it snapshots the
// cart lines at current prices, computes totals, decrements catalog stock and
// commits the updated catalog and ledger in one atomic store write.
type Checkout struct {
	mu       sync.Mutex
	catalog  *Catalog
	cart     *Cart
	ledger   *OrderLedger
	settings *Settings
	store    port.KVStore
	slots    Slots
	seq      atomic.Int64
	now      func() time.Time
}

func NewCheckout(catalog *Catalog, cart *Cart, ledger *OrderLedger, settings *Settings, store port.KVStore, slots Slots) *Checkout {
	return &Checkout{
		catalog:  catalog,
		cart:     cart,
		ledger:   ledger,
		settings: settings,
		store:    store,
		slots:    slots,
		now:      time.Now,
	}
}

// Place finalizes the cart for the given customer. The cart must be
// non-empty and name, phone and address are required. The checkout mutex
// spans snapshot, commit and state swap, so concurrent checkouts over the
// same catalog and ledger apply one at a time and none is lost.
func (c *Checkout) Place(ctx context.Context, customer domain.Customer) (domain.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.cart.LineItems()
	if len(items) == 0 {
		return domain.Order{}, fmt.Errorf("cart is empty: %w", domain.ErrValidation)
	}
	if customer.Name == "" || customer.Phone == "" || customer.Address == "" {
		return domain.Order{}, fmt.Errorf("name, phone and address are required: %w", domain.ErrValidation)
	}
	if customer.Payment == "" {
		customer.Payment = "transfer"
	}

	cfg := c.settings.Shipping()
	subtotal := pricing.Subtotal(items)
	shipping := pricing.ShippingFee(subtotal, cfg)

	now := c.now()
	order := domain.Order{
		ID:       c.nextOrderID(now),
		Date:     now.UTC().Format(time.RFC3339),
		Customer: customer,
		Items:    items,
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal + shipping,
		Status:   domain.OrderStatusNew,
	}

	nextProducts := c.catalog.decremented(items)
	nextOrders := c.ledger.prepended(order)

	rawProducts, err := encodeProducts(nextProducts)
	if err != nil {
		return domain.Order{}, err
	}
	rawOrders, err := encodeOrders(nextOrders)
	if err != nil {
		return domain.Order{}, err
	}

	// Catalog and ledger commit together; a failure leaves both untouched.
	err = c.store.SetMulti(ctx, map[string][]byte{
		c.slots.Products(): rawProducts,
		c.slots.Orders():   rawOrders,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("persist checkout: %w", err)
	}

	c.catalog.replace(nextProducts)
	c.ledger.replace(nextOrders)
	c.cart.Clear()
	return order, nil
}

// nextOrderID derives a time-based invoice id; the sequence suffix keeps it
// unique within a process run even when two checkouts share a millisecond.
func (c *Checkout) nextOrderID(now time.Time) string {
	return fmt.Sprintf("INV-%d-%d", now.UnixMilli(), c.seq.Add(1))
}
