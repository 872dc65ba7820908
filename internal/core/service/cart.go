package service

import (
	"sync"

	"github.com/sayur5/storefront/internal/core/domain"
)

// Cart is the transient product selection for the current app session.
// It is never persisted; a restart starts empty.
type Cart struct {
	mu      sync.Mutex
	catalog *Catalog
	qty     map[string]int
	order   []string // insertion order of product ids
}

func NewCart(catalog *Catalog) *Cart {
	return &Cart{
		catalog: catalog,
		qty:     make(map[string]int),
	}
}

// Increment adds one unit of the product, capped at its current stock.
// Unknown products are a silent no-op.
func (c *Cart) Increment(id string) {
	p, ok := c.catalog.Get(id)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, present := c.qty[id]; !present {
		if p.Stock == 0 {
			return
		}
		c.order = append(c.order, id)
	}
	next := c.qty[id] + 1
	if next > p.Stock {
		next = p.Stock
	}
	if next == 0 {
		// Stock was edited to zero since the entry was added; a cart
		// never holds zero-quantity entries.
		c.removeLocked(id)
		return
	}
	c.qty[id] = next
}

// Decrement removes one unit; an entry reaching zero is dropped entirely.
func (c *Cart) Decrement(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.qty[id] == 0 {
		return
	}
	c.qty[id]--
	if c.qty[id] == 0 {
		c.removeLocked(id)
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.qty = make(map[string]int)
	c.order = nil
}

// Quantity returns the current quantity for a product id (0 if absent).
func (c *Cart) Quantity(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.qty[id]
}

// TotalQty is the total number of units across all entries.
func (c *Cart) TotalQty() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, q := range c.qty {
		total += q
	}
	return total
}

// LineItems joins each entry with the referenced product's current name and
// price, in insertion order. Entries whose product has been removed from the
// catalog are skipped.
func (c *Cart) LineItems() []domain.OrderItem {
	c.mu.Lock()
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	qty := make(map[string]int, len(c.qty))
	for id, q := range c.qty {
		qty[id] = q
	}
	c.mu.Unlock()

	items := make([]domain.OrderItem, 0, len(ids))
	for _, id := range ids {
		p, ok := c.catalog.Get(id)
		if !ok {
			continue
		}
		items = append(items, domain.OrderItem{
			ProductID: id,
			Name:      p.Name,
			Qty:       qty[id],
			Price:     p.Price,
		})
	}
	return items
}

func (c *Cart) removeLocked(id string) {
	delete(c.qty, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
