package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/sayur5/storefront/internal/core/domain"
	"github.com/sayur5/storefront/internal/core/pricing"
	"github.com/sayur5/storefront/internal/port"
)

const (
	defaultStock    = 50
	defaultCategory = "Lainnya"
)

// Catalog owns the product collection. The collection lives in memory and
// every mutation writes it back to the store in full.
type Catalog struct {
	mu       sync.Mutex
	store    port.KVStore
	source   port.CatalogSource
	slots    Slots
	logger   *slog.Logger
	products []domain.Product
}

func NewCatalog(store port.KVStore, source port.CatalogSource, slots Slots, logger *slog.Logger) *Catalog {
	return &Catalog{
		store:  store,
		source: source,
		slots:  slots,
		logger: logger,
	}
}

// Load initializes the collection: persisted products win; otherwise the
// external source is fetched once and the mapped result persisted. A fetch
// failure is a documented soft-fail yielding an empty catalog.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := c.store.Get(ctx, c.slots.Products())
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &c.products); err != nil {
			return fmt.Errorf("decode catalog: %w", err)
		}
		return nil
	}

	if c.source == nil {
		c.products = []domain.Product{}
		return nil
	}

	records, err := c.source.Fetch(ctx)
	if err != nil {
		c.logger.Warn("catalog seed fetch failed, starting empty", "error", err)
		c.products = []domain.Product{}
		return nil
	}

	c.products = mapRecords(records)
	return c.persistLocked(ctx)
}

func mapRecords(records []port.RawProduct) []domain.Product {
	products := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		if rec.Inactive() {
			continue
		}
		p := domain.Product{
			ID:       domain.Slugify(firstNonEmpty(rec.Slug, rec.Name)),
			Name:     rec.Name,
			Unit:     rec.Unit,
			Price:    pricing.DefaultPrice,
			Stock:    defaultStock,
			Category: firstNonEmpty(rec.Category, defaultCategory),
		}
		if rec.Price.Valid {
			p.Price = pricing.Normalize(int(rec.Price.Value))
		}
		if rec.Stock.Valid {
			p.Stock = int(rec.Stock.Value)
		}
		if rec.Unit != "" {
			p.Description = "Porsi: " + rec.Unit
		} else {
			p.Description = rec.Category
		}
		products = append(products, p)
	}
	return products
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// Products returns a copy of the collection in stored order (newest first).
func (c *Catalog) Products() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get returns the product with the given id.
func (c *Catalog) Get(id string) (domain.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Categories lists the distinct categories in sorted order.
func (c *Catalog) Categories() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]struct{})
	var cats []string
	for _, p := range c.products {
		cat := firstNonEmpty(p.Category, defaultCategory)
		if _, ok := seen[cat]; !ok {
			seen[cat] = struct{}{}
			cats = append(cats, cat)
		}
	}
	sort.Strings(cats)
	return cats
}

// Add validates and prepends a new product. The id must be set and unused;
// the price is normalized before insert.
func (c *Catalog) Add(ctx context.Context, p domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p.ID == "" || p.Name == "" {
		return fmt.Errorf("product id and name are required: %w", domain.ErrValidation)
	}
	for _, existing := range c.products {
		if existing.ID == p.ID {
			return fmt.Errorf("product id %q already used: %w", p.ID, domain.ErrValidation)
		}
	}
	if p.Price == 0 {
		p.Price = pricing.DefaultPrice
	}
	p.Price = pricing.Normalize(p.Price)
	if p.Stock < 0 {
		p.Stock = 0
	}

	c.products = append([]domain.Product{p}, c.products...)
	return c.persistLocked(ctx)
}

// Update merges a patch into the product with the given id. An unknown id is
// an explicit no-change result (found == false), not an error.
func (c *Catalog) Update(ctx context.Context, id string, patch domain.ProductPatch) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i, p := range c.products {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	p := c.products[idx]
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Unit != nil {
		p.Unit = *patch.Unit
	}
	if patch.Price != nil {
		p.Price = pricing.Normalize(*patch.Price)
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
		if p.Stock < 0 {
			p.Stock = 0
		}
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}

	c.products[idx] = p
	return true, c.persistLocked(ctx)
}

// Remove deletes the product with the given id; absent ids are a no-op.
func (c *Catalog) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.products[:0]
	for _, p := range c.products {
		if p.ID != id {
			next = append(next, p)
		}
	}
	c.products = next
	return c.persistLocked(ctx)
}

// decremented returns a copy of the collection with the given purchases
// applied, stock floored at zero. It does not mutate or persist; checkout
// commits the result together with the order ledger.
func (c *Catalog) decremented(items []domain.OrderItem) []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]domain.Product, len(c.products))
	copy(next, c.products)
	for i := range next {
		for _, it := range items {
			if next[i].ID == it.ProductID {
				next[i].Stock -= it.Qty
				if next[i].Stock < 0 {
					next[i].Stock = 0
				}
			}
		}
	}
	return next
}

// replace swaps in a collection that has already been persisted.
func (c *Catalog) replace(products []domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = products
}

func (c *Catalog) persistLocked(ctx context.Context) error {
	raw, err := json.Marshal(c.products)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := c.store.Set(ctx, c.slots.Products(), raw); err != nil {
		return fmt.Errorf("persist catalog: %w", err)
	}
	return nil
}

func encodeProducts(products []domain.Product) ([]byte, error) {
	raw, err := json.Marshal(products)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return raw, nil
}
