// Smoke exercise for the storefront core: seeds a small catalog into the
// in-memory store, runs concurrent cart/checkout cycles and verifies stock
// never goes negative and every order was recorded.
package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/sayur5/storefront/internal/adapter/storage"
	"github.com/sayur5/storefront/internal/core/domain"
	"github.com/sayur5/storefront/internal/core/service"
	"github.com/sayur5/storefront/pkg/logging"
)

const (
	buyers       = 20
	itemsPerBuy  = 3
	initialStock = 40
)

func main() {
	ctx := context.Background()
	logger := logging.New()

	store := storage.NewMemoryAdapter()
	slots := service.Slots{Prefix: "smoke_"}

	catalog := service.NewCatalog(store, nil, slots, logger)
	cart := service.NewCart(catalog)
	ledger := service.NewOrderLedger(store, slots)
	settings := service.NewSettings(store, slots, domain.ShippingConfig{FreeThreshold: 30000, FlatFee: 10000})
	checkout := service.NewCheckout(catalog, cart, ledger, settings, store, slots)

	if err := catalog.Load(ctx); err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	err := catalog.Add(ctx, domain.Product{
		ID: "bayam", Name: "Bayam", Unit: "ikat", Price: 5000, Stock: initialStock, Category: "Sayur",
	})
	if err != nil {
		log.Fatalf("seed product: %v", err)
	}

	var placed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < itemsPerBuy; j++ {
				cart.Increment("bayam")
			}
			_, err := checkout.Place(ctx, domain.Customer{
				Name:    fmt.Sprintf("buyer-%d", n),
				Phone:   "0812",
				Address: "jl. test",
			})
			if err == nil {
				placed.Add(1)
			}
		}(i)
	}
	wg.Wait()

	p, _ := catalog.Get("bayam")
	fmt.Printf("orders placed: %d\n", placed.Load())
	fmt.Printf("orders in ledger: %d\n", ledger.Len())
	fmt.Printf("remaining stock: %d\n", p.Stock)

	if p.Stock < 0 {
		log.Fatal("stock went negative")
	}
	if int(placed.Load()) != ledger.Len() {
		log.Fatalf("placed %d orders but ledger has %d", placed.Load(), ledger.Len())
	}
}
