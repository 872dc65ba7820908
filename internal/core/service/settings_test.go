package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sayur5/storefront/internal/adapter/storage"
	"github.com/sayur5/storefront/internal/core/domain"
)

func TestSettings_DefaultsWhenUnset(t *testing.T) {
	store := storage.NewMemoryAdapter()
	settings := NewSettings(store, testSlots, domain.ShippingConfig{FreeThreshold: 30000, FlatFee: 10000})
	if err := settings.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	cfg := settings.Shipping()
	if cfg.FreeThreshold != 30000 || cfg.FlatFee != 10000 {
		t.Errorf("expected defaults 30000/10000, got %+v", cfg)
	}
}

func TestSettings_SetAndReload(t *testing.T) {
	store := storage.NewMemoryAdapter()
	settings := NewSettings(store, testSlots, domain.ShippingConfig{FreeThreshold: 30000, FlatFee: 10000})
	ctx := context.Background()
	settings.Load(ctx)

	if err := settings.SetShipping(ctx, 50000, 15000); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	reloaded := NewSettings(store, testSlots, domain.ShippingConfig{FreeThreshold: 30000, FlatFee: 10000})
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	cfg := reloaded.Shipping()
	if cfg.FreeThreshold != 50000 || cfg.FlatFee != 15000 {
		t.Errorf("expected 50000/15000 after reload, got %+v", cfg)
	}
}

func TestSettings_RejectsNegativeValues(t *testing.T) {
	store := storage.NewMemoryAdapter()
	settings := NewSettings(store, testSlots, domain.ShippingConfig{FreeThreshold: 30000, FlatFee: 10000})
	ctx := context.Background()
	settings.Load(ctx)

	if err := settings.SetShipping(ctx, -1, 10000); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got: %v", err)
	}
	if err := settings.SetShipping(ctx, 30000, -1); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got: %v", err)
	}
	if cfg := settings.Shipping(); cfg.FreeThreshold != 30000 || cfg.FlatFee != 10000 {
		t.Errorf("config changed after rejected update: %+v", cfg)
	}
}

func TestSettings_MalformedSlotFallsBack(t *testing.T) {
	store := storage.NewMemoryAdapter()
	ctx := context.Background()
	store.Set(ctx, testSlots.FreeMin(), []byte("not-a-number"))

	settings := NewSettings(store, testSlots, domain.ShippingConfig{FreeThreshold: 30000, FlatFee: 10000})
	if err := settings.Load(ctx); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg := settings.Shipping(); cfg.FreeThreshold != 30000 {
		t.Errorf("expected fallback 30000, got %d", cfg.FreeThreshold)
	}
}
