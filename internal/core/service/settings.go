package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/sayur5/storefront/internal/core/domain"
	"github.com/sayur5/storefront/internal/port"
)

// Settings owns the shipping configuration. The two values are persisted as
// plain decimal strings in their own slots.
type Settings struct {
	mu       sync.Mutex
	store    port.KVStore
	slots    Slots
	defaults domain.ShippingConfig
	cfg      domain.ShippingConfig
}

func NewSettings(store port.KVStore, slots Slots, defaults domain.ShippingConfig) *Settings {
	return &Settings{
		store:    store,
		slots:    slots,
		defaults: defaults,
		cfg:      defaults,
	}
}

// Load reads the persisted values, falling back to the configured defaults
// for missing or malformed slots.
func (s *Settings) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	free, err := s.loadInt(ctx, s.slots.FreeMin(), s.defaults.FreeThreshold)
	if err != nil {
		return err
	}
	fee, err := s.loadInt(ctx, s.slots.Ongkir(), s.defaults.FlatFee)
	if err != nil {
		return err
	}
	s.cfg = domain.ShippingConfig{FreeThreshold: free, FlatFee: fee}
	return nil
}

func (s *Settings) loadInt(ctx context.Context, slot string, fallback int) (int, error) {
	raw, err := s.store.Get(ctx, slot)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", slot, err)
	}
	if raw == nil {
		return fallback, nil
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return fallback, nil
	}
	return n, nil
}

// Shipping returns the active configuration.
func (s *Settings) Shipping() domain.ShippingConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// SetShipping updates and persists both values in one atomic write.
// Negative values are rejected.
func (s *Settings) SetShipping(ctx context.Context, freeThreshold, flatFee int) error {
	if freeThreshold < 0 || flatFee < 0 {
		return fmt.Errorf("shipping values must be non-negative: %w", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.store.SetMulti(ctx, map[string][]byte{
		s.slots.FreeMin(): []byte(strconv.Itoa(freeThreshold)),
		s.slots.Ongkir():  []byte(strconv.Itoa(flatFee)),
	})
	if err != nil {
		return fmt.Errorf("persist shipping config: %w", err)
	}
	s.cfg = domain.ShippingConfig{FreeThreshold: freeThreshold, FlatFee: flatFee}
	return nil
}
