package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sayur5/storefront/internal/core/auth"
	"github.com/sayur5/storefront/internal/core/domain"
	"github.com/sayur5/storefront/internal/port"
)

// Historical bootstrap credentials, used only when no bootstrap account is
// configured. EnsureSeed warns loudly when it falls back to these.
const (
	fallbackAdminUser = "owner"
	fallbackAdminPIN  = "1234"
)

// AdminDirectory owns the admin accounts and the single persisted login
// session. Only PIN digests are ever stored.
type AdminDirectory struct {
	mu          sync.Mutex
	store       port.KVStore
	slots       Slots
	logger      *slog.Logger
	accounts    []domain.AdminAccount
	sessionUser string
}

func NewAdminDirectory(store port.KVStore, slots Slots, logger *slog.Logger) *AdminDirectory {
	return &AdminDirectory{
		store:  store,
		slots:  slots,
		logger: logger,
	}
}

// Load reads the persisted accounts and any surviving session.
func (d *AdminDirectory) Load(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	raw, err := d.store.Get(ctx, d.slots.Admins())
	if err != nil {
		return fmt.Errorf("load admins: %w", err)
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &d.accounts); err != nil {
			return fmt.Errorf("decode admins: %w", err)
		}
	}

	session, err := d.store.Get(ctx, d.slots.SessionUser())
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	d.sessionUser = string(session)
	return nil
}

// EnsureSeed creates the first account when the directory is empty.
// With no bootstrap credentials configured it seeds the historical default
// and warns the operator to change the PIN. Idempotent after first run.
func (d *AdminDirectory) EnsureSeed(ctx context.Context, user, pin string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.accounts) > 0 {
		return nil
	}
	if user == "" || pin == "" {
		user, pin = fallbackAdminUser, fallbackAdminPIN
		d.logger.Warn("no bootstrap admin configured, seeding default credentials; change this PIN immediately",
			"user", user)
	}

	d.accounts = []domain.AdminAccount{{User: user, PinHash: auth.Digest(pin)}}
	return d.persistLocked(ctx)
}

// Login checks the PIN digest and, on success, records the username as the
// current session, persisted so it survives a restart.
func (d *AdminDirectory) Login(ctx context.Context, user, pin string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var account *domain.AdminAccount
	for i := range d.accounts {
		if d.accounts[i].User == user {
			account = &d.accounts[i]
			break
		}
	}
	if account == nil {
		return fmt.Errorf("admin %q: %w", user, domain.ErrNotFound)
	}

	hash := auth.Digest(pin)
	if subtle.ConstantTimeCompare([]byte(hash), []byte(account.PinHash)) != 1 {
		return fmt.Errorf("PIN incorrect: %w", domain.ErrAuth)
	}

	if err := d.store.Set(ctx, d.slots.SessionUser(), []byte(user)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	d.sessionUser = user
	return nil
}

// Logout clears the current session.
func (d *AdminDirectory) Logout(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.store.Delete(ctx, d.slots.SessionUser()); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	d.sessionUser = ""
	return nil
}

// CurrentUser returns the logged-in admin username, or "" when logged out.
func (d *AdminDirectory) CurrentUser() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sessionUser
}

// Usernames lists the account names.
func (d *AdminDirectory) Usernames() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]string, len(d.accounts))
	for i, a := range d.accounts {
		names[i] = a.User
	}
	return names
}

// Add creates an account. Both fields are required and the username must
// be unused.
func (d *AdminDirectory) Add(ctx context.Context, user, pin string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if user == "" || pin == "" {
		return fmt.Errorf("user and PIN are required: %w", domain.ErrValidation)
	}
	for _, a := range d.accounts {
		if a.User == user {
			return fmt.Errorf("admin %q already exists: %w", user, domain.ErrValidation)
		}
	}

	d.accounts = append(d.accounts, domain.AdminAccount{User: user, PinHash: auth.Digest(pin)})
	return d.persistLocked(ctx)
}

// Remove deletes an account, refusing a removal that would leave the
// directory empty.
func (d *AdminDirectory) Remove(ctx context.Context, user string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.accounts) <= 1 {
		return fmt.Errorf("at least one admin must remain: %w", domain.ErrInvariant)
	}

	next := d.accounts[:0]
	for _, a := range d.accounts {
		if a.User != user {
			next = append(next, a)
		}
	}
	d.accounts = next
	return d.persistLocked(ctx)
}

func (d *AdminDirectory) persistLocked(ctx context.Context) error {
	raw, err := json.Marshal(d.accounts)
	if err != nil {
		return fmt.Errorf("encode admins: %w", err)
	}
	if err := d.store.Set(ctx, d.slots.Admins(), raw); err != nil {
		return fmt.Errorf("persist admins: %w", err)
	}
	return nil
}
