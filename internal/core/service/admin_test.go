package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/sayur5/storefront/internal/adapter/storage"
	"github.com/sayur5/storefront/internal/core/domain"
)

func newTestDirectory(t *testing.T) (*AdminDirectory, *storage.MemoryAdapter) {
	t.Helper()
	store := storage.NewMemoryAdapter()
	dir := NewAdminDirectory(store, testSlots, testLogger())
	if err := dir.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return dir, store
}

func TestEnsureSeed_DefaultAndIdempotent(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	if err := dir.EnsureSeed(ctx, "", ""); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if got := dir.Usernames(); !reflect.DeepEqual(got, []string{"owner"}) {
		t.Fatalf("expected default account, got %v", got)
	}

	// Second run must not add another account.
	if err := dir.EnsureSeed(ctx, "someone", "9999"); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if got := len(dir.Usernames()); got != 1 {
		t.Errorf("expected 1 account after reseed, got %d", got)
	}
}

func TestEnsureSeed_ConfiguredBootstrap(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	if err := dir.EnsureSeed(ctx, "boss", "4321"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := dir.Login(ctx, "boss", "4321"); err != nil {
		t.Errorf("login with bootstrap credentials failed: %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()
	dir.EnsureSeed(ctx, "boss", "4321")

	err := dir.Login(ctx, "ghost", "4321")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if dir.CurrentUser() != "" {
		t.Error("failed login must not set a session")
	}
}

func TestLogin_WrongPIN(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()
	dir.EnsureSeed(ctx, "boss", "4321")

	err := dir.Login(ctx, "boss", "0000")
	if !errors.Is(err, domain.ErrAuth) {
		t.Errorf("expected ErrAuth, got: %v", err)
	}
	if dir.CurrentUser() != "" {
		t.Error("failed login must not set a session")
	}
}

func TestLogin_SessionSurvivesReload(t *testing.T) {
	dir, store := newTestDirectory(t)
	ctx := context.Background()
	dir.EnsureSeed(ctx, "boss", "4321")

	if err := dir.Login(ctx, "boss", "4321"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	reloaded := NewAdminDirectory(store, testSlots, testLogger())
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got := reloaded.CurrentUser(); got != "boss" {
		t.Errorf("expected persisted session 'boss', got %q", got)
	}
}

func TestLogout(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()
	dir.EnsureSeed(ctx, "boss", "4321")
	dir.Login(ctx, "boss", "4321")

	if err := dir.Logout(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if dir.CurrentUser() != "" {
		t.Error("expected empty session after logout")
	}
}

func TestAddAdmin_ThenLogin(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()
	dir.EnsureSeed(ctx, "boss", "4321")

	if err := dir.Add(ctx, "staff", "5678"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := dir.Login(ctx, "staff", "5678"); err != nil {
		t.Errorf("login with new credentials failed: %v", err)
	}
}

func TestAddAdmin_Validation(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()
	dir.EnsureSeed(ctx, "boss", "4321")

	if err := dir.Add(ctx, "", "1111"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for blank user, got: %v", err)
	}
	if err := dir.Add(ctx, "x", ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for blank PIN, got: %v", err)
	}
	if err := dir.Add(ctx, "boss", "9999"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for duplicate user, got: %v", err)
	}
}

func TestRemoveAdmin_LastAccountRejected(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()
	dir.EnsureSeed(ctx, "boss", "4321")

	err := dir.Remove(ctx, "boss")
	if !errors.Is(err, domain.ErrInvariant) {
		t.Errorf("expected ErrInvariant, got: %v", err)
	}
	if got := dir.Usernames(); !reflect.DeepEqual(got, []string{"boss"}) {
		t.Errorf("directory changed after rejected removal: %v", got)
	}
}

func TestRemoveAdmin(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()
	dir.EnsureSeed(ctx, "boss", "4321")
	dir.Add(ctx, "staff", "5678")

	if err := dir.Remove(ctx, "staff"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if got := dir.Usernames(); !reflect.DeepEqual(got, []string{"boss"}) {
		t.Errorf("expected [boss], got %v", got)
	}
}

func TestDirectory_RoundTrip(t *testing.T) {
	dir, store := newTestDirectory(t)
	ctx := context.Background()
	dir.EnsureSeed(ctx, "boss", "4321")
	dir.Add(ctx, "staff", "5678")

	reloaded := NewAdminDirectory(store, testSlots, testLogger())
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reflect.DeepEqual(dir.Usernames(), reloaded.Usernames()) {
		t.Error("reloaded directory differs from persisted one")
	}
	if err := reloaded.Login(ctx, "staff", "5678"); err != nil {
		t.Errorf("login against reloaded directory failed: %v", err)
	}
}
