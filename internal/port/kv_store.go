package port

import "context"

// KVStore is the persistence port: named slots holding opaque byte values
// (the stores JSON-encode their collections into them).
type KVStore interface {
	// Get returns the value stored under key, or (nil, nil) if the slot
	// is empty.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the slot under key.
	Set(ctx context.Context, key string, value []byte) error

	// SetMulti overwrites several slots atomically. Checkout relies on
	// this to commit the catalog and the order ledger as one write.
	SetMulti(ctx context.Context, kv map[string][]byte) error

	// Delete clears the slot under key; absent slots are a no-op.
	Delete(ctx context.Context, key string) error
}
