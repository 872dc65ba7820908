// Package service holds the storefront core: catalog, cart, order ledger,
// admin directory and shipping settings, all backed by a KVStore port.
package service

// Slots names the persisted slots, namespaced with a prefix so several
// deployments can share one store.
type Slots struct {
	Prefix string
}

func (s Slots) Products() string    { return s.Prefix + "products" }
func (s Slots) Orders() string      { return s.Prefix + "orders" }
func (s Slots) FreeMin() string     { return s.Prefix + "freeMin" }
func (s Slots) Ongkir() string      { return s.Prefix + "ongkir" }
func (s Slots) Admins() string      { return s.Prefix + "admins" }
func (s Slots) SessionUser() string { return s.Prefix + "admin_sessionUser" }
