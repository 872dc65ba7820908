package port

import (
	"context"
	"encoding/json"
)

// Number is an optional JSON number. Non-numeric or missing values leave
// Valid false so the importer can substitute a default.
type Number struct {
	Value float64
	Valid bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		n.Valid = false
		return nil
	}
	n.Value = v
	n.Valid = true
	return nil
}

// RawProduct is one record of the external catalog document.
type RawProduct struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Unit     string `json:"unit_or_isi"`
	Price    Number `json:"price"`
	Stock    Number `json:"stock"`
	Category string `json:"category"`
	Active   *bool  `json:"active"`
}

// Inactive reports whether the record is explicitly marked inactive;
// a missing flag counts as active.
func (r RawProduct) Inactive() bool {
	return r.Active != nil && !*r.Active
}

// CatalogSource fetches the seed catalog. Callers decide what to do on
// failure; the reference policy is to fall back to an empty catalog.
type CatalogSource interface {
	Fetch(ctx context.Context) ([]RawProduct, error)
}
