package domain

import (
	"regexp"
	"strings"
)

// Product is a purchasable catalog entry. Prices are integer rupiah,
// always normalized (>= 1000, multiple of 500).
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Price       int    `json:"price"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
	Description string `json:"desc"`
}

// ProductPatch is a partial update for a product. Nil fields are left
// untouched; a patched price is re-normalized before it is stored.
type ProductPatch struct {
	Name        *string `json:"name,omitempty"`
	Unit        *string `json:"unit,omitempty"`
	Price       *int    `json:"price,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"desc,omitempty"`
}

var (
	slugDropRe  = regexp.MustCompile(`[±+.,]`)
	slugDashRe  = regexp.MustCompile(`[/&]`)
	slugSpaceRe = regexp.MustCompile(`\s+`)
)

// Slugify derives a product id from a slug or display name: lowercase,
// punctuation stripped, separators and whitespace collapsed to dashes.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = slugDropRe.ReplaceAllString(s, "")
	s = slugDashRe.ReplaceAllString(s, "-")
	s = slugSpaceRe.ReplaceAllString(strings.TrimSpace(s), "-")
	return s
}
