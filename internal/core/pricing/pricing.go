// Package pricing implements the price normalization rule and the
// subtotal/shipping/total arithmetic used by the cart and checkout.
package pricing

import (
	"math"
	"strconv"

	"github.com/sayur5/storefront/internal/core/domain"
)

const (
	// MinPrice is the floor every normalized price is clamped to.
	MinPrice = 1000
	// PriceStep is the granularity prices are rounded to.
	PriceStep = 500
	// DefaultPrice is assumed when an imported record carries no usable price.
	DefaultPrice = 5000
)

// Normalize clamps a raw price to MinPrice and rounds it to the nearest
// multiple of PriceStep. Idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw int) int {
	rounded := int(math.Round(float64(raw)/PriceStep)) * PriceStep
	if rounded < MinPrice {
		return MinPrice
	}
	return rounded
}

// Subtotal sums quantity times unit price over the given lines.
func Subtotal(items []domain.OrderItem) int {
	total := 0
	for _, it := range items {
		total += it.Qty * it.Price
	}
	return total
}

// ShippingFee is zero for an empty cart and for subtotals at or above the
// free threshold; otherwise it is the flat fee.
func ShippingFee(subtotal int, cfg domain.ShippingConfig) int {
	if subtotal == 0 || subtotal >= cfg.FreeThreshold {
		return 0
	}
	return cfg.FlatFee
}

// GrandTotal is the subtotal plus its shipping fee.
func GrandTotal(subtotal int, cfg domain.ShippingConfig) int {
	return subtotal + ShippingFee(subtotal, cfg)
}

// FormatIDR renders an amount as Indonesian rupiah with dot thousand
// separators, e.g. 30000 -> "Rp30.000".
func FormatIDR(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.Itoa(n)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}
	return sign + "Rp" + string(out)
}
