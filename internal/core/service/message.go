package service

import (
	"fmt"
	"strings"

	"github.com/sayur5/storefront/internal/core/domain"
	"github.com/sayur5/storefront/internal/core/pricing"
)

const messageHeader = "Pesanan Sayur5"

// OrderMessage renders the plain-text order summary handed off to the
// outbound messaging link: customer info, per-item lines and totals.
func OrderMessage(o domain.Order) string {
	lines := []string{
		messageHeader,
		"Nama: " + o.Name,
		"Telp: " + o.Phone,
		"Alamat: " + o.Address,
		"Metode Bayar: " + o.Payment,
		"Rincian:",
	}
	for _, it := range o.Items {
		lines = append(lines, fmt.Sprintf("- %s x%d @%s = %s",
			it.Name, it.Qty, pricing.FormatIDR(it.Price), pricing.FormatIDR(it.Qty*it.Price)))
	}
	lines = append(lines,
		"Subtotal: "+pricing.FormatIDR(o.Subtotal),
		"Ongkir: "+shippingLabel(o.Shipping),
		"Total: "+pricing.FormatIDR(o.Total),
	)
	if o.Note != "" {
		lines = append(lines, "Catatan: "+o.Note)
	}
	return strings.Join(lines, "\n")
}

func shippingLabel(fee int) string {
	if fee == 0 {
		return "Gratis"
	}
	return pricing.FormatIDR(fee)
}
