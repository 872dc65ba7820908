package domain

// ShippingConfig drives the shipping fee: orders with a subtotal at or above
// FreeThreshold ship free, anything else pays FlatFee.
type ShippingConfig struct {
	FreeThreshold int
	FlatFee       int
}
