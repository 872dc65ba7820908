package domain

type OrderStatus string

// OrderStatusNew is the only status assigned in this system; orders are
// immutable snapshots and never transition.
const OrderStatusNew OrderStatus = "baru"

// Customer is the buyer information captured at checkout.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Payment string `json:"payment"`
	Note    string `json:"note"`
}

// OrderItem is a cart line frozen at checkout. Price is the unit price at
// time of purchase; later catalog edits never touch it.
type OrderItem struct {
	ProductID string `json:"id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	Price     int    `json:"price"`
}

// Order is an immutable record of a completed checkout. Customer fields are
// embedded so the persisted JSON stays flat.
type Order struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Customer
	Items    []OrderItem `json:"items"`
	Subtotal int         `json:"subtotal"`
	Shipping int         `json:"shipping"`
	Total    int         `json:"total"`
	Status   OrderStatus `json:"status"`
}
