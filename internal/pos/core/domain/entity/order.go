package entity

import "time"

// Payment methods accepted at the register.
const (
	PaymentCash = "cash"
	PaymentCard = "card"
)

// Order statuses. The ledger currently only ever records paid orders;
// the field exists so refunds can be introduced without a schema change.
const (
	StatusPaid = "paid"
)

// Order is one row of the append-only order ledger. Once created it is
// never mutated or deleted; Items is a deep copy of the cart taken at
// checkout time.
type Order struct {
	ID            string     `json:"id"`
	OrderNumber   string     `json:"order_number"`
	Items         []CartLine `json:"items"`
	Total         string     `json:"total"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
	PaymentMethod string     `json:"payment_method"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
}

// OrderPayload is the input to order creation, assembled from a cart
// snapshot and the customer details collected at the register.
type OrderPayload struct {
	Items         []CartLine
	Total         string
	CustomerName  string
	CustomerPhone string
	PaymentMethod string
	Status        string
}

// Clone returns an independent copy of the order, including its items.
func (o Order) Clone() Order {
	o.Items = CloneLines(o.Items)
	return o
}
