package entity

import "time"

// Customer is one row of the customer ledger, keyed by phone number.
// Orders holds the order numbers of every checkout made with that phone
// number, in order. TotalSpent is maintained incrementally for display;
// the authoritative figure is recomputed from the order ledger (see
// CustomerStore.TotalSpent).
type Customer struct {
	Name       string    `json:"name"`
	PhoneNo    string    `json:"phone_no"`
	Orders     []string  `json:"orders"`
	TotalSpent string    `json:"total_spent"`
	LastOrder  string    `json:"last_order"`
	CreatedAt  time.Time `json:"created_at"`
}

// Clone returns an independent copy of the customer record.
func (c Customer) Clone() Customer {
	if c.Orders != nil {
		orders := make([]string, len(c.Orders))
		copy(orders, c.Orders)
		c.Orders = orders
	}
	return c
}
