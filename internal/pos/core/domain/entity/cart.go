package entity

import "github.com/shopspring/decimal"

// CartLine is a single line of the in-progress order. At most one line
// exists per distinct (name, price) pair; adding the same pair again
// increments Quantity instead of appending a duplicate.
type CartLine struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// CartTotals is the aggregate view of the cart: the sum of quantities
// and the monetary total formatted to two decimal places.
type CartTotals struct {
	ItemsCount int    `json:"items_count"`
	Total      string `json:"total"`
}

// CloneLines deep-copies a cart snapshot so later mutation of the source
// cannot reach through into a saved order.
func CloneLines(lines []CartLine) []CartLine {
	if lines == nil {
		return nil
	}
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}

// SumLines computes price×quantity over the lines. Callers format the
// result with StringFixed(2) at the boundary.
func SumLines(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, ln := range lines {
		total = total.Add(ln.Price.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}
	return total
}
