package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item availability on the storefront.
const (
	ItemAvailable   = "Available"
	ItemUnavailable = "Unavailable"
)

// CategoryAll is the special query value that bypasses category filtering.
const CategoryAll = "all"

// MenuItem is one purchasable item in the catalog. Categories are
// open-ended strings ("Burger", "Side", "Drink", ...).
type MenuItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at,omitzero"`
}

// MenuPatch is a partial update to a menu item. Nil fields are left
// unchanged by MenuStore.Update.
type MenuPatch struct {
	Name     *string
	Category *string
	Price    *decimal.Decimal
	Image    *string
	Status   *string
}

// MenuQuery filters the catalog. Name matches case-insensitively as a
// substring; Category matches exactly unless it is CategoryAll or empty;
// Status matches exactly unless empty. All active filters are ANDed, so
// the zero value returns the whole catalog.
type MenuQuery struct {
	Name     string
	Category string
	Status   string
}
