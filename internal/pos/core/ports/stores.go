package ports

import (
	"context"

	"github.com/grillmate/pos/internal/pos/core/domain/entity"
)

// Cart is the mutable in-progress order.
type Cart interface {
	Add(ctx context.Context, name, price string) error
	Remove(ctx context.Context, index int) error
	ChangeQuantity(ctx context.Context, index, delta int) error
	Lines() []entity.CartLine
	Totals() entity.CartTotals
}

// Orders is the append-only ledger of completed orders.
type Orders interface {
	All() []entity.Order
	ByID(id string) (entity.Order, error)
}

// Customers is the customer ledger, keyed by phone number.
type Customers interface {
	All() []entity.Customer
	ByPhone(phone string) (entity.Customer, error)
	OrdersOf(phone string) []entity.Order
	TotalSpent(phone string) string
}

// Menu is the catalog of purchasable items.
type Menu interface {
	Items() []entity.MenuItem
	ByID(id string) (entity.MenuItem, error)
	Create(ctx context.Context, item entity.MenuItem) (entity.MenuItem, error)
	Update(ctx context.Context, id string, patch entity.MenuPatch) (entity.MenuItem, error)
	Delete(ctx context.Context, id string) error
	Find(query entity.MenuQuery) []entity.MenuItem
}

// Checkout finalizes the cart into an order and a customer upsert as a
// single all-or-nothing sequence.
type Checkout interface {
	Checkout(ctx context.Context, customerName, customerPhone, paymentMethod string) (entity.Order, error)
}

// OrderLedger is the read side of the order ledger the customer store
// resolves order numbers against.
type OrderLedger interface {
	All() []entity.Order
}
