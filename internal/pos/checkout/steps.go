package checkout

import (
	"context"
	"fmt"

	"github.com/grillmate/pos/internal/pos/core/domain/entity"
	"github.com/grillmate/pos/internal/pos/store"
)

// createOrderStep appends the order to the ledger. Compensation discards
// the order it created so a failed checkout leaves no ledger entry.
type createOrderStep struct {
	orders  *store.OrderStore
	payload entity.OrderPayload
	order   entity.Order
}

func (s *createOrderStep) Name() string { return "create_order" }

func (s *createOrderStep) Execute(ctx context.Context) error {
	order, err := s.orders.Create(ctx, s.payload)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	s.order = order
	return nil
}

func (s *createOrderStep) Compensate(ctx context.Context) error {
	return s.orders.Discard(ctx, s.order.ID)
}

// upsertCustomerStep records the order against the customer ledger.
// Compensation reverts the upsert, removing the customer record entirely
// when this order was their first.
type upsertCustomerStep struct {
	customers *store.CustomerStore
	created   *createOrderStep
	wasNew    bool
}

func (s *upsertCustomerStep) Name() string { return "upsert_customer" }

func (s *upsertCustomerStep) Execute(ctx context.Context) error {
	created, err := s.customers.AddFromOrder(ctx, s.created.order)
	if err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}
	s.wasNew = created
	return nil
}

func (s *upsertCustomerStep) Compensate(ctx context.Context) error {
	return s.customers.RevertOrder(ctx, s.created.order, s.wasNew)
}

// clearCartStep empties the cart last, once the order and the customer
// upsert are both committed. Compensation restores the pre-checkout
// snapshot.
type clearCartStep struct {
	cart     *store.CartStore
	snapshot []entity.CartLine
}

func (s *clearCartStep) Name() string { return "clear_cart" }

func (s *clearCartStep) Execute(ctx context.Context) error {
	if err := s.cart.Clear(ctx); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *clearCartStep) Compensate(ctx context.Context) error {
	return s.cart.Restore(ctx, s.snapshot)
}
