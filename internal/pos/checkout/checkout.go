package checkout

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/grillmate/pos/internal/pos/checkout/checkoutlog"
	"github.com/grillmate/pos/internal/pos/core/domain/entity"
	"github.com/grillmate/pos/internal/pos/core/ports"
	"github.com/grillmate/pos/internal/pos/store"
)

var _ ports.Checkout = (*Service)(nil)

// Service coordinates checkout across the cart, order and customer
// stores. At most one checkout runs at a time; a second invocation while
// one is in flight (a double click on the pay button) is rejected with
// ErrCheckoutInFlight regardless of any UI-level button disabling.
type Service struct {
	cart      *store.CartStore
	orders    *store.OrderStore
	customers *store.CustomerStore
	log       checkoutlog.Repository // nil disables audit logging
	inFlight  atomic.Bool
}

// NewService wires the three stores together. repo may be nil.
func NewService(cart *store.CartStore, orders *store.OrderStore, customers *store.CustomerStore, repo checkoutlog.Repository) *Service {
	return &Service{cart: cart, orders: orders, customers: customers, log: repo}
}

// Checkout validates the input, snapshots the cart and runs the
// create-order → upsert-customer → clear-cart sequence. On success the
// fully populated order is returned for the confirmation screen. On any
// step failure the completed steps are compensated and the original
// error is returned: the cart keeps its contents, the ledger gains no
// order, the customer ledger is untouched.
func (s *Service) Checkout(ctx context.Context, customerName, customerPhone, paymentMethod string) (entity.Order, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return entity.Order{}, entity.ErrCheckoutInFlight
	}
	defer s.inFlight.Store(false)

	customerName = strings.TrimSpace(customerName)
	customerPhone = strings.TrimSpace(customerPhone)
	if customerName == "" || customerPhone == "" {
		return entity.Order{}, entity.Validationf("customer name and phone are required")
	}

	snapshot := s.cart.Snapshot()
	if len(snapshot) == 0 {
		return entity.Order{}, entity.Validationf("cart is empty")
	}

	payload := entity.OrderPayload{
		Items:         snapshot,
		Total:         entity.SumLines(snapshot).StringFixed(2),
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		PaymentMethod: paymentMethod,
		Status:        entity.StatusPaid,
	}

	createOrder := &createOrderStep{orders: s.orders, payload: payload}
	steps := []Step{
		createOrder,
		&upsertCustomerStep{customers: s.customers, created: createOrder},
		&clearCartStep{cart: s.cart, snapshot: snapshot},
	}

	saga := NewOrchestrator(uuid.NewString(), steps, s.log)
	if err := saga.Start(ctx, marshalPayload(payload)); err != nil {
		return entity.Order{}, err
	}
	return createOrder.order, nil
}

// marshalPayload serialises the checkout input for the STARTED log row.
func marshalPayload(p entity.OrderPayload) string {
	b, err := json.Marshal(struct {
		Items         []entity.CartLine `json:"items"`
		Total         string            `json:"total"`
		CustomerName  string            `json:"customer_name"`
		CustomerPhone string            `json:"customer_phone"`
		PaymentMethod string            `json:"payment_method"`
	}{p.Items, p.Total, p.CustomerName, p.CustomerPhone, p.PaymentMethod})
	if err != nil {
		return ""
	}
	return string(b)
}
