package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/grillmate/pos/internal/pos/core/domain/entity"
	"github.com/grillmate/pos/internal/pos/core/ports"
)

var (
	_ ports.Orders      = (*OrderStore)(nil)
	_ ports.OrderLedger = (*OrderStore)(nil)
)

// OrderStore is the append-only ledger of completed orders. Orders are
// never mutated after creation; the only removal path is Discard, the
// compensating action of a failed checkout.
type OrderStore struct {
	mu     sync.Mutex
	kv     ports.KV
	orders []entity.Order
	now    func() time.Time
}

// NewOrderStore loads the persisted ledger, or starts empty on first run.
func NewOrderStore(ctx context.Context, kv ports.KV) (*OrderStore, error) {
	s := &OrderStore{kv: kv, now: time.Now}
	if err := loadJSON(ctx, kv, ordersKey, &s.orders); err != nil {
		return nil, err
	}
	return s, nil
}

// Create appends a fully populated order built from the payload and
// returns it. Missing payment method defaults to cash, missing status to
// paid, missing total to "0.00".
func (s *OrderStore) Create(ctx context.Context, payload entity.OrderPayload) (entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	order := entity.Order{
		ID:            uuid.NewString(),
		OrderNumber:   newOrderNumber(now),
		Items:         entity.CloneLines(payload.Items),
		Total:         payload.Total,
		CustomerName:  payload.CustomerName,
		CustomerPhone: payload.CustomerPhone,
		PaymentMethod: payload.PaymentMethod,
		Status:        payload.Status,
		CreatedAt:     now,
	}
	if order.Items == nil {
		order.Items = []entity.CartLine{}
	}
	if order.Total == "" {
		order.Total = "0.00"
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = entity.PaymentCash
	}
	if order.Status == "" {
		order.Status = entity.StatusPaid
	}

	s.orders = append(s.orders, order)
	if err := saveJSON(ctx, s.kv, ordersKey, s.orders); err != nil {
		// Keep the in-memory ledger consistent with what is on disk.
		s.orders = s.orders[:len(s.orders)-1]
		return entity.Order{}, err
	}
	return order.Clone(), nil
}

// All returns a defensive copy of the ledger in creation order.
func (s *OrderStore) All() []entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = o.Clone()
	}
	return out
}

// ByID scans for the order with the given id. The ledger stays small
// enough (tens to low thousands) that a linear scan is fine.
func (s *OrderStore) ByID(id string) (entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.ID == id {
			return o.Clone(), nil
		}
	}
	return entity.Order{}, fmt.Errorf("order %q: %w", id, entity.ErrNotFound)
}

// ByNumber scans for the order with the given human-facing number.
func (s *OrderStore) ByNumber(number string) (entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.OrderNumber == number {
			return o.Clone(), nil
		}
	}
	return entity.Order{}, fmt.Errorf("order %q: %w", number, entity.ErrNotFound)
}

// Discard removes a just-created order. It exists solely as the
// compensating action for Create inside a failed checkout; the ledger is
// append-only for every other caller.
func (s *OrderStore) Discard(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.orders {
		if o.ID == id {
			orders := make([]entity.Order, 0, len(s.orders)-1)
			orders = append(orders, s.orders[:i]...)
			orders = append(orders, s.orders[i+1:]...)
			if err := saveJSON(ctx, s.kv, ordersKey, orders); err != nil {
				return err
			}
			s.orders = orders
			return nil
		}
	}
	return fmt.Errorf("order %q: %w", id, entity.ErrNotFound)
}

// newOrderNumber derives a short human-readable number from the creation
// time plus a random suffix, so two orders created in the same second
// still differ.
func newOrderNumber(now time.Time) string {
	ts := now.UnixMilli() % 1_000_000
	return fmt.Sprintf("ORD-%06d-%s", ts, uuid.NewString()[:4])
}
