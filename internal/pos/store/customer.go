package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grillmate/pos/internal/pos/core/domain/entity"
	"github.com/grillmate/pos/internal/pos/core/ports"
)

var _ ports.Customers = (*CustomerStore)(nil)

// CustomerStore is the customer ledger, keyed by phone number. Records
// are created on a customer's first order and updated (never deleted) on
// every subsequent one.
type CustomerStore struct {
	mu        sync.Mutex
	kv        ports.KV
	ledger    ports.OrderLedger
	customers []entity.Customer
	now       func() time.Time
}

// NewCustomerStore loads the persisted ledger. The order ledger is
// injected so order numbers can be resolved to full orders.
func NewCustomerStore(ctx context.Context, kv ports.KV, ledger ports.OrderLedger) (*CustomerStore, error) {
	s := &CustomerStore{kv: kv, ledger: ledger, now: time.Now}
	if err := loadJSON(ctx, kv, customersKey, &s.customers); err != nil {
		return nil, err
	}
	return s, nil
}

// AddFromOrder upserts the customer the order belongs to, keyed strictly
// on phone number. An existing customer gets the order number appended,
// the order total added to their running spend, and LastOrder updated;
// their stored name is deliberately left as it was on first contact. A
// new phone number creates a fresh record.
//
// It reports whether a new record was created, which the checkout
// compensation uses to decide between deleting the record and trimming
// the appended order.
func (s *CustomerStore) AddFromOrder(ctx context.Context, order entity.Order) (created bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.customers {
		if s.customers[i].PhoneNo != order.CustomerPhone {
			continue
		}
		c := &s.customers[i]
		prevOrders := c.Orders
		prevSpent := c.TotalSpent
		prevLast := c.LastOrder

		c.Orders = append(c.Orders, order.OrderNumber)
		c.TotalSpent = addMoney(c.TotalSpent, order.Total)
		c.LastOrder = order.OrderNumber
		if err := saveJSON(ctx, s.kv, customersKey, s.customers); err != nil {
			c.Orders = prevOrders
			c.TotalSpent = prevSpent
			c.LastOrder = prevLast
			return false, err
		}
		return false, nil
	}

	s.customers = append(s.customers, entity.Customer{
		Name:       order.CustomerName,
		PhoneNo:    order.CustomerPhone,
		Orders:     []string{order.OrderNumber},
		TotalSpent: addMoney("0.00", order.Total),
		LastOrder:  order.OrderNumber,
		CreatedAt:  s.now().UTC(),
	})
	if err := saveJSON(ctx, s.kv, customersKey, s.customers); err != nil {
		s.customers = s.customers[:len(s.customers)-1]
		return false, err
	}
	return true, nil
}

// RevertOrder undoes a single AddFromOrder call. created mirrors what
// that call returned: a created record is removed outright, an updated
// one has the appended order number and its total backed out.
func (s *CustomerStore) RevertOrder(ctx context.Context, order entity.Order, created bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.customers {
		if s.customers[i].PhoneNo != order.CustomerPhone {
			continue
		}
		if created {
			customers := make([]entity.Customer, 0, len(s.customers)-1)
			customers = append(customers, s.customers[:i]...)
			customers = append(customers, s.customers[i+1:]...)
			if err := saveJSON(ctx, s.kv, customersKey, customers); err != nil {
				return err
			}
			s.customers = customers
			return nil
		}
		c := &s.customers[i]
		if n := len(c.Orders); n > 0 && c.Orders[n-1] == order.OrderNumber {
			c.Orders = c.Orders[:n-1]
		}
		c.TotalSpent = subMoney(c.TotalSpent, order.Total)
		c.LastOrder = ""
		if len(c.Orders) > 0 {
			c.LastOrder = c.Orders[len(c.Orders)-1]
		}
		return saveJSON(ctx, s.kv, customersKey, s.customers)
	}
	return fmt.Errorf("customer %q: %w", order.CustomerPhone, entity.ErrNotFound)
}

// All returns a defensive copy in first-order date order.
func (s *CustomerStore) All() []entity.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Customer, len(s.customers))
	for i, c := range s.customers {
		out[i] = c.Clone()
	}
	return out
}

// ByPhone is an exact-match lookup.
func (s *CustomerStore) ByPhone(phone string) (entity.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.customers {
		if c.PhoneNo == phone {
			return c.Clone(), nil
		}
	}
	return entity.Customer{}, fmt.Errorf("customer %q: %w", phone, entity.ErrNotFound)
}

// OrdersOf resolves the customer's order numbers against the order
// ledger, returning the full order records. Unknown customers get an
// empty slice, not an error.
func (s *CustomerStore) OrdersOf(phone string) []entity.Order {
	c, err := s.ByPhone(phone)
	if err != nil {
		return nil
	}

	numbers := make(map[string]bool, len(c.Orders))
	for _, n := range c.Orders {
		numbers[n] = true
	}
	var out []entity.Order
	for _, o := range s.ledger.All() {
		if numbers[o.OrderNumber] {
			out = append(out, o)
		}
	}
	return out
}

// TotalSpent recomputes the customer's spend by summing the totals of
// every order OrdersOf resolves. It is the authoritative figure; the
// stored TotalSpent field is only an incrementally maintained display
// value and the two will disagree if the ledgers ever drift.
func (s *CustomerStore) TotalSpent(phone string) string {
	total := decimal.Zero
	for _, o := range s.OrdersOf(phone) {
		if d, err := decimal.NewFromString(o.Total); err == nil {
			total = total.Add(d)
		}
	}
	return total.StringFixed(2)
}

func addMoney(a, b string) string {
	da, _ := decimal.NewFromString(a)
	db, _ := decimal.NewFromString(b)
	return da.Add(db).StringFixed(2)
}

func subMoney(a, b string) string {
	da, _ := decimal.NewFromString(a)
	db, _ := decimal.NewFromString(b)
	return da.Sub(db).StringFixed(2)
}
