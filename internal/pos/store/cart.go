// Package store implements the four point-of-sale ledgers: the cart, the
// order ledger, the customer ledger and the menu catalog. Each store owns
// its in-memory collection exclusively, is the sole writer of its storage
// key, and reserializes the whole collection on every mutation.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/grillmate/pos/internal/pos/core/domain/entity"
	"github.com/grillmate/pos/internal/pos/core/ports"
)

// Storage keys are versioned so a schema change can be introduced as a
// new key without migrating old data.
const (
	cartKey      = "cart_v1"
	ordersKey    = "orders_v1"
	customersKey = "customers_v1"
	menuKey      = "menu_v1"
)

var _ ports.Cart = (*CartStore)(nil)

// CartStore holds the in-progress order. Lines are addressed by their
// position in the current ordering, matching how the register UI lists
// them.
type CartStore struct {
	mu    sync.Mutex
	kv    ports.KV
	lines []entity.CartLine
}

// NewCartStore loads the persisted cart, or starts empty on first run.
func NewCartStore(ctx context.Context, kv ports.KV) (*CartStore, error) {
	s := &CartStore{kv: kv}
	if err := loadJSON(ctx, kv, cartKey, &s.lines); err != nil {
		return nil, err
	}
	return s, nil
}

// Add parses price as a non-negative decimal and merges the line into the
// cart: an existing (name, price) line gets its quantity incremented, a
// new pair is appended with quantity 1.
func (s *CartStore) Add(ctx context.Context, name, price string) error {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return entity.Validationf("invalid price %q", price)
	}
	if p.IsNegative() {
		return entity.Validationf("price must not be negative, got %s", price)
	}
	if name == "" {
		return entity.Validationf("item name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := entity.CloneLines(s.lines)
	merged := false
	for i := range s.lines {
		if s.lines[i].Name == name && s.lines[i].Price.Equal(p) {
			s.lines[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		s.lines = append(s.lines, entity.CartLine{Name: name, Price: p, Quantity: 1})
	}
	return s.persist(ctx, prev)
}

// Remove drops the line at the given position. Out-of-range indexes are
// rejected instead of silently ignored.
func (s *CartStore) Remove(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.lines) {
		return fmt.Errorf("cart line %d: %w", index, entity.ErrNotFound)
	}
	prev := entity.CloneLines(s.lines)
	s.lines = append(s.lines[:index], s.lines[index+1:]...)
	return s.persist(ctx, prev)
}

// ChangeQuantity adds delta (signed) to the line's quantity. A resulting
// quantity of zero or below removes the line entirely.
func (s *CartStore) ChangeQuantity(ctx context.Context, index, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.lines) {
		return fmt.Errorf("cart line %d: %w", index, entity.ErrNotFound)
	}
	prev := entity.CloneLines(s.lines)
	s.lines[index].Quantity += delta
	if s.lines[index].Quantity <= 0 {
		s.lines = append(s.lines[:index], s.lines[index+1:]...)
	}
	return s.persist(ctx, prev)
}

// Lines returns a defensive copy of the current cart.
func (s *CartStore) Lines() []entity.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entity.CloneLines(s.lines)
}

// Snapshot is Lines under its checkout-time name: a deep copy immune to
// later cart mutation, suitable for embedding into an order.
func (s *CartStore) Snapshot() []entity.CartLine {
	return s.Lines()
}

// Totals returns the sum of quantities and the monetary total formatted
// to two decimal places.
func (s *CartStore) Totals() entity.CartTotals {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, ln := range s.lines {
		count += ln.Quantity
	}
	return entity.CartTotals{
		ItemsCount: count,
		Total:      entity.SumLines(s.lines).StringFixed(2),
	}
}

// Clear empties the cart. Called by checkout after the order and the
// customer upsert have both succeeded.
func (s *CartStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.lines
	s.lines = nil
	return s.persist(ctx, prev)
}

// Restore puts a previous snapshot back. It is the compensating action
// for Clear when a later checkout step fails.
func (s *CartStore) Restore(ctx context.Context, lines []entity.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.lines
	s.lines = entity.CloneLines(lines)
	return s.persist(ctx, prev)
}

// persist writes the whole cart, falling back to prev in memory when the
// backend rejects the write so memory never drifts from disk. Callers
// hold s.mu.
func (s *CartStore) persist(ctx context.Context, prev []entity.CartLine) error {
	if err := saveJSON(ctx, s.kv, cartKey, s.lines); err != nil {
		s.lines = prev
		return err
	}
	return nil
}

func loadJSON(ctx context.Context, kv ports.KV, key string, dst any) error {
	b, err := kv.Load(ctx, key)
	if err != nil {
		return &entity.PersistenceError{Key: key, Err: err}
	}
	if b == nil {
		return nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return &entity.PersistenceError{Key: key, Err: err}
	}
	return nil
}

func saveJSON(ctx context.Context, kv ports.KV, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return &entity.PersistenceError{Key: key, Err: err}
	}
	if err := kv.Save(ctx, key, b); err != nil {
		return &entity.PersistenceError{Key: key, Err: err}
	}
	return nil
}
