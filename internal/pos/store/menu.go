package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grillmate/pos/internal/pos/core/domain/entity"
	"github.com/grillmate/pos/internal/pos/core/ports"
)

var _ ports.Menu = (*MenuStore)(nil)

// MenuStore is the catalog of purchasable items. On first run (no
// persisted catalog) it seeds the starter menu and persists it
// immediately so later loads see a stable id set.
type MenuStore struct {
	mu    sync.Mutex
	kv    ports.KV
	items []entity.MenuItem
	now   func() time.Time
}

// NewMenuStore loads the persisted catalog, seeding it on first run.
func NewMenuStore(ctx context.Context, kv ports.KV) (*MenuStore, error) {
	s := &MenuStore{kv: kv, now: time.Now}

	b, err := kv.Load(ctx, menuKey)
	if err != nil {
		return nil, &entity.PersistenceError{Key: menuKey, Err: err}
	}
	if b == nil {
		s.items = starterCatalog(s.now().UTC())
		if err := saveJSON(ctx, kv, menuKey, s.items); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err := json.Unmarshal(b, &s.items); err != nil {
		return nil, &entity.PersistenceError{Key: menuKey, Err: err}
	}
	return s, nil
}

// Items returns a defensive copy of the catalog.
func (s *MenuStore) Items() []entity.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.MenuItem, len(s.items))
	copy(out, s.items)
	return out
}

// ByID is an exact-match lookup.
func (s *MenuStore) ByID(id string) (entity.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return entity.MenuItem{}, fmt.Errorf("menu item %q: %w", id, entity.ErrNotFound)
}

// Create merges the given item over the default template (generated id,
// category Burger, price 0, status Available), appends it and persists.
func (s *MenuStore) Create(ctx context.Context, item entity.MenuItem) (entity.MenuItem, error) {
	if item.Name == "" {
		return entity.MenuItem{}, entity.Validationf("item name is required")
	}
	if item.Price.IsNegative() {
		return entity.MenuItem{}, entity.Validationf("price must not be negative, got %s", item.Price)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = uuid.NewString()
	item.CreatedAt = s.now().UTC()
	item.UpdatedAt = time.Time{}
	if item.Category == "" {
		item.Category = "Burger"
	}
	if item.Status == "" {
		item.Status = entity.ItemAvailable
	}

	s.items = append(s.items, item)
	if err := saveJSON(ctx, s.kv, menuKey, s.items); err != nil {
		s.items = s.items[:len(s.items)-1]
		return entity.MenuItem{}, err
	}
	return item, nil
}

// Update merges the patch over the existing record, stamps UpdatedAt and
// persists. Absent ids are a not-found error.
func (s *MenuStore) Update(ctx context.Context, id string, patch entity.MenuPatch) (entity.MenuItem, error) {
	if patch.Price != nil && patch.Price.IsNegative() {
		return entity.MenuItem{}, entity.Validationf("price must not be negative, got %s", patch.Price)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		prev := s.items[i]
		it := &s.items[i]
		if patch.Name != nil {
			it.Name = *patch.Name
		}
		if patch.Category != nil {
			it.Category = *patch.Category
		}
		if patch.Price != nil {
			it.Price = *patch.Price
		}
		if patch.Image != nil {
			it.Image = *patch.Image
		}
		if patch.Status != nil {
			it.Status = *patch.Status
		}
		it.UpdatedAt = s.now().UTC()
		if err := saveJSON(ctx, s.kv, menuKey, s.items); err != nil {
			s.items[i] = prev
			return entity.MenuItem{}, err
		}
		return *it, nil
	}
	return entity.MenuItem{}, fmt.Errorf("menu item %q: %w", id, entity.ErrNotFound)
}

// Delete removes the item by id, persisting only on success.
func (s *MenuStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			items := make([]entity.MenuItem, 0, len(s.items)-1)
			items = append(items, s.items[:i]...)
			items = append(items, s.items[i+1:]...)
			if err := saveJSON(ctx, s.kv, menuKey, items); err != nil {
				return err
			}
			s.items = items
			return nil
		}
	}
	return fmt.Errorf("menu item %q: %w", id, entity.ErrNotFound)
}

// Find filters the catalog: case-insensitive substring on name, exact
// category (CategoryAll or empty bypasses), exact status (empty
// bypasses). Filters are ANDed; the zero query returns everything.
func (s *MenuStore) Find(query entity.MenuQuery) []entity.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.ToLower(query.Name)
	out := make([]entity.MenuItem, 0, len(s.items))
	for _, it := range s.items {
		if name != "" && !strings.Contains(strings.ToLower(it.Name), name) {
			continue
		}
		if query.Category != "" && query.Category != entity.CategoryAll && it.Category != query.Category {
			continue
		}
		if query.Status != "" && it.Status != query.Status {
			continue
		}
		out = append(out, it)
	}
	return out
}

func starterCatalog(now time.Time) []entity.MenuItem {
	seed := func(name, category, price, image string) entity.MenuItem {
		return entity.MenuItem{
			ID:        uuid.NewString(),
			Name:      name,
			Category:  category,
			Price:     decimal.RequireFromString(price),
			Image:     image,
			Status:    entity.ItemAvailable,
			CreatedAt: now,
		}
	}
	return []entity.MenuItem{
		seed("Cheeseburger", "Burger", "1850.00", "assets/img/cheeseburger.jpg"),
		seed("Chicken Burger", "Burger", "1650.00", "assets/img/chicken-burger.jpg"),
		seed("Double Beef Burger", "Burger", "2450.00", "assets/img/double-beef.jpg"),
		seed("French Fries", "Side", "750.00", "assets/img/fries.jpg"),
		seed("Onion Rings", "Side", "850.00", "assets/img/onion-rings.jpg"),
		seed("Coke (500 ml)", "Drink", "400.00", "assets/img/coke.jpg"),
		seed("Sprite (500 ml)", "Drink", "400.00", "assets/img/sprite.jpg"),
	}
}
