package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grillmate/pos/internal/infra/kv"
	"github.com/grillmate/pos/internal/pos/core/domain/entity"
)

func newTestCart(t *testing.T) (*CartStore, *kv.Memory) {
	t.Helper()
	backend := kv.NewMemory()
	cart, err := NewCartStore(context.Background(), backend)
	require.NoError(t, err)
	return cart, backend
}

func TestCartAddMergesIdenticalLines(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, "Cheeseburger", "1850.00"))
	require.NoError(t, cart.Add(ctx, "Cheeseburger", "1850.00"))

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartAddDistinguishesByPrice(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, "Cheeseburger", "1850.00"))
	require.NoError(t, cart.Add(ctx, "Cheeseburger", "1650.00"))

	assert.Len(t, cart.Lines(), 2)
}

func TestCartAddRejectsBadPrice(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()

	var validation *entity.ValidationError
	require.ErrorAs(t, cart.Add(ctx, "Cheeseburger", "not-a-number"), &validation)
	require.ErrorAs(t, cart.Add(ctx, "Cheeseburger", "-5.00"), &validation)
	require.ErrorAs(t, cart.Add(ctx, "", "5.00"), &validation)
	assert.Empty(t, cart.Lines())
}

func TestCartTotals(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, "Cheeseburger", "1850.00"))
	require.NoError(t, cart.Add(ctx, "Coke (500 ml)", "400.00"))

	totals := cart.Totals()
	assert.Equal(t, 2, totals.ItemsCount)
	assert.Equal(t, "2250.00", totals.Total)

	require.NoError(t, cart.Add(ctx, "Coke (500 ml)", "400.00"))
	totals = cart.Totals()
	assert.Equal(t, 3, totals.ItemsCount)
	assert.Equal(t, "2650.00", totals.Total)
}

func TestCartTotalsEmpty(t *testing.T) {
	cart, _ := newTestCart(t)

	totals := cart.Totals()
	assert.Equal(t, 0, totals.ItemsCount)
	assert.Equal(t, "0.00", totals.Total)
}

func TestCartChangeQuantityRemovesAtZero(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, "French Fries", "750.00"))
	require.NoError(t, cart.Add(ctx, "French Fries", "750.00"))
	require.NoError(t, cart.Add(ctx, "Coke (500 ml)", "400.00"))

	require.NoError(t, cart.ChangeQuantity(ctx, 0, -2))
	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Coke (500 ml)", lines[0].Name)
}

func TestCartRemoveOutOfRange(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, "Onion Rings", "850.00"))

	require.ErrorIs(t, cart.Remove(ctx, 5), entity.ErrNotFound)
	require.ErrorIs(t, cart.Remove(ctx, -1), entity.ErrNotFound)
	require.ErrorIs(t, cart.ChangeQuantity(ctx, 5, 1), entity.ErrNotFound)
	assert.Len(t, cart.Lines(), 1)
}

func TestCartLinesIsDefensiveCopy(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, "Cheeseburger", "1850.00"))

	lines := cart.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, cart.Lines()[0].Quantity)
}

func TestCartSurvivesReload(t *testing.T) {
	cart, backend := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, "Cheeseburger", "1850.00"))
	require.NoError(t, cart.Add(ctx, "Coke (500 ml)", "400.00"))

	reloaded, err := NewCartStore(ctx, backend)
	require.NoError(t, err)

	lines := reloaded.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "Cheeseburger", lines[0].Name)
	assert.Equal(t, "1850.00", lines[0].Price.StringFixed(2))
	assert.Equal(t, "2250.00", reloaded.Totals().Total)
}

func TestCartClearAndRestore(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, "Cheeseburger", "1850.00"))
	snapshot := cart.Snapshot()

	require.NoError(t, cart.Clear(ctx))
	assert.Empty(t, cart.Lines())

	require.NoError(t, cart.Restore(ctx, snapshot))
	require.Len(t, cart.Lines(), 1)
	assert.Equal(t, "Cheeseburger", cart.Lines()[0].Name)
}
