package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grillmate/pos/internal/pos/checkout/checkoutlog"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "checkout.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSaveAndLatest(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []*checkoutlog.Entry{
		{CheckoutID: "chk-1", Status: checkoutlog.StatusStarted, Payload: `{"total":"2250.00"}`, ErrorMessages: "[]", UpdatedAt: base},
		{CheckoutID: "chk-1", Status: checkoutlog.StatusStepDone, CurrentStep: "create_order", ErrorMessages: "[]", UpdatedAt: base.Add(time.Second)},
		{CheckoutID: "chk-1", Status: checkoutlog.StatusCompleted, ErrorMessages: "[]", UpdatedAt: base.Add(2 * time.Second)},
	}
	for _, e := range entries {
		require.NoError(t, repo.Save(ctx, e))
	}

	latest, err := repo.Latest(ctx, "chk-1")
	require.NoError(t, err)
	assert.Equal(t, checkoutlog.StatusCompleted, latest.Status)
	assert.True(t, latest.UpdatedAt.Equal(base.Add(2*time.Second)))
	assert.Empty(t, latest.Payload)
}

func TestLatestUnknownCheckout(t *testing.T) {
	repo := openTestRepo(t)

	_, err := repo.Latest(context.Background(), "chk-missing")
	require.Error(t, err)
}

func TestSaveKeepsFailureDetails(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	entry := checkoutlog.NewEntry(ctx, "chk-2", checkoutlog.StatusFailed, "upsert_customer", "",
		[]string{"step upsert_customer failed: backend down"})
	require.NoError(t, repo.Save(ctx, entry))

	latest, err := repo.Latest(ctx, "chk-2")
	require.NoError(t, err)
	assert.Equal(t, checkoutlog.StatusFailed, latest.Status)
	assert.Contains(t, latest.ErrorMessages, "backend down")
	assert.Equal(t, "upsert_customer", latest.CurrentStep)
}
