package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grillmate/pos/internal/infra/kv"
	"github.com/grillmate/pos/internal/pos/checkout/checkoutlog"
	"github.com/grillmate/pos/internal/pos/core/domain/entity"
	"github.com/grillmate/pos/internal/pos/core/ports"
	"github.com/grillmate/pos/internal/pos/store"
)

// flakyKV fails Save for one configured key, letting tests break a
// specific step of the checkout sequence.
type flakyKV struct {
	ports.KV
	mu      sync.Mutex
	failKey string
}

var errBackendDown = errors.New("backend down")

func (f *flakyKV) Save(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	fail := f.failKey == key
	f.mu.Unlock()
	if fail {
		return errBackendDown
	}
	return f.KV.Save(ctx, key, value)
}

func (f *flakyKV) failOn(key string) {
	f.mu.Lock()
	f.failKey = key
	f.mu.Unlock()
}

// memoryLog collects checkout log entries in memory.
type memoryLog struct {
	mu      sync.Mutex
	entries []*checkoutlog.Entry
}

func (m *memoryLog) Save(_ context.Context, entry *checkoutlog.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryLog) statuses() []checkoutlog.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]checkoutlog.Status, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Status
	}
	return out
}

type fixture struct {
	backend   *flakyKV
	cart      *store.CartStore
	orders    *store.OrderStore
	customers *store.CustomerStore
	log       *memoryLog
	svc       *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	backend := &flakyKV{KV: kv.NewMemory()}
	cart, err := store.NewCartStore(ctx, backend)
	require.NoError(t, err)
	orders, err := store.NewOrderStore(ctx, backend)
	require.NoError(t, err)
	customers, err := store.NewCustomerStore(ctx, backend, orders)
	require.NoError(t, err)

	log := &memoryLog{}
	return &fixture{
		backend:   backend,
		cart:      cart,
		orders:    orders,
		customers: customers,
		log:       log,
		svc:       NewService(cart, orders, customers, log),
	}
}

func (f *fixture) fillCart(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.cart.Add(ctx, "Cheeseburger", "1850.00"))
	require.NoError(t, f.cart.Add(ctx, "Coke (500 ml)", "400.00"))
}

func TestCheckoutHappyPath(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	ctx := context.Background()

	order, err := f.svc.Checkout(ctx, "Asha", "0771234567", entity.PaymentCash)
	require.NoError(t, err)

	assert.Equal(t, "2250.00", order.Total)
	assert.Equal(t, "Asha", order.CustomerName)
	assert.NotEmpty(t, order.OrderNumber)
	require.Len(t, order.Items, 2)

	// Exactly one ledger entry, cart emptied, one customer upserted.
	assert.Len(t, f.orders.All(), 1)
	assert.Empty(t, f.cart.Lines())
	c, err := f.customers.ByPhone("0771234567")
	require.NoError(t, err)
	assert.Equal(t, "2250.00", c.TotalSpent)
	assert.Equal(t, "2250.00", f.customers.TotalSpent("0771234567"))

	assert.Equal(t, []checkoutlog.Status{
		checkoutlog.StatusStarted,
		checkoutlog.StatusStepDone,
		checkoutlog.StatusStepDone,
		checkoutlog.StatusStepDone,
		checkoutlog.StatusCompleted,
	}, f.log.statuses())
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)

	var validation *entity.ValidationError
	_, err := f.svc.Checkout(context.Background(), "Asha", "0771234567", entity.PaymentCash)
	require.ErrorAs(t, err, &validation)
	assert.Empty(t, f.orders.All())
	assert.Empty(t, f.customers.All())
}

func TestCheckoutMissingCustomerFields(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	ctx := context.Background()

	var validation *entity.ValidationError
	_, err := f.svc.Checkout(ctx, "   ", "0771234567", entity.PaymentCash)
	require.ErrorAs(t, err, &validation)
	_, err = f.svc.Checkout(ctx, "Asha", "", entity.PaymentCash)
	require.ErrorAs(t, err, &validation)

	// Validation failures leave every store untouched.
	assert.Len(t, f.cart.Lines(), 2)
	assert.Empty(t, f.orders.All())
}

func TestCheckoutSnapshotImmuneToLaterCartMutation(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	ctx := context.Background()

	order, err := f.svc.Checkout(ctx, "Asha", "0771234567", entity.PaymentCash)
	require.NoError(t, err)

	require.NoError(t, f.cart.Add(ctx, "French Fries", "750.00"))

	stored, err := f.orders.ByID(order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
	assert.Equal(t, "2250.00", stored.Total)
}

func TestCheckoutRepeatCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fillCart(t)
	_, err := f.svc.Checkout(ctx, "Asha", "0771234567", entity.PaymentCash)
	require.NoError(t, err)

	require.NoError(t, f.cart.Add(ctx, "French Fries", "750.00"))
	_, err = f.svc.Checkout(ctx, "Asha", "0771234567", entity.PaymentCard)
	require.NoError(t, err)

	c, err := f.customers.ByPhone("0771234567")
	require.NoError(t, err)
	assert.Len(t, c.Orders, 2)
	assert.Equal(t, "3000.00", c.TotalSpent)
	assert.Equal(t, "3000.00", f.customers.TotalSpent("0771234567"))
	assert.Len(t, f.customers.All(), 1)
}

func TestCheckoutRollsBackWhenOrderSaveFails(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.backend.failOn("orders_v1")

	_, err := f.svc.Checkout(context.Background(), "Asha", "0771234567", entity.PaymentCash)
	require.ErrorIs(t, err, errBackendDown)

	// Nothing committed: cart intact, no order, no customer.
	assert.Len(t, f.cart.Lines(), 2)
	assert.Empty(t, f.orders.All())
	assert.Empty(t, f.customers.All())

	statuses := f.log.statuses()
	assert.Equal(t, checkoutlog.StatusFailed, statuses[len(statuses)-1])
}

func TestCheckoutRollsBackWhenCustomerSaveFails(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.backend.failOn("customers_v1")

	_, err := f.svc.Checkout(context.Background(), "Asha", "0771234567", entity.PaymentCash)
	require.ErrorIs(t, err, errBackendDown)

	// The created order must have been compensated away.
	assert.Len(t, f.cart.Lines(), 2)
	assert.Empty(t, f.orders.All())
	assert.Empty(t, f.customers.All())
}

func TestCheckoutRollsBackWhenCartClearFails(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)

	// Let the snapshot persist, then break the cart key for Clear.
	f.backend.failOn("cart_v1")

	_, err := f.svc.Checkout(context.Background(), "Asha", "0771234567", entity.PaymentCash)
	require.ErrorIs(t, err, errBackendDown)

	assert.Empty(t, f.orders.All())
	assert.Empty(t, f.customers.All())
	assert.Len(t, f.cart.Lines(), 2)
}

// blockingKV parks the first save to the orders key until released, so
// the test can observe a checkout mid-flight.
type blockingKV struct {
	ports.KV
	block   chan struct{}
	entered chan struct{}
	once    sync.Once
}

func (b *blockingKV) Save(ctx context.Context, key string, value []byte) error {
	if key == "orders_v1" {
		b.once.Do(func() {
			close(b.entered)
			<-b.block
		})
	}
	return b.KV.Save(ctx, key, value)
}

func TestCheckoutReentrancyGuard(t *testing.T) {
	ctx := context.Background()
	backend := &blockingKV{
		KV:      kv.NewMemory(),
		block:   make(chan struct{}),
		entered: make(chan struct{}),
	}

	cart, err := store.NewCartStore(ctx, backend)
	require.NoError(t, err)
	orders, err := store.NewOrderStore(ctx, backend)
	require.NoError(t, err)
	customers, err := store.NewCustomerStore(ctx, backend, orders)
	require.NoError(t, err)
	svc := NewService(cart, orders, customers, nil)

	require.NoError(t, cart.Add(ctx, "Cheeseburger", "1850.00"))

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Checkout(ctx, "Asha", "0771234567", entity.PaymentCash)
		firstDone <- err
	}()

	// Wait until the first checkout is inside the order step, then try
	// to start a second one: the double click case.
	<-backend.entered
	_, err = svc.Checkout(ctx, "Asha", "0771234567", entity.PaymentCash)
	require.ErrorIs(t, err, entity.ErrCheckoutInFlight)

	close(backend.block)
	require.NoError(t, <-firstDone)
	assert.Len(t, orders.All(), 1)
}
