package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/boba-pos-backend/internal/config"
	"github.com/your-org/boba-pos-backend/internal/domain/cart"
	"github.com/your-org/boba-pos-backend/internal/domain/menu"
	"github.com/your-org/boba-pos-backend/internal/domain/order"
	"github.com/your-org/boba-pos-backend/internal/infrastructure/database/redis"
	"github.com/your-org/boba-pos-backend/internal/pkg/logger"
)

type fakeOrders struct {
	mu      sync.Mutex
	calls   int
	err     error
	block   bool
	created []*order.Order
}

func (f *fakeOrders) CreateOrder(ctx context.Context, o *order.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.block {
		f.mu.Unlock()
		<-ctx.Done()
		f.mu.Lock()
		return ctx.Err()
	}
	if f.err != nil {
		return f.err
	}

	o.ID = uint(len(f.created) + 1)
	o.CreatedAt = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	o.OrderNumber = order.GenerateOrderNumber(o.CreatedAt, o.ID)
	f.created = append(f.created, o)
	return nil
}

type fakeCustomers struct {
	mu       sync.Mutex
	calls    int
	err      error
	balances map[uint]int64
}

func newFakeCustomers() *fakeCustomers {
	return &fakeCustomers{balances: map[uint]int64{7: 100}}
}

func (f *fakeCustomers) IncrementRewards(ctx context.Context, customerID uint, points int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	f.balances[customerID] += points
	return f.balances[customerID], nil
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testCatalog() *menu.Catalog {
	return menu.NewCatalog(
		[]menu.MenuItem{
			{ID: 1, Name: "Classic Milk Tea", BasePrice: d("4.00"), Category: "Milk Tea"},
			{ID: 2, Name: "Lemon Green Tea", BasePrice: d("5.00"), Category: "Fruit Tea"},
		},
		map[menu.Group][]menu.CustomizationOption{
			menu.GroupSize:      {{ID: 11, Name: "Large", PriceDelta: d("0.50"), Group: menu.GroupSize}},
			menu.GroupSweetness: {{ID: 13, Name: "0% Sugar", PriceDelta: decimal.Zero, Group: menu.GroupSweetness}},
			menu.GroupAddOn:     {{ID: 21, Name: "Boba", PriceDelta: d("0.75"), Group: menu.GroupAddOn}},
		},
	)
}

// bobaMilkTea is the 4.00 + 0.75 x 2 cart, subtotal 9.50
func bobaMilkTea(t *testing.T) []cart.LineItem {
	t.Helper()
	li, err := cart.NewBuilder(testCatalog()).BuildByID(1, cart.Selections{AddOns: []uint{21}}, 2)
	require.NoError(t, err)
	return []cart.LineItem{li}
}

type harness struct {
	orders    *fakeOrders
	customers *fakeCustomers
	redis     *miniredis.Miniredis
	svc       *Service
}

func newHarness(t *testing.T, timeout time.Duration) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	h := &harness{
		orders:    &fakeOrders{},
		customers: newFakeCustomers(),
		redis:     mr,
	}
	cfg := config.POSConfig{StoreTimeout: timeout, IdempotencyTTL: time.Hour}
	h.svc = NewService(h.orders, h.customers, redis.NewClient(rdb), cfg, logger.Discard())
	return h
}

func TestSubmit_EmptyCartMakesNoStoreCall(t *testing.T) {
	h := newHarness(t, time.Second)

	_, err := h.svc.Submit(context.Background(), nil, SubmitRequest{PaymentMethod: order.PaymentMethodCash})
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, h.orders.calls)
	assert.Zero(t, h.customers.calls)
}

func TestSubmit_InvalidPaymentMethod(t *testing.T) {
	h := newHarness(t, time.Second)

	_, err := h.svc.Submit(context.Background(), bobaMilkTea(t), SubmitRequest{PaymentMethod: "barter"})
	var verr *cart.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "payment_method", verr.Field)
	assert.Zero(t, h.orders.calls, "order store must not be called")
}

func TestSubmit_IdentifiedCustomerEarnsPoints(t *testing.T) {
	h := newHarness(t, time.Second)

	receipt, err := h.svc.Submit(context.Background(), bobaMilkTea(t), SubmitRequest{
		CustomerID:    7,
		EmployeeID:    3,
		PaymentMethod: order.PaymentMethodCreditCard,
	})
	require.NoError(t, err)

	assert.Equal(t, "10.28", receipt.Total.StringFixed(2))
	assert.Equal(t, int64(1028), receipt.PointsEarned)
	require.NotNil(t, receipt.NewRewardsBalance)
	assert.Equal(t, int64(1128), *receipt.NewRewardsBalance)
	assert.True(t, receipt.RewardsRecorded)
	assert.False(t, receipt.PartialSuccess())

	stored := h.orders.created[0]
	assert.Equal(t, uint(7), stored.CustomerID)
	assert.Equal(t, uint(3), stored.EmployeeID)
	assert.Equal(t, int64(1028), stored.PointsEarned)
	assert.Equal(t, "9.50", stored.Subtotal.StringFixed(2))
	assert.Equal(t, "0.78", stored.Tax.StringFixed(2))
	require.Len(t, stored.Items, 1)
	assert.Len(t, stored.Items[0].Options, 4)
	assert.Equal(t, "4.75", stored.Items[0].UnitPrice.StringFixed(2))
}

func TestSubmit_GuestSkipsRewards(t *testing.T) {
	h := newHarness(t, time.Second)

	li, err := cart.NewBuilder(testCatalog()).BuildByID(2, cart.Selections{}, 1)
	require.NoError(t, err)

	receipt, err := h.svc.Submit(context.Background(), []cart.LineItem{li}, SubmitRequest{PaymentMethod: order.PaymentMethodCash})
	require.NoError(t, err)
	assert.Zero(t, h.customers.calls, "guest checkout makes no customer store call")
	assert.Zero(t, receipt.PointsEarned)
	assert.Nil(t, receipt.NewRewardsBalance)
}

func TestSubmit_RewardFailureLeavesOrderStanding(t *testing.T) {
	h := newHarness(t, time.Second)
	h.customers.err = errors.New("connection reset")

	receipt, err := h.svc.Submit(context.Background(), bobaMilkTea(t), SubmitRequest{
		CustomerID:    7,
		PaymentMethod: order.PaymentMethodCash,
	})
	require.NoError(t, err, "reward failure must not fail the submission")
	assert.NotZero(t, receipt.OrderID)
	assert.Equal(t, 1, h.orders.calls)

	var rerr *RewardAccrualError
	require.ErrorAs(t, receipt.RewardsErr, &rerr)
	assert.Equal(t, uint(7), rerr.CustomerID)
	assert.Equal(t, int64(1028), rerr.Points)
	assert.True(t, receipt.PartialSuccess())
	assert.False(t, receipt.RewardsRecorded)
}

func TestSubmit_OrderStoreFailure(t *testing.T) {
	h := newHarness(t, time.Second)
	h.orders.err = errors.New("unique violation")

	receipt, err := h.svc.Submit(context.Background(), bobaMilkTea(t), SubmitRequest{
		CustomerID:    7,
		PaymentMethod: order.PaymentMethodCash,
	})

	var serr *OrderStoreError
	require.ErrorAs(t, err, &serr)
	assert.Nil(t, receipt)
	assert.Zero(t, h.customers.calls, "rewards must not accrue when the order failed")
}

func TestSubmit_StoreTimeoutIsOrderStoreError(t *testing.T) {
	h := newHarness(t, 20*time.Millisecond)
	h.orders.block = true

	_, err := h.svc.Submit(context.Background(), bobaMilkTea(t), SubmitRequest{PaymentMethod: order.PaymentMethodCash})

	var serr *OrderStoreError
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSubmit_SnapshotIsIsolatedFromCart(t *testing.T) {
	h := newHarness(t, time.Second)
	items := bobaMilkTea(t)

	receipt, err := h.svc.Submit(context.Background(), items, SubmitRequest{PaymentMethod: order.PaymentMethodCash})
	require.NoError(t, err)

	items[0].Quantity = 99
	items[0].Options[3].Name = "Grass Jelly"

	assert.Equal(t, 2, receipt.Items[0].Quantity)
	assert.Equal(t, "Boba", receipt.Items[0].Options[3].Name)

	stored := h.orders.created[0].Items[0]
	assert.Equal(t, 2, stored.Quantity)
	assert.Equal(t, "Boba", stored.Options[3].Name)
}

func TestSubmit_IdempotencyKeyReplaysReceipt(t *testing.T) {
	h := newHarness(t, time.Second)
	req := SubmitRequest{
		CustomerID:     7,
		PaymentMethod:  order.PaymentMethodCash,
		IdempotencyKey: "kiosk-1-abc",
		SessionID:      "session-a",
	}

	first, err := h.svc.Submit(context.Background(), bobaMilkTea(t), req)
	require.NoError(t, err)
	second, err := h.svc.Submit(context.Background(), bobaMilkTea(t), req)
	require.NoError(t, err)

	assert.Equal(t, 1, h.orders.calls)
	assert.Equal(t, 1, h.customers.calls)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.OrderID, second.OrderID)
	assert.True(t, second.Total.Equal(first.Total), "replayed total %s differs from %s", second.Total, first.Total)

	assert.True(t, h.redis.Exists("checkout:idempotency:session-a:kiosk-1-abc"))
	assert.Equal(t, time.Hour, h.redis.TTL("checkout:idempotency:session-a:kiosk-1-abc"))
}

func TestSubmit_IdempotencyKeyIsScopedToSession(t *testing.T) {
	h := newHarness(t, time.Second)

	first, err := h.svc.Submit(context.Background(), bobaMilkTea(t), SubmitRequest{
		PaymentMethod:  order.PaymentMethodCash,
		IdempotencyKey: "order-1",
		SessionID:      "session-a",
	})
	require.NoError(t, err)

	other, err := h.svc.Submit(context.Background(), bobaMilkTea(t), SubmitRequest{
		PaymentMethod:  order.PaymentMethodCash,
		IdempotencyKey: "order-1",
		SessionID:      "session-b",
	})
	require.NoError(t, err)

	assert.False(t, other.Replayed, "another session's key must not replay")
	assert.NotEqual(t, first.OrderID, other.OrderID)
	assert.Equal(t, 2, h.orders.calls)

	_, err = h.svc.Submit(context.Background(), nil, SubmitRequest{
		PaymentMethod:  order.PaymentMethodCash,
		IdempotencyKey: "order-1",
		SessionID:      "session-c",
	})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmit_RetryAfterCartClearedReplays(t *testing.T) {
	h := newHarness(t, time.Second)
	req := SubmitRequest{PaymentMethod: order.PaymentMethodCash, IdempotencyKey: "kiosk-2-def", SessionID: "session-a"}

	first, err := h.svc.Submit(context.Background(), bobaMilkTea(t), req)
	require.NoError(t, err)

	second, err := h.svc.Submit(context.Background(), nil, req)
	require.NoError(t, err, "an emptied cart replays the completed submission")
	assert.True(t, second.Replayed)
	assert.Equal(t, first.OrderID, second.OrderID)

	_, err = h.svc.Submit(context.Background(), nil, SubmitRequest{
		PaymentMethod:  order.PaymentMethodCash,
		IdempotencyKey: "unknown",
		SessionID:      "session-a",
	})
	assert.ErrorIs(t, err, ErrEmptyCart, "unknown keys still reject an empty cart")
	assert.Equal(t, 1, h.orders.calls)
}

func TestSubmit_ReplayKeepsRewardsWarning(t *testing.T) {
	h := newHarness(t, time.Second)
	h.customers.err = errors.New("connection reset")
	req := SubmitRequest{CustomerID: 7, PaymentMethod: order.PaymentMethodCash, IdempotencyKey: "k", SessionID: "s"}

	_, err := h.svc.Submit(context.Background(), bobaMilkTea(t), req)
	require.NoError(t, err)

	replayed, err := h.svc.Submit(context.Background(), bobaMilkTea(t), req)
	require.NoError(t, err)
	assert.True(t, replayed.Replayed)
	assert.True(t, replayed.PartialSuccess())
	assert.Equal(t, rewardsWarning, replayed.Warning)
}

func TestSubmit_InFlightKeyIsRejected(t *testing.T) {
	h := newHarness(t, time.Second)
	require.NoError(t, h.redis.Set(idempotencyKey("session-a", "dup"), `{"status":"pending"}`))

	_, err := h.svc.Submit(context.Background(), bobaMilkTea(t), SubmitRequest{
		PaymentMethod:  order.PaymentMethodCash,
		IdempotencyKey: "dup",
		SessionID:      "session-a",
	})
	require.ErrorIs(t, err, ErrSubmissionInProgress)
	assert.Zero(t, h.orders.calls, "order store must not be called")
}

func TestSubmit_FailedSubmissionReleasesKey(t *testing.T) {
	h := newHarness(t, time.Second)
	req := SubmitRequest{PaymentMethod: order.PaymentMethodCash, IdempotencyKey: "retry-me", SessionID: "session-a"}

	h.orders.err = errors.New("db down")
	_, err := h.svc.Submit(context.Background(), bobaMilkTea(t), req)
	require.Error(t, err)
	assert.False(t, h.redis.Exists(idempotencyKey("session-a", "retry-me")), "a failed submission frees its key")

	h.orders.err = nil
	receipt, err := h.svc.Submit(context.Background(), bobaMilkTea(t), req)
	require.NoError(t, err)
	assert.False(t, receipt.Replayed)
	assert.NotZero(t, receipt.OrderID)
}

func TestSubmit_IdempotencyStoreDownStillSubmits(t *testing.T) {
	h := newHarness(t, time.Second)
	h.redis.Close()

	receipt, err := h.svc.Submit(context.Background(), bobaMilkTea(t), SubmitRequest{
		PaymentMethod:  order.PaymentMethodCash,
		IdempotencyKey: "k",
		SessionID:      "s",
	})
	require.NoError(t, err)
	assert.NotZero(t, receipt.OrderID)
	assert.Equal(t, 1, h.orders.calls)
}

func TestSubmit_ConcurrentOrdersForOneCustomer(t *testing.T) {
	h := newHarness(t, time.Second)
	items := bobaMilkTea(t)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.svc.Submit(context.Background(), items, SubmitRequest{
				CustomerID:    7,
				PaymentMethod: order.PaymentMethodCash,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100+n*1028), h.customers.balances[7])
}

func TestIdempotencyKey(t *testing.T) {
	assert.Equal(t, "checkout:idempotency:s1:k1", idempotencyKey("s1", "k1"))
	assert.Empty(t, idempotencyKey("s1", ""), "no client key means no guard")
}
