package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/repository"
	"restaurant-ordering/internal/repository/jsonfile"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fakeRecomputer struct {
	calls int
	err   error
}

func (f *fakeRecomputer) Refresh(context.Context) error {
	f.calls++
	return f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.EventType
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev domain.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev.EventType)
	return p.err
}

type fixture struct {
	svc   *OrderService
	repo  *repository.Repository
	rc    *fakeRecomputer
	pub   *recordingPublisher
	clock *testclock.Clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := testclock.NewClock(t0)
	store, err := jsonfile.Open(t.TempDir(), jsonfile.Options{Clock: clk})
	require.NoError(t, err)

	f := &fixture{repo: repository.NewFile(store), rc: &fakeRecomputer{}, pub: &recordingPublisher{}, clock: clk}
	f.svc = NewOrderService(f.repo.OrderRepo, f.rc, f.pub, clk).(*OrderService)
	return f
}

func strPtr(s string) *string { return &s }

func dineIn(name string) domain.CreateOrderRequest {
	return domain.CreateOrderRequest{
		OrderType:     domain.OrderTypeDineIn,
		CustomerName:  name,
		Table:         strPtr("4"),
		ContactNumber: strPtr("09171234567"),
		Price:         decimal.NewFromInt(240),
		Items:         domain.OrderItems{{Name: "Adobo", Quantity: 2}},
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]func(*domain.CreateOrderRequest){
		"no customer":      func(r *domain.CreateOrderRequest) { r.CustomerName = "" },
		"bad type":         func(r *domain.CreateOrderRequest) { r.OrderType = "delivery" },
		"no items":         func(r *domain.CreateOrderRequest) { r.Items = nil },
		"negative price":   func(r *domain.CreateOrderRequest) { r.Price = decimal.NewFromInt(-5) },
		"dine-in no table": func(r *domain.CreateOrderRequest) { r.Table = strPtr(" ") },
		"pick-up no contact": func(r *domain.CreateOrderRequest) {
			r.OrderType = domain.OrderTypePickUp
			r.ContactNumber = nil
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := dineIn("Ana")
			mutate(&req)
			_, err := f.svc.Create(ctx, req)
			assert.True(t, errors.Is(err, errors.NotValid), "got %v", err)
		})
	}

	c, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Orders)
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.svc.Create(ctx, dineIn("Ana"))
	require.NoError(t, err)
	assert.Equal(t, "ORD001", o.ID)
	assert.Equal(t, t0, o.TimeOfOrder)
	require.NotNil(t, o.Table)
	assert.Equal(t, "4", *o.Table)
	assert.Nil(t, o.ContactNumber)

	req := dineIn("Ben")
	req.OrderType = domain.OrderTypePickUp
	o, err = f.svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "ORD002", o.ID)
	assert.Nil(t, o.Table)
	assert.Equal(t, "09171234567", *o.ContactNumber)

	assert.Equal(t, []domain.EventType{domain.EventOrderCreated, domain.EventOrderCreated}, f.pub.events)
}

func TestIDsStayUniqueAndIncreasing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var ids []string
	create := func() {
		o, err := f.svc.Create(ctx, dineIn("Ana"))
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}

	create() // ORD001
	create() // ORD002
	_, err := f.svc.MarkPaid(ctx, ids[0])
	require.NoError(t, err)
	create() // open has one order, ORD002 is taken
	_, err = f.svc.Cancel(ctx, ids[2])
	require.NoError(t, err)
	create() // ORD003 was handed out already

	assert.Equal(t, []string{"ORD001", "ORD002", "ORD003", "ORD004"}, ids)
}

func TestPaidUnpaidRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, dineIn("Ana"))
	require.NoError(t, err)

	f.clock.Advance(10 * time.Minute)
	paid, err := f.svc.MarkPaid(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	assert.Equal(t, domain.StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, t0.Add(10*time.Minute), *paid.PaidAt)

	_, stage, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StagePaid, stage)

	back, err := f.svc.MarkUnpaid(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, back)

	got, stage, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageOpen, stage)
	assert.Equal(t, created, got)
}

func TestCompleteRequiresPaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.svc.Create(ctx, dineIn("Ana"))
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, o.ID)
	assert.True(t, errors.Is(err, errors.NotFound))
	assert.Equal(t, 0, f.rc.calls)

	_, err = f.svc.MarkPaid(ctx, o.ID)
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	done, err := f.svc.Complete(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, done.TimeCompleted)
	assert.Equal(t, t0.Add(time.Hour), *done.TimeCompleted)
	assert.Equal(t, 1, f.rc.calls)

	c, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Orders)
	assert.Empty(t, c.PaidOrders)
	require.Len(t, c.CompletedOrders, 1)
}

func TestCancelThenCompleteIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.svc.Create(ctx, dineIn("Ana"))
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, o.ID)
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, o.ID)
	assert.True(t, errors.Is(err, errors.NotFound))
	_, err = f.svc.Cancel(ctx, o.ID)
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestRefreshFailureDoesNotFailComplete(t *testing.T) {
	f := newFixture(t)
	f.rc.err = errors.New("disk full")
	ctx := context.Background()

	o, err := f.svc.Create(ctx, dineIn("Ana"))
	require.NoError(t, err)
	_, err = f.svc.MarkPaid(ctx, o.ID)
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, o.ID)
	require.NoError(t, err)

	_, err = f.svc.DeleteCompleted(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.rc.calls)

	_, _, err = f.svc.Get(ctx, o.ID)
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestPublishFailureIsLoggedOnly(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("broker down")

	_, err := f.svc.Create(context.Background(), dineIn("Ana"))
	assert.NoError(t, err)
}

func TestEmptyIDIsNotValid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for name, op := range map[string]func(context.Context, string) (domain.Order, error){
		"mark-paid":        f.svc.MarkPaid,
		"mark-unpaid":      f.svc.MarkUnpaid,
		"complete":         f.svc.Complete,
		"cancel":           f.svc.Cancel,
		"delete-completed": f.svc.DeleteCompleted,
	} {
		_, err := op(ctx, "")
		assert.True(t, errors.Is(err, errors.NotValid), name)
	}
}

func TestIDIsTrimmedBeforeLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.svc.Create(ctx, dineIn("Ana"))
	require.NoError(t, err)

	paid, err := f.svc.MarkPaid(ctx, "  "+o.ID+"\t")
	require.NoError(t, err)
	assert.Equal(t, o.ID, paid.ID)

	_, stage, err := f.svc.Get(ctx, " "+o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StagePaid, stage)

	_, err = f.svc.Complete(ctx, o.ID+" ")
	require.NoError(t, err)
	_, err = f.svc.DeleteCompleted(ctx, " "+o.ID+" ")
	require.NoError(t, err)
}
