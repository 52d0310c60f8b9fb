package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/stellarburgers/internal/client/client"
	"github.com/dmitrijs2005/stellarburgers/internal/client/models"
	"github.com/dmitrijs2005/stellarburgers/internal/client/state/async"
	"github.com/dmitrijs2005/stellarburgers/internal/common"
)

var (
	orderA = models.Order{ID: "o1", Number: 92532, Status: models.OrderStatusDone, Name: "Space burger", Ingredients: []string{"b1", "m1", "b1"}}
	orderB = models.Order{ID: "o2", Number: 92533, Status: models.OrderStatusPending, Name: "Spicy burger", Ingredients: []string{"b1", "s1", "b1"}}
)

// fakeGateway implements Gateway for unit tests. Hooks, when set, run
// before the canned result is returned.
type fakeGateway struct {
	mu sync.Mutex

	SubmitRet  *models.OrderReceipt
	SubmitErr  error
	SubmitHook func(ctx context.Context)

	FeedRet  *models.Feed
	FeedErr  error
	FeedHook func(ctx context.Context, call int)

	UserOrdersRet []models.Order
	UserOrdersErr error

	ByNumberRet []models.Order
	ByNumberErr error

	LastSubmitIDs  []string
	LastByNumber   int
	SubmitCalls    int
	FeedCalls      int
	ByNumberCalls  int
	UserOrderCalls int
}

func (f *fakeGateway) SubmitOrder(ctx context.Context, ids []string) (*models.OrderReceipt, error) {
	f.mu.Lock()
	f.SubmitCalls++
	f.LastSubmitIDs = append([]string(nil), ids...)
	hook := f.SubmitHook
	f.mu.Unlock()
	if hook != nil {
		hook(ctx)
	}
	return f.SubmitRet, f.SubmitErr
}

func (f *fakeGateway) ListFeed(ctx context.Context) (*models.Feed, error) {
	f.mu.Lock()
	f.FeedCalls++
	call := f.FeedCalls
	hook := f.FeedHook
	f.mu.Unlock()
	if hook != nil {
		hook(ctx, call)
	}
	return f.FeedRet, f.FeedErr
}

func (f *fakeGateway) ListUserOrders(ctx context.Context) ([]models.Order, error) {
	f.UserOrderCalls++
	return f.UserOrdersRet, f.UserOrdersErr
}

func (f *fakeGateway) GetOrderByNumber(ctx context.Context, number int) ([]models.Order, error) {
	f.ByNumberCalls++
	f.LastByNumber = number
	return f.ByNumberRet, f.ByNumberErr
}

/*************
 * Reducers
 *************/

func TestReduceSubmit(t *testing.T) {
	pending := ReduceSubmit(State{Error: "old"}, async.Start[models.OrderReceipt](1))
	require.True(t, pending.OrderRequest)
	require.Empty(t, pending.Error)
	require.False(t, pending.IsLoading)

	done := ReduceSubmit(pending, async.Settle(1, models.OrderReceipt{Name: orderA.Name, Order: orderA}, nil))
	require.False(t, done.OrderRequest)
	require.NotNil(t, done.CurrentOrder)
	require.Equal(t, 92532, done.CurrentOrder.Number)
}

func TestReduceSubmit_RejectedKeepsCurrentOrder(t *testing.T) {
	tests := []struct {
		name    string
		current *models.Order
		err     error
		wantErr string
	}{
		{"no prior order, server message", nil, &client.APIError{Status: 400, Message: "Ingredient ids must be provided"}, "Ingredient ids must be provided"},
		{"no prior order, empty message", nil, &client.APIError{Status: 500}, DefaultSubmitError},
		{"prior order kept", &orderB, errors.New("network down"), "network down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ReduceSubmit(State{CurrentOrder: tt.current}, async.Start[models.OrderReceipt](1))
			s = ReduceSubmit(s, async.Settle(1, models.OrderReceipt{}, tt.err))

			require.False(t, s.OrderRequest)
			require.Equal(t, tt.current, s.CurrentOrder)
			require.Equal(t, tt.wantErr, s.Error)
		})
	}
}

func TestReduceFeed(t *testing.T) {
	s := ReduceFeed(Initial(), async.Start[models.Feed](1))
	require.True(t, s.IsLoading)

	s = ReduceFeed(s, async.Settle(1, models.Feed{Orders: []models.Order{orderA, orderB}, Total: 100, TotalToday: 7}, nil))
	require.False(t, s.IsLoading)
	require.Equal(t, []models.Order{orderA, orderB}, s.Feeds)
	require.Equal(t, 100, s.Total)
	require.Equal(t, 7, s.TotalToday)

	s = ReduceFeed(ReduceFeed(s, async.Start[models.Feed](2)), async.Settle(2, models.Feed{}, &client.APIError{Status: 503}))
	require.False(t, s.IsLoading)
	require.Equal(t, DefaultFeedError, s.Error)
	require.Len(t, s.Feeds, 2, "feeds untouched on failure")
	require.Equal(t, 100, s.Total)
}

func TestReduceUserOrders(t *testing.T) {
	s := ReduceUserOrders(Initial(), async.Start[[]models.Order](1))
	require.True(t, s.IsLoading)

	s = ReduceUserOrders(s, async.Settle(1, []models.Order{orderB}, nil))
	require.Equal(t, []models.Order{orderB}, s.UserOrders)
	require.Empty(t, s.Feeds)

	s = ReduceUserOrders(s, async.Settle[[]models.Order](2, nil, &client.APIError{Status: 401}))
	require.Equal(t, DefaultUserOrdersError, s.Error)
	require.Equal(t, []models.Order{orderB}, s.UserOrders)
}

func TestReduceOrderByNumber(t *testing.T) {
	s := ReduceOrderByNumber(Initial(), async.Start[[]models.Order](1))
	require.True(t, s.IsLoading)

	s = ReduceOrderByNumber(s, async.Settle(1, []models.Order{orderA, orderB}, nil))
	require.False(t, s.IsLoading)
	require.Equal(t, orderA, *s.CurrentOrder)

	empty := ReduceOrderByNumber(s, async.Settle(2, []models.Order{}, nil))
	require.Equal(t, orderA, *empty.CurrentOrder)
	require.Equal(t, common.ErrOrderNotFound.Error(), empty.Error)

	failed := ReduceOrderByNumber(s, async.Settle[[]models.Order](3, nil, &client.APIError{Status: 404}))
	require.Equal(t, DefaultOrderByNumberError, failed.Error)
	require.Equal(t, orderA, *failed.CurrentOrder)
}

func TestClearCurrentOrder(t *testing.T) {
	s := State{CurrentOrder: &orderA, Feeds: []models.Order{orderB}}
	out := ClearCurrentOrder(s)

	require.Nil(t, out.CurrentOrder)
	require.Equal(t, s.Feeds, out.Feeds)
	require.NotNil(t, s.CurrentOrder, "input untouched")
}

/*************
 * Machine
 *************/

func TestMachine_SubmitOrder(t *testing.T) {
	var events []string
	gw := &fakeGateway{SubmitRet: &models.OrderReceipt{Name: orderA.Name, Order: orderA}}
	m := NewMachine(gw, WithListener(func(ev string) { events = append(events, ev) }))

	got, err := m.SubmitOrder(context.Background(), []string{"b1", "m1", "b1"})
	require.NoError(t, err)
	require.Equal(t, 92532, got.Number)
	require.Equal(t, []string{"b1", "m1", "b1"}, gw.LastSubmitIDs)

	s := m.Snapshot()
	require.False(t, s.OrderRequest)
	require.Equal(t, 92532, s.CurrentOrder.Number)
	require.Equal(t, []string{"orders/createOrder/pending", "orders/createOrder/fulfilled"}, events)

	m.ClearCurrentOrder()
	require.Nil(t, m.Snapshot().CurrentOrder)
	require.Equal(t, "orders/clearCurrentOrder", events[len(events)-1])
}

func TestMachine_SubmitOrderObservesPendingFirst(t *testing.T) {
	var m *Machine
	gw := &fakeGateway{SubmitRet: &models.OrderReceipt{Order: orderA}}
	gw.SubmitHook = func(context.Context) {
		s := m.Snapshot()
		require.True(t, s.OrderRequest)
		require.Nil(t, s.CurrentOrder)
	}
	m = NewMachine(gw)

	_, err := m.SubmitOrder(context.Background(), []string{"b1"})
	require.NoError(t, err)
	require.False(t, m.Snapshot().OrderRequest)
}

func TestMachine_SubmitOrderRejected(t *testing.T) {
	gw := &fakeGateway{SubmitErr: &client.APIError{Status: 500}}
	m := NewMachine(gw)

	_, err := m.SubmitOrder(context.Background(), []string{"b1"})
	require.ErrorIs(t, err, client.ErrUnavailable)

	s := m.Snapshot()
	require.False(t, s.OrderRequest)
	require.Nil(t, s.CurrentOrder)
	require.Equal(t, DefaultSubmitError, s.Error)
}

func TestMachine_EmptyPayloadIsRejected(t *testing.T) {
	m := NewMachine(&fakeGateway{})
	ctx := context.Background()

	_, err := m.SubmitOrder(ctx, []string{"b1"})
	require.ErrorIs(t, err, common.ErrEmptyResponse)
	require.False(t, m.Snapshot().OrderRequest)
	require.Nil(t, m.Snapshot().CurrentOrder)

	require.ErrorIs(t, m.FetchFeed(ctx), common.ErrEmptyResponse)
	s := m.Snapshot()
	require.False(t, s.IsLoading)
	require.NotEmpty(t, s.Error)
}

func TestMachine_SecondSubmissionRefusedWhileInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	gw := &fakeGateway{SubmitRet: &models.OrderReceipt{Order: orderA}}
	gw.SubmitHook = func(context.Context) {
		close(entered)
		<-release
	}
	m := NewMachine(gw)

	done := make(chan error, 1)
	go func() {
		_, err := m.SubmitOrder(context.Background(), []string{"b1"})
		done <- err
	}()
	<-entered

	_, err := m.SubmitOrder(context.Background(), []string{"b1"})
	require.ErrorIs(t, err, common.ErrSubmissionInFlight)
	require.True(t, m.Snapshot().OrderRequest)

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("first submission did not finish")
	}

	gw.mu.Lock()
	require.Equal(t, 1, gw.SubmitCalls)
	gw.mu.Unlock()
	require.False(t, m.Snapshot().OrderRequest)
}

func TestMachine_FetchFeed(t *testing.T) {
	gw := &fakeGateway{FeedRet: &models.Feed{Orders: []models.Order{orderA}, Total: 10, TotalToday: 2}}
	m := NewMachine(gw)

	require.NoError(t, m.FetchFeed(context.Background()))
	s := m.Snapshot()
	require.Equal(t, []models.Order{orderA}, s.Feeds)
	require.Equal(t, 10, s.Total)
	require.Equal(t, 2, s.TotalToday)
	require.False(t, s.IsLoading)

	gw.FeedErr = &client.APIError{Status: 500, Message: "maintenance"}
	require.Error(t, m.FetchFeed(context.Background()))
	s = m.Snapshot()
	require.Equal(t, "maintenance", s.Error)
	require.Equal(t, []models.Order{orderA}, s.Feeds)
}

func TestMachine_FetchFeedDropsStaleResponse(t *testing.T) {
	var m *Machine
	gw := &fakeGateway{}
	gw.FeedHook = func(ctx context.Context, call int) {
		if call == 1 {
			// a second fetch overtakes the first one and answers first
			gw.mu.Lock()
			gw.FeedRet = &models.Feed{Orders: []models.Order{orderB}, Total: 2}
			gw.mu.Unlock()
			require.NoError(t, m.FetchFeed(ctx))

			gw.mu.Lock()
			gw.FeedRet = &models.Feed{Orders: []models.Order{orderA}, Total: 1}
			gw.mu.Unlock()
		}
	}
	m = NewMachine(gw)

	require.NoError(t, m.FetchFeed(context.Background()))

	s := m.Snapshot()
	require.Equal(t, []models.Order{orderB}, s.Feeds)
	require.Equal(t, 2, s.Total)
	require.False(t, s.IsLoading)
}

func TestMachine_FetchUserOrders(t *testing.T) {
	gw := &fakeGateway{UserOrdersRet: []models.Order{orderA, orderB}}
	m := NewMachine(gw)

	require.NoError(t, m.FetchUserOrders(context.Background()))
	require.Equal(t, []models.Order{orderA, orderB}, m.Snapshot().UserOrders)
	require.Empty(t, m.Snapshot().Feeds)
}

func TestMachine_FetchOrderByNumber(t *testing.T) {
	gw := &fakeGateway{ByNumberRet: []models.Order{orderA}}
	m := NewMachine(gw)

	require.NoError(t, m.FetchOrderByNumber(context.Background(), 92532))
	require.Equal(t, 92532, gw.LastByNumber)
	require.Equal(t, orderA, *m.Snapshot().CurrentOrder)
}

func TestMachine_FetchOrderByNumberNotFound(t *testing.T) {
	var events []string
	gw := &fakeGateway{ByNumberRet: []models.Order{orderA}}
	m := NewMachine(gw, WithListener(func(ev string) { events = append(events, ev) }))
	require.NoError(t, m.FetchOrderByNumber(context.Background(), 92532))

	gw.ByNumberRet = nil
	err := m.FetchOrderByNumber(context.Background(), 1)
	require.ErrorIs(t, err, common.ErrOrderNotFound)

	s := m.Snapshot()
	require.Equal(t, orderA, *s.CurrentOrder)
	require.Equal(t, "order not found", s.Error)
	require.Equal(t, "orders/fetchOrderByNumber/rejected", events[len(events)-1])
}

func TestMachine_SnapshotIsACopy(t *testing.T) {
	gw := &fakeGateway{ByNumberRet: []models.Order{orderA}}
	m := NewMachine(gw)
	require.NoError(t, m.FetchOrderByNumber(context.Background(), 92532))

	s := m.Snapshot()
	s.CurrentOrder.Number = 1
	s.CurrentOrder.Ingredients[0] = "changed"

	again := m.Snapshot()
	require.Equal(t, 92532, again.CurrentOrder.Number)
	require.Equal(t, "b1", again.CurrentOrder.Ingredients[0])
}
