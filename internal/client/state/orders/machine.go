package orders

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/stellarburgers/internal/client/models"
	"github.com/dmitrijs2005/stellarburgers/internal/client/state/async"
	"github.com/dmitrijs2005/stellarburgers/internal/common"
	"github.com/dmitrijs2005/stellarburgers/internal/logging"
)

const (
	sliceName = "orders"

	opSubmit        = sliceName + "/createOrder"
	opFeed          = sliceName + "/fetchFeeds"
	opUserOrders    = sliceName + "/fetchUserOrders"
	opOrderByNumber = sliceName + "/fetchOrderByNumber"
	opClearCurrent  = sliceName + "/clearCurrentOrder"
)

// Gateway is the part of the remote API the orders slice needs.
type Gateway interface {
	SubmitOrder(ctx context.Context, ingredientIDs []string) (*models.OrderReceipt, error)
	ListFeed(ctx context.Context) (*models.Feed, error)
	ListUserOrders(ctx context.Context) ([]models.Order, error)
	GetOrderByNumber(ctx context.Context, number int) ([]models.Order, error)
}

// Machine owns the orders state and is safe for concurrent use.
//
// Operations block until the gateway call settles. The pending transition is
// applied before the call starts. When several fetches of the same kind
// overlap, only the response of the latest one is applied.
type Machine struct {
	gw       Gateway
	log      logging.Logger
	listener async.Listener
	seq      async.Sequencer

	mu    sync.Mutex
	state State
}

type Option func(*Machine)

func WithLogger(l logging.Logger) Option {
	return func(m *Machine) { m.log = l }
}

func WithListener(l async.Listener) Option {
	return func(m *Machine) { m.listener = l }
}

func NewMachine(gw Gateway, opts ...Option) *Machine {
	m := &Machine{gw: gw, log: logging.NewDiscard(), state: Initial()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// SubmitOrder places an order for the given ingredient ids and returns it.
// Only one submission may be in flight: a second call made meanwhile fails
// with common.ErrSubmissionInFlight without reaching the gateway or
// changing the state.
func (m *Machine) SubmitOrder(ctx context.Context, ingredientIDs []string) (*models.Order, error) {
	m.mu.Lock()
	if m.state.OrderRequest {
		m.mu.Unlock()
		return nil, common.ErrSubmissionInFlight
	}
	seq := m.seq.Next(opSubmit)
	m.state = ReduceSubmit(m.state, async.Start[models.OrderReceipt](seq))
	m.mu.Unlock()
	m.notify(opSubmit, async.Pending)

	var receipt models.OrderReceipt
	r, err := m.gw.SubmitOrder(ctx, ingredientIDs)
	if err == nil && r == nil {
		err = common.ErrEmptyResponse
	}
	if err != nil {
		m.log.Warn(ctx, "order submission failed", "error", err)
	} else {
		receipt = *r
		m.log.Info(ctx, "order placed", "number", receipt.Order.Number, "name", receipt.Name)
	}

	apply(m, opSubmit, async.Settle(seq, receipt, err), ReduceSubmit)
	if err != nil {
		return nil, err
	}
	order := receipt.Order
	return &order, nil
}

func (m *Machine) FetchFeed(ctx context.Context) error {
	seq := m.seq.Next(opFeed)
	apply(m, opFeed, async.Start[models.Feed](seq), ReduceFeed)

	var feed models.Feed
	f, err := m.gw.ListFeed(ctx)
	if err == nil && f == nil {
		err = common.ErrEmptyResponse
	}
	if err != nil {
		m.log.Warn(ctx, "failed to load order feed", "error", err)
	} else {
		feed = *f
		m.log.Info(ctx, "order feed loaded", "orders", len(feed.Orders), "total", feed.Total)
	}

	apply(m, opFeed, async.Settle(seq, feed, err), ReduceFeed)
	return err
}

func (m *Machine) FetchUserOrders(ctx context.Context) error {
	seq := m.seq.Next(opUserOrders)
	apply(m, opUserOrders, async.Start[[]models.Order](seq), ReduceUserOrders)

	list, err := m.gw.ListUserOrders(ctx)
	if err != nil {
		m.log.Warn(ctx, "failed to load user orders", "error", err)
	} else {
		m.log.Info(ctx, "user orders loaded", "orders", len(list))
	}

	apply(m, opUserOrders, async.Settle(seq, list, err), ReduceUserOrders)
	return err
}

// FetchOrderByNumber loads one order into CurrentOrder. When the gateway
// finds nothing the call fails with common.ErrOrderNotFound and the
// previous CurrentOrder stays.
func (m *Machine) FetchOrderByNumber(ctx context.Context, number int) error {
	seq := m.seq.Next(opOrderByNumber)
	apply(m, opOrderByNumber, async.Start[[]models.Order](seq), ReduceOrderByNumber)

	list, err := m.gw.GetOrderByNumber(ctx, number)
	if err == nil && len(list) == 0 {
		err = common.ErrOrderNotFound
	}
	if err != nil {
		m.log.Warn(ctx, "failed to load order", "number", number, "error", err)
	}

	apply(m, opOrderByNumber, async.Settle(seq, list, err), ReduceOrderByNumber)
	return err
}

// ClearCurrentOrder drops the order in focus.
func (m *Machine) ClearCurrentOrder() {
	m.mu.Lock()
	m.state = ClearCurrentOrder(m.state)
	m.mu.Unlock()
	if m.listener != nil {
		m.listener(opClearCurrent)
	}
}

// apply reduces o into the state unless it is the terminal outcome of an
// invocation that a newer one of the same kind has superseded.
func apply[T any](m *Machine, op string, o async.Outcome[T], reduce func(State, async.Outcome[T]) State) {
	m.mu.Lock()
	stale := o.Terminal() && !m.seq.IsLatest(op, o.Seq)
	if !stale {
		m.state = reduce(m.state, o)
	}
	m.mu.Unlock()

	if stale {
		m.log.Debug(context.Background(), "dropping stale response", "op", op, "seq", o.Seq)
		return
	}
	m.notify(op, o.Phase)
}

func (m *Machine) notify(op string, p async.Phase) {
	if m.listener != nil {
		m.listener(async.Event(op, p))
	}
}
