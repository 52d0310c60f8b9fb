// Package store ties the client state machines together and is the only
// surface the presentation layer talks to: it reads Snapshots and calls
// intents.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/stellarburgers/internal/client/client"
	"github.com/dmitrijs2005/stellarburgers/internal/client/models"
	"github.com/dmitrijs2005/stellarburgers/internal/client/state/construction"
	"github.com/dmitrijs2005/stellarburgers/internal/client/state/ingredients"
	"github.com/dmitrijs2005/stellarburgers/internal/client/state/orders"
	"github.com/dmitrijs2005/stellarburgers/internal/client/state/session"
	"github.com/dmitrijs2005/stellarburgers/internal/common"
	"github.com/dmitrijs2005/stellarburgers/internal/logging"
)

// Snapshot is a copy of every slice at one moment. Each slice is copied
// under its own lock, so the four parts may straddle a concurrent
// transition.
type Snapshot struct {
	Construction construction.State
	Ingredients  ingredients.State
	Orders       orders.State
	Session      session.State
}

// Store owns the construction, ingredients, orders and session machines.
type Store struct {
	construction *construction.Machine
	ingredients  *ingredients.Machine
	orders       *orders.Machine
	session      *session.Machine
	log          logging.Logger

	mu        sync.RWMutex
	listeners []func(event string)
}

type config struct {
	log   logging.Logger
	newID func() string
}

type Option func(*config)

func WithLogger(l logging.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithIDGenerator overrides how construction instance ids are made.
func WithIDGenerator(gen func() string) Option {
	return func(c *config) { c.newID = gen }
}

// New wires the machines to the gateway and the credential store.
func New(gw client.Gateway, creds session.CredentialStore, opts ...Option) *Store {
	cfg := config{log: logging.NewDiscard()}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Store{log: cfg.log}

	cOpts := []construction.Option{construction.WithListener(s.notify)}
	if cfg.newID != nil {
		cOpts = append(cOpts, construction.WithIDGenerator(cfg.newID))
	}
	s.construction = construction.NewMachine(cOpts...)
	s.ingredients = ingredients.NewMachine(gw,
		ingredients.WithLogger(cfg.log.With("slice", "ingredients")),
		ingredients.WithListener(s.notify))
	s.orders = orders.NewMachine(gw,
		orders.WithLogger(cfg.log.With("slice", "orders")),
		orders.WithListener(s.notify))
	s.session = session.NewMachine(gw, creds,
		session.WithLogger(cfg.log.With("slice", "session")),
		session.WithListener(s.notify))
	return s
}

// OnChange registers fn to be told the name of every transition. Listeners
// run synchronously on the goroutine that caused the transition and must
// not block for long.
func (s *Store) OnChange(fn func(event string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify(event string) {
	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(event)
	}
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Construction: s.construction.Snapshot(),
		Ingredients:  s.ingredients.Snapshot(),
		Orders:       s.orders.Snapshot(),
		Session:      s.session.Snapshot(),
	}
}

// Bootstrap runs the app start effects concurrently: restoring the session
// and loading the catalogue. A failed restore only leaves the user logged
// out; the returned error reports the catalogue load.
func (s *Store) Bootstrap(ctx context.Context) error {
	var g errgroup.Group

	g.Go(func() error {
		if err := s.session.RestoreSession(ctx); err != nil && !errors.Is(err, common.ErrNoCredentials) {
			s.log.Info(ctx, "starting without a session", "reason", err)
		}
		return nil
	})
	g.Go(func() error {
		return s.ingredients.Fetch(ctx)
	})

	return g.Wait()
}

/*************
 * Catalogue
 *************/

func (s *Store) FetchIngredients(ctx context.Context) error {
	return s.ingredients.Fetch(ctx)
}

/*************
 * Construction
 *************/

// AddIngredient puts the catalogue ingredient with the given id into the
// burger.
func (s *Store) AddIngredient(id string) (models.ConstructionEntry, error) {
	ing, ok := s.ingredients.Snapshot().ByID(id)
	if !ok {
		return models.ConstructionEntry{}, fmt.Errorf("%w: %s", common.ErrUnknownIngredient, id)
	}
	return s.construction.Add(ing), nil
}

func (s *Store) RemoveIngredient(instanceID string) {
	s.construction.Remove(instanceID)
}

// MoveIngredient moves a filling between positions. Out-of-range indices
// panic.
func (s *Store) MoveIngredient(from, to int) {
	s.construction.Reorder(from, to)
}

func (s *Store) ResetConstruction() {
	s.construction.Reset()
}

/*************
 * Orders
 *************/

// PlaceOrder submits the burger under construction and empties the
// constructor once the order is accepted. It refuses a burger without a
// bun and a client that is not logged in.
func (s *Store) PlaceOrder(ctx context.Context) (*models.Order, error) {
	burger := s.construction.Snapshot()
	if burger.Bun == nil {
		return nil, common.ErrIncompleteBurger
	}
	if s.session.Snapshot().User == nil {
		return nil, common.ErrNotLoggedIn
	}

	order, err := s.orders.SubmitOrder(ctx, burger.IngredientIDs())
	if err != nil {
		return nil, err
	}
	s.construction.Reset()
	return order, nil
}

func (s *Store) FetchFeed(ctx context.Context) error {
	return s.orders.FetchFeed(ctx)
}

func (s *Store) FetchUserOrders(ctx context.Context) error {
	return s.orders.FetchUserOrders(ctx)
}

func (s *Store) FetchOrderByNumber(ctx context.Context, number int) error {
	return s.orders.FetchOrderByNumber(ctx, number)
}

func (s *Store) ClearCurrentOrder() {
	s.orders.ClearCurrentOrder()
}

/*************
 * Session
 *************/

func (s *Store) Register(ctx context.Context, req models.RegisterRequest) error {
	return s.session.Register(ctx, req)
}

func (s *Store) Login(ctx context.Context, req models.LoginRequest) error {
	return s.session.Login(ctx, req)
}

func (s *Store) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}

func (s *Store) RestoreSession(ctx context.Context) error {
	return s.session.RestoreSession(ctx)
}

func (s *Store) UpdateProfile(ctx context.Context, req models.ProfileUpdate) error {
	return s.session.UpdateProfile(ctx, req)
}

func (s *Store) RequestPasswordReset(ctx context.Context, email string) error {
	return s.session.RequestPasswordReset(ctx, email)
}

func (s *Store) ResetPassword(ctx context.Context, password, code string) error {
	return s.session.ResetPassword(ctx, password, code)
}
