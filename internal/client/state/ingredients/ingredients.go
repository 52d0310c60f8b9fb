// Package ingredients holds the ingredient catalogue loaded from the remote
// API.
package ingredients

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/stellarburgers/internal/client/models"
	"github.com/dmitrijs2005/stellarburgers/internal/client/state/async"
	"github.com/dmitrijs2005/stellarburgers/internal/logging"
)

const (
	sliceName = "ingredients"
	opFetch   = sliceName + "/fetchIngredients"

	DefaultFetchError = "failed to load ingredients"
)

type State struct {
	All       []models.Ingredient
	IsLoading bool
	Error     string
}

func Initial() State {
	return State{}
}

// ByID finds an ingredient in the catalogue.
func (s State) ByID(id string) (models.Ingredient, bool) {
	i := slices.IndexFunc(s.All, func(ing models.Ingredient) bool { return ing.ID == id })
	if i < 0 {
		return models.Ingredient{}, false
	}
	return s.All[i], true
}

func (s State) Buns() []models.Ingredient   { return s.ofType(models.IngredientTypeBun) }
func (s State) Sauces() []models.Ingredient { return s.ofType(models.IngredientTypeSauce) }
func (s State) Mains() []models.Ingredient  { return s.ofType(models.IngredientTypeMain) }

func (s State) ofType(t models.IngredientType) []models.Ingredient {
	var out []models.Ingredient
	for _, ing := range s.All {
		if ing.Type == t {
			out = append(out, ing)
		}
	}
	return out
}

func (s State) clone() State {
	s.All = slices.Clone(s.All)
	return s
}

// ReduceFetch applies one phase of a catalogue fetch.
func ReduceFetch(s State, o async.Outcome[[]models.Ingredient]) State {
	out := s.clone()
	switch o.Phase {
	case async.Pending:
		out.IsLoading = true
		out.Error = ""
	case async.Fulfilled:
		out.IsLoading = false
		out.All = slices.Clone(o.Payload)
	case async.Rejected:
		out.IsLoading = false
		out.Error = async.Message(o.Err, DefaultFetchError)
	}
	return out
}

// Source is the part of the gateway the catalogue needs.
type Source interface {
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
}

// Machine owns the catalogue state. It is safe for concurrent use.
type Machine struct {
	src      Source
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

func NewMachine(src Source, opts ...Option) *Machine {
	m := &Machine{src: src, log: logging.NewDiscard(), state: Initial()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Fetch loads the catalogue and blocks until the call settles. The error is
// also recorded in the state. A response overtaken by a newer Fetch is
// dropped.
func (m *Machine) Fetch(ctx context.Context) error {
	seq := m.seq.Next(opFetch)
	m.apply(async.Start[[]models.Ingredient](seq))

	list, err := m.src.ListIngredients(ctx)
	if err != nil {
		m.log.Warn(ctx, "failed to load ingredients", "error", err)
	} else {
		m.log.Info(ctx, "ingredients loaded", "count", len(list))
	}
	m.apply(async.Settle(seq, list, err))
	return err
}

func (m *Machine) apply(o async.Outcome[[]models.Ingredient]) {
	m.mu.Lock()
	stale := o.Terminal() && !m.seq.IsLatest(opFetch, o.Seq)
	if !stale {
		m.state = ReduceFetch(m.state, o)
	}
	m.mu.Unlock()

	if stale {
		m.log.Debug(context.Background(), "dropping stale response", "op", opFetch, "seq", o.Seq)
		return
	}
	if m.listener != nil {
		m.listener(async.Event(opFetch, o.Phase))
	}
}
