// Package construction holds the burger under construction: one bun slot
// and an ordered list of fillings.
//
// The reducer functions (Add, Remove, Reorder) are pure: they take a State
// and return a new one without touching the input. Machine wraps them with
// a mutex and an instance-id generator.
package construction

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/stellarburgers/internal/client/models"
	"github.com/dmitrijs2005/stellarburgers/internal/client/state/async"
)

// State of the burger. Bun is nil until a bun is chosen; Fillings never
// contains a bun.
type State struct {
	Bun      *models.ConstructionEntry
	Fillings []models.ConstructionEntry
}

// Initial returns the empty burger.
func Initial() State {
	return State{}
}

// IsEmpty reports whether nothing has been added.
func (s State) IsEmpty() bool {
	return s.Bun == nil && len(s.Fillings) == 0
}

// Price is the bun counted twice (top and bottom) plus every filling.
func (s State) Price() int {
	total := 0
	if s.Bun != nil {
		total += 2 * s.Bun.Price
	}
	for _, f := range s.Fillings {
		total += f.Price
	}
	return total
}

// IngredientIDs lists the ingredient ids in assembly order, bun first and
// last, as the order endpoint expects them.
func (s State) IngredientIDs() []string {
	ids := make([]string, 0, len(s.Fillings)+2)
	if s.Bun != nil {
		ids = append(ids, s.Bun.ID)
	}
	for _, f := range s.Fillings {
		ids = append(ids, f.ID)
	}
	if s.Bun != nil {
		ids = append(ids, s.Bun.ID)
	}
	return ids
}

// Counts returns how many times each ingredient id is used. The bun counts
// twice.
func (s State) Counts() map[string]int {
	counts := make(map[string]int, len(s.Fillings)+1)
	if s.Bun != nil {
		counts[s.Bun.ID] += 2
	}
	for _, f := range s.Fillings {
		counts[f.ID]++
	}
	return counts
}

func (s State) clone() State {
	out := State{Fillings: slices.Clone(s.Fillings)}
	if s.Bun != nil {
		bun := *s.Bun
		out.Bun = &bun
	}
	return out
}

// Add places entry into the burger. A bun replaces the current bun, any
// other ingredient is appended after the existing fillings.
func Add(s State, entry models.ConstructionEntry) State {
	out := s.clone()
	if entry.IsBun() {
		out.Bun = &entry
		return out
	}
	out.Fillings = append(out.Fillings, entry)
	return out
}

// Remove drops the filling with the given instance id. An unknown id leaves
// the state unchanged; the bun is never removed here.
func Remove(s State, instanceID string) State {
	out := s.clone()
	out.Fillings = slices.DeleteFunc(out.Fillings, func(e models.ConstructionEntry) bool {
		return e.InstanceID == instanceID
	})
	return out
}

// Reorder moves the filling at index from to index to, shifting the ones in
// between. Both indices must address existing fillings; anything else is a
// programming error and panics.
func Reorder(s State, from, to int) State {
	n := len(s.Fillings)
	if from < 0 || from >= n || to < 0 || to >= n {
		panic(fmt.Sprintf("construction: reorder index out of range [from=%d to=%d len=%d]", from, to, n))
	}
	out := s.clone()
	if from == to {
		return out
	}
	moved := out.Fillings[from]
	out.Fillings = slices.Delete(out.Fillings, from, from+1)
	out.Fillings = slices.Insert(out.Fillings, to, moved)
	return out
}

const sliceName = "burgerConstructor"

// Machine owns the construction state. It is safe for concurrent use.
type Machine struct {
	mu       sync.Mutex
	state    State
	newID    func() string
	listener async.Listener
}

// Option configures a Machine.
type Option func(*Machine)

// WithIDGenerator replaces the instance-id generator (uuid by default).
func WithIDGenerator(gen func() string) Option {
	return func(m *Machine) { m.newID = gen }
}

func WithListener(l async.Listener) Option {
	return func(m *Machine) { m.listener = l }
}

func NewMachine(opts ...Option) *Machine {
	m := &Machine{state: Initial(), newID: uuid.NewString}
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

// Add assigns a fresh instance id to ing, places it and returns the entry.
func (m *Machine) Add(ing models.Ingredient) models.ConstructionEntry {
	entry := models.ConstructionEntry{Ingredient: ing, InstanceID: m.newID()}
	m.apply("addIngredient", func(s State) State { return Add(s, entry) })
	return entry
}

func (m *Machine) Remove(instanceID string) {
	m.apply("deleteIngredient", func(s State) State { return Remove(s, instanceID) })
}

// Reorder panics on out-of-range indices, see Reorder.
func (m *Machine) Reorder(from, to int) {
	m.apply("reorderIngredient", func(s State) State { return Reorder(s, from, to) })
}

func (m *Machine) Reset() {
	m.apply("resetConstructor", func(State) State { return Initial() })
}

func (m *Machine) apply(action string, reduce func(State) State) {
	m.update(reduce)
	if m.listener != nil {
		m.listener(sliceName + "/" + action)
	}
}

func (m *Machine) update(reduce func(State) State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = reduce(m.state)
}
