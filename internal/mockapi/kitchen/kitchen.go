// Package kitchen serves the ingredient catalogue and takes orders for the
// development API.
package kitchen

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/stellarburgers/internal/client/models"
)

//go:embed catalogue.json
var defaultCatalogue []byte

// FeedSize is how many of the latest orders the public feed lists.
const FeedSize = 50

var (
	ErrNoIngredients     = errors.New("Ingredient ids must be provided")
	ErrUnknownIngredient = errors.New("One or more ids provided are incorrect")
)

// DefaultCatalogue returns the built-in ingredient list.
func DefaultCatalogue() []models.Ingredient {
	var out []models.Ingredient
	if err := json.Unmarshal(defaultCatalogue, &out); err != nil {
		panic(fmt.Sprintf("embedded catalogue: %v", err))
	}
	return out
}

type placedOrder struct {
	order models.Order
	owner string
}

// Kitchen is safe for concurrent use. Orders are created pending and
// reported done once CookTime has passed.
type Kitchen struct {
	catalogue []models.Ingredient
	byID      map[string]models.Ingredient
	cookTime  time.Duration
	now       func() time.Time

	mu     sync.Mutex
	orders []placedOrder
	next   int
}

type Option func(*Kitchen)

func WithCookTime(d time.Duration) Option {
	return func(k *Kitchen) { k.cookTime = d }
}

func WithClock(now func() time.Time) Option {
	return func(k *Kitchen) { k.now = now }
}

// New creates a kitchen whose first order gets firstNumber.
func New(catalogue []models.Ingredient, firstNumber int, opts ...Option) *Kitchen {
	k := &Kitchen{
		catalogue: slices.Clone(catalogue),
		byID:      make(map[string]models.Ingredient, len(catalogue)),
		cookTime:  15 * time.Second,
		now:       time.Now,
		next:      firstNumber,
	}
	for _, ing := range catalogue {
		k.byID[ing.ID] = ing
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

func (k *Kitchen) Ingredients() []models.Ingredient {
	return slices.Clone(k.catalogue)
}

// PlaceOrder records an order for owner. Every id must name a catalogue
// ingredient.
func (k *Kitchen) PlaceOrder(owner string, ids []string) (models.OrderReceipt, error) {
	if len(ids) == 0 {
		return models.OrderReceipt{}, ErrNoIngredients
	}
	for _, id := range ids {
		if _, ok := k.byID[id]; !ok {
			return models.OrderReceipt{}, ErrUnknownIngredient
		}
	}

	name := k.burgerName(ids)
	now := k.now()

	k.mu.Lock()
	order := models.Order{
		ID:          uuid.NewString(),
		Number:      k.next,
		Status:      models.OrderStatusPending,
		Name:        name,
		Ingredients: slices.Clone(ids),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	k.next++
	k.orders = append(k.orders, placedOrder{order: order, owner: owner})
	k.mu.Unlock()

	return models.OrderReceipt{Name: name, Order: order}, nil
}

// burgerName is the bun's name followed by the distinct fillings' first
// words, e.g. "Crater Spicy-X Martian burger".
func (k *Kitchen) burgerName(ids []string) string {
	var words []string
	seen := map[string]bool{}
	for _, id := range ids {
		ing := k.byID[id]
		if seen[id] {
			continue
		}
		seen[id] = true
		first, _, _ := strings.Cut(ing.Name, " ")
		words = append(words, first)
	}
	return strings.Join(words, " ") + " burger"
}

// Feed returns the latest orders, newest first, with the all-time and
// today's counters.
func (k *Kitchen) Feed() models.Feed {
	now := k.now()
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	k.mu.Lock()
	defer k.mu.Unlock()

	feed := models.Feed{Orders: []models.Order{}, Total: len(k.orders)}
	for i := len(k.orders) - 1; i >= 0; i-- {
		o := k.orders[i].order
		if !o.CreatedAt.Before(midnight) {
			feed.TotalToday++
		}
		if len(feed.Orders) < FeedSize {
			feed.Orders = append(feed.Orders, k.view(o, now))
		}
	}
	return feed
}

// UserOrders returns the orders of owner, oldest first.
func (k *Kitchen) UserOrders(owner string) []models.Order {
	now := k.now()

	k.mu.Lock()
	defer k.mu.Unlock()

	out := []models.Order{}
	for _, po := range k.orders {
		if po.owner == owner {
			out = append(out, k.view(po.order, now))
		}
	}
	return out
}

// OrderByNumber returns a one-element list, or an empty one when no order
// has that number.
func (k *Kitchen) OrderByNumber(number int) []models.Order {
	now := k.now()

	k.mu.Lock()
	defer k.mu.Unlock()

	for _, po := range k.orders {
		if po.order.Number == number {
			return []models.Order{k.view(po.order, now)}
		}
	}
	return []models.Order{}
}

func (k *Kitchen) view(o models.Order, now time.Time) models.Order {
	o.Ingredients = slices.Clone(o.Ingredients)
	if o.Status == models.OrderStatusPending && now.Sub(o.CreatedAt) >= k.cookTime {
		o.Status = models.OrderStatusDone
		o.UpdatedAt = o.CreatedAt.Add(k.cookTime)
	}
	return o
}
