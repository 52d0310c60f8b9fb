// Package orders tracks the public order feed, the user's own orders, the
// order currently in focus and the state of an order submission.
//
// Each remote operation goes through async.Outcome phases. The Reduce*
// functions are pure; Machine sequences the gateway calls around them.
package orders

import (
	"slices"

	"github.com/dmitrijs2005/stellarburgers/internal/client/models"
	"github.com/dmitrijs2005/stellarburgers/internal/client/state/async"
	"github.com/dmitrijs2005/stellarburgers/internal/common"
)

// Messages recorded when a failure carries no text of its own.
const (
	DefaultSubmitError        = "failed to place order"
	DefaultFeedError          = "failed to load order feed"
	DefaultUserOrdersError    = "failed to load user orders"
	DefaultOrderByNumberError = "failed to load order details"
)

// State of the orders slice. Error is empty when there is no error.
//
// OrderRequest is true only while a submission is in flight and is kept
// apart from IsLoading, which covers the list and detail fetches.
type State struct {
	Feeds        []models.Order
	UserOrders   []models.Order
	CurrentOrder *models.Order
	OrderRequest bool
	IsLoading    bool
	Error        string
	Total        int
	TotalToday   int
}

func Initial() State {
	return State{}
}

func (s State) clone() State {
	s.Feeds = slices.Clone(s.Feeds)
	s.UserOrders = slices.Clone(s.UserOrders)
	if s.CurrentOrder != nil {
		o := *s.CurrentOrder
		o.Ingredients = slices.Clone(o.Ingredients)
		s.CurrentOrder = &o
	}
	return s
}

// ReduceSubmit applies one phase of an order submission. A rejection keeps
// CurrentOrder as it was.
func ReduceSubmit(s State, o async.Outcome[models.OrderReceipt]) State {
	out := s.clone()
	switch o.Phase {
	case async.Pending:
		out.OrderRequest = true
		out.Error = ""
	case async.Fulfilled:
		out.OrderRequest = false
		order := o.Payload.Order
		out.CurrentOrder = &order
	case async.Rejected:
		out.OrderRequest = false
		out.Error = async.Message(o.Err, DefaultSubmitError)
	}
	return out
}

// ReduceFeed applies one phase of a feed fetch. The feed and both counters
// are replaced together on success and left untouched on failure.
func ReduceFeed(s State, o async.Outcome[models.Feed]) State {
	out := s.clone()
	switch o.Phase {
	case async.Pending:
		out.IsLoading = true
		out.Error = ""
	case async.Fulfilled:
		out.IsLoading = false
		out.Feeds = slices.Clone(o.Payload.Orders)
		out.Total = o.Payload.Total
		out.TotalToday = o.Payload.TotalToday
	case async.Rejected:
		out.IsLoading = false
		out.Error = async.Message(o.Err, DefaultFeedError)
	}
	return out
}

func ReduceUserOrders(s State, o async.Outcome[[]models.Order]) State {
	out := s.clone()
	switch o.Phase {
	case async.Pending:
		out.IsLoading = true
		out.Error = ""
	case async.Fulfilled:
		out.IsLoading = false
		out.UserOrders = slices.Clone(o.Payload)
	case async.Rejected:
		out.IsLoading = false
		out.Error = async.Message(o.Err, DefaultUserOrdersError)
	}
	return out
}

// ReduceOrderByNumber applies one phase of an order lookup. The first order
// of the payload becomes CurrentOrder. An empty payload is treated as
// common.ErrOrderNotFound and the previous CurrentOrder is kept.
func ReduceOrderByNumber(s State, o async.Outcome[[]models.Order]) State {
	out := s.clone()
	switch o.Phase {
	case async.Pending:
		out.IsLoading = true
		out.Error = ""
	case async.Fulfilled:
		out.IsLoading = false
		if len(o.Payload) == 0 {
			out.Error = common.ErrOrderNotFound.Error()
			return out
		}
		order := o.Payload[0]
		order.Ingredients = slices.Clone(order.Ingredients)
		out.CurrentOrder = &order
	case async.Rejected:
		out.IsLoading = false
		out.Error = async.Message(o.Err, DefaultOrderByNumberError)
	}
	return out
}

func ClearCurrentOrder(s State) State {
	out := s.clone()
	out.CurrentOrder = nil
	return out
}
