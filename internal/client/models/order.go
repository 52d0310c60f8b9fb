package models

import "time"

// Order statuses reported by the remote API. The set is open: any other
// string is passed through unchanged.
const (
	OrderStatusCreated = "created"
	OrderStatusPending = "pending"
	OrderStatusDone    = "done"
)

// Order is an order as returned by the remote API. Orders are replaced
// wholesale on every fetch and never edited locally.
type Order struct {
	ID          string    `json:"_id"`
	Number      int       `json:"number"`
	Status      string    `json:"status"`
	Name        string    `json:"name"`
	Ingredients []string  `json:"ingredients"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OrderReceipt is the result of a successful order submission.
type OrderReceipt struct {
	Name  string `json:"name"`
	Order Order  `json:"order"`
}

// Feed is the public order feed with its counters.
type Feed struct {
	Orders     []Order `json:"orders"`
	Total      int     `json:"total"`
	TotalToday int     `json:"totalToday"`
}
