// Package async models the three phases an asynchronous operation goes
// through (pending, then fulfilled or rejected) as plain values, so the
// reducers that consume them stay pure.
package async

import (
	"errors"
	"fmt"
)

// Phase of an asynchronous operation.
type Phase int

const (
	Pending Phase = iota
	Fulfilled
	Rejected
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Outcome is one phase of one invocation. Seq identifies the invocation
// among others of the same kind.
type Outcome[T any] struct {
	Phase   Phase
	Seq     uint64
	Payload T
	Err     error
}

// Start returns the pending outcome of invocation seq.
func Start[T any](seq uint64) Outcome[T] {
	return Outcome[T]{Phase: Pending, Seq: seq}
}

// Settle returns the terminal outcome of invocation seq: rejected when err
// is non-nil, fulfilled otherwise.
func Settle[T any](seq uint64, payload T, err error) Outcome[T] {
	if err != nil {
		return Outcome[T]{Phase: Rejected, Seq: seq, Err: err}
	}
	return Outcome[T]{Phase: Fulfilled, Seq: seq, Payload: payload}
}

// Terminal reports whether the outcome ends the invocation.
func (o Outcome[T]) Terminal() bool {
	return o.Phase != Pending
}

type userMessager interface {
	UserMessage() string
}

// Message turns err into the text shown to the user. A remote error that
// carries no message, or an error with empty text, yields fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var um userMessager
	if errors.As(err, &um) {
		if m := um.UserMessage(); m != "" {
			return m
		}
		return fallback
	}
	if s := err.Error(); s != "" {
		return s
	}
	return fallback
}

// Listener is told the name of every transition a machine applies, for
// example "orders/fetchFeed/fulfilled". Machines call it after releasing
// their lock, so it may read snapshots.
type Listener func(event string)

// Event names a transition of operation op in phase p.
func Event(op string, p Phase) string {
	return op + "/" + p.String()
}
