// Package session tracks the authenticated user and whether the first
// identity check has completed.
package session

import (
	"github.com/dmitrijs2005/stellarburgers/internal/client/models"
	"github.com/dmitrijs2005/stellarburgers/internal/client/state/async"
)

// Messages recorded when a failure carries no text of its own.
const (
	DefaultRegisterError      = "registration failed"
	DefaultLoginError         = "login failed"
	DefaultLogoutError        = "logout failed"
	DefaultRestoreError       = "failed to verify session"
	DefaultUpdateProfileError = "failed to update profile"
	DefaultPasswordResetError = "failed to reset password"
)

// State of the session.
//
// AuthResolved starts false and latches to true once login, registration,
// logout or a session restore has completed, whatever the result. Nothing
// sets it back to false.
type State struct {
	User         *models.User
	AuthResolved bool
	Error        string
}

func Initial() State {
	return State{}
}

func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

func reduceAuth(s State, o async.Outcome[models.User], fallback string) State {
	out := s.clone()
	switch o.Phase {
	case async.Pending:
		out.Error = ""
	case async.Fulfilled:
		u := o.Payload
		out.User = &u
		out.Error = ""
		out.AuthResolved = true
	case async.Rejected:
		out.Error = async.Message(o.Err, fallback)
		out.AuthResolved = true
	}
	return out
}

// ReduceRegister applies one phase of a registration. A failure leaves
// User as it was and still resolves auth.
func ReduceRegister(s State, o async.Outcome[models.User]) State {
	return reduceAuth(s, o, DefaultRegisterError)
}

// ReduceLogin is the login counterpart of ReduceRegister.
func ReduceLogin(s State, o async.Outcome[models.User]) State {
	return reduceAuth(s, o, DefaultLoginError)
}

// ReduceLogout applies one phase of a logout. Both terminal phases drop the
// user; only a failure records an error.
func ReduceLogout(s State, o async.Outcome[struct{}]) State {
	out := s.clone()
	switch o.Phase {
	case async.Fulfilled:
		out.User = nil
		out.AuthResolved = true
	case async.Rejected:
		out.User = nil
		out.AuthResolved = true
		out.Error = async.Message(o.Err, DefaultLogoutError)
	}
	return out
}

// ReduceRestore applies one phase of a session restore.
func ReduceRestore(s State, o async.Outcome[models.User]) State {
	out := s.clone()
	switch o.Phase {
	case async.Fulfilled:
		u := o.Payload
		out.User = &u
		out.AuthResolved = true
	case async.Rejected:
		out.User = nil
		out.AuthResolved = true
		out.Error = async.Message(o.Err, DefaultRestoreError)
	}
	return out
}

// ReduceUpdateProfile replaces the user on success. A failure records the
// error and keeps the last known user.
func ReduceUpdateProfile(s State, o async.Outcome[models.User]) State {
	out := s.clone()
	switch o.Phase {
	case async.Fulfilled:
		u := o.Payload
		out.User = &u
	case async.Rejected:
		out.Error = async.Message(o.Err, DefaultUpdateProfileError)
	}
	return out
}

// ReducePasswordReset covers both steps of the password recovery flow.
// Neither step touches User or AuthResolved.
func ReducePasswordReset(s State, o async.Outcome[struct{}]) State {
	out := s.clone()
	switch o.Phase {
	case async.Pending:
		out.Error = ""
	case async.Rejected:
		out.Error = async.Message(o.Err, DefaultPasswordResetError)
	}
	return out
}
