package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/stellarburgers/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a failure reported by the remote API, either through a non-2xx
// status or a body with "success": false.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return e.Message
}

// UserMessage returns the server supplied text, which may be empty.
func (e *APIError) UserMessage() string {
	return e.Message
}

func (e *APIError) Unwrap() []error {
	var errs []error
	switch {
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		errs = append(errs, ErrUnauthorized)
	case e.Status >= http.StatusInternalServerError:
		errs = append(errs, ErrUnavailable)
	}
	if e.Message == common.ErrTokenExpired.Error() {
		errs = append(errs, common.ErrTokenExpired)
	}
	return errs
}
