package common

import "errors"

var (
	// Auth errors.
	ErrNoCredentials = errors.New("no stored credentials")
	ErrNotLoggedIn   = errors.New("not logged in")
	// ErrCredentialsChanged is returned by a token rotation whose refresh
	// token was replaced or cleared while the refresh was in flight.
	ErrCredentialsChanged = errors.New("credentials changed during refresh")

	// Token lifecycle errors. The message matches what the remote API
	// answers for an expired access token.
	ErrTokenExpired = errors.New("jwt expired")
	ErrInvalidToken = errors.New("invalid token")

	// ErrEmptyResponse is a successful gateway call that returned no payload.
	ErrEmptyResponse = errors.New("empty response")

	// Order errors.
	ErrOrderNotFound      = errors.New("order not found")
	ErrSubmissionInFlight = errors.New("order submission already in progress")
	ErrIncompleteBurger   = errors.New("burger has no bun")

	// Catalogue errors.
	ErrUnknownIngredient = errors.New("unknown ingredient")
)
