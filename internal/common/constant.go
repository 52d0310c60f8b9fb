// Package common holds the constants and sentinel errors shared by the
// client and the development API. Match errors with errors.Is.
package common

// AuthorizationHeaderName is the HTTP header used to carry the access token
// on outbound requests.
const AuthorizationHeaderName = "authorization"

// Keys of the durable metadata table.
const (
	RefreshTokenKey        = "refreshToken"
	RefreshTokenSavedAtKey = "refreshTokenSavedAt"
)
