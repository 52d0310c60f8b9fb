// Package metadata keeps named string values, such as the refresh token, in
// the local SQLite database.
package metadata

import "context"

// Repository is a small key/value table.
type Repository interface {
	// Get reports whether key is set and returns its value.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes every given key. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
