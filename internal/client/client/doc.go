// Package client contains the remote boundary of the burger client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Gateway interface) for the
//     remote API: ingredients, orders, feed, and the account endpoints.
//  2. A concrete REST implementation (see HTTPClient) that attaches the
//     access token to authenticated calls, refreshes an expired token
//     transparently (proactively from the JWT exp claim, or after the
//     server answers "jwt expired"), and rotates both tokens in the
//     TokenStore after a successful refresh.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Remote failures are returned as *APIError. Common conditions can be
// matched with errors.Is: ErrUnauthorized (401/403 or a failed refresh),
// ErrUnavailable (5xx and transport failures), common.ErrTokenExpired.
//
// # Concurrency
//
// HTTPClient is safe for concurrent use; concurrent refreshes are collapsed
// into one request.
package client
