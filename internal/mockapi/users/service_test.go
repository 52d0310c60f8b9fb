package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/stellarburgers/internal/mockapi/auth"
)

var secret = []byte("test-secret")

func newService() *Service {
	return NewService(Settings{SecretKey: secret, AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour})
}

func TestService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s := newService()

	u, pair, err := s.Register(ctx, " Alice@Example.com ", "Alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)

	id, err := auth.GetUserIDFromToken(pair.AccessToken, secret)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	_, _, err = s.Register(ctx, "alice@example.com", "Other", "x")
	assert.ErrorIs(t, err, ErrUserExists)

	_, _, err = s.Register(ctx, "bob@example.com", "", "x")
	assert.ErrorIs(t, err, ErrMissingFields)

	got, pair2, err := s.Login(ctx, "ALICE@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, *u, *got)
	assert.NotEqual(t, pair.RefreshToken, pair2.RefreshToken)

	_, _, err = s.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.Login(ctx, "nobody@example.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_RefreshRotates(t *testing.T) {
	ctx := context.Background()
	s := newService()

	_, pair, err := s.Register(ctx, "a@b.c", "A", "p")
	require.NoError(t, err)

	next, err := s.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	_, err = s.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh, "a refresh token is single use")

	_, err = s.Refresh(ctx, next.RefreshToken)
	assert.NoError(t, err)
}

func TestService_RefreshExpired(t *testing.T) {
	ctx := context.Background()
	s := newService()

	_, pair, err := s.Register(ctx, "a@b.c", "A", "p")
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = s.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()
	s := newService()

	_, pair, err := s.Register(ctx, "a@b.c", "A", "p")
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx, pair.RefreshToken))
	assert.ErrorIs(t, s.Logout(ctx, pair.RefreshToken), ErrInvalidRefresh)

	_, err = s.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	s := newService()

	alice, _, err := s.Register(ctx, "alice@example.com", "Alice", "p")
	require.NoError(t, err)
	_, _, err = s.Register(ctx, "bob@example.com", "Bob", "p")
	require.NoError(t, err)

	u, err := s.Update(ctx, alice.ID, "", "Alice Cooper", "")
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", u.Name)
	assert.Equal(t, "alice@example.com", u.Email)

	_, err = s.Update(ctx, alice.ID, "bob@example.com", "", "")
	assert.ErrorIs(t, err, ErrEmailTaken)

	u, err = s.Update(ctx, alice.ID, "cooper@example.com", "", "new-pass")
	require.NoError(t, err)
	assert.Equal(t, "cooper@example.com", u.Email)

	_, _, err = s.Login(ctx, "cooper@example.com", "new-pass")
	require.NoError(t, err)
	_, _, err = s.Login(ctx, "alice@example.com", "new-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Update(ctx, "missing", "", "x", "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_PasswordRecovery(t *testing.T) {
	ctx := context.Background()
	s := newService()

	_, _, err := s.Register(ctx, "alice@example.com", "Alice", "old")
	require.NoError(t, err)

	code, err := s.RequestReset(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, code)

	code, err = s.RequestReset(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, code)

	assert.ErrorIs(t, s.ResetPassword(ctx, "new", "bogus"), ErrInvalidResetCode)
	require.NoError(t, s.ResetPassword(ctx, "new", code))
	assert.ErrorIs(t, s.ResetPassword(ctx, "newer", code), ErrInvalidResetCode)

	_, _, err = s.Login(ctx, "alice@example.com", "new")
	assert.NoError(t, err)
}
