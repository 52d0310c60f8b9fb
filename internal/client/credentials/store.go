// Package credentials keeps the two session credentials: the short-lived
// access token, held in memory for the lifetime of the process, and the
// long-lived refresh token, persisted in the local database under a fixed
// key so a later run can restore the session.
package credentials

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/stellarburgers/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/stellarburgers/internal/common"
	"github.com/dmitrijs2005/stellarburgers/internal/dbx"
)

// Store is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time

	// wmu serialises Save, Rotate and Clear.
	wmu sync.Mutex

	mu     sync.RWMutex
	access string
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) repo() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}

// AccessToken returns the in-memory access token, or "" when none is set.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, nil
}

// RefreshToken returns the persisted refresh token, or "" when none is stored.
func (s *Store) RefreshToken(ctx context.Context) (string, error) {
	v, _, err := s.repo().Get(ctx, common.RefreshTokenKey)
	if err != nil {
		return "", fmt.Errorf("read refresh token: %w", err)
	}
	return v, nil
}

// HasCredentials reports whether either token is present.
func (s *Store) HasCredentials(ctx context.Context) (bool, error) {
	if at, _ := s.AccessToken(ctx); at != "" {
		return true, nil
	}
	rt, err := s.RefreshToken(ctx)
	if err != nil {
		return false, err
	}
	return rt != "", nil
}

// Save stores a fresh pair after login or registration.
func (s *Store) Save(ctx context.Context, accessToken, refreshToken string) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.write(ctx, metadata.NewSQLiteRepository(tx), refreshToken)
	})
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	s.setAccess(accessToken)
	return nil
}

// Rotate replaces both tokens with the pair issued for the spent refresh
// token. When the stored refresh token is no longer spent, because the
// session was cleared or replaced meanwhile, nothing is written and
// common.ErrCredentialsChanged is returned.
func (s *Store) Rotate(ctx context.Context, spent, accessToken, refreshToken string) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		current, ok, err := repo.Get(ctx, common.RefreshTokenKey)
		if err != nil {
			return err
		}
		if !ok || current != spent {
			return common.ErrCredentialsChanged
		}
		return s.write(ctx, repo, refreshToken)
	})
	if err != nil {
		return fmt.Errorf("rotate credentials: %w", err)
	}
	s.setAccess(accessToken)
	return nil
}

func (s *Store) write(ctx context.Context, repo metadata.Repository, refreshToken string) error {
	if err := repo.Set(ctx, common.RefreshTokenKey, refreshToken); err != nil {
		return err
	}
	return repo.Set(ctx, common.RefreshTokenSavedAtKey, s.now().UTC().Format(time.RFC3339))
}

func (s *Store) setAccess(token string) {
	s.mu.Lock()
	s.access = token
	s.mu.Unlock()
}

// Clear drops both tokens. The in-memory token is dropped even when the
// database write fails.
func (s *Store) Clear(ctx context.Context) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	s.setAccess("")

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, common.RefreshTokenKey, common.RefreshTokenSavedAtKey)
	})
	if err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// SavedAt returns when the refresh token was last written, or the zero time.
func (s *Store) SavedAt(ctx context.Context) (time.Time, error) {
	v, ok, err := s.repo().Get(ctx, common.RefreshTokenSavedAtKey)
	if err != nil || !ok {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", common.RefreshTokenSavedAtKey, err)
	}
	return t, nil
}
