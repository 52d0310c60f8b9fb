// Package users keeps the accounts and sessions of the development API in
// memory: registration, login, refresh token rotation, logout, profile
// updates and password recovery.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/stellarburgers/internal/mockapi/auth"
)

// Errors carry the texts the public burger API answers with.
var (
	ErrMissingFields      = errors.New("Email, password and name are required fields")
	ErrUserExists         = errors.New("User already exists")
	ErrInvalidCredentials = errors.New("email or password are incorrect")
	ErrInvalidRefresh     = errors.New("Token is invalid")
	ErrUserNotFound       = errors.New("User not found")
	ErrInvalidResetCode   = errors.New("Incorrect reset token")
	ErrEmailTaken         = errors.New("User with such email already exists")
)

// User is the public part of an account.
type User struct {
	ID    string
	Email string
	Name  string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type account struct {
	User
	passwordHash []byte
}

type refreshToken struct {
	userID    string
	expiresAt time.Time
}

// Settings are the token parameters of the service.
type Settings struct {
	SecretKey       []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Service is safe for concurrent use.
type Service struct {
	settings Settings
	now      func() time.Time

	mu         sync.Mutex
	accounts   map[string]*account // by id
	byEmail    map[string]string   // email -> id
	refresh    map[string]refreshToken
	resetCodes map[string]string // code -> user id
}

func NewService(s Settings) *Service {
	return &Service{
		settings:   s,
		now:        time.Now,
		accounts:   make(map[string]*account),
		byEmail:    make(map[string]string),
		refresh:    make(map[string]refreshToken),
		resetCodes: make(map[string]string),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and logs it in.
func (s *Service) Register(ctx context.Context, email, name, password string) (*User, *TokenPair, error) {
	email = normalizeEmail(email)
	if email == "" || name == "" || password == "" {
		return nil, nil, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[email]; ok {
		return nil, nil, ErrUserExists
	}

	acc := &account{
		User:         User{ID: uuid.NewString(), Email: email, Name: name},
		passwordHash: hash,
	}
	s.accounts[acc.ID] = acc
	s.byEmail[email] = acc.ID

	pair, err := s.issueLocked(acc.ID)
	if err != nil {
		return nil, nil, err
	}
	u := acc.User
	return &u, pair, nil
}

// Login checks the password and issues a new token pair. An unknown email
// and a wrong password are indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (*User, *TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, nil, ErrInvalidCredentials
	}
	acc := s.accounts[id]
	if bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueLocked(acc.ID)
	if err != nil {
		return nil, nil, err
	}
	u := acc.User
	return &u, pair, nil
}

// Refresh exchanges a refresh token for a new pair. The old refresh token
// is spent either way.
func (s *Service) Refresh(ctx context.Context, token string) (*TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rt, ok := s.refresh[token]
	if !ok {
		return nil, ErrInvalidRefresh
	}
	delete(s.refresh, token)

	if !s.now().Before(rt.expiresAt) {
		return nil, ErrInvalidRefresh
	}
	if _, ok := s.accounts[rt.userID]; !ok {
		return nil, ErrInvalidRefresh
	}
	return s.issueLocked(rt.userID)
}

// Logout revokes a refresh token.
func (s *Service) Logout(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.refresh[token]; !ok {
		return ErrInvalidRefresh
	}
	delete(s.refresh, token)
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := acc.User
	return &u, nil
}

// Update changes the non-empty fields of the account.
func (s *Service) Update(ctx context.Context, id, email, name, password string) (*User, error) {
	var hash []byte
	if password != "" {
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	if email = normalizeEmail(email); email != "" && email != acc.Email {
		if _, taken := s.byEmail[email]; taken {
			return nil, ErrEmailTaken
		}
		delete(s.byEmail, acc.Email)
		s.byEmail[email] = acc.ID
		acc.Email = email
	}
	if name != "" {
		acc.Name = name
	}
	if hash != nil {
		acc.passwordHash = hash
	}

	u := acc.User
	return &u, nil
}

// RequestReset issues a password reset code for email. Unknown addresses
// get no code and no error, so the answer does not reveal who has an
// account.
func (s *Service) RequestReset(ctx context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return "", nil
	}
	code, err := auth.RandomToken(3)
	if err != nil {
		return "", fmt.Errorf("generate reset code: %w", err)
	}
	s.resetCodes[code] = id
	return code, nil
}

// ResetPassword sets a new password with a code from RequestReset. Codes
// are single use.
func (s *Service) ResetPassword(ctx context.Context, password, code string) error {
	if password == "" {
		return ErrMissingFields
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.resetCodes[code]
	if !ok {
		return ErrInvalidResetCode
	}
	delete(s.resetCodes, code)

	if acc, ok := s.accounts[id]; ok {
		acc.passwordHash = hash
	}
	return nil
}

func (s *Service) issueLocked(userID string) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.settings.SecretKey, s.settings.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := auth.RandomToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	s.refresh[refresh] = refreshToken{userID: userID, expiresAt: s.now().Add(s.settings.RefreshTokenTTL)}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
