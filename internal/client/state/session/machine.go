package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/stellarburgers/internal/client/models"
	"github.com/dmitrijs2005/stellarburgers/internal/client/state/async"
	"github.com/dmitrijs2005/stellarburgers/internal/common"
	"github.com/dmitrijs2005/stellarburgers/internal/logging"
)

const (
	sliceName = "user"

	opRegister      = sliceName + "/performRegistration"
	opLogin         = sliceName + "/performLogin"
	opLogout        = sliceName + "/performLogout"
	opRestore       = sliceName + "/fetchUserData"
	opUpdateProfile = sliceName + "/saveUserData"
	opForgot        = sliceName + "/forgotPassword"
	opReset         = sliceName + "/resetPassword"
)

// Gateway is the part of the remote API the session needs.
type Gateway interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error)
	Logout(ctx context.Context) error
	RestoreSession(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, req models.ProfileUpdate) (*models.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, password, code string) error
}

// CredentialStore is where the session keeps the issued tokens.
type CredentialStore interface {
	Save(ctx context.Context, accessToken, refreshToken string) error
	Clear(ctx context.Context) error
	HasCredentials(ctx context.Context) (bool, error)
}

// Machine owns the session state and is safe for concurrent use.
//
// It writes credentials on successful login and registration and clears
// them on logout and on a failed session restore, so a dead refresh token
// is never retried.
type Machine struct {
	gw       Gateway
	creds    CredentialStore
	log      logging.Logger
	listener async.Listener
	seq      async.Sequencer

	mu    sync.Mutex
	state State
}

type Option func(*Machine)

func WithLogger(l logging.Logger) Option {
	return func(m *Machine) { m.log = l }
}

func WithListener(l async.Listener) Option {
	return func(m *Machine) { m.listener = l }
}

func NewMachine(gw Gateway, creds CredentialStore, opts ...Option) *Machine {
	m := &Machine{gw: gw, creds: creds, log: logging.NewDiscard(), state: Initial()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

func (m *Machine) Register(ctx context.Context, req models.RegisterRequest) error {
	return m.authenticate(ctx, opRegister, ReduceRegister, func() (*models.AuthResult, error) {
		return m.gw.Register(ctx, req)
	})
}

func (m *Machine) Login(ctx context.Context, req models.LoginRequest) error {
	return m.authenticate(ctx, opLogin, ReduceLogin, func() (*models.AuthResult, error) {
		return m.gw.Login(ctx, req)
	})
}

func (m *Machine) authenticate(ctx context.Context, op string, reduce func(State, async.Outcome[models.User]) State, call func() (*models.AuthResult, error)) error {
	seq := m.seq.Next(op)
	apply(m, op, async.Start[models.User](seq), reduce)

	var user models.User
	res, err := call()
	switch {
	case err != nil:
	case res == nil:
		err = common.ErrEmptyResponse
	case !m.seq.IsLatest(op, seq):
		// a newer invocation owns the credentials
		user = res.User
	default:
		if err = m.creds.Save(ctx, res.AccessToken, res.RefreshToken); err == nil {
			user = res.User
		}
	}
	if err != nil {
		m.log.Warn(ctx, "authentication failed", "op", op, "error", err)
	} else {
		m.log.Info(ctx, "authenticated", "op", op, "email", user.Email)
	}

	apply(m, op, async.Settle(seq, user, err), reduce)
	return err
}

// Logout invalidates the refresh token remotely. Local credentials are
// cleared and the user dropped whether or not the remote call succeeds.
func (m *Machine) Logout(ctx context.Context) error {
	seq := m.seq.Next(opLogout)
	apply(m, opLogout, async.Start[struct{}](seq), ReduceLogout)

	err := m.gw.Logout(ctx)
	if err != nil {
		m.log.Warn(ctx, "remote logout failed", "error", err)
	}
	m.clearCredentials(ctx)

	apply(m, opLogout, async.Settle(seq, struct{}{}, err), ReduceLogout)
	return err
}

// RestoreSession fetches the current user with the stored credentials.
// Without any stored credentials the gateway is not called and the restore
// fails with common.ErrNoCredentials. A failure clears the credentials
// unless a newer restore has been started meanwhile.
func (m *Machine) RestoreSession(ctx context.Context) error {
	seq := m.seq.Next(opRestore)
	apply(m, opRestore, async.Start[models.User](seq), ReduceRestore)

	var user models.User
	err := m.restore(ctx, &user)
	if err != nil {
		m.log.Warn(ctx, "session restore failed", "error", err)
		if m.seq.IsLatest(opRestore, seq) {
			m.clearCredentials(ctx)
		}
	} else {
		m.log.Info(ctx, "session restored", "email", user.Email)
	}

	apply(m, opRestore, async.Settle(seq, user, err), ReduceRestore)
	return err
}

func (m *Machine) restore(ctx context.Context, user *models.User) error {
	ok, err := m.creds.HasCredentials(ctx)
	if err != nil {
		return fmt.Errorf("check credentials: %w", err)
	}
	if !ok {
		return common.ErrNoCredentials
	}
	u, err := m.gw.RestoreSession(ctx)
	if err != nil {
		return err
	}
	if u == nil {
		return common.ErrEmptyResponse
	}
	*user = *u
	return nil
}

// UpdateProfile changes the given fields. The last known user stays in
// place when the update fails.
func (m *Machine) UpdateProfile(ctx context.Context, req models.ProfileUpdate) error {
	seq := m.seq.Next(opUpdateProfile)
	apply(m, opUpdateProfile, async.Start[models.User](seq), ReduceUpdateProfile)

	var user models.User
	u, err := m.gw.UpdateProfile(ctx, req)
	if err == nil && u == nil {
		err = common.ErrEmptyResponse
	}
	if err != nil {
		m.log.Warn(ctx, "profile update failed", "error", err)
	} else {
		user = *u
	}

	apply(m, opUpdateProfile, async.Settle(seq, user, err), ReduceUpdateProfile)
	return err
}

// RequestPasswordReset asks the server to mail a reset code to email.
func (m *Machine) RequestPasswordReset(ctx context.Context, email string) error {
	return m.passwordStep(ctx, opForgot, func() error {
		return m.gw.RequestPasswordReset(ctx, email)
	})
}

// ResetPassword sets a new password using the mailed code.
func (m *Machine) ResetPassword(ctx context.Context, password, code string) error {
	return m.passwordStep(ctx, opReset, func() error {
		return m.gw.ResetPassword(ctx, password, code)
	})
}

func (m *Machine) passwordStep(ctx context.Context, op string, call func() error) error {
	seq := m.seq.Next(op)
	apply(m, op, async.Start[struct{}](seq), ReducePasswordReset)

	err := call()
	if err != nil {
		m.log.Warn(ctx, "password recovery step failed", "op", op, "error", err)
	}

	apply(m, op, async.Settle(seq, struct{}{}, err), ReducePasswordReset)
	return err
}

func (m *Machine) clearCredentials(ctx context.Context) {
	if err := m.creds.Clear(ctx); err != nil {
		m.log.Error(ctx, "failed to clear credentials", "error", err)
	}
}

func apply[T any](m *Machine, op string, o async.Outcome[T], reduce func(State, async.Outcome[T]) State) {
	m.mu.Lock()
	stale := o.Terminal() && !m.seq.IsLatest(op, o.Seq)
	if !stale {
		m.state = reduce(m.state, o)
	}
	m.mu.Unlock()

	if stale {
		m.log.Debug(context.Background(), "dropping stale response", "op", op, "seq", o.Seq)
		return
	}
	if m.listener != nil {
		m.listener(async.Event(op, o.Phase))
	}
}
