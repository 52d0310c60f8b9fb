package store

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/stellarburgers/internal/client/client"
	"github.com/dmitrijs2005/stellarburgers/internal/client/credentials"
	"github.com/dmitrijs2005/stellarburgers/internal/client/models"
	"github.com/dmitrijs2005/stellarburgers/internal/common"
	"github.com/dmitrijs2005/stellarburgers/internal/logging"
	"github.com/dmitrijs2005/stellarburgers/internal/mockapi/handler"
	"github.com/dmitrijs2005/stellarburgers/internal/mockapi/kitchen"
	"github.com/dmitrijs2005/stellarburgers/internal/mockapi/users"
)

// harness runs the development API in-process.
type harness struct {
	users *users.Service
	url   string

	mu    sync.Mutex
	codes map[string]string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	secret := []byte("store-test")
	h := &harness{
		users: users.NewService(users.Settings{SecretKey: secret, AccessTokenTTL: time.Hour, RefreshTokenTTL: time.Hour}),
		codes: map[string]string{},
	}
	k := kitchen.New(kitchen.DefaultCatalogue(), 92532, kitchen.WithCookTime(0))
	api := handler.New(h.users, k, secret, logging.NewDiscard(), handler.WithMailer(func(_ context.Context, email, code string) {
		h.mu.Lock()
		h.codes[email] = code
		h.mu.Unlock()
	}))

	ts := httptest.NewServer(api.Router())
	t.Cleanup(ts.Close)
	h.url = ts.URL + "/api"
	return h
}

func (h *harness) code(email string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.codes[email]
}

func (h *harness) newStore(t *testing.T, dbPath string, opts ...client.Option) (*Store, *credentials.Store) {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	creds := credentials.NewStore(db)
	gw := client.NewHTTPClient(h.url, creds, opts...)
	return New(gw, creds), creds
}

func dbPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "client.db")
}

var alice = models.RegisterRequest{Email: "alice@example.com", Name: "Alice", Password: "secret"}

func loginAlice() models.LoginRequest {
	return models.LoginRequest{Email: alice.Email, Password: alice.Password}
}

func TestStore_PlaceOrderScenario(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	s, _ := h.newStore(t, dbPath(t))

	var mu sync.Mutex
	var events []string
	s.OnChange(func(ev string) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})

	require.NoError(t, s.Bootstrap(ctx))
	snap := s.Snapshot()
	require.Len(t, snap.Ingredients.All, len(kitchen.DefaultCatalogue()))
	require.True(t, snap.Session.AuthResolved)
	require.Nil(t, snap.Session.User)

	require.NoError(t, s.Register(ctx, alice))

	_, err := s.AddIngredient("bun-01")
	require.NoError(t, err)
	_, err = s.AddIngredient("main-01")
	require.NoError(t, err)
	require.Equal(t, 2*1255+424, s.Snapshot().Construction.Price())

	order, err := s.PlaceOrder(ctx)
	require.NoError(t, err)
	require.Equal(t, 92532, order.Number)

	snap = s.Snapshot()
	require.Equal(t, 92532, snap.Orders.CurrentOrder.Number)
	require.False(t, snap.Orders.OrderRequest)
	require.True(t, snap.Construction.IsEmpty())

	s.ClearCurrentOrder()
	require.Nil(t, s.Snapshot().Orders.CurrentOrder)

	require.NoError(t, s.FetchOrderByNumber(ctx, 92532))
	current := s.Snapshot().Orders.CurrentOrder
	require.NotNil(t, current)
	assert.Equal(t, []string{"bun-01", "main-01", "bun-01"}, current.Ingredients)
	assert.Equal(t, models.OrderStatusDone, current.Status)

	require.NoError(t, s.FetchUserOrders(ctx))
	require.NoError(t, s.FetchFeed(ctx))
	snap = s.Snapshot()
	assert.Len(t, snap.Orders.UserOrders, 1)
	assert.Equal(t, 1, snap.Orders.Total)
	assert.Equal(t, 1, snap.Orders.TotalToday)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, events, "ingredients/fetchIngredients/fulfilled")
	assert.Contains(t, events, "user/performRegistration/fulfilled")
	assert.Contains(t, events, "orders/createOrder/fulfilled")
	assert.Contains(t, events, "burgerConstructor/resetConstructor")
	assert.Contains(t, events, "orders/fetchOrderByNumber/fulfilled")
}

func TestStore_PlaceOrderGuards(t *testing.T) {
	ctx := context.Background()
	s, _ := newHarness(t).newStore(t, dbPath(t))
	require.NoError(t, s.FetchIngredients(ctx))

	_, err := s.AddIngredient("main-01")
	require.NoError(t, err)

	_, err = s.PlaceOrder(ctx)
	require.ErrorIs(t, err, common.ErrIncompleteBurger)

	_, err = s.AddIngredient("bun-01")
	require.NoError(t, err)

	_, err = s.PlaceOrder(ctx)
	require.ErrorIs(t, err, common.ErrNotLoggedIn)
	require.False(t, s.Snapshot().Construction.IsEmpty(), "a refused order keeps the burger")

	_, err = s.AddIngredient("nope")
	require.ErrorIs(t, err, common.ErrUnknownIngredient)
}

func TestStore_UnknownOrderNumber(t *testing.T) {
	ctx := context.Background()
	s, _ := newHarness(t).newStore(t, dbPath(t))

	err := s.FetchOrderByNumber(ctx, 1)
	require.ErrorIs(t, err, common.ErrOrderNotFound)
	assert.Nil(t, s.Snapshot().Orders.CurrentOrder)
	assert.NotEmpty(t, s.Snapshot().Orders.Error)
}

func TestStore_RestoreInNewProcessRefreshesTokens(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	path := dbPath(t)

	first, _ := h.newStore(t, path)
	require.NoError(t, first.Register(ctx, alice))

	// a new process starts with the refresh token only
	second, creds := h.newStore(t, path)
	before, err := creds.RefreshToken(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, before)

	require.NoError(t, second.Bootstrap(ctx))
	snap := second.Snapshot()
	require.NotNil(t, snap.Session.User)
	assert.Equal(t, "Alice", snap.Session.User.Name)
	assert.True(t, snap.Session.AuthResolved)

	after, err := creds.RefreshToken(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, before, after, "the refresh token is rotated")
}

func TestStore_RestoreWithRevokedRefreshTokenClearsIt(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	path := dbPath(t)

	first, _ := h.newStore(t, path)
	require.NoError(t, first.Register(ctx, alice))

	second, creds := h.newStore(t, path)
	rt, err := creds.RefreshToken(ctx)
	require.NoError(t, err)
	require.NoError(t, h.users.Logout(ctx, rt))

	require.Error(t, second.RestoreSession(ctx))
	snap := second.Snapshot()
	require.Nil(t, snap.Session.User)
	require.True(t, snap.Session.AuthResolved)
	require.NotEmpty(t, snap.Session.Error)

	ok, err := creds.HasCredentials(ctx)
	require.NoError(t, err)
	require.False(t, ok, "a failed restore clears the stored token")
}

func TestStore_RefreshBeforeExpiry(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	// every access token looks about to expire, so each call refreshes first
	s, creds := h.newStore(t, dbPath(t), client.WithRefreshSkew(2*time.Hour))
	require.NoError(t, s.Register(ctx, alice))
	before, err := creds.RefreshToken(ctx)
	require.NoError(t, err)

	require.NoError(t, s.UpdateProfile(ctx, models.ProfileUpdate{Name: "Alice Cooper"}))
	assert.Equal(t, "Alice Cooper", s.Snapshot().Session.User.Name)

	after, err := creds.RefreshToken(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)

	_, err = h.users.Refresh(ctx, before)
	assert.ErrorIs(t, err, users.ErrInvalidRefresh, "the old refresh token is spent")
}

func TestStore_Logout(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	s, creds := h.newStore(t, dbPath(t))

	require.NoError(t, s.Register(ctx, alice))
	require.NoError(t, s.Logout(ctx))
	require.NoError(t, s.Login(ctx, loginAlice()))
	require.NoError(t, s.RestoreSession(ctx))
	require.Equal(t, "Alice", s.Snapshot().Session.User.Name)

	rt, err := creds.RefreshToken(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx))
	require.Nil(t, s.Snapshot().Session.User)

	ok, err := creds.HasCredentials(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = h.users.Refresh(ctx, rt)
	assert.ErrorIs(t, err, users.ErrInvalidRefresh, "logout revokes the token remotely")
}

func TestStore_LoginFailureKeepsServerMessage(t *testing.T) {
	ctx := context.Background()
	s, _ := newHarness(t).newStore(t, dbPath(t))

	err := s.Login(ctx, loginAlice())
	require.ErrorIs(t, err, client.ErrUnauthorized)

	snap := s.Snapshot()
	assert.Nil(t, snap.Session.User)
	assert.True(t, snap.Session.AuthResolved)
	assert.Equal(t, "email or password are incorrect", snap.Session.Error)
}

func TestStore_PasswordRecovery(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	s, _ := h.newStore(t, dbPath(t))

	require.NoError(t, s.Register(ctx, alice))
	require.NoError(t, s.Logout(ctx))

	require.NoError(t, s.RequestPasswordReset(ctx, alice.Email))
	code := h.code(alice.Email)
	require.NotEmpty(t, code)

	err := s.ResetPassword(ctx, "new-secret", "wrong-code")
	require.Error(t, err)
	assert.Equal(t, "Incorrect reset token", s.Snapshot().Session.Error)

	require.NoError(t, s.ResetPassword(ctx, "new-secret", code))
	assert.Empty(t, s.Snapshot().Session.Error)
	assert.Nil(t, s.Snapshot().Session.User)

	require.NoError(t, s.Login(ctx, models.LoginRequest{Email: alice.Email, Password: "new-secret"}))
}
