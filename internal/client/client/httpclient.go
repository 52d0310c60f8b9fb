package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/stellarburgers/internal/client/models"
	"github.com/dmitrijs2005/stellarburgers/internal/common"
	"github.com/dmitrijs2005/stellarburgers/internal/logging"
)

const (
	bearerPrefix = "Bearer "

	defaultRefreshTimeout = 30 * time.Second
)

// HTTPClient implements Gateway over the REST API. Authenticated calls carry
// the access token from the TokenStore; an expired token is refreshed once
// and the call is retried once.
type HTTPClient struct {
	baseURL     string
	httpClient  *http.Client
	tokens      TokenStore
	refreshSkew time.Duration
	now         func() time.Time
	log         logging.Logger
	refreshes   singleflight.Group
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.httpClient.Timeout = d }
}

// WithRefreshSkew makes the client refresh an access token that expires
// within d before sending it.
func WithRefreshSkew(d time.Duration) Option {
	return func(c *HTTPClient) { c.refreshSkew = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(c *HTTPClient) { c.now = now }
}

// NewHTTPClient creates a gateway for the API rooted at baseURL.
func NewHTTPClient(baseURL string, tokens TokenStore, opts ...Option) *HTTPClient {
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	c := &HTTPClient{
		baseURL:    base,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		tokens:     tokens,
		now:        time.Now,
		log:        logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the part every API response shares.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

func (c *HTTPClient) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	var resp struct {
		Data []models.Ingredient `json:"data"`
	}
	if err := c.call(ctx, http.MethodGet, "/ingredients", nil, false, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *HTTPClient) SubmitOrder(ctx context.Context, ingredientIDs []string) (*models.OrderReceipt, error) {
	req := struct {
		Ingredients []string `json:"ingredients"`
	}{Ingredients: ingredientIDs}

	var resp models.OrderReceipt
	if err := c.call(ctx, http.MethodPost, "/orders", req, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ListFeed(ctx context.Context) (*models.Feed, error) {
	var resp models.Feed
	if err := c.call(ctx, http.MethodGet, "/orders/all", nil, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ListUserOrders(ctx context.Context) ([]models.Order, error) {
	var resp struct {
		Orders []models.Order `json:"orders"`
	}
	if err := c.call(ctx, http.MethodGet, "/orders", nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

func (c *HTTPClient) GetOrderByNumber(ctx context.Context, number int) ([]models.Order, error) {
	var resp struct {
		Orders []models.Order `json:"orders"`
	}
	if err := c.call(ctx, http.MethodGet, "/orders/"+strconv.Itoa(number), nil, false, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	var resp models.AuthResult
	if err := c.call(ctx, http.MethodPost, "/auth/register", req, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	var resp models.AuthResult
	if err := c.call(ctx, http.MethodPost, "/auth/login", req, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout invalidates the stored refresh token on the server.
func (c *HTTPClient) Logout(ctx context.Context) error {
	rt, err := c.tokens.RefreshToken(ctx)
	if err != nil {
		return fmt.Errorf("read refresh token: %w", err)
	}
	if rt == "" {
		return fmt.Errorf("%w: %w", ErrUnauthorized, common.ErrNoCredentials)
	}
	return c.call(ctx, http.MethodPost, "/auth/logout", tokenRequest{Token: rt}, false, nil)
}

func (c *HTTPClient) RestoreSession(ctx context.Context) (*models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	if err := c.call(ctx, http.MethodGet, "/auth/user", nil, true, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, req models.ProfileUpdate) (*models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	if err := c.call(ctx, http.MethodPatch, "/auth/user", req, true, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *HTTPClient) RequestPasswordReset(ctx context.Context, email string) error {
	req := struct {
		Email string `json:"email"`
	}{Email: email}
	return c.call(ctx, http.MethodPost, "/password-reset", req, false, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, password, code string) error {
	req := struct {
		Password string `json:"password"`
		Token    string `json:"token"`
	}{Password: password, Token: code}
	return c.call(ctx, http.MethodPost, "/password-reset/reset", req, false, nil)
}

// call performs one API request. For authenticated requests it attaches the
// access token, refreshing it first when it is missing or about to expire,
// and retries once after a refresh when the server reports an expired token.
func (c *HTTPClient) call(ctx context.Context, method, path string, body any, auth bool, out any) error {
	if !auth {
		return c.send(ctx, method, path, body, "", out)
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	err = c.send(ctx, method, path, body, token, out)
	if err == nil || !errors.Is(err, common.ErrTokenExpired) {
		return err
	}

	c.log.Info(ctx, "access token rejected as expired, refreshing", "path", path)
	token, err = c.refresh(ctx)
	if err != nil {
		return err
	}

	// tokens refreshed, one more attempt with the new access token
	return c.send(ctx, method, path, body, token, out)
}

// accessToken returns a usable access token, refreshing when the stored one
// is absent or expires within the configured skew.
func (c *HTTPClient) accessToken(ctx context.Context) (string, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("read access token: %w", err)
	}
	if token != "" {
		exp, ok := tokenExpiry(token)
		if !ok || c.now().Add(c.refreshSkew).Before(exp) {
			return token, nil
		}
		c.log.Debug(ctx, "access token expired locally, refreshing", "expires_at", exp)
	}
	return c.refresh(ctx)
}

// refresh exchanges the refresh token for a new pair and rotates the store.
// Concurrent callers share a single request, which is detached from the
// caller that started it so one cancelled caller does not fail the others.
func (c *HTTPClient) refresh(ctx context.Context) (string, error) {
	ch := c.refreshes.DoChan("refresh", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout())
		defer cancel()
		return c.doRefresh(rctx)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *HTTPClient) refreshTimeout() time.Duration {
	if c.httpClient.Timeout > 0 {
		return c.httpClient.Timeout
	}
	return defaultRefreshTimeout
}

func (c *HTTPClient) doRefresh(ctx context.Context) (string, error) {
	rt, err := c.tokens.RefreshToken(ctx)
	if err != nil {
		return "", fmt.Errorf("read refresh token: %w", err)
	}
	if rt == "" {
		return "", fmt.Errorf("%w: %w", ErrUnauthorized, common.ErrNoCredentials)
	}

	var pair models.TokenPair
	if err := c.send(ctx, http.MethodPost, "/auth/token", tokenRequest{Token: rt}, "", &pair); err != nil {
		c.log.Warn(ctx, "token refresh failed", "error", err)
		if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	if err := c.tokens.Rotate(ctx, rt, pair.AccessToken, pair.RefreshToken); err != nil {
		if errors.Is(err, common.ErrCredentialsChanged) {
			c.log.Info(ctx, "session changed during token refresh, dropping the new pair")
			return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		return "", fmt.Errorf("store refreshed tokens: %w", err)
	}
	return pair.AccessToken, nil
}

func (c *HTTPClient) send(ctx context.Context, method, path string, body any, token string, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json;charset=utf-8")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(data, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if env.Success != nil && !*env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// tokenExpiry reads the exp claim of a JWT access token without verifying
// the signature; the client has no key and only needs the timestamp.
func tokenExpiry(token string) (time.Time, bool) {
	raw := strings.TrimPrefix(token, bearerPrefix)

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
