// Package handler exposes the users and kitchen services over the same
// REST/JSON surface as the public burger API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/stellarburgers/internal/client/models"
	"github.com/dmitrijs2005/stellarburgers/internal/logging"
	"github.com/dmitrijs2005/stellarburgers/internal/mockapi/kitchen"
	"github.com/dmitrijs2005/stellarburgers/internal/mockapi/users"
)

// Mailer delivers a password reset code.
type Mailer func(ctx context.Context, email, code string)

type Handler struct {
	users   *users.Service
	kitchen *kitchen.Kitchen
	secret  []byte
	log     logging.Logger
	mail    Mailer
}

type Option func(*Handler)

// WithMailer replaces the default mailer, which only logs the code.
func WithMailer(m Mailer) Option {
	return func(h *Handler) { h.mail = m }
}

func New(us *users.Service, k *kitchen.Kitchen, secret []byte, log logging.Logger, opts ...Option) *Handler {
	h := &Handler{users: us, kitchen: k, secret: secret, log: log}
	h.mail = func(ctx context.Context, email, code string) {
		h.log.Info(ctx, "password reset code issued", "email", email, "code", code)
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type userDTO struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func toDTO(u *users.User) userDTO {
	return userDTO{Email: u.Email, Name: u.Name}
}

type tokenRequest struct {
	Token string `json:"token"`
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	if _, ok := body["success"]; !ok {
		body["success"] = status < http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "message": msg})
}

// fail maps a service error to its status code. Unknown errors are logged
// and reported as 500.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, users.ErrMissingFields),
		errors.Is(err, kitchen.ErrNoIngredients),
		errors.Is(err, kitchen.ErrUnknownIngredient):
		status = http.StatusBadRequest
	case errors.Is(err, users.ErrInvalidCredentials),
		errors.Is(err, users.ErrInvalidRefresh):
		status = http.StatusUnauthorized
	case errors.Is(err, users.ErrUserExists),
		errors.Is(err, users.ErrEmailTaken),
		errors.Is(err, users.ErrInvalidResetCode):
		status = http.StatusForbidden
	case errors.Is(err, users.ErrUserNotFound):
		status = http.StatusNotFound
	default:
		h.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeError(w, status, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return false
	}
	return true
}

func (h *Handler) Ingredients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": h.kitchen.Ingredients()})
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ingredients []string `json:"ingredients"`
	}
	if !decode(w, r, &req) {
		return
	}

	receipt, err := h.kitchen.PlaceOrder(userID(r.Context()), req.Ingredients)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.log.Info(r.Context(), "order placed", "number", receipt.Order.Number, "name", receipt.Name)
	writeJSON(w, http.StatusOK, map[string]any{"name": receipt.Name, "order": receipt.Order})
}

func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	feed := h.kitchen.Feed()
	writeJSON(w, http.StatusOK, map[string]any{
		"orders":     feed.Orders,
		"total":      feed.Total,
		"totalToday": feed.TotalToday,
	})
}

func (h *Handler) UserOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"orders": h.kitchen.UserOrders(userID(r.Context()))})
}

func (h *Handler) OrderByNumber(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order number")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": h.kitchen.OrderByNumber(number)})
}

func (h *Handler) authenticated(w http.ResponseWriter, u *users.User, pair *users.TokenPair) {
	writeJSON(w, http.StatusOK, map[string]any{
		"user":         toDTO(u),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	u, pair, err := h.users.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.authenticated(w, u, pair)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	u, pair, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.authenticated(w, u, pair)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !decode(w, r, &req) {
		return
	}
	pair, err := h.users.Refresh(r.Context(), req.Token)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.users.Logout(r.Context(), req.Token); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Successful logout"})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), userID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toDTO(u)})
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileUpdate
	if !decode(w, r, &req) {
		return
	}
	u, err := h.users.Update(r.Context(), userID(r.Context()), req.Email, req.Name, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toDTO(u)})
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}
	code, err := h.users.RequestReset(r.Context(), req.Email)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if code != "" {
		h.mail(r.Context(), req.Email, code)
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Reset email sent"})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
		Token    string `json:"token"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.users.ResetPassword(r.Context(), req.Password, req.Token); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Password successfully reset"})
}
