package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router mounts the API under /api, like the public service.
func (h *Handler) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(h.log))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/ingredients", h.Ingredients)

		r.Get("/orders/all", h.Feed)
		r.Get("/orders/{number}", h.OrderByNumber)

		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Post("/auth/token", h.Refresh)
		r.Post("/auth/logout", h.Logout)

		r.Post("/password-reset", h.ForgotPassword)
		r.Post("/password-reset/reset", h.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireToken)

			r.Post("/orders", h.PlaceOrder)
			r.Get("/orders", h.UserOrders)

			r.Get("/auth/user", h.GetUser)
			r.Patch("/auth/user", h.UpdateUser)
		})
	})

	return r
}
