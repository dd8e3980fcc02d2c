package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mirrwin/daymark/internal/auth"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /stream inside the auth group.
func NewRouter(h *Handler, tokens *auth.TokenManager, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public surface: account creation, login, and share token resolution
	// (the sole unauthenticated read path).
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Get("/share/{token}", h.GetSharedEvent)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(tokens))

		r.Get("/auth/me", h.Me)
		r.Put("/auth/profile", h.UpdateProfile)

		// Events CRUD.
		r.Get("/events", h.ListEvents)
		r.Post("/events", h.CreateEvent)
		r.Get("/events/{id}", h.GetEvent)
		r.Put("/events/{id}", h.UpdateEvent)
		r.Delete("/events/{id}", h.DeleteEvent)

		// Share link issuance.
		r.Post("/share", h.CreateShareLink)

		// SSE endpoint (protected by same auth middleware).
		if sseHandler != nil {
			r.Get("/stream", sseHandler.ServeHTTP)
		}

		// Admin surface.
		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin(h.store))
			r.Get("/users", h.AdminListUsers)
			r.Put("/users/{id}/role", h.AdminUpdateUserRole)
			r.Delete("/users/{id}", h.AdminDeleteUser)
			r.Get("/events", h.AdminListEvents)
			r.Delete("/events/{id}", h.AdminDeleteEvent)
		})
	})

	return r
}
