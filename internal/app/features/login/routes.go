// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// MountRoutes registers the sign-in endpoints at the router root.
func MountRoutes(r chi.Router, h *Handler) {
	r.Post("/login", h.ServeLogin)
	r.Post("/register", h.ServeRegister)
	r.Post("/logout", h.ServeLogout)
	r.Get("/auth/google", h.ServeGoogleLogin)
	r.Get("/auth/google/callback", h.ServeGoogleCallback)
}
