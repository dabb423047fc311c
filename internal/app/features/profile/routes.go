// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/rolehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the account endpoints under the mount point
// (typically /api/profile). All of them need a session.
func MountRoutes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(r chi.Router) {
		r.Use(sm.RequireSignedIn)
		r.Get("/", h.ServeProfile)
		r.Put("/", h.ServeUpdate)
		r.Put("/current-role", h.ServeSetCurrentRole)
		r.Delete("/", h.ServeDelete)
	})
}
