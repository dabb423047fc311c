// internal/app/features/roles/routes.go
package roles

import (
	"github.com/dalemusser/rolehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the role directory under the mount point
// (typically /api/roles).
func MountRoutes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(r chi.Router) {
		r.Use(sm.RequireSignedIn)
		r.Get("/", h.ServeList)
		r.Get("/{roleID}/members", h.ServeMembers)
		r.Post("/{roleID}/join", h.ServeJoin)
	})
	r.Group(func(r chi.Router) {
		r.Use(sm.RequireSignedIn, sm.RequireAdmin)
		r.Post("/", h.ServeCreate)
	})
}
