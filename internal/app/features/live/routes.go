// internal/app/features/live/routes.go
package live

import (
	"github.com/dalemusser/rolehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the SSE stream under the mount point
// (typically /api/roles).
func MountRoutes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(r chi.Router) {
		r.Use(sm.RequireSignedIn)
		r.Get("/{roleID}/live", h.ServeLive)
	})
}
