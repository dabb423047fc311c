// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/dalemusser/rolehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the task endpoints under the mount point
// (typically /api/tasks).
func MountRoutes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(r chi.Router) {
		r.Use(sm.RequireSignedIn)
		r.Get("/", h.ServeMine)
		r.Post("/{taskID}/submit", h.ServeSubmit)
	})
}
