// internal/app/features/roleadmin/routes.go
package roleadmin

import (
	"github.com/dalemusser/rolehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the admin endpoints under the mount point
// (typically /api/admin). RequireAdmin re-reads the admin set on every
// request, so a revocation takes effect immediately.
func MountRoutes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(r chi.Router) {
		r.Use(sm.RequireSignedIn, sm.RequireAdmin)

		r.Post("/{roleID}/requests/{userID}/accept", h.ServeAccept)
		r.Post("/{roleID}/requests/{userID}/decline", h.ServeDeclineRequest)

		r.Post("/{roleID}/tasks", h.ServeCreateTasks)
		r.Get("/{roleID}/submissions", h.ServeSubmissions)
		r.Post("/submissions/{submissionID}/approve", h.ServeApprove)
		r.Post("/submissions/{submissionID}/decline", h.ServeDeclineSubmission)

		r.Put("/{roleID}/rewards", h.ServeSetRewards)
		r.Put("/{roleID}", h.ServeRename)
		r.Post("/{roleID}/reset", h.ServeReset)
		r.Delete("/{roleID}", h.ServeDelete)

		r.Post("/admins/{userID}", h.ServeGrantAdmin)
		r.Delete("/admins/{userID}", h.ServeRevokeAdmin)
	})
}
