// internal/app/features/health/routes.go
package health

import "github.com/go-chi/chi/v5"

// MountRoutes registers GET /healthz. No auth: probes have no session.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/healthz", h.ServeHealth)
}
