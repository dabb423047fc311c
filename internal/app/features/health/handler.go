// internal/app/features/health/handler.go
package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/rolehub/internal/app/features/respond"
	"github.com/dalemusser/rolehub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler answers liveness probes and reports mongo reachability.
type Handler struct {
	Client *mongo.Client
	Log    *zap.Logger
}

func NewHandler(client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{Client: client, Log: logger}
}

// ServeHealth handles GET /healthz. A mongo ping failure reports 503 so
// load balancers rotate the instance out.
func (h *Handler) ServeHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if err := h.Client.Ping(ctx, nil); err != nil {
		h.Log.Warn("health check mongo ping failed", zap.Error(err))
		respond.JSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"mongo":  "unreachable",
		})
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"mongo":  "ok",
	})
}
