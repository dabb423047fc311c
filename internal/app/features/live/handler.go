// internal/app/features/live/handler.go
package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/rolehub/internal/app/features/respond"
	"github.com/dalemusser/rolehub/internal/app/realtime"
	"github.com/dalemusser/rolehub/internal/app/sync/session"
	"github.com/dalemusser/rolehub/internal/app/sync/view"
	"github.com/dalemusser/rolehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// heartbeatEvery keeps idle SSE connections alive through proxies.
const heartbeatEvery = 25 * time.Second

// Handler streams a role view over server-sent events. Each connection
// owns one view controller: attach opens the subscriptions, disconnect
// closes them, exactly one live role page per connection.
type Handler struct {
	Src realtime.Source
	Log *zap.Logger
}

func NewHandler(src realtime.Source, logger *zap.Logger) *Handler {
	return &Handler{Src: src, Log: logger}
}

// ServeLive handles GET /{roleID}/live?screen=...
//
// The stream carries `state` events, each a full view snapshot: clients
// replace their state wholesale, never patch. A new snapshot is sent
// whenever any watched document changes.
func (h *Handler) ServeLive(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}
	me, err := session.FromSessionUser(*su)
	if err != nil {
		respond.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}
	roleID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "roleID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid role id")
		return
	}
	screen, err := view.ParseScreen(r.URL.Query().Get("screen"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		respond.Error(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	connID := uuid.New()
	log := h.Log.With(
		zap.String("conn_id", connID.String()),
		zap.String("role_id", roleID.Hex()),
		zap.String("user_id", me.UserID.Hex()))
	log.Info("live view attached", zap.String("screen", screen.String()))

	ctrl := view.Open(r.Context(), h.Src, log, me, roleID, screen)
	defer func() {
		ctrl.Close()
		log.Info("live view detached")
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	snap := ctrl.View().Snapshot()
	if err := writeState(w, snap); err != nil {
		return
	}
	flusher.Flush()

	for {
		waitCtx, cancel := context.WithTimeout(r.Context(), heartbeatEvery)
		next, err := ctrl.View().Wait(waitCtx, snap.Version)
		cancel()
		if err != nil {
			if r.Context().Err() != nil {
				return
			}
			if errors.Is(err, context.DeadlineExceeded) {
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				flusher.Flush()
				continue
			}
			return
		}
		snap = next
		if err := writeState(w, snap); err != nil {
			return
		}
		flusher.Flush()
	}
}

func writeState(w http.ResponseWriter, snap view.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: state\ndata: %s\n\n", payload)
	return err
}
