// internal/app/features/profile/handler.go
package profile

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/rolehub/internal/app/features/respond"
	"github.com/dalemusser/rolehub/internal/app/ops"
	"github.com/dalemusser/rolehub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's account: profile reads, edits,
// role switching, and account deletion.
type Handler struct {
	Svc        *ops.Service
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

func NewHandler(svc *ops.Service, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, SessionMgr: sessionMgr, Log: logger}
}

func (h *Handler) currentID(r *http.Request) (primitive.ObjectID, bool) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// ServeProfile handles GET /. Returns the full user document, which
// carries the embedded role summaries the home page renders.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.currentID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}
	u, err := h.Svc.Users().GetByID(r.Context(), uid)
	if err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	isAdmin, err := h.Svc.Admins().IsAdmin(r.Context(), uid.Hex())
	if err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"user":     u,
		"is_admin": isAdmin,
	})
}

type updateRequest struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
}

// ServeUpdate handles PUT /. Name and photo only; email is immutable.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.currentID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.Svc.UpdateProfile(r.Context(), uid, req.Name, req.PhotoURL); err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type currentRoleRequest struct {
	RoleID string `json:"role_id"`
}

// ServeSetCurrentRole handles PUT /current-role.
func (h *Handler) ServeSetCurrentRole(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.currentID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}
	var req currentRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	roleID, err := primitive.ObjectIDFromHex(req.RoleID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid role id")
		return
	}
	if err := h.Svc.SetCurrentRole(r.Context(), uid, roleID); err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ServeDelete handles DELETE /. The account and its footprint go; the
// session is cleared afterward.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.currentID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}
	if err := h.Svc.DeleteAccount(r.Context(), uid); err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("sign-out after account deletion failed", zap.Error(err))
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
