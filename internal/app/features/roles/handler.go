// internal/app/features/roles/handler.go
package roles

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/rolehub/internal/app/features/respond"
	"github.com/dalemusser/rolehub/internal/app/ops"
	"github.com/dalemusser/rolehub/internal/app/store/queries/rolemembers"
	"github.com/dalemusser/rolehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the role directory: listing, joining, and the member
// roster. Mutating a role beyond a join request lives in roleadmin.
type Handler struct {
	DB  *mongo.Database
	Svc *ops.Service
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, svc *ops.Service, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Svc: svc, Log: logger}
}

func roleParam(r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "roleID"))
	return oid, err == nil
}

// ServeList handles GET /. Each role is annotated with the caller's
// relationship to it, so the directory can show join/pending/member.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)
	var me primitive.ObjectID
	if su != nil {
		me, _ = primitive.ObjectIDFromHex(su.ID)
	}

	list, err := h.Svc.Roles().List(r.Context())
	if err != nil {
		respond.OpError(w, h.Log, err)
		return
	}

	type roleInfo struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		MemberCount int    `json:"member_count"`
		IsMember    bool   `json:"is_member"`
		IsPending   bool   `json:"is_pending"`
	}
	out := make([]roleInfo, 0, len(list))
	for _, role := range list {
		out = append(out, roleInfo{
			ID:          role.ID.Hex(),
			Name:        role.Name,
			MemberCount: len(role.Members),
			IsMember:    role.HasMember(me),
			IsPending:   role.HasPending(me),
		})
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{"roles": out})
}

// ServeJoin handles POST /{roleID}/join: files a join request.
func (h *Handler) ServeJoin(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}
	uid, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		respond.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}
	roleID, ok := roleParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid role id")
		return
	}
	if err := h.Svc.RequestJoin(r.Context(), roleID, uid); err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusAccepted, map[string]string{"status": "requested"})
}

// ServeMembers handles GET /{roleID}/members: the resolved roster with
// per-role scores, one aggregation round trip.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	roleID, ok := roleParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid role id")
		return
	}
	members, err := rolemembers.ListRoleMembers(r.Context(), h.DB, roleID)
	if err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{"members": members})
}

type createRequest struct {
	Name string `json:"name"`
}

// ServeCreate handles POST / (admin only, enforced by the route).
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	role, err := h.Svc.CreateRole(r.Context(), req.Name)
	if err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, map[string]string{
		"id":   role.ID.Hex(),
		"name": role.Name,
	})
}
