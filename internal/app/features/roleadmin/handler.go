// internal/app/features/roleadmin/handler.go
package roleadmin

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/rolehub/internal/app/features/respond"
	"github.com/dalemusser/rolehub/internal/app/ops"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler carries the admin-only mutations: join-request decisions,
// task assignment, submission review, rewards, rename, reset, delete,
// and admin-set management. The routes gate on RequireAdmin; handlers
// assume the caller is entitled.
type Handler struct {
	Svc *ops.Service
	Log *zap.Logger
}

func NewHandler(svc *ops.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

func param(r *http.Request, name string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	return oid, err == nil
}

// ServeAccept handles POST /{roleID}/requests/{userID}/accept.
func (h *Handler) ServeAccept(w http.ResponseWriter, r *http.Request) {
	roleID, ok := param(r, "roleID")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid role id")
		return
	}
	userID, ok := param(r, "userID")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := h.Svc.AcceptRequest(r.Context(), roleID, userID); err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

// ServeDeclineRequest handles POST /{roleID}/requests/{userID}/decline.
func (h *Handler) ServeDeclineRequest(w http.ResponseWriter, r *http.Request) {
	roleID, ok := param(r, "roleID")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid role id")
		return
	}
	userID, ok := param(r, "userID")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := h.Svc.DeclineRequest(r.Context(), roleID, userID); err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "declined"})
}

type createTasksRequest struct {
	Assignees   []string `json:"assignees"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Points      int64    `json:"points"`
}

// ServeCreateTasks handles POST /{roleID}/tasks: the same task fanned
// out to every listed assignee.
func (h *Handler) ServeCreateTasks(w http.ResponseWriter, r *http.Request) {
	roleID, ok := param(r, "roleID")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid role id")
		return
	}
	var req createTasksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	assignees := make([]primitive.ObjectID, 0, len(req.Assignees))
	for _, hex := range req.Assignees {
		oid, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid assignee id "+hex)
			return
		}
		assignees = append(assignees, oid)
	}

	created, err := h.Svc.CreateTasks(r.Context(), roleID, assignees, req.Title, req.Description, req.Points)
	if err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, map[string]int{"created": created})
}

// ServeSubmissions handles GET /{roleID}/submissions: the open queue.
func (h *Handler) ServeSubmissions(w http.ResponseWriter, r *http.Request) {
	roleID, ok := param(r, "roleID")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid role id")
		return
	}
	subs, err := h.Svc.Submissions().ListOpenByRole(r.Context(), roleID)
	if err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{"submissions": subs})
}

// ServeApprove handles POST /submissions/{submissionID}/approve.
func (h *Handler) ServeApprove(w http.ResponseWriter, r *http.Request) {
	subID, ok := param(r, "submissionID")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid submission id")
		return
	}
	if err := h.Svc.ApproveSubmission(r.Context(), subID); err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

// ServeDeclineSubmission handles POST /submissions/{submissionID}/decline.
func (h *Handler) ServeDeclineSubmission(w http.ResponseWriter, r *http.Request) {
	subID, ok := param(r, "submissionID")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid submission id")
		return
	}
	if err := h.Svc.DeclineSubmission(r.Context(), subID); err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "declined"})
}

type rewardsRequest struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Third  string `json:"third"`
}

// ServeSetRewards handles PUT /{roleID}/rewards.
func (h *Handler) ServeSetRewards(w http.ResponseWriter, r *http.Request) {
	roleID, ok := param(r, "roleID")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid role id")
		return
	}
	var req rewardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.Svc.SetReward(r.Context(), roleID, req.First, req.Second, req.Third); err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type renameRequest struct {
	Name string `json:"name"`
}

// ServeRename handles PUT /{roleID}.
func (h *Handler) ServeRename(w http.ResponseWriter, r *http.Request) {
	roleID, ok := param(r, "roleID")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid role id")
		return
	}
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.Svc.RenameRole(r.Context(), roleID, req.Name); err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "renamed"})
}

// ServeReset handles POST /{roleID}/reset: fresh round, scores zeroed.
func (h *Handler) ServeReset(w http.ResponseWriter, r *http.Request) {
	roleID, ok := param(r, "roleID")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid role id")
		return
	}
	if err := h.Svc.ResetRole(r.Context(), roleID); err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// ServeDelete handles DELETE /{roleID}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	roleID, ok := param(r, "roleID")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid role id")
		return
	}
	if err := h.Svc.DeleteRole(r.Context(), roleID); err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ServeGrantAdmin handles POST /admins/{userID}.
func (h *Handler) ServeGrantAdmin(w http.ResponseWriter, r *http.Request) {
	userID, ok := param(r, "userID")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := h.Svc.Admins().Add(r.Context(), userID); err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "granted"})
}

// ServeRevokeAdmin handles DELETE /admins/{userID}.
func (h *Handler) ServeRevokeAdmin(w http.ResponseWriter, r *http.Request) {
	userID, ok := param(r, "userID")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := h.Svc.Admins().Remove(r.Context(), userID); err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}
