// internal/app/features/tasks/handler.go
package tasks

import (
	"net/http"

	"github.com/dalemusser/rolehub/internal/app/features/respond"
	"github.com/dalemusser/rolehub/internal/app/ops"
	"github.com/dalemusser/rolehub/internal/app/system/auth"
	"github.com/dalemusser/rolehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's task list and submissions.
type Handler struct {
	Svc *ops.Service
	Log *zap.Logger
}

func NewHandler(svc *ops.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

func currentID(r *http.Request) (primitive.ObjectID, bool) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(su.ID)
	return oid, err == nil
}

// taskView is a task annotated with its submission state, so the list
// can show "waiting for approval" without a second request.
type taskView struct {
	models.Task
	Submitted bool `json:"submitted"`
}

// ServeMine handles GET /?role_id=...: the caller's tasks for one role.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}
	roleID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("role_id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid role id")
		return
	}

	list, err := h.Svc.Tasks().ListForAssignee(r.Context(), roleID, uid)
	if err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	subs, err := h.Svc.Submissions().ListByAssignee(r.Context(), uid)
	if err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	submitted := make(map[primitive.ObjectID]bool, len(subs))
	for _, s := range subs {
		if !s.Complete {
			submitted[s.ID] = true
		}
	}

	out := make([]taskView, 0, len(list))
	incomplete := 0
	for _, t := range list {
		if !t.Complete {
			incomplete++
		}
		out = append(out, taskView{Task: t, Submitted: submitted[t.ID]})
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"tasks":      out,
		"task_count": incomplete,
	})
}

// ServeSubmit handles POST /{taskID}/submit.
func (h *Handler) ServeSubmit(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}
	taskID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "taskID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid task id")
		return
	}
	sub, err := h.Svc.SubmitTask(r.Context(), taskID, uid)
	if err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, map[string]string{
		"status":        "submitted",
		"submission_id": sub.ID.Hex(),
	})
}
