// internal/app/features/respond/respond.go

// Package respond centralizes JSON responses and the mapping from
// domain errors to HTTP status codes.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/rolehub/internal/app/ops"
	rolestore "github.com/dalemusser/rolehub/internal/app/store/roles"
	submissionstore "github.com/dalemusser/rolehub/internal/app/store/submissions"
	userstore "github.com/dalemusser/rolehub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// OpError maps a Service error to a response. Unexpected errors are
// logged and answered with a bare 500; the message never leaks.
func OpError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch err {
	case ops.ErrRoleNotFound, ops.ErrTaskNotFound, ops.ErrSubmissionNotFound, mongo.ErrNoDocuments:
		Error(w, http.StatusNotFound, err.Error())
	case ops.ErrNotAssignee, ops.ErrNotMember:
		Error(w, http.StatusForbidden, err.Error())
	case ops.ErrTaskComplete, ops.ErrAlreadyApproved,
		submissionstore.ErrAlreadySubmitted,
		rolestore.ErrDuplicateRoleName, userstore.ErrDuplicateEmail:
		Error(w, http.StatusConflict, err.Error())
	case ops.ErrEmptyTitle, ops.ErrNegativePoints, ops.ErrEmptyName, ops.ErrNoAssignees:
		Error(w, http.StatusBadRequest, err.Error())
	case userstore.ErrBadCredentials:
		Error(w, http.StatusUnauthorized, err.Error())
	default:
		logger.Error("operation failed", zap.Error(err))
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
