// internal/app/features/login/handler.go
package login

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/rolehub/internal/app/features/respond"
	"github.com/dalemusser/rolehub/internal/app/ops"
	"github.com/dalemusser/rolehub/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler owns the sign-in boundary: password login, registration, and
// the Google OAuth flow (google.go). Accounts are created on first
// sign-in with their starter data; there is no separate signup flow
// beyond choosing a password.
type Handler struct {
	Svc        *ops.Service
	SessionMgr *auth.SessionManager
	Log        *zap.Logger

	// Google OAuth. Empty client id disables the flow.
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func NewHandler(svc *ops.Service, sessionMgr *auth.SessionManager, clientID, clientSecret, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:          svc,
		SessionMgr:   sessionMgr,
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
	}
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, userID, name, email string) error {
	isAdmin, err := h.Svc.Admins().IsAdmin(r.Context(), userID)
	if err != nil {
		return err
	}
	return h.SessionMgr.SignIn(w, r, auth.SessionUser{
		ID:    userID,
		Name:  name,
		Email: email,
		Admin: isAdmin,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeLogin handles POST /login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	u, err := h.Svc.Users().Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	if err := h.signIn(w, r, u.ID.Hex(), u.Name, u.Email); err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	h.Log.Info("password sign-in", zap.String("user_id", u.ID.Hex()))
	respond.JSON(w, http.StatusOK, map[string]string{"status": "signed in", "user_id": u.ID.Hex()})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeRegister handles POST /register: first sign-in with a password.
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Password) < 8 {
		respond.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	u, created, err := h.Svc.EnsureUser(r.Context(), req.Name, req.Email, "")
	if err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	if !created {
		respond.Error(w, http.StatusConflict, "an account with this email already exists")
		return
	}
	if err := h.Svc.Users().SetPassword(r.Context(), u.ID, req.Password); err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	if err := h.signIn(w, r, u.ID.Hex(), u.Name, u.Email); err != nil {
		respond.OpError(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, map[string]string{"status": "registered", "user_id": u.ID.Hex()})
}

// ServeLogout handles POST /logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("sign-out failed", zap.Error(err))
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}
