package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"campusfind/internal/auth"
	"campusfind/internal/model"
	"campusfind/internal/state"
	"campusfind/internal/storage"
)

// AuthHandler handles authentication and profile endpoints.
type AuthHandler struct {
	DB        *sql.DB
	Manager   *state.Manager
	JWTSecret string
}

type loginRequest struct {
	Email string `json:"email"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type updateProfileRequest struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// Login handles POST /api/auth/login. Accounts are identified by email
// alone (case-insensitive); there is no password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		jsonError(w, http.StatusBadRequest, "email required")
		return
	}

	session, err := h.Manager.Login(r.Context(), req.Email)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if session == nil {
		slog.Warn("login failed", "email", req.Email, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "no account with that email")
		return
	}

	user := session.User()
	token, err := auth.GenerateToken(h.JWTSecret, user.ID, user.Email, user.Role)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	slog.Info("user logged in", "user", user.Email, "role", user.Role)
	jsonResponse(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// Logout handles POST /api/auth/logout. It revokes the presented token
// and clears the session's persisted collections.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := storage.RevokeToken(r.Context(), h.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to revoke token")
		return
	}
	if err := h.Manager.Logout(r.Context(), claims.UserID); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to clear session")
		return
	}

	slog.Info("user logged out", "user", claims.Email)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	user := session.User()
	if user == nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /api/auth/profile. Only the display name
// and avatar are mutable.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" && req.AvatarURL == "" {
		jsonError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	user, err := session.UpdateProfile(r.Context(), req.Name, req.AvatarURL)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

func (h *AuthHandler) session(w http.ResponseWriter, r *http.Request) (*state.Session, bool) {
	return sessionFromRequest(w, r, h.Manager)
}

// sessionFromRequest resolves the authenticated user's session. Writes
// the error response itself when the session cannot be resolved.
func sessionFromRequest(w http.ResponseWriter, r *http.Request, manager *state.Manager) (*state.Session, bool) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}
	session, err := manager.Session(r.Context(), claims.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return session, true
}
