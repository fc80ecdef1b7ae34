package api

import (
	"errors"
	"net/http"

	"campusfind/internal/model"
	"campusfind/internal/state"
)

// NotificationsHandler handles notification endpoints.
type NotificationsHandler struct {
	Manager *state.Manager
}

type notificationsResponse struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int                  `json:"unreadCount"`
}

// List handles GET /api/notifications.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r, h.Manager)
	if !ok {
		return
	}

	jsonResponse(w, http.StatusOK, notificationsResponse{
		Notifications: session.Notifications(),
		UnreadCount:   session.UnreadCount(),
	})
}

// MarkRead handles POST /api/notifications/{id}/read.
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r, h.Manager)
	if !ok {
		return
	}

	err := session.MarkAsRead(r.Context(), r.PathValue("id"))
	if errors.Is(err, state.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "notification not found")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to mark notification read")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"unreadCount": session.UnreadCount()})
}

// MarkAllRead handles POST /api/notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r, h.Manager)
	if !ok {
		return
	}

	if err := session.MarkAllAsRead(r.Context()); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to mark notifications read")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"unreadCount": 0})
}
