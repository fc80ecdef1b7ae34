package api

import (
	"database/sql"
	"net/http"

	"campusfind/internal/model"
	"campusfind/internal/state"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, manager *state.Manager, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, Manager: manager, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{Manager: manager}
	claimsHandler := &ClaimsHandler{Manager: manager}
	notificationsHandler := &NotificationsHandler{Manager: manager}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PUT /api/auth/profile", authMW(http.HandlerFunc(authHandler.UpdateProfile)))

	// Items: any authenticated user may report and browse; edit/delete
	// is gated to the reporter (or admin) inside the handlers.
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("GET /api/items/{id}/matches", authMW(http.HandlerFunc(itemsHandler.Matches)))
	mux.Handle("PUT /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.UploadImage)))
	mux.Handle("GET /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))

	// Claims: submit and read (own), resolution is admin only.
	mux.Handle("POST /api/claims", authMW(http.HandlerFunc(claimsHandler.Create)))
	mux.Handle("GET /api/claims", authMW(http.HandlerFunc(claimsHandler.List)))
	mux.Handle("GET /api/claims/{id}", authMW(http.HandlerFunc(claimsHandler.Get)))
	mux.Handle("POST /api/claims/{id}/approve", authMW(requireAdmin(http.HandlerFunc(claimsHandler.Approve))))
	mux.Handle("POST /api/claims/{id}/reject", authMW(requireAdmin(http.HandlerFunc(claimsHandler.Reject))))
	mux.Handle("POST /api/claims/{id}/verify", authMW(requireAdmin(http.HandlerFunc(claimsHandler.Verify))))

	// Notifications.
	mux.Handle("GET /api/notifications", authMW(http.HandlerFunc(notificationsHandler.List)))
	mux.Handle("POST /api/notifications/{id}/read", authMW(http.HandlerFunc(notificationsHandler.MarkRead)))
	mux.Handle("POST /api/notifications/read-all", authMW(http.HandlerFunc(notificationsHandler.MarkAllRead)))

	return mux
}
