package api

import (
	"errors"
	"net/http"

	"campusfind/internal/imaging"
	"campusfind/internal/model"
	"campusfind/internal/state"
)

// ItemsHandler handles item report endpoints.
type ItemsHandler struct {
	Manager *state.Manager
}

type itemRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	ItemType    string `json:"itemType"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	ImageHint   string `json:"imageHint"`
	Location    string `json:"location"`
	Status      string `json:"status"`
}

// List handles GET /api/items. Filters: type, status, mine.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r, h.Manager)
	if !ok {
		return
	}

	reportedBy := ""
	if r.URL.Query().Get("mine") == "true" {
		reportedBy = session.UserID()
	}
	items := session.Items(r.URL.Query().Get("type"), r.URL.Query().Get("status"), reportedBy)
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r, h.Manager)
	if !ok {
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Location == "" {
		jsonError(w, http.StatusBadRequest, "name and location required")
		return
	}

	item, err := session.AddItem(r.Context(), model.Item{
		Name:        req.Name,
		Type:        req.Type,
		ItemType:    req.ItemType,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		ImageHint:   req.ImageHint,
		Location:    req.Location,
	})
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r, h.Manager)
	if !ok {
		return
	}

	item := session.GetItem(r.PathValue("id"))
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}. Only the reporter or an admin may
// edit a report.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r, h.Manager)
	if !ok {
		return
	}

	item := session.GetItem(r.PathValue("id"))
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if !canModifyItem(r, item) {
		jsonError(w, http.StatusForbidden, "only the reporter may edit this item")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	edited := *item
	if req.Name != "" {
		edited.Name = req.Name
	}
	if req.ItemType != "" {
		edited.ItemType = req.ItemType
	}
	if req.Description != "" {
		edited.Description = req.Description
	}
	if req.ImageURL != "" {
		edited.ImageURL = req.ImageURL
	}
	if req.ImageHint != "" {
		edited.ImageHint = req.ImageHint
	}
	if req.Location != "" {
		edited.Location = req.Location
	}
	if req.Status != "" {
		edited.Status = req.Status
	}

	updated, err := session.UpdateItem(r.Context(), edited)
	if errors.Is(err, state.ErrInvalidTransition) {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/items/{id}. Only the reporter or an admin
// may delete a report; dependent claims are left in place.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r, h.Manager)
	if !ok {
		return
	}

	item := session.GetItem(r.PathValue("id"))
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if !canModifyItem(r, item) {
		jsonError(w, http.StatusForbidden, "only the reporter may delete this item")
		return
	}

	if err := session.DeleteItem(r.Context(), item.ID); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// Matches handles GET /api/items/{id}/matches for lost items.
func (h *ItemsHandler) Matches(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r, h.Manager)
	if !ok {
		return
	}

	matches, err := session.FindMatches(r.Context(), r.PathValue("id"))
	if errors.Is(err, state.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if errors.Is(err, state.ErrNotLost) {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		// Collaborator failure degrades to "no matches, try again".
		jsonError(w, http.StatusBadGateway, "matching is temporarily unavailable, please try again")
		return
	}
	jsonResponse(w, http.StatusOK, matches)
}

// UploadImage handles PUT /api/items/{id}/image. The photo is processed
// and stored on the item as a data URI.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r, h.Manager)
	if !ok {
		return
	}

	item := session.GetItem(r.PathValue("id"))
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if !canModifyItem(r, item) {
		jsonError(w, http.StatusForbidden, "only the reporter may change this item's photo")
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	edited := *item
	edited.ImageURL = photo.DataURI()
	updated, err := session.UpdateItem(r.Context(), edited)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save photo")
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// GetImage handles GET /api/items/{id}/image, serving the raw photo
// bytes for items whose image is an inline data URI.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r, h.Manager)
	if !ok {
		return
	}

	item := session.GetItem(r.PathValue("id"))
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	data, mime, err := imaging.ParseDataURI(item.ImageURL)
	if err != nil {
		jsonError(w, http.StatusNotFound, "no inline photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// canModifyItem checks the reporter-or-admin rule.
func canModifyItem(r *http.Request, item *model.Item) bool {
	claims := GetClaims(r.Context())
	if claims == nil {
		return false
	}
	return claims.UserID == item.ReportedBy || claims.Role == model.RoleAdmin
}
