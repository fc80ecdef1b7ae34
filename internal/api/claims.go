package api

import (
	"errors"
	"net/http"

	"campusfind/internal/model"
	"campusfind/internal/state"
)

// ClaimsHandler handles ownership claim endpoints.
type ClaimsHandler struct {
	Manager *state.Manager
}

type createClaimRequest struct {
	FoundItemID string `json:"foundItemId"`
	LostItemID  string `json:"lostItemId"`
	Description string `json:"description"`
	PhotoURL    string `json:"photoUrl"`
}

// Create handles POST /api/claims.
func (h *ClaimsHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r, h.Manager)
	if !ok {
		return
	}

	var req createClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FoundItemID == "" {
		jsonError(w, http.StatusBadRequest, "foundItemId required")
		return
	}

	claim, err := session.AddClaim(r.Context(), model.Claim{
		FoundItemID: req.FoundItemID,
		LostItemID:  req.LostItemID,
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
	})
	if errors.Is(err, state.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if errors.Is(err, state.ErrNotClaimable) {
		jsonError(w, http.StatusBadRequest, "item is not an open found item")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create claim")
		return
	}

	jsonResponse(w, http.StatusCreated, claim)
}

// List handles GET /api/claims. Admins see every claim in the session;
// other users see only their own.
func (h *ClaimsHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r, h.Manager)
	if !ok {
		return
	}

	claims := GetClaims(r.Context())
	claimantID := claims.UserID
	if claims.Role == model.RoleAdmin {
		claimantID = ""
	}
	jsonResponse(w, http.StatusOK, session.Claims(claimantID))
}

// Get handles GET /api/claims/{id}.
func (h *ClaimsHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r, h.Manager)
	if !ok {
		return
	}

	claim := session.GetClaim(r.PathValue("id"))
	if claim == nil {
		jsonError(w, http.StatusNotFound, "claim not found")
		return
	}

	claims := GetClaims(r.Context())
	if claims.Role != model.RoleAdmin && claim.ClaimantID != claims.UserID {
		jsonError(w, http.StatusForbidden, "insufficient permissions")
		return
	}
	jsonResponse(w, http.StatusOK, claim)
}

// Approve handles POST /api/claims/{id}/approve (admin only, enforced
// by the router).
func (h *ClaimsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r, h.Manager)
	if !ok {
		return
	}

	claim, err := session.ApproveClaim(r.Context(), r.PathValue("id"))
	if errors.Is(err, state.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "claim not found")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to approve claim")
		return
	}
	jsonResponse(w, http.StatusOK, claim)
}

// Reject handles POST /api/claims/{id}/reject (admin only).
func (h *ClaimsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r, h.Manager)
	if !ok {
		return
	}

	claim, err := session.RejectClaim(r.Context(), r.PathValue("id"))
	if errors.Is(err, state.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "claim not found")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to reject claim")
		return
	}
	jsonResponse(w, http.StatusOK, claim)
}

// Verify handles POST /api/claims/{id}/verify (admin only): asks the
// verification collaborator for a comparison narrative.
func (h *ClaimsHandler) Verify(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r, h.Manager)
	if !ok {
		return
	}

	v, err := session.VerifyClaim(r.Context(), r.PathValue("id"))
	if errors.Is(err, state.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "claim not found")
		return
	}
	if err != nil {
		jsonError(w, http.StatusBadGateway, "verification is temporarily unavailable, please try again")
		return
	}
	jsonResponse(w, http.StatusOK, v)
}
