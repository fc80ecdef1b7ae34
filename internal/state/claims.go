package state

import (
	"context"
	"fmt"
	"time"

	"campusfind/internal/match"
	"campusfind/internal/model"
	"campusfind/internal/storage"
)

// AddClaim assigns an id and timestamp to the draft, marks it pending,
// and prepends it to the claim collection. The claimed item must be an
// open found item.
func (s *Session) AddClaim(ctx context.Context, draft model.Claim) (*model.Claim, error) {
	item := s.GetItem(draft.FoundItemID)
	if item == nil {
		return nil, ErrNotFound
	}
	if item.Type != model.ItemTypeFound || item.Status != model.ItemStatusOpen {
		return nil, ErrNotClaimable
	}

	claim := draft
	claim.ID = model.NewClaimID()
	claim.ClaimantID = s.userID
	claim.ClaimDate = time.Now().UTC()
	claim.Status = model.ClaimStatusPending

	s.mu.Lock()
	defer s.mu.Unlock()

	s.claims = append([]model.Claim{claim}, s.claims...)
	if err := s.persist(ctx, storage.CollectionClaims); err != nil {
		s.claims = s.claims[1:]
		return nil, err
	}
	return &claim, nil
}

// GetClaim returns the claim with the given id, or nil if absent.
func (s *Session) GetClaim(id string) *model.Claim {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.claims {
		if s.claims[i].ID == id {
			claim := s.claims[i]
			return &claim
		}
	}
	return nil
}

// Claims returns the claim collection, optionally filtered by claimant.
func (s *Session) Claims(claimantID string) []model.Claim {
	s.mu.Lock()
	defer s.mu.Unlock()

	claims := make([]model.Claim, 0, len(s.claims))
	for _, claim := range s.claims {
		if claimantID != "" && claim.ClaimantID != claimantID {
			continue
		}
		claims = append(claims, claim)
	}
	return claims
}

// ApproveClaim marks a pending claim approved, flips the referenced
// item to claimed, and notifies the claimant. Approving an already
// resolved claim is a silent no-op: no state change, no duplicate
// notification.
func (s *Session) ApproveClaim(ctx context.Context, id string) (*model.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.claims {
		if s.claims[i].ID != id {
			continue
		}
		if s.claims[i].Resolved() {
			claim := s.claims[i]
			return &claim, nil
		}

		s.claims[i].Status = model.ClaimStatusApproved
		if err := s.persist(ctx, storage.CollectionClaims); err != nil {
			return nil, err
		}

		// The claimed item may have been deleted while the claim was
		// pending; the approval still stands (orphan claim).
		var itemName string
		for j := range s.items {
			if s.items[j].ID == s.claims[i].FoundItemID {
				s.items[j].Status = model.ItemStatusClaimed
				itemName = s.items[j].Name
				if err := s.persist(ctx, storage.CollectionItems); err != nil {
					return nil, err
				}
				break
			}
		}

		message := "Your claim has been approved. Visit the front desk to pick up your item."
		if itemName != "" {
			message = fmt.Sprintf("Your claim for %q has been approved. Visit the front desk to pick it up.", itemName)
		}
		if err := s.appendNotification(ctx, s.claims[i].ClaimantID, message); err != nil {
			return nil, err
		}

		claim := s.claims[i]
		return &claim, nil
	}
	return nil, ErrNotFound
}

// RejectClaim marks a pending claim rejected and notifies the claimant;
// the referenced item is untouched. Rejecting an already resolved claim
// is a silent no-op, mirroring ApproveClaim.
func (s *Session) RejectClaim(ctx context.Context, id string) (*model.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.claims {
		if s.claims[i].ID != id {
			continue
		}
		if s.claims[i].Resolved() {
			claim := s.claims[i]
			return &claim, nil
		}

		s.claims[i].Status = model.ClaimStatusRejected
		if err := s.persist(ctx, storage.CollectionClaims); err != nil {
			return nil, err
		}

		message := "Your claim has been rejected. Contact the lost-and-found office if you believe this is a mistake."
		if err := s.appendNotification(ctx, s.claims[i].ClaimantID, message); err != nil {
			return nil, err
		}

		claim := s.claims[i]
		return &claim, nil
	}
	return nil, ErrNotFound
}

// VerifyClaim asks the verification collaborator for a side-by-side
// assessment of the claim and stores the narrative on the claim record.
func (s *Session) VerifyClaim(ctx context.Context, id string) (*match.Verification, error) {
	claim := s.GetClaim(id)
	if claim == nil {
		return nil, ErrNotFound
	}

	found := s.GetItem(claim.FoundItemID)
	if found == nil {
		return nil, fmt.Errorf("verifying claim %s: found item %s no longer exists", id, claim.FoundItemID)
	}

	req := match.VerifyRequest{
		LostItemDescription:   claim.Description,
		LostItemPhotoDataURI:  claim.PhotoURL,
		FoundItemDescription:  found.Description,
		FoundItemPhotoDataURI: found.ImageURL,
	}
	if lost := s.GetItem(claim.LostItemID); lost != nil {
		if req.LostItemDescription == "" {
			req.LostItemDescription = lost.Description
		}
		if req.LostItemPhotoDataURI == "" {
			req.LostItemPhotoDataURI = lost.ImageURL
		}
	}

	v, err := s.verifier.VerifyClaim(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("verifying claim %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.claims {
		if s.claims[i].ID == id {
			s.claims[i].VerificationDetails = v.Reasoning
			if err := s.persist(ctx, storage.CollectionClaims); err != nil {
				return nil, err
			}
			break
		}
	}
	return v, nil
}
