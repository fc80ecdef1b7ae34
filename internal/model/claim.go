package model

import (
	"time"

	"github.com/google/uuid"
)

// Claim represents a user's assertion of ownership over a found item,
// pending admin resolution.
type Claim struct {
	ID                  string    `json:"id"`
	LostItemID          string    `json:"lostItemId,omitempty"`
	FoundItemID         string    `json:"foundItemId"`
	ClaimantID          string    `json:"claimantId"`
	Description         string    `json:"description,omitempty"`
	PhotoURL            string    `json:"photoUrl,omitempty"`
	Status              string    `json:"status"`
	ClaimDate           time.Time `json:"claimDate"`
	VerificationDetails string    `json:"verificationDetails,omitempty"`
}

// Claim statuses. A claim is resolved at most once: approved and
// rejected are terminal and immutable.
const (
	ClaimStatusPending  = "pending"
	ClaimStatusApproved = "approved"
	ClaimStatusRejected = "rejected"
)

// Resolved reports whether the claim has reached a terminal status.
func (c *Claim) Resolved() bool {
	return c.Status == ClaimStatusApproved || c.Status == ClaimStatusRejected
}

// NewClaimID generates a unique claim identifier.
func NewClaimID() string {
	return "claim-" + uuid.NewString()
}
