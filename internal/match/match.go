// Package match defines the similarity-matching and claim-verification
// collaborators. Callers treat both as opaque remote ranking/judgement
// functions; whether a real model or the deterministic mock is wired
// behind the interface is invisible to them.
package match

import (
	"context"

	"campusfind/internal/model"
)

// Threshold is the minimum similarity score for a match to trigger a
// notification to the lost item's reporter.
const Threshold = 0.7

// Request asks for candidate items similar to a reported item.
type Request struct {
	PhotoDataURI string
	Description  string
	Candidates   []model.Item
}

// Match is one ranked result. Scores are in [0,1]; the collaborator
// returns results in descending score order and that ordering is trusted.
type Match struct {
	ItemID          string  `json:"itemId"`
	SimilarityScore float64 `json:"similarityScore"`
	ImageURL        string  `json:"imageUrl"`
	ItemDescription string  `json:"itemDescription"`
	LocationFound   string  `json:"locationFound"`
}

// Matcher ranks candidate items against a query item.
type Matcher interface {
	FindSimilar(ctx context.Context, req Request) ([]Match, error)
}

// VerifyRequest asks for a side-by-side assessment of a claimed item pair.
type VerifyRequest struct {
	LostItemDescription   string
	LostItemPhotoDataURI  string
	FoundItemDescription  string
	FoundItemPhotoDataURI string
}

// Verification is the collaborator's judgement on a claim.
type Verification struct {
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Verifier produces a claim-verification narrative for admins.
type Verifier interface {
	VerifyClaim(ctx context.Context, req VerifyRequest) (*Verification, error)
}
