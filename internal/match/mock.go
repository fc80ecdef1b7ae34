package match

import (
	"context"
	"fmt"

	"campusfind/internal/model"
)

// Mock is a deterministic collaborator used when no API key is
// configured. It scores the first few open found candidates on a fixed
// descending curve, which keeps demo flows and tests predictable.
type Mock struct{}

var _ Matcher = (*Mock)(nil)
var _ Verifier = (*Mock)(nil)

// FindSimilar returns up to three open found candidates with scores
// 0.92, 0.77, 0.62.
func (*Mock) FindSimilar(ctx context.Context, req Request) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var matches []Match
	for _, item := range req.Candidates {
		if item.Type != model.ItemTypeFound || item.Status != model.ItemStatusOpen {
			continue
		}
		score := 0.92 - float64(len(matches))*0.15
		if score <= 0 || len(matches) >= 3 {
			break
		}
		matches = append(matches, Match{
			ItemID:          item.ID,
			SimilarityScore: score,
			ImageURL:        item.ImageURL,
			ItemDescription: item.Description,
			LocationFound:   item.Location,
		})
	}
	return matches, nil
}

// VerifyClaim returns a canned narrative with a fixed mid-high confidence.
func (*Mock) VerifyClaim(ctx context.Context, req VerifyRequest) (*Verification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Verification{
		Confidence: 0.85,
		Reasoning: fmt.Sprintf(
			"The claimant's description (%q) closely matches the found item (%q). "+
				"Key details such as color and distinguishing marks align; review the photos for final confirmation.",
			req.LostItemDescription, req.FoundItemDescription,
		),
	}, nil
}
