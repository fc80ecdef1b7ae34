package match

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"campusfind/internal/imaging"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Gemini implements both collaborators against the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

var _ Matcher = (*Gemini)(nil)
var _ Verifier = (*Gemini)(nil)

// NewGemini creates a Gemini-backed collaborator.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

// matchSchema constrains the model to the Match wire shape.
var matchSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"itemId":          {Type: genai.TypeString},
			"similarityScore": {Type: genai.TypeNumber},
			"imageUrl":        {Type: genai.TypeString},
			"itemDescription": {Type: genai.TypeString},
			"locationFound":   {Type: genai.TypeString},
		},
		Required: []string{"itemId", "similarityScore"},
	},
}

// FindSimilar asks the model to rank the candidate items against the
// query photo and description.
func (g *Gemini) FindSimilar(ctx context.Context, req Request) ([]Match, error) {
	candidates, err := json.Marshal(req.Candidates)
	if err != nil {
		return nil, fmt.Errorf("serializing candidates: %w", err)
	}

	prompt := fmt.Sprintf(
		"You are an assistant that finds similar items for a campus lost-and-found service.\n"+
			"Analyze the item description and photo below, then rank the candidate items by how likely "+
			"each is to be the same physical object. Score similarity from 0 to 1 and return the results "+
			"in descending score order. Omit candidates that clearly do not match.\n\n"+
			"Item description: %s\n\nCandidate items (JSON): %s",
		req.Description, candidates,
	)

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if data, mime, err := imaging.ParseDataURI(req.PhotoDataURI); err == nil {
		parts = append(parts, genai.NewPartFromBytes(data, mime))
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   matchSchema,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini similarity request: %w", err)
	}

	var matches []Match
	if err := json.Unmarshal([]byte(result.Text()), &matches); err != nil {
		return nil, fmt.Errorf("parsing gemini similarity response: %w", err)
	}
	return matches, nil
}

// verifySchema constrains the model to the Verification wire shape.
var verifySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"confidence": {Type: genai.TypeNumber},
		"reasoning":  {Type: genai.TypeString},
	},
	Required: []string{"confidence", "reasoning"},
}

// VerifyClaim asks the model for a side-by-side comparison of the lost
// and found item to help an admin resolve a claim.
func (g *Gemini) VerifyClaim(ctx context.Context, req VerifyRequest) (*Verification, error) {
	prompt := fmt.Sprintf(
		"You are an assistant helping to verify ownership claims for a campus lost-and-found service.\n"+
			"Compare the claimant's lost-item description with the found item below. Highlight key "+
			"similarities and differences an admin should check, and give a confidence score from 0 to 1 "+
			"that they are the same object.\n\n"+
			"Lost item description: %s\n\nFound item description: %s",
		req.LostItemDescription, req.FoundItemDescription,
	)

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if data, mime, err := imaging.ParseDataURI(req.LostItemPhotoDataURI); err == nil {
		parts = append(parts, genai.NewPartFromBytes(data, mime))
	}
	if data, mime, err := imaging.ParseDataURI(req.FoundItemPhotoDataURI); err == nil {
		parts = append(parts, genai.NewPartFromBytes(data, mime))
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   verifySchema,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini verification request: %w", err)
	}

	var v Verification
	if err := json.Unmarshal([]byte(result.Text()), &v); err != nil {
		return nil, fmt.Errorf("parsing gemini verification response: %w", err)
	}
	return &v, nil
}
