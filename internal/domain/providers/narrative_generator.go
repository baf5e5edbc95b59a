package providers

import (
	"context"
	"encoding/json"
	"fmt"
)

// NarrativeInput is the prompt material handed to a text generation service.
type NarrativeInput struct {
	// Instruction is the system-level guidance (tone, language, constraints)
	Instruction string

	// Question is the user-level request
	Question string

	// Context is marshalled to JSON and given to the model as the only source of facts
	Context interface{}

	// MaxOutputTokens overrides the provider default when positive
	MaxOutputTokens int
}

// NarrativeGenerator produces optional prose from structured aggregates.
// Implementations never return errors: any failure yields ("", false).
type NarrativeGenerator interface {
	// Name identifies the provider in responses and metrics
	Name() string

	// Summarize returns generated text and true, or "" and false when unavailable
	Summarize(ctx context.Context, input NarrativeInput) (string, bool)
}

// UserPrompt renders the question followed by the JSON-encoded context.
func (in NarrativeInput) UserPrompt() (string, error) {
	if in.Context == nil {
		return in.Question, nil
	}
	data, err := json.Marshal(in.Context)
	if err != nil {
		return "", fmt.Errorf("failed to encode narrative context: %w", err)
	}
	return fmt.Sprintf("%s\n\nDonnées (JSON) :\n%s", in.Question, data), nil
}
