package narrative

import (
	"context"

	"github.com/civicpulse/backend/internal/domain/providers"
)

// Noop is the narrative generator used when no model is configured.
type Noop struct{}

// NewNoop returns a generator that is never available.
func NewNoop() Noop {
	return Noop{}
}

func (Noop) Name() string {
	return "none"
}

func (Noop) Summarize(context.Context, providers.NarrativeInput) (string, bool) {
	return "", false
}

var _ providers.NarrativeGenerator = Noop{}
