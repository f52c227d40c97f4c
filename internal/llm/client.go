// Package llm wraps the external generative-text service behind a small
// JSON-transformation interface with retry and code-fence tolerant parsing.
package llm

import (
	"context"
	"encoding/json"
	"errors"

	"tagsmith/internal/usage"
)

// ErrEmptyResponse is returned when the service produces no text.
var ErrEmptyResponse = errors.New("empty response from model")

// Client is the surface the chunk updater needs from a generative backend.
type Client interface {
	// TransformJSON sends value to the model with the given system
	// instruction and returns the model's JSON replacement plus token usage.
	// The returned value is not validated against the input's structure.
	TransformJSON(ctx context.Context, instruction string, value any) (json.RawMessage, usage.TokenCounts, error)
}
