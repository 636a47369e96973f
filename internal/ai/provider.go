package ai

import (
	"context"
	"errors"
	"fmt"
)

// CompletionProvider sends a single-turn completion to an LLM and returns
// its raw text.
type CompletionProvider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest holds the parameters of one completion call.
type CompletionRequest struct {
	Model       string
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	// JSONResponse asks the provider to constrain output to a JSON object
	// where the API supports it.
	JSONResponse bool
}

// ErrEmptyCompletion is returned when a provider answers with no text.
var ErrEmptyCompletion = errors.New("completion returned no content")

// UpstreamError reports a failed, timed out or empty LLM call.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s upstream error: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
