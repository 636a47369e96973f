package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/windoze95/recipefinder-api/internal/config"
	"github.com/windoze95/recipefinder-api/internal/logger"
	"github.com/windoze95/recipefinder-api/internal/metrics"
	"go.uber.org/zap"
)

// ErrEmptyQuery is returned for a blank semantic query.
var ErrEmptyQuery = errors.New("semantic query must not be empty")

// SemanticOptions are the completion parameters for semantic search.
type SemanticOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// SemanticSearcher turns a natural-language query into raw LLM text that is
// expected to hold a JSON list of recipes. It does not parse the text.
type SemanticSearcher struct {
	provider CompletionProvider
	prompt   config.PromptPair
	opts     SemanticOptions
}

// NewSemanticSearcher creates a SemanticSearcher. The prompt templates are
// rendered once with a sample query so a broken template fails at startup.
func NewSemanticSearcher(provider CompletionProvider, prompt config.PromptPair, opts SemanticOptions) (*SemanticSearcher, error) {
	s := &SemanticSearcher{provider: provider, prompt: prompt, opts: opts}
	if _, _, err := s.render("pasta"); err != nil {
		return nil, err
	}
	return s, nil
}

// Search asks the provider for recipes matching query and returns its raw
// response. Any provider failure, timeout or empty answer is an
// *UpstreamError.
func (s *SemanticSearcher) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}

	system, user, err := s.render(query)
	if err != nil {
		return "", err
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.provider.Complete(ctx, CompletionRequest{
		Model:        s.opts.Model,
		System:       system,
		User:         user,
		Temperature:  s.opts.Temperature,
		MaxTokens:    s.opts.MaxTokens,
		JSONResponse: true,
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyCompletion
	}
	metrics.RecordLLMRequest(s.provider.Name(), err, time.Since(start))

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", s.opts.Timeout, err)
		}
		logger.Get().Warn("semantic search completion failed",
			zap.String("provider", s.provider.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return "", &UpstreamError{Provider: s.provider.Name(), Err: err}
	}
	return text, nil
}

func (s *SemanticSearcher) render(query string) (string, string, error) {
	data := map[string]interface{}{"Query": query}

	system, err := config.RenderPrompt(s.prompt.System, data)
	if err != nil {
		return "", "", fmt.Errorf("render system prompt: %w", err)
	}
	user, err := config.RenderPrompt(s.prompt.User, data)
	if err != nil {
		return "", "", fmt.Errorf("render user prompt: %w", err)
	}
	return system, user, nil
}
