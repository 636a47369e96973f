package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/windoze95/recipefinder-api/internal/logger"
	"go.uber.org/zap"
)

// DefaultAnthropicModel is used when ANTHROPIC_MODEL is not set.
const DefaultAnthropicModel = anthropic.ModelClaude3_5Sonnet20241022

// AnthropicProvider implements CompletionProvider using Claude.
type AnthropicProvider struct {
	client     anthropic.Client
	maxRetries int
	backoff    time.Duration
}

// NewAnthropicProvider creates a new AnthropicProvider with the given API key.
// Extra request options (base URL, retries) are passed to the SDK client.
func NewAnthropicProvider(apiKey string, opts ...option.RequestOption) *AnthropicProvider {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &AnthropicProvider{
		client:     anthropic.NewClient(opts...),
		maxRetries: 5,
		backoff:    2 * time.Second,
	}
}

// Name returns "anthropic".
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// Complete sends one user turn with a system instruction and returns the
// concatenated text blocks. Claude has no JSON response mode; the system
// instruction carries the format requirement.
func (p *AnthropicProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := anthropic.Model(req.Model)
	if req.Model == "" {
		model = DefaultAnthropicModel
	}

	params := anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: int64(req.MaxTokens),
		System: []anthropic.TextBlockParam{
			{Text: req.System},
		},
		Messages: []anthropic.MessageParam{
			newUserMessage(anthropic.NewTextBlock(req.User)),
		},
		Temperature: anthropic.Float(req.Temperature),
	}

	resp, err := p.createMessageWithRetry(ctx, params)
	if err != nil {
		return "", err
	}

	return extractTextContent(resp)
}

// newUserMessage creates a user message param with the given content blocks.
func newUserMessage(blocks ...anthropic.ContentBlockParamUnion) anthropic.MessageParam {
	return anthropic.MessageParam{
		Role:    anthropic.MessageParamRoleUser,
		Content: blocks,
	}
}

// createMessageWithRetry wraps the Claude API call with linear backoff.
func (p *AnthropicProvider) createMessageWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error

	for i := 0; i < p.maxRetries; i++ {
		resp, err := p.client.Messages.New(ctx, params)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		if !classifyAnthropicError(err) {
			return nil, fmt.Errorf("claude API error: %w", err)
		}

		logger.Get().Warn("claude API error, retrying",
			zap.Error(err),
			zap.Int("attempt", i+1),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.backoff * time.Duration(i+1)):
		}
	}

	return nil, fmt.Errorf("claude API: exhausted %d retries: %w", p.maxRetries, lastErr)
}

// classifyAnthropicError reports whether a Claude API error is retryable.
func classifyAnthropicError(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
			return true
		}
	}
	return false
}

// extractTextContent returns the concatenated text blocks from a Claude response.
func extractTextContent(msg *anthropic.Message) (string, error) {
	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", ErrEmptyCompletion
	}
	return text.String(), nil
}
