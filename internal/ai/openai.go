package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/windoze95/recipefinder-api/internal/logger"
	"go.uber.org/zap"
)

// OpenAIProvider implements CompletionProvider with OpenAI chat completions.
type OpenAIProvider struct {
	client     *openai.Client
	maxRetries int
	backoff    time.Duration
}

// NewOpenAIProvider creates a new OpenAIProvider. An empty baseURL uses the
// public OpenAI endpoint.
func NewOpenAIProvider(apiKey, baseURL string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIProvider{
		client:     openai.NewClientWithConfig(cfg),
		maxRetries: 3,
		backoff:    2 * time.Second,
	}
}

// Name returns "openai".
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Complete runs a system + user chat completion and returns the first choice.
func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONResponse {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.createChatCompletionWithRetry(ctx, chatReq)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// createChatCompletionWithRetry wraps the chat API call with linear backoff.
func (p *OpenAIProvider) createChatCompletionWithRetry(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	var lastErr error

	for i := 0; i < p.maxRetries; i++ {
		resp, err := p.client.CreateChatCompletion(ctx, req)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		if !classifyOpenAIError(err) {
			return openai.ChatCompletionResponse{}, fmt.Errorf("openai API error: %w", err)
		}

		logger.Get().Warn("openai API error, retrying",
			zap.Error(err),
			zap.Int("attempt", i+1),
		)

		if i < p.maxRetries-1 {
			select {
			case <-ctx.Done():
				return openai.ChatCompletionResponse{}, ctx.Err()
			case <-time.After(p.backoff * time.Duration(i+1)):
			}
		}
	}

	return openai.ChatCompletionResponse{}, fmt.Errorf("openai API: exhausted %d retries: %w", p.maxRetries, lastErr)
}

// classifyOpenAIError determines whether an OpenAI API error is retryable.
func classifyOpenAIError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 429, 500, 502, 503:
			return true
		}
	}
	return false
}
