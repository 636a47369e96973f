package ai

import (
	"fmt"

	"github.com/windoze95/recipefinder-api/internal/config"
)

// NewProviderFromConfig builds the completion provider selected by
// LLM_PROVIDER, wrapped in a circuit breaker, and returns the model to
// request from it.
func NewProviderFromConfig(cfg *config.Config) (CompletionProvider, string, error) {
	var (
		provider CompletionProvider
		model    string
	)

	switch cfg.EnvVars.LLMProvider {
	case "openai":
		provider = NewOpenAIProvider(cfg.EnvVars.OpenAIAPIKey, cfg.EnvVars.OpenAIBaseURL)
		model = cfg.EnvVars.OpenAIModel
	case "anthropic":
		provider = NewAnthropicProvider(cfg.EnvVars.AnthropicAPIKey)
		model = cfg.EnvVars.AnthropicModel
		if model == "" {
			model = string(DefaultAnthropicModel)
		}
	default:
		return nil, "", fmt.Errorf("unsupported LLM provider %q", cfg.EnvVars.LLMProvider)
	}

	return NewBreakerProvider(provider, DefaultBreakerSettings), model, nil
}

// NewSemanticSearcherFromConfig wires the configured provider and the
// semantic search prompt into a SemanticSearcher.
func NewSemanticSearcherFromConfig(cfg *config.Config) (*SemanticSearcher, error) {
	provider, model, err := NewProviderFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	prompt := config.DefaultSemanticSearchPrompt
	if cfg.Prompts != nil {
		prompt = cfg.Prompts.Search.Semantic
	}

	return NewSemanticSearcher(provider, prompt, SemanticOptions{
		Model:       model,
		Temperature: cfg.EnvVars.LLMTemperature,
		MaxTokens:   cfg.EnvVars.LLMMaxTokens,
		Timeout:     cfg.EnvVars.LLMTimeout,
	})
}
