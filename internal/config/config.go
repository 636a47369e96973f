package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration.
type Config struct {
	EnvVars EnvVars  `json:"env"`
	Prompts *Prompts `json:"-"`
}

// EnvVars holds environment variables required by the application.
// Fields tagged `optional:"true"` are skipped by CheckConfigEnvFields.
type EnvVars struct {
	Port               string        `env:"PORT" envDefault:"8080"`
	DatabaseUrl        string        `env:"DATABASE_URL"`
	JwtSecretKey       string        `env:"JWT_SECRET_KEY"`
	LLMProvider        string        `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey       string        `env:"OPENAI_API_KEY" optional:"true"`
	OpenAIBaseURL      string        `env:"OPENAI_BASE_URL" optional:"true"`
	OpenAIModel        string        `env:"OPENAI_MODEL" envDefault:"gpt-4.1"`
	AnthropicAPIKey    string        `env:"ANTHROPIC_API_KEY" optional:"true"`
	AnthropicModel     string        `env:"ANTHROPIC_MODEL" optional:"true"`
	LLMTimeout         time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	LLMTemperature     float64       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	LLMMaxTokens       int           `env:"LLM_MAX_TOKENS" envDefault:"2000"`
	RedisURL           string        `env:"REDIS_URL" optional:"true"`
	SemanticCacheTTL   time.Duration `env:"SEMANTIC_CACHE_TTL" envDefault:"1h"`
	AWSRegion          string        `env:"AWS_REGION"`
	AWSAccessKeyID     string        `env:"AWS_ACCESS_KEY_ID" optional:"true"`
	AWSSecretAccessKey string        `env:"AWS_SECRET_ACCESS_KEY" optional:"true"`
	S3Bucket           string        `env:"S3_BUCKET"`
	PromptsPath        string        `env:"PROMPTS_PATH" envDefault:"configs/prompts.yaml"`
	CorsOrigins        []string      `env:"CORS_ORIGINS" envSeparator:"," optional:"true"`
}

// LoadConfig parses environment variables into the Config struct.
func LoadConfig() (*Config, error) {
	var config Config
	if err := env.Parse(&config.EnvVars); err != nil {
		return nil, err
	}
	return &config, nil
}

// CheckConfigEnvFields validates that all required EnvVars fields are set,
// along with the API key of the selected LLM provider.
func (c *Config) CheckConfigEnvFields() error {
	if err := checkFieldsRecursive(reflect.ValueOf(c.EnvVars)); err != nil {
		return err
	}

	switch c.EnvVars.LLMProvider {
	case "openai":
		if c.EnvVars.OpenAIAPIKey == "" {
			return fmt.Errorf("$OpenAIAPIKey must be set when LLM_PROVIDER=openai")
		}
	case "anthropic":
		if c.EnvVars.AnthropicAPIKey == "" {
			return fmt.Errorf("$AnthropicAPIKey must be set when LLM_PROVIDER=anthropic")
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.EnvVars.LLMProvider)
	}

	return nil
}

func checkFieldsRecursive(v reflect.Value) error {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := v.Type().Field(i)
		if fieldType.Tag.Get("optional") == "true" {
			continue
		}
		if field.IsZero() {
			return fmt.Errorf("$%s must be set", fieldType.Name)
		}
		if field.Kind() == reflect.Struct {
			if err := checkFieldsRecursive(field); err != nil {
				return err
			}
		}
	}
	return nil
}
