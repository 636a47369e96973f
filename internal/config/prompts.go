package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// PromptPair holds a system and user prompt template.
type PromptPair struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

// SearchPrompts holds search-related prompt templates.
type SearchPrompts struct {
	Semantic PromptPair `yaml:"semantic"`
}

// Prompts is the top-level prompt configuration loaded from YAML.
type Prompts struct {
	Search SearchPrompts `yaml:"search"`
}

// DefaultSemanticSearchPrompt is used when the prompt file does not define
// search.semantic.
var DefaultSemanticSearchPrompt = PromptPair{
	System: `You are an expert cooking assistant. Your task is to find recipes that match the user's description.

Rules:
1. Respond ONLY with a JSON array of recipes, or a JSON object with a "recipes" array. No other text.
2. Every recipe must have exactly this structure:
   {
     "id": "string (UUID)",
     "title": "string (recipe name)",
     "description": "string (short description)",
     "ingredients": ["string"],
     "instructions": ["string"],
     "cookingTime": number (minutes),
     "difficulty": "Easy" | "Medium" | "Hard"
   }
3. Return between 3 and 5 relevant recipes.
4. Recipes must be realistic and feasible, with reasonable cooking times.
5. Difficulty must match the recipe.`,
	User: `Find recipes that match: {{.Query}}. Respond ONLY with the JSON array of recipes, without any additional text.`,
}

// LoadPrompts reads and parses a YAML prompt configuration file. A missing
// file yields the built-in defaults.
func LoadPrompts(path string) (*Prompts, error) {
	var prompts Prompts

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &prompts); err != nil {
			return nil, fmt.Errorf("failed to parse prompts YAML: %w", err)
		}
	}

	prompts.applyDefaults()
	return &prompts, nil
}

func (p *Prompts) applyDefaults() {
	if strings.TrimSpace(p.Search.Semantic.System) == "" {
		p.Search.Semantic.System = DefaultSemanticSearchPrompt.System
	}
	if strings.TrimSpace(p.Search.Semantic.User) == "" {
		p.Search.Semantic.User = DefaultSemanticSearchPrompt.User
	}
}

// RenderPrompt executes Go template interpolation on a prompt string.
// The data map provides values for template placeholders like {{.Query}}.
func RenderPrompt(tmpl string, data map[string]interface{}) (string, error) {
	t, err := template.New("prompt").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse prompt template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt template: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}
