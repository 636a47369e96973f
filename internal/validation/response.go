package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/windoze95/recipefinder-api/internal/models"
)

var (
	// ErrMalformedResponse means the completion text is not JSON at all.
	ErrMalformedResponse = errors.New("malformed response: not valid JSON")

	// ErrUnexpectedResponseShape means the JSON is neither a list of recipes
	// nor an object with a "recipes" list.
	ErrUnexpectedResponseShape = errors.New("unexpected response shape: expected a recipe array or an object with a recipes array")

	// ErrElementValidationFailed marks a single rejected candidate.
	ErrElementValidationFailed = errors.New("recipe candidate failed validation")
)

// ResponseShape is the top-level form of a completion response.
type ResponseShape int

const (
	ShapeUnrecognized ResponseShape = iota
	ShapeArray
	ShapeObject
)

func (s ResponseShape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeObject:
		return "object"
	default:
		return "unrecognized"
	}
}

// ElementError reports why the candidate at Index was dropped.
type ElementError struct {
	Index int
	Field string
	Err   error
}

func (e ElementError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("candidate %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("candidate %d: field %s: %v", e.Index, e.Field, e.Err)
}

// Unwrap exposes both ErrElementValidationFailed and the underlying cause.
func (e ElementError) Unwrap() []error {
	return []error{ErrElementValidationFailed, e.Err}
}

// CandidateBatch is the outcome of parsing one completion response. Recipes
// keeps the source order of the accepted candidates.
type CandidateBatch struct {
	Shape    ResponseShape
	Recipes  []models.Recipe
	Rejected []ElementError
}

// ParseRecipeCandidates decodes raw completion text into validated recipes.
// Only a non-JSON payload or an unrecognized top-level shape fails the whole
// batch; a bad element is recorded in Rejected and skipped.
func ParseRecipeCandidates(raw string) (*CandidateBatch, error) {
	data := []byte(stripCodeFence(raw))

	var root interface{}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	elements, shape, err := candidateElements(data, root)
	if err != nil {
		return nil, err
	}

	batch := &CandidateBatch{
		Shape:   shape,
		Recipes: make([]models.Recipe, 0, len(elements)),
	}
	seen := make(map[string]bool, len(elements))
	for i, element := range elements {
		recipe, err := parseCandidate(element)
		if err != nil {
			batch.Rejected = append(batch.Rejected, newElementError(i, err))
			continue
		}
		if seen[recipe.ID] {
			batch.Rejected = append(batch.Rejected, ElementError{
				Index: i,
				Field: "id",
				Err:   fmt.Errorf("duplicate id %q", recipe.ID),
			})
			continue
		}
		seen[recipe.ID] = true
		batch.Recipes = append(batch.Recipes, *recipe)
	}
	return batch, nil
}

// candidateElements resolves the top-level shape before any field is read.
func candidateElements(data []byte, root interface{}) ([]json.RawMessage, ResponseShape, error) {
	switch v := root.(type) {
	case []interface{}:
		var elements []json.RawMessage
		if err := json.Unmarshal(data, &elements); err != nil {
			return nil, ShapeUnrecognized, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return elements, ShapeArray, nil
	case map[string]interface{}:
		if _, ok := v["recipes"].([]interface{}); !ok {
			return nil, ShapeUnrecognized, ErrUnexpectedResponseShape
		}
		var wrapper struct {
			Recipes []json.RawMessage `json:"recipes"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, ShapeUnrecognized, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return wrapper.Recipes, ShapeObject, nil
	default:
		return nil, ShapeUnrecognized, ErrUnexpectedResponseShape
	}
}

func parseCandidate(element json.RawMessage) (*models.Recipe, error) {
	trimmed := strings.TrimSpace(string(element))
	if !strings.HasPrefix(trimmed, "{") {
		return nil, errors.New("not a JSON object")
	}

	var candidate RecipeCandidate
	if err := json.Unmarshal(element, &candidate); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, &FieldError{Field: typeErr.Field, Message: "has the wrong type"}
		}
		return nil, err
	}
	return ValidateCandidate(candidate)
}

func newElementError(index int, err error) ElementError {
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		return ElementError{Index: index, Field: fieldErr.Field, Err: errors.New(fieldErr.Message)}
	}
	return ElementError{Index: index, Err: err}
}

// stripCodeFence removes a surrounding markdown code fence, which models
// sometimes add despite being told not to.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
