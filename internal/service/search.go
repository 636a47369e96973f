package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/windoze95/recipefinder-api/internal/ai"
	"github.com/windoze95/recipefinder-api/internal/cache"
	"github.com/windoze95/recipefinder-api/internal/logger"
	"github.com/windoze95/recipefinder-api/internal/metrics"
	"github.com/windoze95/recipefinder-api/internal/models"
	"github.com/windoze95/recipefinder-api/internal/repository"
	"github.com/windoze95/recipefinder-api/internal/validation"
	"go.uber.org/zap"
)

// Search error codes carried in SearchError.Code.
const (
	CodeValidation              = "VALIDATION_ERROR"
	CodeUpstream                = "UPSTREAM_ERROR"
	CodeMalformedResponse       = "MALFORMED_RESPONSE"
	CodeUnexpectedResponseShape = "UNEXPECTED_RESPONSE_SHAPE"
	CodeStore                   = "STORE_ERROR"
)

// Search strategies, used as metric labels.
const (
	StrategyIngredients = "ingredients"
	StrategyFilters     = "filters"
	StrategySemantic    = "semantic"
)

// SearchRequest is one of IngredientsSearch, FilterSearch or SemanticSearch.
type SearchRequest interface {
	strategy() string
}

// IngredientsSearch finds stored recipes containing any of the ingredients.
type IngredientsSearch struct {
	Ingredients []string `json:"ingredients"`
}

// FilterSearch finds stored recipes matching every supplied criterion.
type FilterSearch struct {
	Ingredients    []string                  `json:"ingredients,omitempty"`
	Dietary        *repository.DietaryFilter `json:"dietaryRestrictions,omitempty"`
	MaxCookingTime *int                      `json:"maxCookingTime,omitempty"`
	Difficulty     string                    `json:"difficulty,omitempty"`
}

// SemanticSearch asks the LLM for recipes matching a free-text query.
type SemanticSearch struct {
	Query string `json:"query"`
}

func (IngredientsSearch) strategy() string { return StrategyIngredients }
func (FilterSearch) strategy() string      { return StrategyFilters }
func (SemanticSearch) strategy() string    { return StrategySemantic }

// SearchResult is the envelope every search returns. Data is never nil.
type SearchResult struct {
	Success bool            `json:"success"`
	Data    []models.Recipe `json:"data"`
	Message string          `json:"message"`
	Error   *SearchError    `json:"error,omitempty"`
}

// SearchError is the diagnostic attached to a failed search.
type SearchError struct {
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// SemanticAdapter returns raw LLM text for a query.
type SemanticAdapter interface {
	Search(ctx context.Context, query string) (string, error)
}

// SearchService dispatches search requests to the store or the LLM.
type SearchService struct {
	Repo     repository.RecipeRepo
	Semantic SemanticAdapter
	Cache    cache.SemanticCache
}

// NewSearchService creates a SearchService. A nil cache disables caching.
func NewSearchService(repo repository.RecipeRepo, semantic SemanticAdapter, semanticCache cache.SemanticCache) *SearchService {
	if semanticCache == nil {
		semanticCache = cache.NopCache{}
	}
	return &SearchService{
		Repo:     repo,
		Semantic: semantic,
		Cache:    semanticCache,
	}
}

// Search runs req and always returns an envelope; failures are reported in
// it, never returned.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) SearchResult {
	start := time.Now()

	var result SearchResult
	switch r := req.(type) {
	case IngredientsSearch:
		result = s.searchByIngredients(ctx, r)
	case FilterSearch:
		result = s.searchByFilters(ctx, r)
	case SemanticSearch:
		result = s.searchSemantic(ctx, r)
	default:
		result = failure(CodeValidation, "Unsupported search request", fmt.Sprintf("%T", req))
	}

	strategy := "unknown"
	if req != nil {
		strategy = req.strategy()
	}
	outcome := "success"
	if result.Error != nil {
		outcome = result.Error.Code
	}
	metrics.RecordSearch(strategy, outcome, time.Since(start))
	return result
}

func (s *SearchService) searchByIngredients(ctx context.Context, req IngredientsSearch) SearchResult {
	ingredients := normalizeIngredients(req.Ingredients)
	if len(ingredients) == 0 {
		return failure(CodeValidation, "At least one ingredient is required", "")
	}

	recipes, err := s.Repo.FindRecipes(ctx, repository.RecipeFilter{Ingredients: ingredients})
	if err != nil {
		return storeFailure(ctx, StrategyIngredients, err)
	}
	return success(recipes, fmt.Sprintf("Found %d recipe(s) with the given ingredients", len(recipes)))
}

func (s *SearchService) searchByFilters(ctx context.Context, req FilterSearch) SearchResult {
	filter, err := buildRecipeFilter(req)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return failure(CodeValidation, "Invalid search filters", vErr.Error())
		}
		return failure(CodeValidation, "Invalid search filters", err.Error())
	}

	recipes, err := s.Repo.FindRecipes(ctx, filter)
	if err != nil {
		return storeFailure(ctx, StrategyFilters, err)
	}
	return success(recipes, fmt.Sprintf("Found %d recipe(s) matching the filters", len(recipes)))
}

func (s *SearchService) searchSemantic(ctx context.Context, req SemanticSearch) SearchResult {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return failure(CodeValidation, "A search query is required", "")
	}
	log := logger.With(zap.String("strategy", StrategySemantic))

	cached, hit, err := s.Cache.Get(ctx, query)
	switch {
	case err != nil:
		metrics.SemanticCacheLookups.WithLabelValues("error").Inc()
		log.Warn("semantic cache read failed", zap.Error(err))
	case hit:
		metrics.SemanticCacheLookups.WithLabelValues("hit").Inc()
		return success(cached, "Semantic search completed successfully")
	default:
		metrics.SemanticCacheLookups.WithLabelValues("miss").Inc()
	}

	raw, err := s.Semantic.Search(ctx, query)
	if err != nil {
		log.Warn("semantic search failed", zap.Error(err))
		return failure(CodeUpstream, "The recipe assistant is unavailable, please try again later", err.Error())
	}

	batch, err := validation.ParseRecipeCandidates(raw)
	switch {
	case errors.Is(err, validation.ErrMalformedResponse):
		log.Warn("semantic search returned malformed JSON", zap.Error(err))
		return failure(CodeMalformedResponse, "The recipe assistant returned an unreadable response", err.Error())
	case errors.Is(err, validation.ErrUnexpectedResponseShape):
		log.Warn("semantic search returned unexpected shape", zap.Error(err))
		return failure(CodeUnexpectedResponseShape, "The recipe assistant returned an unexpected response", err.Error())
	case err != nil:
		return failure(CodeMalformedResponse, "The recipe assistant returned an unreadable response", err.Error())
	}

	for _, rejected := range batch.Rejected {
		metrics.SemanticRejectedCandidates.Inc()
		log.Info("dropped invalid recipe candidate",
			zap.Int("index", rejected.Index),
			zap.String("field", rejected.Field),
			zap.Error(rejected.Err),
		)
	}

	if len(batch.Recipes) > 0 {
		if err := s.Cache.Set(ctx, query, batch.Recipes); err != nil {
			log.Warn("semantic cache write failed", zap.Error(err))
		}
	}
	return success(batch.Recipes, "Semantic search completed successfully")
}

// buildRecipeFilter validates and normalizes a filter request into a store
// predicate. Results are ordered newest first.
func buildRecipeFilter(req FilterSearch) (repository.RecipeFilter, error) {
	filter := repository.RecipeFilter{
		Ingredients: normalizeIngredients(req.Ingredients),
		NewestFirst: true,
	}

	if req.MaxCookingTime != nil {
		if *req.MaxCookingTime < 0 {
			return filter, newValidationError("maxCookingTime", "must not be negative")
		}
		maxCookingTime := *req.MaxCookingTime
		filter.MaxCookingTime = &maxCookingTime
	}

	if strings.TrimSpace(req.Difficulty) != "" {
		difficulty, ok := validation.NormalizeDifficulty(req.Difficulty)
		if !ok {
			return filter, newValidationError("difficulty", fmt.Sprintf("unrecognized value %q", req.Difficulty))
		}
		filter.Difficulty = difficulty
	}

	if req.Dietary != nil {
		filter.Dietary = *req.Dietary
	}
	return filter, nil
}

// normalizeIngredients trims, drops blanks and removes case-insensitive
// duplicates, keeping first-seen order.
func normalizeIngredients(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, ing := range in {
		ing = strings.TrimSpace(ing)
		key := strings.ToLower(ing)
		if ing == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ing)
	}
	return out
}

func success(recipes []models.Recipe, message string) SearchResult {
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	return SearchResult{Success: true, Data: recipes, Message: message}
}

func failure(code, message, detail string) SearchResult {
	return SearchResult{
		Success: false,
		Data:    []models.Recipe{},
		Message: message,
		Error:   &SearchError{Code: code, Detail: detail},
	}
}

func storeFailure(ctx context.Context, strategy string, err error) SearchResult {
	logger.Get().Error("search store query failed",
		zap.String("strategy", strategy),
		zap.Error(err),
	)
	if ctx.Err() != nil {
		return failure(CodeStore, "The search was cancelled", ctx.Err().Error())
	}
	return failure(CodeStore, "Failed to search recipes", "")
}

var _ SemanticAdapter = (*ai.SemanticSearcher)(nil)
