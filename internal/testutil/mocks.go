package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/windoze95/recipefinder-api/internal/ai"
	"github.com/windoze95/recipefinder-api/internal/models"
	"github.com/windoze95/recipefinder-api/internal/repository"
)

// --- MockCompletionProvider ---

// MockCompletionProvider is a mock implementation of ai.CompletionProvider.
type MockCompletionProvider struct {
	ProviderName string
	CompleteFunc func(ctx context.Context, req ai.CompletionRequest) (string, error)

	mu    sync.Mutex
	Calls []ai.CompletionRequest
}

func (m *MockCompletionProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

func (m *MockCompletionProvider) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return "", fmt.Errorf("Complete not configured")
}

// --- MockSemanticAdapter ---

// MockSemanticAdapter is a mock implementation of service.SemanticAdapter.
type MockSemanticAdapter struct {
	SearchFunc func(ctx context.Context, query string) (string, error)

	mu    sync.Mutex
	Calls int
}

func (m *MockSemanticAdapter) Search(ctx context.Context, query string) (string, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return "", fmt.Errorf("Search not configured")
}

// --- MockSemanticCache ---

// MockSemanticCache is an in-memory cache.SemanticCache keyed by the raw
// query.
type MockSemanticCache struct {
	mu      sync.Mutex
	Entries map[string][]models.Recipe
	GetErr  error
	SetErr  error
}

// NewMockSemanticCache creates an empty MockSemanticCache.
func NewMockSemanticCache() *MockSemanticCache {
	return &MockSemanticCache{Entries: make(map[string][]models.Recipe)}
}

func (m *MockSemanticCache) Get(ctx context.Context, query string) ([]models.Recipe, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	recipes, ok := m.Entries[query]
	return recipes, ok, nil
}

func (m *MockSemanticCache) Set(ctx context.Context, query string, recipes []models.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Entries[query] = recipes
	return nil
}

// --- MockImageStore ---

// MockImageStore records uploads and deletions in memory.
type MockImageStore struct {
	mu        sync.Mutex
	Uploaded  map[string][]byte
	Deleted   []string
	UploadErr error
	DeleteErr error
}

// NewMockImageStore creates an empty MockImageStore.
func NewMockImageStore() *MockImageStore {
	return &MockImageStore{Uploaded: make(map[string][]byte)}
}

func (m *MockImageStore) UploadImage(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	m.Uploaded[key] = data
	return "https://images.example.com/" + key, nil
}

func (m *MockImageStore) DeleteImage(ctx context.Context, imageURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, imageURL)
	return m.DeleteErr
}

// --- MockRecipeRepo ---

// MockRecipeRepo is an in-memory implementation of repository.RecipeRepo.
type MockRecipeRepo struct {
	mu      sync.Mutex
	Recipes map[string]*models.Recipe

	// Favorites, when set, has its rows removed on DeleteRecipe.
	Favorites *MockFavoriteRepo

	FindErr   error
	CreateErr error
}

// NewMockRecipeRepo creates an empty MockRecipeRepo.
func NewMockRecipeRepo() *MockRecipeRepo {
	return &MockRecipeRepo{Recipes: make(map[string]*models.Recipe)}
}

func (m *MockRecipeRepo) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if err := recipe.Validate(); err != nil {
		return err
	}
	if _, exists := m.Recipes[recipe.ID]; exists {
		return fmt.Errorf("recipe %s: %w", recipe.ID, repository.ErrConflict)
	}
	now := time.Now()
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = now
	}
	recipe.UpdatedAt = now
	stored := *recipe
	m.Recipes[recipe.ID] = &stored
	return nil
}

func (m *MockRecipeRepo) GetRecipeByID(ctx context.Context, recipeID string) (*models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.Recipes[recipeID]
	if !ok {
		return nil, repository.NewNotFoundError("Recipe not found")
	}
	out := *r
	return &out, nil
}

func (m *MockRecipeRepo) FindRecipes(ctx context.Context, filter repository.RecipeFilter) ([]models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	recipes := []models.Recipe{}
	for _, r := range m.Recipes {
		if filter.Matches(r) {
			recipes = append(recipes, *r)
		}
	}
	sortRecipes(recipes)
	return recipes, nil
}

func (m *MockRecipeRepo) GetUserRecipes(ctx context.Context, userID string) ([]models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recipes := []models.Recipe{}
	for _, r := range m.Recipes {
		if r.CreatedBy == userID {
			recipes = append(recipes, *r)
		}
	}
	sortRecipes(recipes)
	return recipes, nil
}

func (m *MockRecipeRepo) UpdateRecipe(ctx context.Context, recipe *models.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Recipes[recipe.ID]
	if !ok {
		return repository.NewNotFoundError("Recipe not found")
	}
	if err := recipe.Validate(); err != nil {
		return err
	}
	updated := *recipe
	updated.CreatedBy = existing.CreatedBy
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	m.Recipes[recipe.ID] = &updated
	return nil
}

func (m *MockRecipeRepo) DeleteRecipe(ctx context.Context, recipeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Recipes[recipeID]; !ok {
		return repository.NewNotFoundError("Recipe not found")
	}
	delete(m.Recipes, recipeID)
	if m.Favorites != nil {
		m.Favorites.deleteByRecipe(recipeID)
	}
	return nil
}

// sortRecipes orders newest first, ties by ID.
func sortRecipes(recipes []models.Recipe) {
	sort.Slice(recipes, func(i, j int) bool {
		if !recipes[i].CreatedAt.Equal(recipes[j].CreatedAt) {
			return recipes[i].CreatedAt.After(recipes[j].CreatedAt)
		}
		return recipes[i].ID < recipes[j].ID
	})
}

// --- MockFavoriteRepo ---

// MockFavoriteRepo is an in-memory implementation of repository.FavoriteRepo.
// The (user, recipe) pair is unique, as in the real store.
type MockFavoriteRepo struct {
	mu        sync.Mutex
	Favorites map[string]*models.Favorite
	Recipes   *MockRecipeRepo
	NextID    uint
}

// NewMockFavoriteRepo creates a MockFavoriteRepo whose favorites reference
// recipes in recipes, and links the two so recipe deletion cascades.
func NewMockFavoriteRepo(recipes *MockRecipeRepo) *MockFavoriteRepo {
	m := &MockFavoriteRepo{
		Favorites: make(map[string]*models.Favorite),
		Recipes:   recipes,
		NextID:    1,
	}
	if recipes != nil {
		recipes.Favorites = m
	}
	return m
}

func favoriteKey(userID, recipeID string) string {
	return userID + "\x00" + recipeID
}

func (m *MockFavoriteRepo) CreateFavorite(ctx context.Context, favorite *models.Favorite) error {
	var recipe *models.Recipe
	if m.Recipes != nil {
		r, err := m.Recipes.GetRecipeByID(ctx, favorite.RecipeID)
		if err != nil {
			return err
		}
		recipe = r
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := favoriteKey(favorite.UserID, favorite.RecipeID)
	if _, exists := m.Favorites[key]; exists {
		return fmt.Errorf("favorite: %w", repository.ErrConflict)
	}
	favorite.ID = m.NextID
	m.NextID++
	favorite.CreatedAt = time.Now()
	favorite.Recipe = recipe
	stored := *favorite
	m.Favorites[key] = &stored
	return nil
}

func (m *MockFavoriteRepo) FindFavorite(ctx context.Context, userID, recipeID string) (*models.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.Favorites[favoriteKey(userID, recipeID)]
	if !ok {
		return nil, repository.NewNotFoundError("Favorite not found")
	}
	out := *f
	return &out, nil
}

func (m *MockFavoriteRepo) DeleteFavorite(ctx context.Context, userID, recipeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Favorites, favoriteKey(userID, recipeID))
	return nil
}

func (m *MockFavoriteRepo) GetUserFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	m.mu.Lock()
	var favorites []models.Favorite
	for _, f := range m.Favorites {
		if f.UserID == userID {
			favorites = append(favorites, *f)
		}
	}
	m.mu.Unlock()

	sort.Slice(favorites, func(i, j int) bool {
		return favorites[i].ID > favorites[j].ID
	})
	if m.Recipes != nil {
		for i := range favorites {
			if r, err := m.Recipes.GetRecipeByID(ctx, favorites[i].RecipeID); err == nil {
				favorites[i].Recipe = r
			}
		}
	}
	if favorites == nil {
		favorites = []models.Favorite{}
	}
	return favorites, nil
}

// Count returns the number of stored favorites for userID.
func (m *MockFavoriteRepo) Count(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key := range m.Favorites {
		if strings.HasPrefix(key, userID+"\x00") {
			n++
		}
	}
	return n
}

func (m *MockFavoriteRepo) deleteByRecipe(recipeID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, f := range m.Favorites {
		if f.RecipeID == recipeID {
			delete(m.Favorites, key)
		}
	}
}
