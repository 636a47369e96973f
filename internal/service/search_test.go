package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/windoze95/recipefinder-api/internal/ai"
	"github.com/windoze95/recipefinder-api/internal/models"
	"github.com/windoze95/recipefinder-api/internal/repository"
	"github.com/windoze95/recipefinder-api/internal/testutil"
)

func intPtr(v int) *int { return &v }

func seededRecipeRepo(recipes ...*models.Recipe) *testutil.MockRecipeRepo {
	repo := testutil.NewMockRecipeRepo()
	for _, r := range recipes {
		if err := repo.CreateRecipe(context.Background(), r); err != nil {
			panic(err)
		}
	}
	return repo
}

func recipeWith(id string, cookingTime int, difficulty models.Difficulty, createdAt time.Time, ingredients ...string) *models.Recipe {
	r := testutil.TestRecipe(id)
	r.CookingTime = cookingTime
	r.Difficulty = difficulty
	r.CreatedAt = createdAt
	r.Ingredients = ingredients
	r.DietaryRestrictions = models.DietaryRestrictions{}
	return r
}

func ids(recipes []models.Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.ID
	}
	return out
}

func TestSearch_FiltersScenario(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	repo := seededRecipeRepo(
		recipeWith("r15", 15, models.DifficultyEasy, base, "a"),
		recipeWith("r25", 25, models.DifficultyEasy, base.Add(time.Hour), "a"),
		recipeWith("r18", 18, models.DifficultyMedium, base.Add(2*time.Hour), "a"),
	)
	svc := NewSearchService(repo, &testutil.MockSemanticAdapter{}, nil)

	result := svc.Search(context.Background(), FilterSearch{Difficulty: "Easy", MaxCookingTime: intPtr(20)})

	if !result.Success {
		t.Fatalf("Success = false, error = %+v", result.Error)
	}
	if len(result.Data) != 1 || result.Data[0].ID != "r15" {
		t.Errorf("Data = %v, want [r15]", ids(result.Data))
	}
}

func TestSearch_FiltersNewestFirst(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	repo := seededRecipeRepo(
		recipeWith("old", 10, models.DifficultyEasy, base, "a"),
		recipeWith("new", 10, models.DifficultyEasy, base.Add(48*time.Hour), "a"),
		recipeWith("mid", 10, models.DifficultyEasy, base.Add(24*time.Hour), "a"),
	)
	svc := NewSearchService(repo, &testutil.MockSemanticAdapter{}, nil)

	result := svc.Search(context.Background(), FilterSearch{})

	got := ids(result.Data)
	want := []string{"new", "mid", "old"}
	if len(got) != len(want) {
		t.Fatalf("Data = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Data[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSearch_FiltersDifficultyIsNormalized(t *testing.T) {
	base := time.Now()
	repo := seededRecipeRepo(
		recipeWith("easy", 10, models.DifficultyEasy, base, "a"),
		recipeWith("hard", 10, models.DifficultyHard, base, "a"),
	)
	svc := NewSearchService(repo, &testutil.MockSemanticAdapter{}, nil)

	result := svc.Search(context.Background(), FilterSearch{Difficulty: "  FÁCIL "})

	if len(result.Data) != 1 || result.Data[0].Difficulty != models.DifficultyEasy {
		t.Errorf("Data = %v, want only the Easy recipe", ids(result.Data))
	}
}

func TestSearch_FiltersDietaryFlags(t *testing.T) {
	base := time.Now()
	veg := recipeWith("veg", 10, models.DifficultyEasy, base, "a")
	veg.DietaryRestrictions.Vegetarian = true
	meat := recipeWith("meat", 10, models.DifficultyEasy, base, "a")
	svc := NewSearchService(seededRecipeRepo(veg, meat), &testutil.MockSemanticAdapter{}, nil)

	result := svc.Search(context.Background(), FilterSearch{
		Dietary: &repository.DietaryFilter{Vegetarian: true, Vegan: false},
	})

	if len(result.Data) != 1 || result.Data[0].ID != "veg" {
		t.Errorf("Data = %v, want [veg]", ids(result.Data))
	}
}

func TestSearch_FiltersValidation(t *testing.T) {
	svc := NewSearchService(testutil.NewMockRecipeRepo(), &testutil.MockSemanticAdapter{}, nil)

	tests := []struct {
		name string
		req  FilterSearch
	}{
		{"negative cooking time", FilterSearch{MaxCookingTime: intPtr(-1)}},
		{"unknown difficulty", FilterSearch{Difficulty: "extreme"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.Search(context.Background(), tt.req)
			if result.Success {
				t.Fatal("Success = true, want false")
			}
			if result.Error == nil || result.Error.Code != CodeValidation {
				t.Errorf("Error = %+v, want code %s", result.Error, CodeValidation)
			}
			if result.Data == nil {
				t.Error("Data is nil, want empty slice")
			}
		})
	}
}

func TestSearch_IngredientsAnyMatch(t *testing.T) {
	base := time.Now()
	repo := seededRecipeRepo(
		recipeWith("eggs", 10, models.DifficultyEasy, base, "Huevos", "sal"),
		recipeWith("rice", 10, models.DifficultyEasy, base, "arroz"),
		recipeWith("none", 10, models.DifficultyEasy, base, "pan"),
	)
	svc := NewSearchService(repo, &testutil.MockSemanticAdapter{}, nil)

	req := IngredientsSearch{Ingredients: []string{"huevos", " ARROZ ", "huevos"}}
	result := svc.Search(context.Background(), req)

	if !result.Success {
		t.Fatalf("Success = false, error = %+v", result.Error)
	}
	if len(result.Data) != 2 {
		t.Fatalf("Data = %v, want eggs and rice", ids(result.Data))
	}
	for _, r := range result.Data {
		found := false
		for _, ing := range req.Ingredients {
			if r.Ingredients.Contains(ing) {
				found = true
			}
		}
		if !found {
			t.Errorf("recipe %s shares no ingredient with the request", r.ID)
		}
	}
}

func TestSearch_IngredientsRequired(t *testing.T) {
	svc := NewSearchService(testutil.NewMockRecipeRepo(), &testutil.MockSemanticAdapter{}, nil)

	result := svc.Search(context.Background(), IngredientsSearch{Ingredients: []string{" ", ""}})

	if result.Success || result.Error.Code != CodeValidation {
		t.Errorf("result = %+v, want validation failure", result)
	}
}

func TestSearch_NoMatchIsEmptySuccess(t *testing.T) {
	svc := NewSearchService(testutil.NewMockRecipeRepo(), &testutil.MockSemanticAdapter{}, nil)

	result := svc.Search(context.Background(), IngredientsSearch{Ingredients: []string{"trufa"}})

	if !result.Success {
		t.Fatalf("Success = false, error = %+v", result.Error)
	}
	if result.Data == nil || len(result.Data) != 0 {
		t.Errorf("Data = %v, want empty non-nil slice", result.Data)
	}
}

func TestSearch_StoreFailure(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	repo.FindErr = errors.New("connection refused")
	svc := NewSearchService(repo, &testutil.MockSemanticAdapter{}, nil)

	result := svc.Search(context.Background(), IngredientsSearch{Ingredients: []string{"a"}})

	if result.Success || result.Error.Code != CodeStore {
		t.Errorf("result = %+v, want store failure", result)
	}
	if result.Error.Detail != "" {
		t.Errorf("Detail = %q, store errors must not leak", result.Error.Detail)
	}
}

func TestSearch_UnsupportedRequest(t *testing.T) {
	svc := NewSearchService(testutil.NewMockRecipeRepo(), &testutil.MockSemanticAdapter{}, nil)

	result := svc.Search(context.Background(), nil)

	if result.Success || result.Error.Code != CodeValidation {
		t.Errorf("result = %+v, want validation failure", result)
	}
}

func TestSearch_Semantic(t *testing.T) {
	adapter := &testutil.MockSemanticAdapter{
		SearchFunc: func(ctx context.Context, query string) (string, error) {
			return testutil.SemanticResponse, nil
		},
	}
	repo := testutil.NewMockRecipeRepo()
	svc := NewSearchService(repo, adapter, nil)

	result := svc.Search(context.Background(), SemanticSearch{Query: "algo con tomate"})

	if !result.Success {
		t.Fatalf("Success = false, error = %+v", result.Error)
	}
	if len(result.Data) != 2 {
		t.Fatalf("len(Data) = %d, want 2", len(result.Data))
	}
	if result.Data[1].Difficulty != models.DifficultyEasy {
		t.Errorf("Difficulty = %q, want Easy", result.Data[1].Difficulty)
	}
	for _, r := range result.Data {
		if r.CreatedBy != "" {
			t.Errorf("recipe %s has owner %q, want none", r.ID, r.CreatedBy)
		}
	}
	if len(repo.Recipes) != 0 {
		t.Errorf("semantic search persisted %d recipes, want 0", len(repo.Recipes))
	}
}

func TestSearch_SemanticDropsInvalidElements(t *testing.T) {
	adapter := &testutil.MockSemanticAdapter{
		SearchFunc: func(ctx context.Context, query string) (string, error) {
			return `{"recipes": [
				{"id":"ok","title":"T","description":"D","ingredients":["a"],"instructions":["b"],"cookingTime":10,"difficulty":"medio"},
				{"id":"bad","description":"D","ingredients":["a"],"instructions":["b"],"cookingTime":10,"difficulty":"Easy"},
				{"id":"weird","title":"T","description":"D","ingredients":["a"],"instructions":["b"],"cookingTime":10,"difficulty":"legendary"}
			]}`, nil
		},
	}
	svc := NewSearchService(testutil.NewMockRecipeRepo(), adapter, nil)

	result := svc.Search(context.Background(), SemanticSearch{Query: "q"})

	if !result.Success {
		t.Fatalf("Success = false, error = %+v", result.Error)
	}
	if len(result.Data) != 1 || result.Data[0].ID != "ok" {
		t.Errorf("Data = %v, want [ok]", ids(result.Data))
	}
}

func TestSearch_SemanticFailures(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		err      error
		wantCode string
	}{
		{"upstream error", "", &ai.UpstreamError{Provider: "mock", Err: errors.New("timeout")}, CodeUpstream},
		{"malformed", "{not json", nil, CodeMalformedResponse},
		{"unexpected shape", `{"foo":[]}`, nil, CodeUnexpectedResponseShape},
		{"scalar", `42`, nil, CodeUnexpectedResponseShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := &testutil.MockSemanticAdapter{
				SearchFunc: func(ctx context.Context, query string) (string, error) {
					return tt.raw, tt.err
				},
			}
			svc := NewSearchService(testutil.NewMockRecipeRepo(), adapter, nil)

			result := svc.Search(context.Background(), SemanticSearch{Query: "q"})

			if result.Success {
				t.Fatal("Success = true, want false")
			}
			if result.Error == nil || result.Error.Code != tt.wantCode {
				t.Errorf("Error = %+v, want code %s", result.Error, tt.wantCode)
			}
			if result.Message == "" {
				t.Error("Message is empty")
			}
			if result.Data == nil {
				t.Error("Data is nil, want empty slice")
			}
		})
	}
}

func TestSearch_SemanticBlankQuery(t *testing.T) {
	adapter := &testutil.MockSemanticAdapter{}
	svc := NewSearchService(testutil.NewMockRecipeRepo(), adapter, nil)

	result := svc.Search(context.Background(), SemanticSearch{Query: "   "})

	if result.Success || result.Error.Code != CodeValidation {
		t.Errorf("result = %+v, want validation failure", result)
	}
	if adapter.Calls != 0 {
		t.Errorf("adapter called %d times, want 0", adapter.Calls)
	}
}

func TestSearch_SemanticCache(t *testing.T) {
	adapter := &testutil.MockSemanticAdapter{
		SearchFunc: func(ctx context.Context, query string) (string, error) {
			return testutil.SemanticResponse, nil
		},
	}
	semanticCache := testutil.NewMockSemanticCache()
	svc := NewSearchService(testutil.NewMockRecipeRepo(), adapter, semanticCache)

	first := svc.Search(context.Background(), SemanticSearch{Query: "tomate"})
	second := svc.Search(context.Background(), SemanticSearch{Query: "tomate"})

	if adapter.Calls != 1 {
		t.Errorf("adapter called %d times, want 1", adapter.Calls)
	}
	if len(first.Data) != len(second.Data) {
		t.Errorf("cached result has %d recipes, want %d", len(second.Data), len(first.Data))
	}
}

func TestSearch_SemanticCacheErrorsAreIgnored(t *testing.T) {
	adapter := &testutil.MockSemanticAdapter{
		SearchFunc: func(ctx context.Context, query string) (string, error) {
			return testutil.SemanticResponse, nil
		},
	}
	semanticCache := testutil.NewMockSemanticCache()
	semanticCache.GetErr = errors.New("redis down")
	semanticCache.SetErr = errors.New("redis down")
	svc := NewSearchService(testutil.NewMockRecipeRepo(), adapter, semanticCache)

	result := svc.Search(context.Background(), SemanticSearch{Query: "tomate"})

	if !result.Success || len(result.Data) != 2 {
		t.Errorf("result = %+v, want 2 recipes despite cache errors", result)
	}
}

func TestSearch_SemanticEmptyResultNotCached(t *testing.T) {
	adapter := &testutil.MockSemanticAdapter{
		SearchFunc: func(ctx context.Context, query string) (string, error) {
			return `[]`, nil
		},
	}
	semanticCache := testutil.NewMockSemanticCache()
	svc := NewSearchService(testutil.NewMockRecipeRepo(), adapter, semanticCache)

	result := svc.Search(context.Background(), SemanticSearch{Query: "nada"})

	if !result.Success || len(result.Data) != 0 {
		t.Errorf("result = %+v, want empty success", result)
	}
	if len(semanticCache.Entries) != 0 {
		t.Error("empty result was cached")
	}
}
