package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/windoze95/recipefinder-api/internal/ai"
	"github.com/windoze95/recipefinder-api/internal/models"
	"github.com/windoze95/recipefinder-api/internal/service"
	"github.com/windoze95/recipefinder-api/internal/testutil"
)

func newSearchRouter(repo *testutil.MockRecipeRepo, adapter *testutil.MockSemanticAdapter) *gin.Engine {
	handler := NewSearchHandler(service.NewSearchService(repo, adapter, nil))
	r := gin.New()
	r.POST("/search/ingredients", handler.SearchByIngredients)
	r.POST("/search/filters", handler.SearchByFilters)
	r.POST("/search/semantic", handler.SearchSemantic)
	return r
}

func seededRepo(t *testing.T) *testutil.MockRecipeRepo {
	t.Helper()
	repo := testutil.NewMockRecipeRepo()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, seed := range []struct {
		id         string
		time       int
		difficulty models.Difficulty
	}{
		{"r15", 15, models.DifficultyEasy},
		{"r25", 25, models.DifficultyEasy},
		{"r18", 18, models.DifficultyMedium},
	} {
		r := testutil.TestRecipe(seed.id)
		r.CookingTime = seed.time
		r.Difficulty = seed.difficulty
		r.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := repo.CreateRecipe(context.Background(), r); err != nil {
			t.Fatal(err)
		}
	}
	return repo
}

func TestSearchByFilters(t *testing.T) {
	r := newSearchRouter(seededRepo(t), &testutil.MockSemanticAdapter{})

	w := doJSON(r, "POST", "/search/filters", `{"difficulty":"Easy","maxCookingTime":20}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. body: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	data, _ := body["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("len(data) = %d, want 1", len(data))
	}
	if id := data[0].(map[string]interface{})["id"]; id != "r15" {
		t.Errorf("data[0].id = %v, want r15", id)
	}
}

func TestSearchByIngredients(t *testing.T) {
	r := newSearchRouter(seededRepo(t), &testutil.MockSemanticAdapter{})

	w := doJSON(r, "POST", "/search/ingredients", `{"ingredients":["Huevos","caviar"]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. body: %s", w.Code, w.Body.String())
	}
	data, _ := decodeBody(t, w)["data"].([]interface{})
	if len(data) != 3 {
		t.Errorf("len(data) = %d, want 3", len(data))
	}
}

func TestSearch_StatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		adapter  func(ctx context.Context, query string) (string, error)
		want     int
		wantCode string
	}{
		{"empty ingredients", "/search/ingredients", `{"ingredients":[]}`, nil, http.StatusBadRequest, service.CodeValidation},
		{"bad json", "/search/filters", `{"difficulty":`, nil, http.StatusBadRequest, service.CodeValidation},
		{"empty body", "/search/semantic", ``, nil, http.StatusBadRequest, service.CodeValidation},
		{"negative time", "/search/filters", `{"maxCookingTime":-5}`, nil, http.StatusBadRequest, service.CodeValidation},
		{
			"upstream", "/search/semantic", `{"query":"pasta"}`,
			func(ctx context.Context, query string) (string, error) {
				return "", &ai.UpstreamError{Provider: "mock", Err: errors.New("boom")}
			},
			http.StatusBadGateway, service.CodeUpstream,
		},
		{
			"malformed", "/search/semantic", `{"query":"pasta"}`,
			func(ctx context.Context, query string) (string, error) { return "{not json", nil },
			http.StatusBadGateway, service.CodeMalformedResponse,
		},
		{
			"shape", "/search/semantic", `{"query":"pasta"}`,
			func(ctx context.Context, query string) (string, error) { return `{"foo":[]}`, nil },
			http.StatusBadGateway, service.CodeUnexpectedResponseShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newSearchRouter(testutil.NewMockRecipeRepo(), &testutil.MockSemanticAdapter{SearchFunc: tt.adapter})

			w := doJSON(r, "POST", tt.path, tt.body)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d. body: %s", w.Code, tt.want, w.Body.String())
			}
			body := decodeBody(t, w)
			if body["success"] != false {
				t.Errorf("success = %v, want false", body["success"])
			}
			errBody, _ := body["error"].(map[string]interface{})
			if errBody["code"] != tt.wantCode {
				t.Errorf("error.code = %v, want %s", errBody["code"], tt.wantCode)
			}
			if data, ok := body["data"].([]interface{}); !ok || len(data) != 0 {
				t.Errorf("data = %v, want []", body["data"])
			}
		})
	}
}

func TestSearch_StoreError(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	repo.FindErr = errors.New("db down")
	r := newSearchRouter(repo, &testutil.MockSemanticAdapter{})

	w := doJSON(r, "POST", "/search/ingredients", `{"ingredients":["a"]}`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestSearchSemantic(t *testing.T) {
	adapter := &testutil.MockSemanticAdapter{
		SearchFunc: func(ctx context.Context, query string) (string, error) {
			return testutil.SemanticResponse, nil
		},
	}
	r := newSearchRouter(testutil.NewMockRecipeRepo(), adapter)

	w := doJSON(r, "POST", "/search/semantic", `{"query":"algo con tomate"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. body: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	data, _ := body["data"].([]interface{})
	if len(data) != 2 {
		t.Errorf("len(data) = %d, want 2", len(data))
	}
	if body["message"] == "" {
		t.Error("message is empty")
	}
}
