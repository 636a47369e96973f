package router

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/windoze95/recipefinder-api/internal/config"
	"github.com/windoze95/recipefinder-api/internal/db"
	"github.com/windoze95/recipefinder-api/internal/testutil"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSecret = "router-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	database, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(database))

	adapter := &testutil.MockSemanticAdapter{
		SearchFunc: func(ctx context.Context, query string) (string, error) {
			return testutil.SemanticResponse, nil
		},
	}
	cfg := &config.Config{EnvVars: config.EnvVars{JwtSecretKey: testSecret}}
	return SetupRouter(cfg, Dependencies{
		DB:            database,
		Semantic:      adapter,
		SemanticCache: testutil.NewMockSemanticCache(),
		Images:        testutil.NewMockImageStore(),
	})
}

func accessToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   userID + "@example.com",
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func do(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPublicRoutes(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, "GET", "/ping", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(r, "GET", "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, "GET", "/v1/favorites", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "POST", "/v1/search/semantic", "", `{"query":"pasta"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSemanticSearchThenFavorite(t *testing.T) {
	r := newTestRouter(t)
	token := accessToken(t, "user-1")

	w := do(r, "POST", "/v1/search/semantic", token, `{"query":"algo con tomate"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	candidate := `{"recipe":{"id":"sem-1","title":"Pasta al pomodoro","description":"Quick tomato pasta",
		"ingredients":["pasta","tomate","ajo"],"instructions":["Boil pasta","Make sauce"],
		"cookingTime":20,"difficulty":"Easy"}}`
	w = do(r, "POST", "/v1/favorites/sem-1", token, candidate)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, "POST", "/v1/favorites/sem-1", token, candidate)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, "GET", "/v1/favorites/sem-1/check", token, "")
	assert.JSONEq(t, `{"isFavorite":true}`, w.Body.String())

	w = do(r, "POST", "/v1/search/ingredients", token, `{"ingredients":["ajo"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"sem-1"`)

	w = do(r, "DELETE", "/v1/favorites/sem-1", token, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(r, "DELETE", "/v1/favorites/sem-1", token, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
