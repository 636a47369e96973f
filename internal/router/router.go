package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/windoze95/recipefinder-api/internal/cache"
	"github.com/windoze95/recipefinder-api/internal/config"
	"github.com/windoze95/recipefinder-api/internal/handlers"
	"github.com/windoze95/recipefinder-api/internal/logger"
	"github.com/windoze95/recipefinder-api/internal/middleware"
	"github.com/windoze95/recipefinder-api/internal/repository"
	"github.com/windoze95/recipefinder-api/internal/service"
	"gorm.io/gorm"
)

// Dependencies are the clients owned by the process entry point.
type Dependencies struct {
	DB            *gorm.DB
	Semantic      service.SemanticAdapter
	SemanticCache cache.SemanticCache
	Images        service.ImageStore
}

// SetupRouter sets up the Gin router.
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	// Create default Gin router
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", logger.RequestIDHeader)
	if len(cfg.EnvVars.CorsOrigins) > 0 {
		corsConfig.AllowCredentials = true
		corsConfig.AllowOrigins = cfg.EnvVars.CorsOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	r.Use(cors.New(corsConfig))

	// Add request ID middleware for request correlation
	r.Use(logger.RequestIDMiddleware())
	r.Use(middleware.RateLimitByIP(20, time.Minute, 3*time.Minute))

	// Ping route for testing
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Repositories
	recipeRepo := repository.NewRecipeRepository(deps.DB)
	favoriteRepo := repository.NewFavoriteRepository(deps.DB)

	// Search-related routes setup
	searchService := service.NewSearchService(recipeRepo, deps.Semantic, deps.SemanticCache)
	searchHandler := handlers.NewSearchHandler(searchService)

	// Favorite-related routes setup
	favoriteService := service.NewFavoriteService(recipeRepo, favoriteRepo)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)

	// Recipe-related routes setup
	recipeService := service.NewRecipeService(recipeRepo, deps.Images)
	recipeHandler := handlers.NewRecipeHandler(recipeService)
	imageHandler := handlers.NewImageHandler(deps.Images)

	// Group for API routes that require token verification
	apiProtected := r.Group("/v1")
	apiProtected.Use(middleware.VerifyTokenMiddleware(cfg), middleware.AttachPrincipalToContext())
	{
		// Search routes
		apiProtected.POST("/search/ingredients", searchHandler.SearchByIngredients)
		apiProtected.POST("/search/filters", searchHandler.SearchByFilters)
		// Semantic search calls the LLM, so it gets a tighter per-user budget
		apiProtected.POST("/search/semantic", middleware.RateLimitByUser(10, 3, time.Minute, 10*time.Minute), searchHandler.SearchSemantic)

		// Favorite routes
		apiProtected.GET("/favorites", favoriteHandler.ListFavorites)
		apiProtected.POST("/favorites/:recipe_id", favoriteHandler.AddFavorite)
		apiProtected.DELETE("/favorites/:recipe_id", favoriteHandler.RemoveFavorite)
		apiProtected.GET("/favorites/:recipe_id/check", favoriteHandler.CheckFavorite)

		// Recipe routes
		apiProtected.POST("/recipes", recipeHandler.CreateRecipe)
		apiProtected.GET("/recipes", recipeHandler.ListRecipes)
		apiProtected.GET("/recipes/:recipe_id", recipeHandler.GetRecipe)
		apiProtected.PUT("/recipes/:recipe_id", recipeHandler.UpdateRecipe)
		apiProtected.DELETE("/recipes/:recipe_id", recipeHandler.DeleteRecipe)

		// Image upload
		apiProtected.POST("/images/upload", imageHandler.UploadImage)
	}

	return r
}
