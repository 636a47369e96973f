package main

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/windoze95/recipefinder-api/internal/ai"
	"github.com/windoze95/recipefinder-api/internal/cache"
	"github.com/windoze95/recipefinder-api/internal/config"
	"github.com/windoze95/recipefinder-api/internal/db"
	"github.com/windoze95/recipefinder-api/internal/logger"
	"github.com/windoze95/recipefinder-api/internal/router"
	"github.com/windoze95/recipefinder-api/internal/s3"
	"go.uber.org/zap"
)

// init is called before the main function.
func init() {
	// Initialize structured logger (dev mode if GIN_MODE != release)
	isDev := os.Getenv("GIN_MODE") != "release"
	logger.Init(isDev)

	// Configure the runtime
	ConfigureRuntime()
}

// Entry point for the API.
func main() {
	defer logger.Sync()

	// Load the config
	var cfg *config.Config
	if c, err := config.LoadConfig(); err != nil {
		logger.Get().Fatal("failed to load config", zap.Error(err))
	} else {
		cfg = c
	}

	// Check that all ENV variables are set
	if err := cfg.CheckConfigEnvFields(); err != nil {
		logger.Get().Fatal("missing required config fields", zap.Error(err))
	}

	// Load prompts from YAML
	prompts, err := config.LoadPrompts(cfg.EnvVars.PromptsPath)
	if err != nil {
		logger.Get().Fatal("failed to load prompts", zap.Error(err))
	}
	cfg.Prompts = prompts

	// Connect to the database
	database, err := db.New(cfg)
	if err != nil {
		logger.Get().Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := database.DB()
	if err != nil {
		logger.Get().Fatal("failed to get underlying sql.DB", zap.Error(err))
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Semantic search cache; without Redis every query goes to the LLM
	var semanticCache cache.SemanticCache = cache.NopCache{}
	if cfg.EnvVars.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.EnvVars.RedisURL)
		if err != nil {
			logger.Get().Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		semanticCache = cache.NewRedisCache(redisClient, cfg.EnvVars.SemanticCacheTTL)
	} else {
		logger.Get().Info("REDIS_URL not set, semantic cache disabled")
	}

	// LLM provider behind a circuit breaker
	semantic, err := ai.NewSemanticSearcherFromConfig(cfg)
	if err != nil {
		logger.Get().Fatal("failed to set up semantic search", zap.Error(err))
	}

	images, err := s3.NewStore(ctx, cfg)
	if err != nil {
		logger.Get().Fatal("failed to set up image store", zap.Error(err))
	}

	// Create a new gin router
	gin.SetMode(gin.ReleaseMode)
	r := router.SetupRouter(cfg, router.Dependencies{
		DB:            database,
		Semantic:      semantic,
		SemanticCache: semanticCache,
		Images:        images,
	})

	// Run the server
	logger.Get().Info("starting server",
		zap.String("port", cfg.EnvVars.Port),
		zap.String("llm_provider", cfg.EnvVars.LLMProvider),
	)
	if err := r.Run(":" + cfg.EnvVars.Port); err != nil {
		logger.Get().Fatal("server stopped", zap.Error(err))
	}
}

// ConfigureRuntime sets the number of operating system threads.
func ConfigureRuntime() {
	nuCPU := runtime.NumCPU()
	runtime.GOMAXPROCS(nuCPU)
	logger.Get().Info("runtime configured", zap.Int("cpus", nuCPU))
}
