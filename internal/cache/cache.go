package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/windoze95/recipefinder-api/internal/logger"
	"github.com/windoze95/recipefinder-api/internal/models"
	"go.uber.org/zap"
)

const keyPrefix = "recipefinder:semantic:"

// SemanticCache stores validated semantic search results by query.
type SemanticCache interface {
	// Get returns the cached recipes for query. The bool is false on a miss.
	Get(ctx context.Context, query string) ([]models.Recipe, bool, error)
	Set(ctx context.Context, query string, recipes []models.Recipe) error
}

// NewRedisClient parses a redis:// URL and checks the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Get().Info("connected to redis", zap.String("addr", opts.Addr))
	return client, nil
}

// RedisCache is a SemanticCache backed by Redis string keys with a TTL.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCache creates a RedisCache.
func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get implements SemanticCache.
func (c *RedisCache) Get(ctx context.Context, query string) ([]models.Recipe, bool, error) {
	data, err := c.client.Get(ctx, Key(query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read semantic cache: %w", err)
	}

	var recipes []models.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, false, fmt.Errorf("failed to decode semantic cache entry: %w", err)
	}
	return recipes, true, nil
}

// Set implements SemanticCache.
func (c *RedisCache) Set(ctx context.Context, query string, recipes []models.Recipe) error {
	data, err := json.Marshal(recipes)
	if err != nil {
		return fmt.Errorf("failed to encode semantic cache entry: %w", err)
	}
	if err := c.client.Set(ctx, Key(query), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write semantic cache: %w", err)
	}
	return nil
}

// NopCache never hits. It is used when no Redis URL is configured.
type NopCache struct{}

// Get implements SemanticCache.
func (NopCache) Get(context.Context, string) ([]models.Recipe, bool, error) {
	return nil, false, nil
}

// Set implements SemanticCache.
func (NopCache) Set(context.Context, string, []models.Recipe) error {
	return nil
}

// Key returns the cache key for query. Queries that differ only in case or
// whitespace share a key.
func Key(query string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(query), " "))
	sum := sha256.Sum256([]byte(normalized))
	return keyPrefix + hex.EncodeToString(sum[:])
}
