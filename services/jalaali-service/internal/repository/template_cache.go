package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"metargb/jalaali/services/jalaali-service/internal/models"
)

// TemplateCache caches format templates by name
type TemplateCache interface {
	// Get returns the cached template, or nil on a miss
	Get(ctx context.Context, name string) (*models.FormatTemplate, error)
	Set(ctx context.Context, template *models.FormatTemplate, ttl time.Duration) error
	Invalidate(ctx context.Context, name string) error
}

// redisStore is the subset of the redis client used by the cache
type redisStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type templateCache struct {
	client redisStore
}

// NewTemplateCache creates a Redis backed template cache
func NewTemplateCache(client *redis.Client) TemplateCache {
	return &templateCache{client: client}
}

func templateKey(name string) string {
	return fmt.Sprintf("jalaali:template:%s", name)
}

func (c *templateCache) Get(ctx context.Context, name string) (*models.FormatTemplate, error) {
	val, err := c.client.Get(ctx, templateKey(name)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached template: %w", err)
	}

	var t models.FormatTemplate
	if err := json.Unmarshal(val, &t); err != nil {
		return nil, fmt.Errorf("failed to decode cached template: %w", err)
	}
	return &t, nil
}

func (c *templateCache) Set(ctx context.Context, template *models.FormatTemplate, ttl time.Duration) error {
	data, err := json.Marshal(template)
	if err != nil {
		return fmt.Errorf("failed to encode template: %w", err)
	}
	if err := c.client.Set(ctx, templateKey(template.Name), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache template: %w", err)
	}
	return nil
}

func (c *templateCache) Invalidate(ctx context.Context, name string) error {
	if err := c.client.Del(ctx, templateKey(name)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate template: %w", err)
	}
	return nil
}
