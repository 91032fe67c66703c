package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vidyamithra/backend/internal/domain/learning"
	"github.com/vidyamithra/backend/internal/domain/roadmap"
)

type redisLearningCache struct {
	rdb *redis.Client
}

func NewRedisLearningCache(rdb *redis.Client) learning.Cache {
	return &redisLearningCache{rdb: rdb}
}

func learningKey(skillName string, level roadmap.LevelName) string {
	return fmt.Sprintf("learning:resources:%s:%s", skillName, level)
}

func (c *redisLearningCache) Get(ctx context.Context, skillName string, level roadmap.LevelName) ([]learning.Resource, bool, error) {
	raw, err := c.rdb.Get(ctx, learningKey(skillName, level)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read learning cache: %w", err)
	}

	var resources []learning.Resource
	if err := json.Unmarshal(raw, &resources); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal learning cache: %w", err)
	}
	return resources, true, nil
}

func (c *redisLearningCache) Set(ctx context.Context, skillName string, level roadmap.LevelName, resources []learning.Resource, ttl time.Duration) error {
	raw, err := json.Marshal(resources)
	if err != nil {
		return fmt.Errorf("failed to marshal resources: %w", err)
	}
	if err := c.rdb.Set(ctx, learningKey(skillName, level), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write learning cache: %w", err)
	}
	return nil
}

func (c *redisLearningCache) Invalidate(ctx context.Context, skillName string, level roadmap.LevelName) error {
	if err := c.rdb.Del(ctx, learningKey(skillName, level)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate learning cache: %w", err)
	}
	return nil
}
