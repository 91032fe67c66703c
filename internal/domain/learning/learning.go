package learning

import (
	"context"
	"time"

	"github.com/vidyamithra/backend/internal/domain/roadmap"
)

// Resource is one curated study recommendation for a skill at a level.
type Resource struct {
	Title    string `json:"title"`
	Channel  string `json:"channel"`
	URL      string `json:"url"`
	Type     string `json:"type"`
	Duration string `json:"duration"`
	Order    int    `json:"order"`
	Why      string `json:"why"`
}

// Repository memoizes generated resources keyed by (skill, level). Entries
// live until explicitly refreshed.
type Repository interface {
	Find(ctx context.Context, skillName string, level roadmap.LevelName) ([]Resource, error)
	Upsert(ctx context.Context, skillName string, level roadmap.LevelName, resources []Resource) error
}

// Cache is the short-lived tier in front of the repository, so hot skills
// never touch Postgres on the request path.
type Cache interface {
	Get(ctx context.Context, skillName string, level roadmap.LevelName) ([]Resource, bool, error)
	Set(ctx context.Context, skillName string, level roadmap.LevelName, resources []Resource, ttl time.Duration) error
	Invalidate(ctx context.Context, skillName string, level roadmap.LevelName) error
}
