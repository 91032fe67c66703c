package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidyamithra/backend/internal/domain/learning"
	"github.com/vidyamithra/backend/internal/domain/roadmap"
)

type postgresLearningRepo struct {
	db *pgxpool.Pool
}

func NewPostgresLearningRepo(db *pgxpool.Pool) learning.Repository {
	return &postgresLearningRepo{db: db}
}

func (r *postgresLearningRepo) Find(ctx context.Context, skillName string, level roadmap.LevelName) ([]learning.Resource, error) {
	query := `SELECT resources FROM learning_cache WHERE skill_name = $1 AND level = $2`
	var raw []byte
	err := r.db.QueryRow(ctx, query, skillName, level).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query learning cache: %w", err)
	}

	var resources []learning.Resource
	if err := json.Unmarshal(raw, &resources); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached resources: %w", err)
	}
	return resources, nil
}

func (r *postgresLearningRepo) Upsert(ctx context.Context, skillName string, level roadmap.LevelName, resources []learning.Resource) error {
	raw, err := json.Marshal(resources)
	if err != nil {
		return fmt.Errorf("failed to marshal resources: %w", err)
	}

	query := `
		INSERT INTO learning_cache (id, skill_name, level, resources, created_at)
		VALUES (gen_random_uuid(), $1, $2, $3, NOW())
		ON CONFLICT (skill_name, level) DO UPDATE SET resources = $3
	`
	if _, err := r.db.Exec(ctx, query, skillName, level, raw); err != nil {
		return fmt.Errorf("failed to upsert learning cache: %w", err)
	}
	return nil
}
