package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidyamithra/backend/internal/domain/roadmap"
)

type postgresRoadmapRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRoadmapRepo(db *pgxpool.Pool) roadmap.Repository {
	return &postgresRoadmapRepo{db: db}
}

func scanRoadmap(row pgx.Row) (*roadmap.Roadmap, error) {
	r := &roadmap.Roadmap{}
	var currentSkills, skillGaps, data []byte

	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.TargetRole,
		&currentSkills,
		&skillGaps,
		&data,
		&r.IsActive,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, roadmap.ErrRoadmapNotFound
		}
		return nil, fmt.Errorf("failed to scan roadmap row: %w", err)
	}

	if err := json.Unmarshal(currentSkills, &r.CurrentSkills); err != nil {
		r.CurrentSkills = []string{}
	}
	if err := json.Unmarshal(skillGaps, &r.SkillGaps); err != nil {
		r.SkillGaps = []string{}
	}
	if err := json.Unmarshal(data, &r.Data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roadmap_data: %w", err)
	}
	return r, nil
}

const roadmapColumns = `id, user_id, target_role, current_skills, skill_gaps, roadmap_data, is_active, created_at, updated_at`

func (r *postgresRoadmapRepo) Save(ctx context.Context, rm *roadmap.Roadmap) error {
	currentSkills, err := json.Marshal(rm.CurrentSkills)
	if err != nil {
		return fmt.Errorf("failed to marshal current_skills: %w", err)
	}
	skillGaps, err := json.Marshal(rm.SkillGaps)
	if err != nil {
		return fmt.Errorf("failed to marshal skill_gaps: %w", err)
	}
	data, err := json.Marshal(rm.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal roadmap_data: %w", err)
	}

	query := `
		INSERT INTO roadmaps (id, user_id, target_role, current_skills, skill_gaps, roadmap_data, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.db.Exec(ctx, query,
		rm.ID, rm.UserID, rm.TargetRole, currentSkills, skillGaps, data, rm.IsActive, rm.CreatedAt, rm.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save roadmap: %w", err)
	}
	return nil
}

// UpdateData writes the whole document back in one statement. Last writer
// wins at the row level; there is no optimistic concurrency token.
func (r *postgresRoadmapRepo) UpdateData(ctx context.Context, rm *roadmap.Roadmap) error {
	data, err := json.Marshal(rm.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal roadmap_data: %w", err)
	}

	query := `UPDATE roadmaps SET roadmap_data = $2, updated_at = NOW() WHERE id = $1 AND user_id = $3`
	cmdTag, err := r.db.Exec(ctx, query, rm.ID, data, rm.UserID)
	if err != nil {
		return fmt.Errorf("failed to update roadmap: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return roadmap.ErrRoadmapNotFound
	}
	return nil
}

func (r *postgresRoadmapRepo) FindByID(ctx context.Context, id, userID uuid.UUID) (*roadmap.Roadmap, error) {
	query := `SELECT ` + roadmapColumns + ` FROM roadmaps WHERE id = $1 AND user_id = $2`
	return scanRoadmap(r.db.QueryRow(ctx, query, id, userID))
}

func (r *postgresRoadmapRepo) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*roadmap.Roadmap, error) {
	query := `
		SELECT ` + roadmapColumns + `
		FROM roadmaps
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanRoadmap(r.db.QueryRow(ctx, query, userID))
}

func (r *postgresRoadmapRepo) DeactivateByUser(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE roadmaps SET is_active = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_active = TRUE`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to deactivate roadmaps: %w", err)
	}
	return nil
}
