package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidyamithra/backend/internal/domain/progress"
)

type postgresProgressRepo struct {
	db *pgxpool.Pool
}

func NewPostgresProgressRepo(db *pgxpool.Pool) progress.Repository {
	return &postgresProgressRepo{db: db}
}

func (r *postgresProgressRepo) Save(ctx context.Context, s *progress.Snapshot) error {
	breakdown, err := json.Marshal(s.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot breakdown: %w", err)
	}

	query := `
		INSERT INTO progress_snapshots (id, user_id, career_readiness_score, resume_ats_score, skill_completion_pct, quiz_avg_score, interview_avg_score, total_skills_completed, total_quizzes_passed, total_interviews_done, breakdown, snapshot_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.db.Exec(ctx, query,
		s.ID, s.UserID, s.CareerReadiness, s.ResumeATSScore, s.SkillCompletionPct,
		s.QuizAvgScore, s.InterviewAvgScore, s.TotalSkillsComplete, s.TotalQuizzesPassed,
		s.TotalInterviews, breakdown, s.SnapshotDate,
	)
	if err != nil {
		return fmt.Errorf("failed to save progress snapshot: %w", err)
	}
	return nil
}

func (r *postgresProgressRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*progress.Snapshot, error) {
	if limit <= 0 {
		limit = 30
	}

	query := `
		SELECT id, user_id, career_readiness_score, resume_ats_score, skill_completion_pct, quiz_avg_score, interview_avg_score, total_skills_completed, total_quizzes_passed, total_interviews_done, breakdown, snapshot_date
		FROM progress_snapshots
		WHERE user_id = $1
		ORDER BY snapshot_date DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*progress.Snapshot, 0)
	for rows.Next() {
		s := &progress.Snapshot{}
		var breakdown []byte

		err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.CareerReadiness,
			&s.ResumeATSScore,
			&s.SkillCompletionPct,
			&s.QuizAvgScore,
			&s.InterviewAvgScore,
			&s.TotalSkillsComplete,
			&s.TotalQuizzesPassed,
			&s.TotalInterviews,
			&breakdown,
			&s.SnapshotDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress snapshot row: %w", err)
		}
		if err := json.Unmarshal(breakdown, &s.Breakdown); err != nil {
			s.Breakdown = map[string]any{}
		}
		snapshots = append(snapshots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating progress snapshot rows: %w", err)
	}
	return snapshots, nil
}
