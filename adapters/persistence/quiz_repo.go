package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidyamithra/backend/internal/domain/quiz"
)

type postgresQuizRepo struct {
	db *pgxpool.Pool
}

func NewPostgresQuizRepo(db *pgxpool.Pool) quiz.Repository {
	return &postgresQuizRepo{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *postgresQuizRepo) Save(ctx context.Context, a *quiz.Attempt) error {
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal attempt answers: %w", err)
	}

	query := `
		INSERT INTO quiz_attempts (id, user_id, roadmap_id, skill_id, skill_name, level, score, passed, total_questions, correct_answers, questions_data, attempted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.db.Exec(ctx, query,
		a.ID, a.UserID, a.RoadmapID, a.SkillID, a.SkillName, a.Level,
		a.Score, a.Passed, a.TotalQuestions, a.CorrectAnswers, answers, a.AttemptedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz attempt: %w", err)
	}
	return nil
}

func scanAttempts(rows pgx.Rows) ([]*quiz.Attempt, error) {
	attempts := make([]*quiz.Attempt, 0)
	defer rows.Close()

	for rows.Next() {
		a := &quiz.Attempt{}
		var answers []byte

		err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.RoadmapID,
			&a.SkillID,
			&a.SkillName,
			&a.Level,
			&a.Score,
			&a.Passed,
			&a.TotalQuestions,
			&a.CorrectAnswers,
			&answers,
			&a.AttemptedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz attempt row: %w", err)
		}
		if err := json.Unmarshal(answers, &a.Answers); err != nil {
			a.Answers = []quiz.Answer{}
		}
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quiz attempt rows: %w", err)
	}
	return attempts, nil
}

func (r *postgresQuizRepo) ListByUser(ctx context.Context, userID uuid.UUID, skillID string) ([]*quiz.Attempt, error) {
	builder := psql.Select("id", "user_id", "roadmap_id", "skill_id", "skill_name", "level",
		"score", "passed", "total_questions", "correct_answers", "questions_data", "attempted_at").
		From("quiz_attempts").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("attempted_at DESC")

	if skillID != "" {
		builder = builder.Where(sq.Eq{"skill_id": skillID})
	}

	sql, args, _ := builder.ToSql()
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz attempts: %w", err)
	}
	return scanAttempts(rows)
}

func (r *postgresQuizRepo) HasPassed(ctx context.Context, userID uuid.UUID, skillID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM quiz_attempts WHERE user_id = $1 AND skill_id = $2 AND passed = TRUE)`
	var passed bool
	if err := r.db.QueryRow(ctx, query, userID, skillID).Scan(&passed); err != nil {
		return false, fmt.Errorf("failed to check passed attempts: %w", err)
	}
	return passed, nil
}

func (r *postgresQuizRepo) AverageScore(ctx context.Context, userID uuid.UUID) (float64, int, int, error) {
	query := `
		SELECT COALESCE(AVG(score), 0), COUNT(*), COUNT(*) FILTER (WHERE passed)
		FROM quiz_attempts
		WHERE user_id = $1
	`
	var avg float64
	var total, passed int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&avg, &total, &passed); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to aggregate quiz attempts: %w", err)
	}
	return avg, total, passed, nil
}
