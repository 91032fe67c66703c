package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidyamithra/backend/internal/domain/interview"
)

type postgresInterviewRepo struct {
	db *pgxpool.Pool
}

func NewPostgresInterviewRepo(db *pgxpool.Pool) interview.Repository {
	return &postgresInterviewRepo{db: db}
}

func (r *postgresInterviewRepo) Save(ctx context.Context, s *interview.Session) error {
	responses, err := json.Marshal(s.Responses)
	if err != nil {
		return fmt.Errorf("failed to marshal interview responses: %w", err)
	}
	analysis, err := json.Marshal(s.Analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal interview analysis: %w", err)
	}

	query := `
		INSERT INTO interview_sessions (id, user_id, roadmap_id, level, position, round_type, responses, analysis, technical_score, communication_score, confidence_score, verdict, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = r.db.Exec(ctx, query,
		s.ID, s.UserID, s.RoadmapID, s.Level, s.Position, s.RoundType,
		responses, analysis, s.TechnicalScore, s.CommunicationScore, s.ConfidenceScore, s.Verdict, s.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save interview session: %w", err)
	}
	return nil
}

func (r *postgresInterviewRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*interview.Session, error) {
	query := `
		SELECT id, user_id, roadmap_id, level, position, round_type, responses, analysis, technical_score, communication_score, confidence_score, verdict, completed_at
		FROM interview_sessions
		WHERE user_id = $1
		ORDER BY completed_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query interview sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*interview.Session, 0)
	for rows.Next() {
		s := &interview.Session{}
		var responses, analysis []byte

		err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.RoadmapID,
			&s.Level,
			&s.Position,
			&s.RoundType,
			&responses,
			&analysis,
			&s.TechnicalScore,
			&s.CommunicationScore,
			&s.ConfidenceScore,
			&s.Verdict,
			&s.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview session row: %w", err)
		}
		if err := json.Unmarshal(responses, &s.Responses); err != nil {
			s.Responses = []interview.Exchange{}
		}
		if err := json.Unmarshal(analysis, &s.Analysis); err != nil {
			s.Analysis = interview.Analysis{}
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interview session rows: %w", err)
	}
	return sessions, nil
}

func (r *postgresInterviewRepo) AverageTechnicalScore(ctx context.Context, userID uuid.UUID) (float64, int, error) {
	query := `
		SELECT COALESCE(AVG(technical_score), 0), COUNT(*)
		FROM interview_sessions
		WHERE user_id = $1
	`
	var avg float64
	var total int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&avg, &total); err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate interview sessions: %w", err)
	}
	return avg, total, nil
}
