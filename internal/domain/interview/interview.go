package interview

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vidyamithra/backend/internal/domain/roadmap"
)

// Exchange is one question/answer pair in an interview transcript.
type Exchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type FeedbackItem struct {
	QuestionSummary string  `json:"question_summary"`
	Assessment      string  `json:"assessment"`
	Score           float64 `json:"score"`
}

// Analysis is the structured evaluation produced for a finished interview.
type Analysis struct {
	TechnicalScore     float64        `json:"technical_score"`
	CommunicationScore float64        `json:"communication_score"`
	ConfidenceScore    float64        `json:"confidence_score"`
	OverallScore       float64        `json:"overall_score"`
	Verdict            string         `json:"verdict"`
	Strengths          []string       `json:"strengths"`
	Weaknesses         []string       `json:"weaknesses"`
	DetailedFeedback   []FeedbackItem `json:"detailed_feedback"`
	ImprovementTips    []string       `json:"improvement_tips"`
	Summary            string         `json:"summary"`
}

// Session is the immutable record of one completed mock-interview
// evaluation. The roadmap reference is weak and nullable.
type Session struct {
	ID                 uuid.UUID          `json:"id"`
	UserID             uuid.UUID          `json:"user_id"`
	RoadmapID          *uuid.UUID         `json:"roadmap_id"`
	Level              *roadmap.LevelName `json:"level"`
	Position           string             `json:"position"`
	RoundType          string             `json:"round_type"`
	Responses          []Exchange         `json:"responses"`
	Analysis           Analysis           `json:"analysis"`
	TechnicalScore     *float64           `json:"technical_score"`
	CommunicationScore *float64           `json:"communication_score"`
	ConfidenceScore    *float64           `json:"confidence_score"`
	Verdict            *string            `json:"verdict"`
	CompletedAt        time.Time          `json:"completed_at"`
}

// UnlockDecision is the result of checking whether an advanced interview is
// available for a roadmap level.
type UnlockDecision struct {
	Unlocked         bool     `json:"unlocked"`
	Level            string   `json:"level,omitempty"`
	Reason           string   `json:"reason,omitempty"`
	IncompleteSkills []string `json:"incomplete_skills,omitempty"`
}

type Repository interface {
	Save(ctx context.Context, s *Session) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Session, error)
	AverageTechnicalScore(ctx context.Context, userID uuid.UUID) (avg float64, total int, err error)
}
