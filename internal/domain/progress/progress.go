package progress

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
)

// Readiness weights. Resume quality, roadmap progress, quiz performance and
// interview results sum to 1.
const (
	WeightResume    = 0.25
	WeightSkills    = 0.30
	WeightQuiz      = 0.25
	WeightInterview = 0.20
)

// Snapshot is one point on a user's career readiness growth chart.
type Snapshot struct {
	ID                  uuid.UUID      `json:"id"`
	UserID              uuid.UUID      `json:"user_id"`
	CareerReadiness     float64        `json:"career_readiness_score"`
	ResumeATSScore      float64        `json:"resume_ats_score"`
	SkillCompletionPct  float64        `json:"skill_completion_pct"`
	QuizAvgScore        float64        `json:"quiz_avg_score"`
	InterviewAvgScore   float64        `json:"interview_avg_score"`
	TotalSkillsComplete int            `json:"total_skills_completed"`
	TotalQuizzesPassed  int            `json:"total_quizzes_passed"`
	TotalInterviews     int            `json:"total_interviews_done"`
	Breakdown           map[string]any `json:"breakdown"`
	SnapshotDate        time.Time      `json:"snapshot_date"`
}

// Readiness computes the weighted career readiness score. All inputs are on
// a 0-100 scale.
func Readiness(resumeATS, skillCompletionPct, quizAvg, interviewAvg float64) float64 {
	score := resumeATS*WeightResume +
		skillCompletionPct*WeightSkills +
		quizAvg*WeightQuiz +
		interviewAvg*WeightInterview
	return math.Round(score*10) / 10
}

type Repository interface {
	Save(ctx context.Context, s *Snapshot) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Snapshot, error)
}
