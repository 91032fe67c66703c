package quiz

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vidyamithra/backend/internal/domain/roadmap"
)

// Question is one generated multiple-choice item. Options always carry at
// least four entries; Correct is an index into Options.
type Question struct {
	ID          int      `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
}

// Answer is one submitted response. Correct echoes the marker the client
// received with the question; the grader prefers a server-held key when one
// exists for the attempt's quiz id.
type Answer struct {
	QuestionID   int    `json:"question_id"`
	Selected     int    `json:"selected"`
	Correct      int    `json:"correct"`
	QuestionText string `json:"question_text"`
}

// Attempt is the immutable record of one grading event. Attempts are only
// ever created, never mutated or deleted.
type Attempt struct {
	ID             uuid.UUID         `json:"id"`
	UserID         uuid.UUID         `json:"user_id"`
	RoadmapID      *uuid.UUID        `json:"roadmap_id"`
	SkillID        string            `json:"skill_id"`
	SkillName      string            `json:"skill_name"`
	Level          roadmap.LevelName `json:"level"`
	Score          float64           `json:"score"`
	Passed         bool              `json:"passed"`
	TotalQuestions int               `json:"total_questions"`
	CorrectAnswers int               `json:"correct_answers"`
	Answers        []Answer          `json:"answers"`
	AttemptedAt    time.Time         `json:"attempted_at"`
}

var ErrNoAnswers = errors.New("quiz submission has no answers")

// Grade scores a submission. answerKey maps question id to the correct
// option index; for questions absent from the key the client-echoed marker
// is used. score = 100 * correct / total, pass iff score >= the level's
// threshold (inclusive).
func Grade(answers []Answer, answerKey map[int]int, level roadmap.LevelName) (score float64, correct int, passed bool, err error) {
	if len(answers) == 0 {
		return 0, 0, false, ErrNoAnswers
	}

	for _, a := range answers {
		want := a.Correct
		if key, ok := answerKey[a.QuestionID]; ok {
			want = key
		}
		if a.Selected == want {
			correct++
		}
	}

	score = float64(correct) / float64(len(answers)) * 100
	passed = score >= float64(roadmap.ThresholdFor(level))
	return score, correct, passed, nil
}

type Repository interface {
	Save(ctx context.Context, a *Attempt) error
	ListByUser(ctx context.Context, userID uuid.UUID, skillID string) ([]*Attempt, error)
	HasPassed(ctx context.Context, userID uuid.UUID, skillID string) (bool, error)
	AverageScore(ctx context.Context, userID uuid.UUID) (avg float64, total, passed int, err error)
}

// KeyStore holds generated answer keys between quiz generation and
// submission so grading does not have to trust client-echoed markers.
type KeyStore interface {
	Put(ctx context.Context, quizID string, key map[int]int, ttl time.Duration) error
	Get(ctx context.Context, quizID string) (map[int]int, error)
}
