package quiz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidyamithra/backend/internal/application/service"
	"github.com/vidyamithra/backend/internal/domain/quiz"
	"github.com/vidyamithra/backend/internal/domain/roadmap"
	"github.com/vidyamithra/backend/pkg/logger"
)

type stubAI struct {
	response string
}

func (s *stubAI) Complete(context.Context, service.CompletionRequest) string { return s.response }

type fakeQuizRepo struct {
	attempts []*quiz.Attempt
	saveErr  error
}

func (r *fakeQuizRepo) Save(_ context.Context, a *quiz.Attempt) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.attempts = append(r.attempts, a)
	return nil
}

func (r *fakeQuizRepo) ListByUser(_ context.Context, userID uuid.UUID, skillID string) ([]*quiz.Attempt, error) {
	var out []*quiz.Attempt
	for _, a := range r.attempts {
		if a.UserID == userID && (skillID == "" || a.SkillID == skillID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeQuizRepo) HasPassed(_ context.Context, userID uuid.UUID, skillID string) (bool, error) {
	for _, a := range r.attempts {
		if a.UserID == userID && a.SkillID == skillID && a.Passed {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeQuizRepo) AverageScore(context.Context, uuid.UUID) (float64, int, int, error) {
	return 0, 0, 0, nil
}

type fakeRoadmapRepo struct {
	roadmap   *roadmap.Roadmap
	updateErr error
	updates   int
}

func (r *fakeRoadmapRepo) Save(context.Context, *roadmap.Roadmap) error { return nil }

func (r *fakeRoadmapRepo) UpdateData(_ context.Context, rm *roadmap.Roadmap) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates++
	r.roadmap = rm
	return nil
}

func (r *fakeRoadmapRepo) FindByID(_ context.Context, id, userID uuid.UUID) (*roadmap.Roadmap, error) {
	if r.roadmap == nil || r.roadmap.ID != id || r.roadmap.UserID != userID {
		return nil, roadmap.ErrRoadmapNotFound
	}
	return r.roadmap, nil
}

func (r *fakeRoadmapRepo) FindActiveByUser(_ context.Context, userID uuid.UUID) (*roadmap.Roadmap, error) {
	if r.roadmap == nil || r.roadmap.UserID != userID {
		return nil, roadmap.ErrRoadmapNotFound
	}
	return r.roadmap, nil
}

func (r *fakeRoadmapRepo) DeactivateByUser(context.Context, uuid.UUID) error { return nil }

type memoryKeyStore struct {
	keys   map[string]map[int]int
	getErr error
}

func newMemoryKeyStore() *memoryKeyStore {
	return &memoryKeyStore{keys: map[string]map[int]int{}}
}

func (s *memoryKeyStore) Put(_ context.Context, quizID string, key map[int]int, _ time.Duration) error {
	s.keys[quizID] = key
	return nil
}

func (s *memoryKeyStore) Get(_ context.Context, quizID string) (map[int]int, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.keys[quizID], nil
}

func testRoadmap(userID uuid.UUID) *roadmap.Roadmap {
	return &roadmap.Roadmap{
		ID:     uuid.New(),
		UserID: userID,
		Data: roadmap.Document{
			Levels: []roadmap.Level{
				{Name: roadmap.LevelBeginner, PassThreshold: 70, Skills: []roadmap.Skill{
					{ID: "skill-sql", Name: "SQL", Status: roadmap.StatusUnlocked},
					{ID: "skill-orm", Name: "ORM", Prerequisites: []string{"skill-sql"}, Status: roadmap.StatusLocked},
				}},
				{Name: roadmap.LevelIntermediate, PassThreshold: 80, Skills: []roadmap.Skill{
					{ID: "skill-tuning", Name: "Query Tuning", Prerequisites: []string{"skill-orm"}, Status: roadmap.StatusLocked},
				}},
				{Name: roadmap.LevelAdvanced, PassThreshold: 85, Skills: []roadmap.Skill{
					{ID: "skill-sharding", Name: "Sharding", Prerequisites: []string{"skill-tuning"}, Status: roadmap.StatusLocked},
				}},
			},
		},
		IsActive: true,
	}
}

const quizJSON = `{"questions": [
	{"id": 7, "question": "What does SELECT do?", "options": ["Reads rows", "Writes rows", "Drops tables", "Grants access"], "correct": 0, "explanation": "SELECT reads."},
	{"id": 9, "question": "What is a JOIN?", "options": ["A backup", "A combination of rows", "An index", "A lock"], "correct": 1, "explanation": "JOIN combines rows."}
]}`

func newUseCase(ai service.CompletionService, quizRepo *fakeQuizRepo, rmRepo *fakeRoadmapRepo, keys quiz.KeyStore) *QuizUseCase {
	return NewQuizUseCase(ai, quizRepo, rmRepo, keys, nil, logger.NewNop())
}

func TestGenerateSkillQuiz_RenumbersAndStoresKey(t *testing.T) {
	keys := newMemoryKeyStore()
	uc := newUseCase(&stubAI{response: quizJSON}, &fakeQuizRepo{}, &fakeRoadmapRepo{}, keys)

	generated, err := uc.GenerateSkillQuiz(context.Background(), "skill-sql", "SQL", roadmap.LevelBeginner, 10)
	require.NoError(t, err)

	require.Len(t, generated.Questions, 2)
	assert.Equal(t, 1, generated.Questions[0].ID)
	assert.Equal(t, 2, generated.Questions[1].ID)
	assert.Equal(t, 70, generated.PassThreshold)

	key := keys.keys[generated.QuizID]
	require.NotNil(t, key)
	assert.Equal(t, map[int]int{1: 0, 2: 1}, key)
}

func TestGenerateSkillQuiz_DropsUngradableQuestions(t *testing.T) {
	raw := `{"questions": [
		{"id": 1, "question": "", "options": ["a", "b", "c", "d"], "correct": 0},
		{"id": 2, "question": "only three options", "options": ["a", "b", "c"], "correct": 0},
		{"id": 3, "question": "correct out of range", "options": ["a", "b", "c", "d"], "correct": 5},
		{"id": 4, "question": "keeper", "options": ["a", "b", "c", "d"], "correct": 2}
	]}`
	uc := newUseCase(&stubAI{response: raw}, &fakeQuizRepo{}, &fakeRoadmapRepo{}, newMemoryKeyStore())

	generated, err := uc.GenerateSkillQuiz(context.Background(), "skill-sql", "SQL", roadmap.LevelBeginner, 10)
	require.NoError(t, err)

	require.Len(t, generated.Questions, 1)
	assert.Equal(t, "keeper", generated.Questions[0].Question)
	assert.Equal(t, 1, generated.Questions[0].ID)
}

func TestGenerateSkillQuiz_InvalidJSON(t *testing.T) {
	uc := newUseCase(&stubAI{response: "sorry, I cannot help with that"}, &fakeQuizRepo{}, &fakeRoadmapRepo{}, newMemoryKeyStore())

	_, err := uc.GenerateSkillQuiz(context.Background(), "skill-sql", "SQL", roadmap.LevelBeginner, 10)
	assert.Error(t, err)
}

func passingAnswers() []quiz.Answer {
	return []quiz.Answer{
		{QuestionID: 1, Selected: 0, Correct: 0},
		{QuestionID: 2, Selected: 1, Correct: 1},
	}
}

func TestSubmit_PassCompletesSkillAndUnlocksDependents(t *testing.T) {
	userID := uuid.New()
	rmRepo := &fakeRoadmapRepo{roadmap: testRoadmap(userID)}
	quizRepo := &fakeQuizRepo{}
	keys := newMemoryKeyStore()
	keys.keys["quiz-1"] = map[int]int{1: 0, 2: 1}
	uc := newUseCase(&stubAI{}, quizRepo, rmRepo, keys)

	roadmapID := rmRepo.roadmap.ID
	result, err := uc.Submit(context.Background(), SubmitInput{
		UserID:    userID,
		QuizID:    "quiz-1",
		RoadmapID: &roadmapID,
		SkillID:   "skill-sql",
		SkillName: "SQL",
		Level:     roadmap.LevelBeginner,
		Answers:   passingAnswers(),
	})
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.Attempt.Score)
	assert.True(t, result.Attempt.Passed)
	assert.True(t, result.SkillUnlocked)
	assert.Equal(t, []string{"skill-orm"}, result.Unlocked)
	assert.Equal(t, roadmap.StatusCompleted, rmRepo.roadmap.Data.FindSkill("skill-sql").Status)
	require.Len(t, quizRepo.attempts, 1)
}

func TestSubmit_FailRecordsAttemptWithoutPropagation(t *testing.T) {
	userID := uuid.New()
	rmRepo := &fakeRoadmapRepo{roadmap: testRoadmap(userID)}
	quizRepo := &fakeQuizRepo{}
	uc := newUseCase(&stubAI{}, quizRepo, rmRepo, newMemoryKeyStore())

	roadmapID := rmRepo.roadmap.ID
	answers := []quiz.Answer{
		{QuestionID: 1, Selected: 0, Correct: 0},
		{QuestionID: 2, Selected: 0, Correct: 1},
	}
	result, err := uc.Submit(context.Background(), SubmitInput{
		UserID:    userID,
		QuizID:    "quiz-1",
		RoadmapID: &roadmapID,
		SkillID:   "skill-sql",
		Level:     roadmap.LevelBeginner,
		Answers:   answers,
	})
	require.NoError(t, err)

	assert.Equal(t, 50.0, result.Attempt.Score)
	assert.False(t, result.Attempt.Passed)
	assert.False(t, result.SkillUnlocked)
	assert.Equal(t, roadmap.StatusUnlocked, rmRepo.roadmap.Data.FindSkill("skill-sql").Status)
	require.Len(t, quizRepo.attempts, 1, "failed attempts are recorded too")
}

func TestSubmit_ServerKeyDefeatsTamperedMarkers(t *testing.T) {
	userID := uuid.New()
	rmRepo := &fakeRoadmapRepo{roadmap: testRoadmap(userID)}
	keys := newMemoryKeyStore()
	keys.keys["quiz-1"] = map[int]int{1: 3, 2: 3}
	uc := newUseCase(&stubAI{}, &fakeQuizRepo{}, rmRepo, keys)

	roadmapID := rmRepo.roadmap.ID
	// Client claims every selection is correct.
	result, err := uc.Submit(context.Background(), SubmitInput{
		UserID:    userID,
		QuizID:    "quiz-1",
		RoadmapID: &roadmapID,
		SkillID:   "skill-sql",
		Level:     roadmap.LevelBeginner,
		Answers:   passingAnswers(),
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Attempt.Score)
	assert.False(t, result.Attempt.Passed)
	assert.False(t, result.SkillUnlocked)
}

func TestSubmit_KeyStoreOutageFallsBackToClientMarkers(t *testing.T) {
	userID := uuid.New()
	rmRepo := &fakeRoadmapRepo{roadmap: testRoadmap(userID)}
	keys := newMemoryKeyStore()
	keys.getErr = errors.New("redis down")
	uc := newUseCase(&stubAI{}, &fakeQuizRepo{}, rmRepo, keys)

	roadmapID := rmRepo.roadmap.ID
	result, err := uc.Submit(context.Background(), SubmitInput{
		UserID:    userID,
		QuizID:    "quiz-1",
		RoadmapID: &roadmapID,
		SkillID:   "skill-sql",
		Level:     roadmap.LevelBeginner,
		Answers:   passingAnswers(),
	})
	require.NoError(t, err)
	assert.True(t, result.Attempt.Passed)
}

func TestSubmit_MissingQuizIDGradesFromClientMarkers(t *testing.T) {
	userID := uuid.New()
	rmRepo := &fakeRoadmapRepo{roadmap: testRoadmap(userID)}
	uc := newUseCase(&stubAI{}, &fakeQuizRepo{}, rmRepo, newMemoryKeyStore())

	roadmapID := rmRepo.roadmap.ID
	result, err := uc.Submit(context.Background(), SubmitInput{
		UserID:    userID,
		RoadmapID: &roadmapID,
		SkillID:   "skill-sql",
		Level:     roadmap.LevelBeginner,
		Answers:   passingAnswers(),
	})
	require.NoError(t, err)
	assert.True(t, result.Attempt.Passed)
	assert.True(t, result.SkillUnlocked)
}

func TestSubmit_PropagationFailureDoesNotFailSubmission(t *testing.T) {
	userID := uuid.New()
	rmRepo := &fakeRoadmapRepo{roadmap: testRoadmap(userID), updateErr: errors.New("db down")}
	quizRepo := &fakeQuizRepo{}
	uc := newUseCase(&stubAI{}, quizRepo, rmRepo, newMemoryKeyStore())

	roadmapID := rmRepo.roadmap.ID
	result, err := uc.Submit(context.Background(), SubmitInput{
		UserID:    userID,
		QuizID:    "quiz-1",
		RoadmapID: &roadmapID,
		SkillID:   "skill-sql",
		Level:     roadmap.LevelBeginner,
		Answers:   passingAnswers(),
	})
	require.NoError(t, err)

	assert.True(t, result.Attempt.Passed)
	assert.False(t, result.SkillUnlocked, "flag reflects the failed roadmap write")
	require.Len(t, quizRepo.attempts, 1, "attempt record survives the failure")
}

func TestSubmit_NoAnswers(t *testing.T) {
	uc := newUseCase(&stubAI{}, &fakeQuizRepo{}, &fakeRoadmapRepo{}, newMemoryKeyStore())

	_, err := uc.Submit(context.Background(), SubmitInput{
		UserID: uuid.New(),
		QuizID: "quiz-1",
		Level:  roadmap.LevelBeginner,
	})
	assert.Error(t, err)
}
