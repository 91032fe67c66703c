package interview

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidyamithra/backend/internal/application/service"
	domain "github.com/vidyamithra/backend/internal/domain/interview"
	"github.com/vidyamithra/backend/internal/domain/roadmap"
	"github.com/vidyamithra/backend/pkg/logger"
)

type stubAI struct {
	response string
}

func (s *stubAI) Complete(context.Context, service.CompletionRequest) string { return s.response }

type fakeInterviewRepo struct {
	sessions []*domain.Session
}

func (r *fakeInterviewRepo) Save(_ context.Context, s *domain.Session) error {
	r.sessions = append(r.sessions, s)
	return nil
}

func (r *fakeInterviewRepo) ListByUser(context.Context, uuid.UUID) ([]*domain.Session, error) {
	return r.sessions, nil
}

func (r *fakeInterviewRepo) AverageTechnicalScore(context.Context, uuid.UUID) (float64, int, error) {
	return 0, len(r.sessions), nil
}

type fakeRoadmapRepo struct {
	roadmap *roadmap.Roadmap
}

func (r *fakeRoadmapRepo) Save(context.Context, *roadmap.Roadmap) error       { return nil }
func (r *fakeRoadmapRepo) UpdateData(context.Context, *roadmap.Roadmap) error { return nil }

func (r *fakeRoadmapRepo) FindByID(_ context.Context, id, userID uuid.UUID) (*roadmap.Roadmap, error) {
	if r.roadmap == nil || r.roadmap.ID != id || r.roadmap.UserID != userID {
		return nil, roadmap.ErrRoadmapNotFound
	}
	return r.roadmap, nil
}

func (r *fakeRoadmapRepo) FindActiveByUser(context.Context, uuid.UUID) (*roadmap.Roadmap, error) {
	if r.roadmap == nil {
		return nil, roadmap.ErrRoadmapNotFound
	}
	return r.roadmap, nil
}

func (r *fakeRoadmapRepo) DeactivateByUser(context.Context, uuid.UUID) error { return nil }

func roadmapWithBeginnerStatuses(status roadmap.SkillStatus) *roadmap.Roadmap {
	return &roadmap.Roadmap{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Data: roadmap.Document{
			Levels: []roadmap.Level{
				{Name: roadmap.LevelBeginner, PassThreshold: 70, Skills: []roadmap.Skill{
					{ID: "skill-a", Name: "Skill A", Status: status},
					{ID: "skill-b", Name: "Skill B", Status: status},
				}},
				{Name: roadmap.LevelIntermediate, PassThreshold: 80, Skills: []roadmap.Skill{
					{ID: "skill-c", Name: "Skill C", Status: roadmap.StatusLocked},
				}},
				{Name: roadmap.LevelAdvanced, PassThreshold: 85, Skills: []roadmap.Skill{
					{ID: "skill-d", Name: "Skill D", Status: roadmap.StatusLocked},
				}},
			},
		},
	}
}

func TestCheckUnlock_LevelComplete(t *testing.T) {
	rmRepo := &fakeRoadmapRepo{roadmap: roadmapWithBeginnerStatuses(roadmap.StatusCompleted)}
	uc := NewInterviewUseCase(&stubAI{}, &fakeInterviewRepo{}, rmRepo, logger.NewNop())

	decision, err := uc.CheckUnlock(context.Background(), uuid.New(), uuid.Nil, roadmap.LevelBeginner)
	require.NoError(t, err)

	assert.True(t, decision.Unlocked)
	assert.Equal(t, "Beginner", decision.Level)
}

func TestCheckUnlock_IncompleteSkillsBlock(t *testing.T) {
	rmRepo := &fakeRoadmapRepo{roadmap: roadmapWithBeginnerStatuses(roadmap.StatusUnlocked)}
	uc := NewInterviewUseCase(&stubAI{}, &fakeInterviewRepo{}, rmRepo, logger.NewNop())

	decision, err := uc.CheckUnlock(context.Background(), uuid.New(), uuid.Nil, roadmap.LevelBeginner)
	require.NoError(t, err)

	assert.False(t, decision.Unlocked)
	assert.NotEmpty(t, decision.Reason)
	assert.Len(t, decision.IncompleteSkills, 2)
}

func TestCheckUnlock_ByRoadmapID(t *testing.T) {
	rm := roadmapWithBeginnerStatuses(roadmap.StatusCompleted)
	rmRepo := &fakeRoadmapRepo{roadmap: rm}
	uc := NewInterviewUseCase(&stubAI{}, &fakeInterviewRepo{}, rmRepo, logger.NewNop())

	decision, err := uc.CheckUnlock(context.Background(), rm.UserID, rm.ID, roadmap.LevelBeginner)
	require.NoError(t, err)
	assert.True(t, decision.Unlocked)

	// Another user's id does not reach the roadmap.
	decision, err = uc.CheckUnlock(context.Background(), uuid.New(), rm.ID, roadmap.LevelBeginner)
	require.NoError(t, err)
	assert.False(t, decision.Unlocked)
}

func TestCheckUnlock_NoRoadmap(t *testing.T) {
	uc := NewInterviewUseCase(&stubAI{}, &fakeInterviewRepo{}, &fakeRoadmapRepo{}, logger.NewNop())

	decision, err := uc.CheckUnlock(context.Background(), uuid.New(), uuid.Nil, roadmap.LevelBeginner)
	require.NoError(t, err)

	assert.False(t, decision.Unlocked)
	assert.Contains(t, decision.Reason, "roadmap")
}

const analysisJSON = `{"technical_score": 7.5, "communication_score": 8.0, "confidence_score": 7.0,
	"overall_score": 7.5, "verdict": "Hire", "strengths": ["clear explanations"], "weaknesses": [],
	"detailed_feedback": [], "improvement_tips": [], "summary": "Solid candidate."}`

func TestAnalyze_ParsesAndSavesSession(t *testing.T) {
	repo := &fakeInterviewRepo{}
	uc := NewInterviewUseCase(&stubAI{response: analysisJSON}, repo, &fakeRoadmapRepo{}, logger.NewNop())

	session, err := uc.Analyze(context.Background(), AnalyzeInput{
		UserID:    uuid.New(),
		Position:  "Backend Engineer",
		RoundType: "technical",
		Responses: []domain.Exchange{{Question: "Explain indexes.", Answer: "B-trees mostly."}},
	})
	require.NoError(t, err)

	require.Len(t, repo.sessions, 1)
	assert.Equal(t, "Hire", session.Analysis.Verdict)
	require.NotNil(t, session.TechnicalScore)
	assert.Equal(t, 7.5, *session.TechnicalScore)
}

func TestAnalyze_DegradedResultWhenOutputUnparseable(t *testing.T) {
	repo := &fakeInterviewRepo{}
	uc := NewInterviewUseCase(&stubAI{response: "the model rambled instead of emitting JSON"}, repo, &fakeRoadmapRepo{}, logger.NewNop())

	session, err := uc.Analyze(context.Background(), AnalyzeInput{
		UserID:    uuid.New(),
		Position:  "Backend Engineer",
		Responses: []domain.Exchange{{Question: "Q", Answer: "A"}},
	})
	require.NoError(t, err, "the session must not be lost")

	require.Len(t, repo.sessions, 1)
	assert.Equal(t, "Inconclusive", session.Analysis.Verdict)
	assert.Equal(t, 5.0, session.Analysis.OverallScore)
}

func TestAnalyze_EmptyTranscript(t *testing.T) {
	uc := NewInterviewUseCase(&stubAI{}, &fakeInterviewRepo{}, &fakeRoadmapRepo{}, logger.NewNop())

	_, err := uc.Analyze(context.Background(), AnalyzeInput{UserID: uuid.New(), Position: "Backend Engineer"})
	assert.Error(t, err)
}

func TestNextQuestion_RequiresPosition(t *testing.T) {
	uc := NewInterviewUseCase(&stubAI{response: "Tell me about yourself."}, &fakeInterviewRepo{}, &fakeRoadmapRepo{}, logger.NewNop())

	_, err := uc.NextQuestion(context.Background(), "", "technical", nil)
	assert.Error(t, err)

	q, err := uc.NextQuestion(context.Background(), "Backend Engineer", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Tell me about yourself.", q)
}
