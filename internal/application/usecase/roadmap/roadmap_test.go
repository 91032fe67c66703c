package roadmap

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidyamithra/backend/internal/application/service"
	domain "github.com/vidyamithra/backend/internal/domain/roadmap"
	"github.com/vidyamithra/backend/pkg/logger"
)

type stubAI struct {
	response string
}

func (s *stubAI) Complete(context.Context, service.CompletionRequest) string { return s.response }

type fakeRoadmapRepo struct {
	saved       []*domain.Roadmap
	deactivated int
	updates     int
}

func (r *fakeRoadmapRepo) Save(_ context.Context, rm *domain.Roadmap) error {
	r.saved = append(r.saved, rm)
	return nil
}

func (r *fakeRoadmapRepo) UpdateData(_ context.Context, rm *domain.Roadmap) error {
	r.updates++
	return nil
}

func (r *fakeRoadmapRepo) FindByID(_ context.Context, id, userID uuid.UUID) (*domain.Roadmap, error) {
	for _, rm := range r.saved {
		if rm.ID == id && rm.UserID == userID {
			return rm, nil
		}
	}
	return nil, domain.ErrRoadmapNotFound
}

func (r *fakeRoadmapRepo) FindActiveByUser(_ context.Context, userID uuid.UUID) (*domain.Roadmap, error) {
	for i := len(r.saved) - 1; i >= 0; i-- {
		if r.saved[i].UserID == userID && r.saved[i].IsActive {
			return r.saved[i], nil
		}
	}
	return nil, domain.ErrRoadmapNotFound
}

func (r *fakeRoadmapRepo) DeactivateByUser(_ context.Context, userID uuid.UUID) error {
	r.deactivated++
	for _, rm := range r.saved {
		if rm.UserID == userID {
			rm.IsActive = false
		}
	}
	return nil
}

const generatedRoadmapJSON = "```json\n" + `{"levels": [
	{"name": "Beginner", "pass_threshold": 70, "skills": [
		{"id": "skill-py", "name": "Python", "prerequisites": [], "estimated_hours": 20, "order": 1, "status": "completed"},
		{"id": "skill-pandas", "name": "Pandas", "prerequisites": ["skill-py"], "estimated_hours": 15, "order": 2, "status": "completed"}
	]},
	{"name": "Intermediate", "pass_threshold": 80, "skills": [
		{"id": "skill-ml", "name": "ML Basics", "prerequisites": ["skill-pandas"], "estimated_hours": 30, "order": 1}
	]},
	{"name": "Advanced", "pass_threshold": 85, "skills": [
		{"id": "skill-dl", "name": "Deep Learning", "prerequisites": ["skill-ml"], "estimated_hours": 40, "order": 1}
	]}
]}` + "\n```"

func TestGenerate_ParsesNormalizesAndPersists(t *testing.T) {
	repo := &fakeRoadmapRepo{}
	uc := NewGenerateRoadmapUseCase(&stubAI{response: generatedRoadmapJSON}, repo, nil, logger.NewNop())

	userID := uuid.New()
	rm, err := uc.Execute(context.Background(), GenerateInput{
		UserID:        userID,
		TargetRole:    "Data Scientist",
		CurrentSkills: []string{"Python"},
		SkillGaps:     []string{"ML"},
	})
	require.NoError(t, err)

	require.Len(t, repo.saved, 1)
	assert.True(t, rm.IsActive)
	assert.Equal(t, userID, rm.UserID)

	// Model-reported statuses are discarded: first prereq-free Beginner
	// skill unlocked, everything else locked.
	assert.Equal(t, domain.StatusUnlocked, rm.Data.FindSkill("skill-py").Status)
	assert.Equal(t, domain.StatusLocked, rm.Data.FindSkill("skill-pandas").Status)
	assert.Equal(t, domain.StatusLocked, rm.Data.FindSkill("skill-ml").Status)
}

func TestGenerate_RetiresPriorRoadmaps(t *testing.T) {
	repo := &fakeRoadmapRepo{}
	uc := NewGenerateRoadmapUseCase(&stubAI{response: generatedRoadmapJSON}, repo, nil, logger.NewNop())

	userID := uuid.New()
	first, err := uc.Execute(context.Background(), GenerateInput{UserID: userID, TargetRole: "Data Scientist"})
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), GenerateInput{UserID: userID, TargetRole: "ML Engineer"})
	require.NoError(t, err)

	assert.False(t, first.IsActive)
	assert.True(t, second.IsActive)

	active, err := repo.FindActiveByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
}

func TestGenerate_RejectsUnparseableOutput(t *testing.T) {
	repo := &fakeRoadmapRepo{}
	uc := NewGenerateRoadmapUseCase(&stubAI{response: "I'd be happy to help once you tell me more!"}, repo, nil, logger.NewNop())

	_, err := uc.Execute(context.Background(), GenerateInput{UserID: uuid.New(), TargetRole: "Data Scientist"})
	assert.Error(t, err)
	assert.Empty(t, repo.saved)
}

func TestGenerate_RejectsWrongShape(t *testing.T) {
	twoLevels := `{"levels": [{"name": "Beginner", "skills": [{"id": "a"}]}, {"name": "Intermediate", "skills": [{"id": "b"}]}]}`
	uc := NewGenerateRoadmapUseCase(&stubAI{response: twoLevels}, &fakeRoadmapRepo{}, nil, logger.NewNop())

	_, err := uc.Execute(context.Background(), GenerateInput{UserID: uuid.New(), TargetRole: "Data Scientist"})
	assert.Error(t, err)
}

func TestGenerate_RequiresTargetRole(t *testing.T) {
	uc := NewGenerateRoadmapUseCase(&stubAI{}, &fakeRoadmapRepo{}, nil, logger.NewNop())

	_, err := uc.Execute(context.Background(), GenerateInput{UserID: uuid.New(), TargetRole: "  "})
	assert.Error(t, err)
}
