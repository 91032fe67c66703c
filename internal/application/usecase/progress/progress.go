package progress

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vidyamithra/backend/internal/domain/interview"
	domain "github.com/vidyamithra/backend/internal/domain/progress"
	"github.com/vidyamithra/backend/internal/domain/quiz"
	"github.com/vidyamithra/backend/internal/domain/roadmap"
	"github.com/vidyamithra/backend/pkg/apperror"
	"github.com/vidyamithra/backend/pkg/logger"
)

type ProgressUseCase struct {
	repo          domain.Repository
	roadmapRepo   roadmap.Repository
	quizRepo      quiz.Repository
	interviewRepo interview.Repository
	logger        logger.Logger
}

func NewProgressUseCase(
	repo domain.Repository,
	roadmapRepo roadmap.Repository,
	quizRepo quiz.Repository,
	interviewRepo interview.Repository,
	log logger.Logger,
) *ProgressUseCase {
	return &ProgressUseCase{
		repo:          repo,
		roadmapRepo:   roadmapRepo,
		quizRepo:      quizRepo,
		interviewRepo: interviewRepo,
		logger:        log,
	}
}

// ComputeSnapshot gathers the user's current metrics, computes the weighted
// readiness score, and records a snapshot. resumeATS, when nil, is carried
// forward from the user's latest snapshot.
func (uc *ProgressUseCase) ComputeSnapshot(ctx context.Context, userID uuid.UUID, resumeATS *float64) (*domain.Snapshot, error) {
	var skillPct float64
	var skillsDone int
	if rm, err := uc.roadmapRepo.FindActiveByUser(ctx, userID); err != nil {
		if !errors.Is(err, roadmap.ErrRoadmapNotFound) {
			return nil, apperror.NewInternal("failed to load roadmap", err)
		}
	} else {
		done, total := rm.Data.Progress()
		skillsDone = done
		if total > 0 {
			skillPct = float64(done) / float64(total) * 100
		}
	}

	quizAvg, _, quizzesPassed, err := uc.quizRepo.AverageScore(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal("failed to aggregate quiz scores", err)
	}

	interviewAvg, interviews, err := uc.interviewRepo.AverageTechnicalScore(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal("failed to aggregate interview scores", err)
	}
	// Technical scores are 0-10; readiness inputs are 0-100.
	interviewAvg *= 10

	resume := 0.0
	if resumeATS != nil {
		resume = *resumeATS
	} else if prev, err := uc.repo.ListByUser(ctx, userID, 1); err == nil && len(prev) > 0 {
		resume = prev[0].ResumeATSScore
	}

	readiness := domain.Readiness(resume, skillPct, quizAvg, interviewAvg)

	snapshot := &domain.Snapshot{
		ID:                  uuid.New(),
		UserID:              userID,
		CareerReadiness:     readiness,
		ResumeATSScore:      resume,
		SkillCompletionPct:  skillPct,
		QuizAvgScore:        quizAvg,
		InterviewAvgScore:   interviewAvg,
		TotalSkillsComplete: skillsDone,
		TotalQuizzesPassed:  quizzesPassed,
		TotalInterviews:     interviews,
		Breakdown: map[string]any{
			"resume":    map[string]any{"score": resume, "weight": domain.WeightResume},
			"skills":    map[string]any{"score": skillPct, "weight": domain.WeightSkills},
			"quiz":      map[string]any{"score": quizAvg, "weight": domain.WeightQuiz},
			"interview": map[string]any{"score": interviewAvg, "weight": domain.WeightInterview},
		},
		SnapshotDate: time.Now().UTC(),
	}
	if err := uc.repo.Save(ctx, snapshot); err != nil {
		return nil, apperror.NewInternal("failed to save progress snapshot", err)
	}

	uc.logger.Info("Progress snapshot recorded",
		zap.String("user_id", userID.String()),
		zap.Float64("readiness", readiness))
	return snapshot, nil
}

// History returns the user's snapshots, newest first.
func (uc *ProgressUseCase) History(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Snapshot, error) {
	if limit <= 0 || limit > 365 {
		limit = 30
	}
	snapshots, err := uc.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, apperror.NewInternal("failed to load progress history", err)
	}
	return snapshots, nil
}
