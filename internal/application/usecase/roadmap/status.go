package roadmap

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/vidyamithra/backend/internal/domain/roadmap"
	"github.com/vidyamithra/backend/internal/domain/quiz"
	"github.com/vidyamithra/backend/pkg/apperror"
	"github.com/vidyamithra/backend/pkg/logger"
)

type SkillStatusUseCase struct {
	repo     domain.Repository
	quizRepo quiz.Repository
	logger   logger.Logger
}

func NewSkillStatusUseCase(repo domain.Repository, quizRepo quiz.Repository, log logger.Logger) *SkillStatusUseCase {
	return &SkillStatusUseCase{repo: repo, quizRepo: quizRepo, logger: log}
}

// UpdateSkillStatus applies a manual status change and returns the updated
// roadmap. Completing a skill unlocks its direct dependents when all of their
// prerequisites are done.
func (uc *SkillStatusUseCase) UpdateSkillStatus(
	ctx context.Context,
	userID, roadmapID uuid.UUID,
	skillID string,
	status domain.SkillStatus,
) (*domain.Roadmap, []string, error) {
	rm, err := uc.ownedRoadmap(ctx, userID, roadmapID)
	if err != nil {
		return nil, nil, err
	}

	unlocked, err := rm.Data.UpdateSkillStatus(skillID, status)
	if err != nil {
		if errors.Is(err, domain.ErrSkillNotFound) {
			return nil, nil, apperror.NewNotFound("skill", skillID)
		}
		return nil, nil, apperror.NewInvalidInput(err.Error(), err)
	}

	if err := uc.repo.UpdateData(ctx, rm); err != nil {
		return nil, nil, apperror.NewInternal("failed to persist roadmap update", err)
	}

	uc.logger.Info("Skill status updated",
		zap.String("roadmap_id", rm.ID.String()),
		zap.String("skill_id", skillID),
		zap.String("status", string(status)),
		zap.Int("unlocked", len(unlocked)))
	return rm, unlocked, nil
}

// SyncSkillStatus reconciles a skill whose unlock propagation failed after a
// passed quiz: if the user has a passing attempt on record, the skill is
// marked completed again and propagation retried.
func (uc *SkillStatusUseCase) SyncSkillStatus(
	ctx context.Context,
	userID, roadmapID uuid.UUID,
	skillID string,
) (*domain.Roadmap, []string, error) {
	rm, err := uc.ownedRoadmap(ctx, userID, roadmapID)
	if err != nil {
		return nil, nil, err
	}

	skill := rm.Data.FindSkill(skillID)
	if skill == nil {
		return nil, nil, apperror.NewNotFound("skill", skillID)
	}

	passed, err := uc.quizRepo.HasPassed(ctx, userID, skillID)
	if err != nil {
		return nil, nil, apperror.NewInternal("failed to check quiz history", err)
	}
	if !passed {
		return nil, nil, apperror.NewLocked("no passing quiz attempt on record for this skill")
	}
	if skill.Status == domain.StatusCompleted {
		return rm, nil, nil
	}

	unlocked, err := rm.Data.UpdateSkillStatus(skillID, domain.StatusCompleted)
	if err != nil {
		return nil, nil, apperror.NewInternal("failed to reconcile skill status", err)
	}
	if err := uc.repo.UpdateData(ctx, rm); err != nil {
		return nil, nil, apperror.NewInternal("failed to persist roadmap update", err)
	}

	uc.logger.Info("Skill status reconciled",
		zap.String("roadmap_id", rm.ID.String()),
		zap.String("skill_id", skillID),
		zap.Int("unlocked", len(unlocked)))
	return rm, unlocked, nil
}

func (uc *SkillStatusUseCase) ownedRoadmap(ctx context.Context, userID, roadmapID uuid.UUID) (*domain.Roadmap, error) {
	rm, err := uc.repo.FindByID(ctx, roadmapID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrRoadmapNotFound) {
			return nil, apperror.NewNotFound("roadmap", roadmapID.String())
		}
		return nil, apperror.NewInternal("failed to load roadmap", err)
	}
	return rm, nil
}
