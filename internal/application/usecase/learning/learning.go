package learning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vidyamithra/backend/internal/application/service"
	domain "github.com/vidyamithra/backend/internal/domain/learning"
	"github.com/vidyamithra/backend/internal/domain/roadmap"
	"github.com/vidyamithra/backend/pkg/apperror"
	"github.com/vidyamithra/backend/pkg/jsonext"
	"github.com/vidyamithra/backend/pkg/logger"
)

const cacheTTL = 6 * time.Hour

type LearningUseCase struct {
	ai     service.CompletionService
	repo   domain.Repository
	cache  domain.Cache
	logger logger.Logger
}

func NewLearningUseCase(ai service.CompletionService, repo domain.Repository, cache domain.Cache, log logger.Logger) *LearningUseCase {
	return &LearningUseCase{ai: ai, repo: repo, cache: cache, logger: log}
}

// Resources returns curated study material for a skill, checking Redis, then
// Postgres, then generating fresh recommendations. Generated sets are written
// back to both tiers.
func (uc *LearningUseCase) Resources(ctx context.Context, skillName string, level roadmap.LevelName) ([]domain.Resource, error) {
	if strings.TrimSpace(skillName) == "" {
		return nil, apperror.NewInvalidInput("skill name is required", nil)
	}

	if resources, hit, err := uc.cache.Get(ctx, skillName, level); err != nil {
		uc.logger.Warn("Learning cache read failed", zap.Error(err))
	} else if hit {
		return resources, nil
	}

	if resources, err := uc.repo.Find(ctx, skillName, level); err != nil {
		uc.logger.Warn("Learning store read failed", zap.Error(err))
	} else if len(resources) > 0 {
		uc.warmCache(ctx, skillName, level, resources)
		return resources, nil
	}

	resources, err := uc.generate(ctx, skillName, level)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Upsert(ctx, skillName, level, resources); err != nil {
		uc.logger.Warn("Failed to memoize learning resources", zap.Error(err))
	}
	uc.warmCache(ctx, skillName, level, resources)
	return resources, nil
}

// Refresh throws away both cached tiers and regenerates the set.
func (uc *LearningUseCase) Refresh(ctx context.Context, skillName string, level roadmap.LevelName) ([]domain.Resource, error) {
	if strings.TrimSpace(skillName) == "" {
		return nil, apperror.NewInvalidInput("skill name is required", nil)
	}
	if err := uc.cache.Invalidate(ctx, skillName, level); err != nil {
		uc.logger.Warn("Learning cache invalidate failed", zap.Error(err))
	}

	resources, err := uc.generate(ctx, skillName, level)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Upsert(ctx, skillName, level, resources); err != nil {
		uc.logger.Warn("Failed to memoize learning resources", zap.Error(err))
	}
	uc.warmCache(ctx, skillName, level, resources)
	return resources, nil
}

func (uc *LearningUseCase) warmCache(ctx context.Context, skillName string, level roadmap.LevelName, resources []domain.Resource) {
	if err := uc.cache.Set(ctx, skillName, level, resources, cacheTTL); err != nil {
		uc.logger.Warn("Learning cache write failed", zap.Error(err))
	}
}

const resourcesSystemPrompt = "You are a learning curator who recommends only real, well-known, freely available study material. " +
	"Never invent URLs or course names."

func (uc *LearningUseCase) generate(ctx context.Context, skillName string, level roadmap.LevelName) ([]domain.Resource, error) {
	response := uc.ai.Complete(ctx, service.CompletionRequest{
		Messages:     []service.Message{{Role: service.RoleUser, Content: buildResourcesPrompt(skillName, level)}},
		SystemPrompt: resourcesSystemPrompt,
		Kind:         service.KindLearningResources,
	})

	var payload struct {
		Resources []domain.Resource `json:"resources"`
	}
	if err := jsonext.ExtractInto(response, &payload); err != nil {
		if arrErr := jsonext.ExtractInto(response, &payload.Resources); arrErr != nil {
			return nil, apperror.NewInvalidInput("AI returned invalid resource JSON", err)
		}
	}
	if len(payload.Resources) == 0 {
		return nil, apperror.NewInvalidInput("AI returned no resources", nil)
	}

	for i := range payload.Resources {
		payload.Resources[i].Order = i + 1
	}
	return payload.Resources, nil
}

func buildResourcesPrompt(skillName string, level roadmap.LevelName) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recommend 5-7 study resources for learning %q at %s level.\n\n", skillName, level)
	b.WriteString("Mix resource types: video, playlist, course, docs, article.\n")
	b.WriteString("Prefer widely-recognized sources (official docs, freeCodeCamp, MDN, established YouTube channels).\n")
	b.WriteString("Order resources as a study sequence.\n\n")
	b.WriteString("Return ONLY valid JSON in this exact format:\n")
	b.WriteString(`{"resources": [{"title": "...", "channel": "...", "url": "https://...", "type": "video", "duration": "4h", "order": 1, "why": "one sentence on why this resource"}]}`)
	b.WriteString("\n\nIMPORTANT: Return ONLY valid JSON. No markdown, no conversational text.")
	return b.String()
}
