package opportunity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vidyamithra/backend/internal/application/service"
	domain "github.com/vidyamithra/backend/internal/domain/opportunity"
	"github.com/vidyamithra/backend/pkg/apperror"
	"github.com/vidyamithra/backend/pkg/jsonext"
	"github.com/vidyamithra/backend/pkg/logger"
)

type OpportunityUseCase struct {
	ai     service.CompletionService
	repo   domain.Repository
	logger logger.Logger
}

func NewOpportunityUseCase(ai service.CompletionService, repo domain.Repository, log logger.Logger) *OpportunityUseCase {
	return &OpportunityUseCase{ai: ai, repo: repo, logger: log}
}

type GenerateInput struct {
	TargetRole string
	Skills     []string
	Level      string
	Types      []domain.Type
}

const opportunitiesSystemPrompt = "You are a career opportunity scout. " +
	"You point users to real platforms (LinkedIn, Internshala, Coursera, Wellfound, company career pages) " +
	"with realistic listings. Never fabricate a specific posting URL; link to the platform's search instead."

// Generate asks the AI for curated opportunities and stores the new ones.
// Rows already present under the same (title, source) pair are skipped.
func (uc *OpportunityUseCase) Generate(ctx context.Context, input GenerateInput) ([]*domain.Opportunity, error) {
	if strings.TrimSpace(input.TargetRole) == "" {
		return nil, apperror.NewInvalidInput("target_role is required", nil)
	}
	if len(input.Types) == 0 {
		input.Types = []domain.Type{domain.TypeJob, domain.TypeInternship, domain.TypeCourse}
	}

	response := uc.ai.Complete(ctx, service.CompletionRequest{
		Messages:     []service.Message{{Role: service.RoleUser, Content: buildOpportunitiesPrompt(input)}},
		SystemPrompt: opportunitiesSystemPrompt,
		Kind:         service.KindOpportunities,
	})

	var payload struct {
		Opportunities []struct {
			Title       string   `json:"title"`
			Company     string   `json:"company"`
			Type        string   `json:"opportunity_type"`
			Description string   `json:"description"`
			URL         string   `json:"url"`
			Source      string   `json:"source"`
			SkillTags   []string `json:"skill_tags"`
			Level       string   `json:"level"`
			Location    string   `json:"location"`
			SalaryRange string   `json:"salary_range"`
		} `json:"opportunities"`
	}
	if err := jsonext.ExtractInto(response, &payload); err != nil {
		// A bare array is also accepted.
		if arrErr := jsonext.ExtractInto(response, &payload.Opportunities); arrErr != nil {
			return nil, apperror.NewInvalidInput("AI returned invalid opportunity JSON", err)
		}
	}

	now := time.Now().UTC()
	saved := make([]*domain.Opportunity, 0, len(payload.Opportunities))
	for _, item := range payload.Opportunities {
		if item.Title == "" || item.Source == "" {
			continue
		}
		existing, err := uc.repo.FindByTitleAndSource(ctx, item.Title, item.Source)
		if err != nil {
			uc.logger.Warn("Opportunity dedupe lookup failed", zap.Error(err), zap.String("title", item.Title))
			continue
		}
		if existing != nil {
			continue
		}

		o := &domain.Opportunity{
			ID:          uuid.New(),
			Title:       item.Title,
			Company:     item.Company,
			Type:        domain.Type(item.Type),
			Description: item.Description,
			URL:         item.URL,
			Source:      item.Source,
			SkillTags:   item.SkillTags,
			Level:       item.Level,
			Location:    item.Location,
			SalaryRange: item.SalaryRange,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := uc.repo.Save(ctx, o); err != nil {
			uc.logger.Warn("Failed to save opportunity", zap.Error(err), zap.String("title", item.Title))
			continue
		}
		saved = append(saved, o)
	}

	uc.logger.Info("Opportunities generated",
		zap.Int("returned", len(payload.Opportunities)),
		zap.Int("saved", len(saved)))
	return saved, nil
}

func (uc *OpportunityUseCase) List(ctx context.Context, f domain.Filter) ([]*domain.Opportunity, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}
	opportunities, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, apperror.NewInternal("failed to list opportunities", err)
	}
	return opportunities, nil
}

// ExpireStale flags rows whose deadline has passed. Run from the worker's
// daily sweep.
func (uc *OpportunityUseCase) ExpireStale(ctx context.Context) (int64, error) {
	n, err := uc.repo.MarkExpiredBefore(ctx, time.Now().UTC())
	if err != nil {
		return 0, apperror.NewInternal("failed to expire opportunities", err)
	}
	if n > 0 {
		uc.logger.Info("Expired stale opportunities", zap.Int64("count", n))
	}
	return n, nil
}

func buildOpportunitiesPrompt(input GenerateInput) string {
	skills, _ := json.Marshal(input.Skills)
	types := make([]string, len(input.Types))
	for i, t := range input.Types {
		types[i] = string(t)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Curate 6-10 current opportunities for someone targeting %q", input.TargetRole)
	if input.Level != "" {
		fmt.Fprintf(&b, " at %s level", input.Level)
	}
	fmt.Fprintf(&b, ".\nTheir skills: %s\n", skills)
	fmt.Fprintf(&b, "Include these types: %s\n\n", strings.Join(types, ", "))
	b.WriteString("For each, link to a real platform search or a well-known course page.\n")
	b.WriteString("Return ONLY valid JSON in this exact format:\n")
	b.WriteString(`{"opportunities": [{"title": "...", "company": "...", "opportunity_type": "job", "description": "...", "url": "https://...", "source": "LinkedIn", "skill_tags": [], "level": "Intermediate", "location": "Remote", "salary_range": ""}]}`)
	b.WriteString("\n\nIMPORTANT: Return ONLY valid JSON. No markdown, no conversational text.")
	return b.String()
}
