package roadmap

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vidyamithra/backend/adapters/event"
	"github.com/vidyamithra/backend/internal/application/service"
	domain "github.com/vidyamithra/backend/internal/domain/roadmap"
	"github.com/vidyamithra/backend/pkg/apperror"
	"github.com/vidyamithra/backend/pkg/jsonext"
	"github.com/vidyamithra/backend/pkg/logger"
)

var tracer = otel.Tracer("roadmap_usecase")

type GenerateRoadmapUseCase struct {
	ai     service.CompletionService
	repo   domain.Repository
	events *event.KafkaProducerClient
	logger logger.Logger
}

func NewGenerateRoadmapUseCase(
	ai service.CompletionService,
	repo domain.Repository,
	events *event.KafkaProducerClient,
	log logger.Logger,
) *GenerateRoadmapUseCase {
	return &GenerateRoadmapUseCase{ai: ai, repo: repo, events: events, logger: log}
}

type GenerateInput struct {
	UserID        uuid.UUID
	TargetRole    string
	CurrentSkills []string
	SkillGaps     []string
}

const roadmapSystemPrompt = "You are an expert career coach and curriculum designer. " +
	"You build structured learning roadmaps for tech professionals. " +
	"You must NEVER invent fake skills or experience. " +
	"All suggestions must be real, verifiable, and role-specific."

func (uc *GenerateRoadmapUseCase) Execute(ctx context.Context, input GenerateInput) (*domain.Roadmap, error) {
	ctx, span := tracer.Start(ctx, "GenerateRoadmap")
	defer span.End()
	span.SetAttributes(attribute.String("target_role", input.TargetRole))

	if strings.TrimSpace(input.TargetRole) == "" {
		return nil, apperror.NewInvalidInput("target_role is required", nil)
	}

	l := uc.logger.With(zap.String("user_id", input.UserID.String()), zap.String("target_role", input.TargetRole))
	l.Info("Generating roadmap")

	response := uc.ai.Complete(ctx, service.CompletionRequest{
		Messages:     []service.Message{{Role: service.RoleUser, Content: buildRoadmapPrompt(input)}},
		SystemPrompt: roadmapSystemPrompt,
		Kind:         service.KindRoadmap,
	})

	var doc domain.Document
	if err := jsonext.ExtractInto(response, &doc); err != nil {
		l.Error("Failed to parse roadmap JSON", err)
		span.RecordError(err)
		return nil, apperror.NewInvalidInput("AI returned invalid roadmap JSON", err)
	}
	if err := doc.Validate(); err != nil {
		l.Error("Generated roadmap has unexpected shape", err)
		span.RecordError(err)
		return nil, apperror.NewInvalidInput("AI returned malformed roadmap", err)
	}

	// The model's own status values are never trusted for this field.
	doc.NormalizeStatuses()

	now := time.Now().UTC()
	rm := &domain.Roadmap{
		ID:            uuid.New(),
		UserID:        input.UserID,
		TargetRole:    input.TargetRole,
		CurrentSkills: input.CurrentSkills,
		SkillGaps:     input.SkillGaps,
		Data:          doc,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// One active roadmap per user: retire prior ones before saving.
	if err := uc.repo.DeactivateByUser(ctx, input.UserID); err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to retire previous roadmaps", err)
	}
	if err := uc.repo.Save(ctx, rm); err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to save roadmap", err)
	}

	if uc.events != nil {
		payload := event.RoadmapEventPayload{
			UserID:     rm.UserID,
			RoadmapID:  rm.ID,
			TargetRole: rm.TargetRole,
			Timestamp:  now,
		}
		if err := uc.events.PublishRoadmapGenerated(ctx, payload); err != nil {
			l.Warn("Failed to publish roadmap event", zap.Error(err))
		}
	}

	l.Info("Roadmap generated", zap.String("roadmap_id", rm.ID.String()))
	return rm, nil
}

func buildRoadmapPrompt(input GenerateInput) string {
	currentSkills, _ := json.Marshal(input.CurrentSkills)
	skillGaps, _ := json.Marshal(input.SkillGaps)

	var b strings.Builder
	fmt.Fprintf(&b, "Create a detailed skill learning roadmap for someone targeting the role of %q.\n\n", input.TargetRole)
	fmt.Fprintf(&b, "Their current skills are: %s\n", currentSkills)
	fmt.Fprintf(&b, "Their identified skill gaps are: %s\n\n", skillGaps)
	b.WriteString("Generate a roadmap with exactly 3 levels: Beginner, Intermediate, Advanced.\n\n")
	b.WriteString("For each level, list 3-5 skills that should be learned IN ORDER.\n")
	b.WriteString("Each skill must have:\n")
	b.WriteString("- \"id\": a unique identifier (use format \"skill-<short-slug>\")\n")
	b.WriteString("- \"name\": human-readable skill name\n")
	b.WriteString("- \"description\": one-sentence description of what to learn\n")
	b.WriteString("- \"prerequisites\": list of skill IDs that must be completed first (empty for first skills)\n")
	b.WriteString("- \"estimated_hours\": estimated learning hours (integer)\n")
	b.WriteString("- \"order\": integer ordering within the level (1-based)\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Beginner skills should have NO prerequisites from higher levels\n")
	b.WriteString("- Intermediate skills can depend on Beginner skills\n")
	b.WriteString("- Advanced skills can depend on Intermediate skills\n")
	fmt.Fprintf(&b, "- Keep it practical and industry-relevant for %s\n\n", input.TargetRole)
	b.WriteString("Return ONLY valid JSON in this exact format:\n")
	b.WriteString(`{"levels": [{"name": "Beginner", "pass_threshold": 70, "skills": [{"id": "skill-html-css", "name": "HTML & CSS Fundamentals", "description": "...", "prerequisites": [], "estimated_hours": 20, "order": 1}]}, {"name": "Intermediate", "pass_threshold": 80, "skills": []}, {"name": "Advanced", "pass_threshold": 85, "skills": []}]}`)
	b.WriteString("\n\nIMPORTANT: Return ONLY valid JSON. No markdown, no conversational text.")
	return b.String()
}
