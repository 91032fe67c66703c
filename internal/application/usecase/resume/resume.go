package resume

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vidyamithra/backend/internal/application/service"
	"github.com/vidyamithra/backend/internal/application/usecase/progress"
	"github.com/vidyamithra/backend/pkg/apperror"
	"github.com/vidyamithra/backend/pkg/jsonext"
	"github.com/vidyamithra/backend/pkg/logger"
)

// Analysis is the ATS-style evaluation of a resume against a target role.
type Analysis struct {
	ATSScore        float64  `json:"ats_score"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	MissingKeywords []string `json:"missing_keywords"`
	Suggestions     []string `json:"improvement_suggestions"`
	DetectedSkills  []string `json:"detected_skills"`
	Summary         string   `json:"summary"`
}

type ResumeUseCase struct {
	ai       service.CompletionService
	progress *progress.ProgressUseCase
	logger   logger.Logger
}

func NewResumeUseCase(ai service.CompletionService, prog *progress.ProgressUseCase, log logger.Logger) *ResumeUseCase {
	return &ResumeUseCase{ai: ai, progress: prog, logger: log}
}

const resumeSystemPrompt = "You are an ATS (applicant tracking system) expert and senior recruiter. " +
	"You evaluate resumes the way screening software and hiring managers actually do. " +
	"Be honest about weaknesses; vague flattery helps no one."

// Analyze evaluates resume text against a target role. The fresh ATS score
// feeds a new progress snapshot; snapshot failure does not fail the analysis.
func (uc *ResumeUseCase) Analyze(ctx context.Context, userID uuid.UUID, resumeText, targetRole string) (*Analysis, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, apperror.NewInvalidInput("resume text is required", nil)
	}
	if strings.TrimSpace(targetRole) == "" {
		return nil, apperror.NewInvalidInput("target_role is required", nil)
	}

	response := uc.ai.Complete(ctx, service.CompletionRequest{
		Messages:     []service.Message{{Role: service.RoleUser, Content: buildResumePrompt(resumeText, targetRole)}},
		SystemPrompt: resumeSystemPrompt,
		Kind:         service.KindResumeAnalysis,
	})

	var analysis Analysis
	if err := jsonext.ExtractInto(response, &analysis); err != nil {
		return nil, apperror.NewInvalidInput("AI returned invalid analysis JSON", err)
	}
	if analysis.ATSScore < 0 {
		analysis.ATSScore = 0
	}
	if analysis.ATSScore > 100 {
		analysis.ATSScore = 100
	}

	if uc.progress != nil {
		if _, err := uc.progress.ComputeSnapshot(ctx, userID, &analysis.ATSScore); err != nil {
			uc.logger.Warn("Failed to snapshot progress after resume analysis", zap.Error(err))
		}
	}

	uc.logger.Info("Resume analyzed",
		zap.String("user_id", userID.String()),
		zap.Float64("ats_score", analysis.ATSScore))
	return &analysis, nil
}

func buildResumePrompt(resumeText, targetRole string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Evaluate this resume for the role of %q.\n\n", targetRole)
	b.WriteString("Resume text:\n---\n")
	b.WriteString(resumeText)
	b.WriteString("\n---\n\n")
	b.WriteString("Score ats_score 0-100 against realistic ATS screening for this role.\n")
	b.WriteString("List skills actually present in the resume under detected_skills; never invent skills.\n")
	b.WriteString("Return ONLY valid JSON in this exact format:\n")
	b.WriteString(`{"ats_score": 72, "strengths": [], "weaknesses": [], "missing_keywords": [], "improvement_suggestions": [], "detected_skills": [], "summary": "..."}`)
	b.WriteString("\n\nIMPORTANT: Return ONLY valid JSON. No markdown, no conversational text.")
	return b.String()
}
