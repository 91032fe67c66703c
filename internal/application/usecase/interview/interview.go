package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vidyamithra/backend/internal/application/service"
	domain "github.com/vidyamithra/backend/internal/domain/interview"
	"github.com/vidyamithra/backend/internal/domain/roadmap"
	"github.com/vidyamithra/backend/pkg/apperror"
	"github.com/vidyamithra/backend/pkg/jsonext"
	"github.com/vidyamithra/backend/pkg/logger"
)

type InterviewUseCase struct {
	ai          service.CompletionService
	repo        domain.Repository
	roadmapRepo roadmap.Repository
	logger      logger.Logger
}

func NewInterviewUseCase(
	ai service.CompletionService,
	repo domain.Repository,
	roadmapRepo roadmap.Repository,
	log logger.Logger,
) *InterviewUseCase {
	return &InterviewUseCase{ai: ai, repo: repo, roadmapRepo: roadmapRepo, logger: log}
}

// CheckUnlock reports whether the advanced interview is available for a
// roadmap level. It unlocks once every skill in the level is completed.
// A zero roadmapID falls back to the user's active roadmap.
func (uc *InterviewUseCase) CheckUnlock(ctx context.Context, userID, roadmapID uuid.UUID, level roadmap.LevelName) (*domain.UnlockDecision, error) {
	var rm *roadmap.Roadmap
	var err error
	if roadmapID == uuid.Nil {
		rm, err = uc.roadmapRepo.FindActiveByUser(ctx, userID)
	} else {
		rm, err = uc.roadmapRepo.FindByID(ctx, roadmapID, userID)
	}
	if err != nil {
		if errors.Is(err, roadmap.ErrRoadmapNotFound) {
			return &domain.UnlockDecision{
				Unlocked: false,
				Reason:   "no active roadmap; generate one first",
			}, nil
		}
		return nil, apperror.NewInternal("failed to load roadmap", err)
	}

	if rm.Data.LevelComplete(level) {
		return &domain.UnlockDecision{Unlocked: true, Level: string(level)}, nil
	}
	incomplete := rm.Data.IncompleteSkills(level)
	return &domain.UnlockDecision{
		Unlocked:         false,
		Level:            string(level),
		Reason:           fmt.Sprintf("complete all %s skills to unlock this interview", level),
		IncompleteSkills: incomplete,
	}, nil
}

const questionSystemPromptFmt = "You are a senior %s interviewer conducting a %s round. " +
	"Ask one question at a time. Be direct and professional. " +
	"Follow up naturally on the candidate's previous answers."

// NextQuestion generates the next interview question given the transcript so
// far. An empty history yields an opener.
func (uc *InterviewUseCase) NextQuestion(ctx context.Context, position, roundType string, history []domain.Exchange) (string, error) {
	if strings.TrimSpace(position) == "" {
		return "", apperror.NewInvalidInput("position is required", nil)
	}
	if roundType == "" {
		roundType = "technical"
	}

	messages := make([]service.Message, 0, len(history)*2+1)
	for _, ex := range history {
		messages = append(messages,
			service.Message{Role: service.RoleAssistant, Content: ex.Question},
			service.Message{Role: service.RoleUser, Content: ex.Answer},
		)
	}
	if len(history) == 0 {
		messages = append(messages, service.Message{
			Role:    service.RoleUser,
			Content: fmt.Sprintf("Start a %s interview round for the %s position. Ask your first question.", roundType, position),
		})
	} else {
		messages = append(messages, service.Message{
			Role:    service.RoleUser,
			Content: "Ask the next question. Return only the question text.",
		})
	}

	question := uc.ai.Complete(ctx, service.CompletionRequest{
		Messages:     messages,
		SystemPrompt: fmt.Sprintf(questionSystemPromptFmt, position, roundType),
		Kind:         service.KindInterviewQuestion,
	})
	return strings.TrimSpace(question), nil
}

type AnalyzeInput struct {
	UserID    uuid.UUID
	RoadmapID *uuid.UUID
	Level     *roadmap.LevelName
	Position  string
	RoundType string
	Responses []domain.Exchange
}

const analysisSystemPrompt = "You are an expert interview assessor. " +
	"You score candidates fairly against the target role's bar and give concrete, actionable feedback."

// Analyze evaluates a finished interview transcript and records the session.
// When the AI output cannot be parsed a neutral degraded analysis is stored
// instead, so the session is never lost.
func (uc *InterviewUseCase) Analyze(ctx context.Context, input AnalyzeInput) (*domain.Session, error) {
	if len(input.Responses) == 0 {
		return nil, apperror.NewInvalidInput("interview transcript is empty", nil)
	}

	response := uc.ai.Complete(ctx, service.CompletionRequest{
		Messages:     []service.Message{{Role: service.RoleUser, Content: buildAnalysisPrompt(input)}},
		SystemPrompt: analysisSystemPrompt,
		Kind:         service.KindInterviewAnalysis,
	})

	var analysis domain.Analysis
	if err := jsonext.ExtractInto(response, &analysis); err != nil {
		uc.logger.Warn("Interview analysis unparseable, storing degraded result", zap.Error(err))
		analysis = degradedAnalysis()
	}

	session := &domain.Session{
		ID:                 uuid.New(),
		UserID:             input.UserID,
		RoadmapID:          input.RoadmapID,
		Level:              input.Level,
		Position:           input.Position,
		RoundType:          input.RoundType,
		Responses:          input.Responses,
		Analysis:           analysis,
		TechnicalScore:     &analysis.TechnicalScore,
		CommunicationScore: &analysis.CommunicationScore,
		ConfidenceScore:    &analysis.ConfidenceScore,
		Verdict:            &analysis.Verdict,
		CompletedAt:        time.Now().UTC(),
	}
	if err := uc.repo.Save(ctx, session); err != nil {
		return nil, apperror.NewInternal("failed to save interview session", err)
	}

	uc.logger.Info("Interview analyzed",
		zap.String("session_id", session.ID.String()),
		zap.Float64("overall", analysis.OverallScore),
		zap.String("verdict", analysis.Verdict))
	return session, nil
}

func (uc *InterviewUseCase) History(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	sessions, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal("failed to load interview history", err)
	}
	return sessions, nil
}

func buildAnalysisPrompt(input AnalyzeInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Evaluate this %s interview for the %s position.\n\nTranscript:\n", input.RoundType, input.Position)
	for i, ex := range input.Responses {
		fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\n\n", i+1, ex.Question, i+1, ex.Answer)
	}
	b.WriteString("Score each dimension 0-10. Verdict must be one of: ")
	b.WriteString(`"Strong Hire", "Hire", "Lean Hire", "No Hire".` + "\n")
	b.WriteString("Return ONLY valid JSON in this exact format:\n")
	b.WriteString(`{"technical_score": 7.5, "communication_score": 8.0, "confidence_score": 7.0, "overall_score": 7.5, "verdict": "Hire", "strengths": [], "weaknesses": [], "detailed_feedback": [{"question_summary": "...", "assessment": "...", "score": 7.0}], "improvement_tips": [], "summary": "..."}`)
	b.WriteString("\n\nIMPORTANT: Return ONLY valid JSON. No markdown, no conversational text.")
	return b.String()
}

// degradedAnalysis is the neutral placeholder stored when evaluation output
// could not be parsed.
func degradedAnalysis() domain.Analysis {
	return domain.Analysis{
		TechnicalScore:     5,
		CommunicationScore: 5,
		ConfidenceScore:    5,
		OverallScore:       5,
		Verdict:            "Inconclusive",
		Summary:            "Automated evaluation was unavailable for this session. Scores are neutral placeholders; retry the interview for a full assessment.",
		ImprovementTips:    []string{"Retake the interview to receive a complete evaluation."},
	}
}
