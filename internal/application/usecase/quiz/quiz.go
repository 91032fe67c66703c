package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vidyamithra/backend/adapters/event"
	"github.com/vidyamithra/backend/internal/application/service"
	domain "github.com/vidyamithra/backend/internal/domain/quiz"
	"github.com/vidyamithra/backend/internal/domain/roadmap"
	"github.com/vidyamithra/backend/pkg/apperror"
	"github.com/vidyamithra/backend/pkg/jsonext"
	"github.com/vidyamithra/backend/pkg/logger"
)

var tracer = otel.Tracer("quiz_usecase")

const (
	defaultQuestionCount = 10
	maxQuestionCount     = 30
	answerKeyTTL         = 2 * time.Hour
)

type QuizUseCase struct {
	ai          service.CompletionService
	repo        domain.Repository
	roadmapRepo roadmap.Repository
	keys        domain.KeyStore
	events      *event.KafkaProducerClient
	logger      logger.Logger
}

func NewQuizUseCase(
	ai service.CompletionService,
	repo domain.Repository,
	roadmapRepo roadmap.Repository,
	keys domain.KeyStore,
	events *event.KafkaProducerClient,
	log logger.Logger,
) *QuizUseCase {
	return &QuizUseCase{ai: ai, repo: repo, roadmapRepo: roadmapRepo, keys: keys, events: events, logger: log}
}

// GeneratedQuiz is a quiz ready to be served. Questions still carry the
// correct markers; the HTTP layer decides what to expose to the client.
type GeneratedQuiz struct {
	QuizID        string            `json:"quiz_id"`
	SkillID       string            `json:"skill_id"`
	SkillName     string            `json:"skill_name"`
	Level         roadmap.LevelName `json:"level"`
	PassThreshold int               `json:"pass_threshold"`
	Questions     []domain.Question `json:"questions"`
}

const quizSystemPrompt = "You are an expert technical interviewer and quiz designer. " +
	"You write precise multiple-choice questions that test real understanding, not trivia."

// GenerateSkillQuiz produces a quiz for one roadmap skill. The answer key is
// stashed server-side under the returned quiz id for later grading.
func (uc *QuizUseCase) GenerateSkillQuiz(
	ctx context.Context,
	skillID, skillName string,
	level roadmap.LevelName,
	count int,
) (*GeneratedQuiz, error) {
	ctx, span := tracer.Start(ctx, "GenerateSkillQuiz")
	defer span.End()
	span.SetAttributes(attribute.String("skill", skillName), attribute.String("level", string(level)))

	if strings.TrimSpace(skillName) == "" {
		return nil, apperror.NewInvalidInput("skill name is required", nil)
	}
	if count <= 0 {
		count = defaultQuestionCount
	}
	if count > maxQuestionCount {
		count = maxQuestionCount
	}

	response := uc.ai.Complete(ctx, service.CompletionRequest{
		Messages:     []service.Message{{Role: service.RoleUser, Content: buildQuizPrompt(skillName, level, count)}},
		SystemPrompt: quizSystemPrompt,
		Kind:         service.KindQuiz,
	})

	var payload struct {
		Questions []domain.Question `json:"questions"`
	}
	if err := jsonext.ExtractInto(response, &payload); err != nil {
		// A bare array is also accepted.
		if arrErr := jsonext.ExtractInto(response, &payload.Questions); arrErr != nil {
			span.RecordError(err)
			return nil, apperror.NewInvalidInput("AI returned invalid quiz JSON", err)
		}
	}

	questions := sanitizeQuestions(payload.Questions)
	if len(questions) == 0 {
		return nil, apperror.NewInvalidInput("AI returned no usable questions", nil)
	}

	quiz := &GeneratedQuiz{
		QuizID:        uuid.New().String(),
		SkillID:       skillID,
		SkillName:     skillName,
		Level:         level,
		PassThreshold: roadmap.ThresholdFor(level),
		Questions:     questions,
	}

	key := make(map[int]int, len(questions))
	for _, q := range questions {
		key[q.ID] = q.Correct
	}
	if err := uc.keys.Put(ctx, quiz.QuizID, key, answerKeyTTL); err != nil {
		// Grading falls back to client-echoed markers, so generation is not
		// blocked on the key store.
		uc.logger.Warn("Failed to store quiz answer key", zap.Error(err), zap.String("quiz_id", quiz.QuizID))
	}

	uc.logger.Info("Quiz generated",
		zap.String("quiz_id", quiz.QuizID),
		zap.String("skill", skillName),
		zap.Int("questions", len(questions)))
	return quiz, nil
}

// sanitizeQuestions drops items that cannot be graded and renumbers ids
// sequentially so the answer key is unambiguous. Questions need the full
// four options the prompt asks for.
func sanitizeQuestions(in []domain.Question) []domain.Question {
	out := make([]domain.Question, 0, len(in))
	for _, q := range in {
		if strings.TrimSpace(q.Question) == "" || len(q.Options) < 4 {
			continue
		}
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			continue
		}
		q.ID = len(out) + 1
		out = append(out, q)
	}
	return out
}

type SubmitInput struct {
	UserID    uuid.UUID
	QuizID    string
	RoadmapID *uuid.UUID
	SkillID   string
	SkillName string
	Level     roadmap.LevelName
	Answers   []domain.Answer
}

type SubmitResult struct {
	Attempt       *domain.Attempt `json:"attempt"`
	SkillUnlocked bool            `json:"skill_unlocked"`
	Unlocked      []string        `json:"unlocked_skills"`
}

// Submit grades a quiz, records the attempt, and on a pass marks the skill
// completed on the user's roadmap. Propagation failure never fails the
// submission; SkillUnlocked reports whether the roadmap write went through.
func (uc *QuizUseCase) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	ctx, span := tracer.Start(ctx, "SubmitQuiz")
	defer span.End()
	span.SetAttributes(attribute.String("skill_id", input.SkillID))

	answerKey, err := uc.keys.Get(ctx, input.QuizID)
	if err != nil {
		uc.logger.Warn("Answer key lookup failed, grading from client markers",
			zap.Error(err), zap.String("quiz_id", input.QuizID))
		answerKey = nil
	}

	score, correct, passed, err := domain.Grade(input.Answers, answerKey, input.Level)
	if err != nil {
		if errors.Is(err, domain.ErrNoAnswers) {
			return nil, apperror.NewInvalidInput("no answers submitted", err)
		}
		return nil, apperror.NewInternal("failed to grade quiz", err)
	}

	attempt := &domain.Attempt{
		ID:             uuid.New(),
		UserID:         input.UserID,
		RoadmapID:      input.RoadmapID,
		SkillID:        input.SkillID,
		SkillName:      input.SkillName,
		Level:          input.Level,
		Score:          score,
		Passed:         passed,
		TotalQuestions: len(input.Answers),
		CorrectAnswers: correct,
		Answers:        input.Answers,
		AttemptedAt:    time.Now().UTC(),
	}
	if err := uc.repo.Save(ctx, attempt); err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to record quiz attempt", err)
	}

	result := &SubmitResult{Attempt: attempt}
	if passed && input.RoadmapID != nil && input.SkillID != "" {
		result.SkillUnlocked, result.Unlocked = uc.completeSkill(ctx, input.UserID, *input.RoadmapID, input.SkillID)
	}

	if uc.events != nil {
		payload := event.QuizEventPayload{
			UserID:    input.UserID,
			SkillID:   input.SkillID,
			Level:     string(input.Level),
			Score:     score,
			Passed:    passed,
			Timestamp: attempt.AttemptedAt,
		}
		if err := uc.events.PublishQuizGraded(ctx, payload); err != nil {
			uc.logger.Warn("Failed to publish quiz event", zap.Error(err))
		}
	}

	uc.logger.Info("Quiz graded",
		zap.String("attempt_id", attempt.ID.String()),
		zap.Float64("score", score),
		zap.Bool("passed", passed),
		zap.Bool("skill_unlocked", result.SkillUnlocked))
	return result, nil
}

// completeSkill marks the skill completed and propagates unlocks. Errors are
// logged, not returned: the attempt record is already durable and the skill
// can be reconciled later via the sync endpoint.
func (uc *QuizUseCase) completeSkill(ctx context.Context, userID, roadmapID uuid.UUID, skillID string) (bool, []string) {
	rm, err := uc.roadmapRepo.FindByID(ctx, roadmapID, userID)
	if err != nil {
		uc.logger.Warn("Skill unlock skipped: roadmap unavailable",
			zap.Error(err), zap.String("roadmap_id", roadmapID.String()))
		return false, nil
	}
	unlocked, err := rm.Data.UpdateSkillStatus(skillID, roadmap.StatusCompleted)
	if err != nil {
		uc.logger.Warn("Skill unlock skipped", zap.Error(err), zap.String("skill_id", skillID))
		return false, nil
	}
	if err := uc.roadmapRepo.UpdateData(ctx, rm); err != nil {
		uc.logger.Error("Failed to persist skill unlock", err)
		return false, nil
	}
	return true, unlocked
}

// History lists the user's attempts, optionally filtered to one skill.
func (uc *QuizUseCase) History(ctx context.Context, userID uuid.UUID, skillID string) ([]*domain.Attempt, error) {
	attempts, err := uc.repo.ListByUser(ctx, userID, skillID)
	if err != nil {
		return nil, apperror.NewInternal("failed to load quiz history", err)
	}
	return attempts, nil
}

func buildQuizPrompt(skillName string, level roadmap.LevelName, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a %d-question multiple-choice quiz on %q at %s level.\n\n", count, skillName, level)
	b.WriteString("Difficulty calibration:\n")
	b.WriteString("- Beginner: fundamentals, definitions, basic usage\n")
	b.WriteString("- Intermediate: applied scenarios, common pitfalls, comparisons\n")
	b.WriteString("- Advanced: edge cases, internals, performance and design trade-offs\n\n")
	b.WriteString("Each question must have exactly 4 options and exactly one correct answer.\n")
	b.WriteString("Return ONLY valid JSON in this exact format:\n")
	b.WriteString(`{"questions": [{"id": 1, "question": "...", "options": ["A", "B", "C", "D"], "correct": 0, "explanation": "why the answer is correct"}]}`)
	b.WriteString("\n\n\"correct\" is the zero-based index into \"options\".\n")
	b.WriteString("IMPORTANT: Return ONLY valid JSON. No markdown, no conversational text.")
	return b.String()
}
