package service

import "context"

// Role values for chat messages, matching the providers' wire format.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseKind declares what shape of response the caller expects. The
// gateway's mock fallback keys off this instead of sniffing prompt text, so
// a misworded prompt can never misclassify the degraded response.
type ResponseKind string

const (
	KindRoadmap           ResponseKind = "roadmap"
	KindQuiz              ResponseKind = "quiz"
	KindResumeAnalysis    ResponseKind = "resume_analysis"
	KindInterviewQuestion ResponseKind = "interview_question"
	KindInterviewAnalysis ResponseKind = "interview_analysis"
	KindLearningResources ResponseKind = "learning_resources"
	KindOpportunities     ResponseKind = "opportunities"
	KindChat              ResponseKind = "chat"
)

type CompletionRequest struct {
	Messages     []Message
	SystemPrompt string
	Kind         ResponseKind
}

// CompletionService produces a chat completion. Implementations must always
// return a non-empty string: provider failures are recovered internally and
// the last resort is a deterministic canned response, never an error.
type CompletionService interface {
	Complete(ctx context.Context, req CompletionRequest) string
}
