package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidyamithra/backend/internal/application/service"
	"github.com/vidyamithra/backend/internal/domain/roadmap"
	"github.com/vidyamithra/backend/pkg/jsonext"
	"github.com/vidyamithra/backend/pkg/logger"
)

type stubProvider struct {
	name  string
	text  string
	err   error
	calls []string
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Complete(_ context.Context, model string, _ []service.Message, _ string) (string, error) {
	p.calls = append(p.calls, model)
	return p.text, p.err
}

func chatRequest() service.CompletionRequest {
	return service.CompletionRequest{
		Messages: []service.Message{{Role: service.RoleUser, Content: "hello"}},
		Kind:     service.KindChat,
	}
}

func TestGateway_FirstHealthyProviderWins(t *testing.T) {
	primary := &stubProvider{name: "groq", text: "primary answer"}
	secondary := &stubProvider{name: "openai", text: "secondary answer"}
	gw := NewGatewayWithChain(
		[]ChatProvider{primary, secondary},
		[][]string{{"llama-3.3-70b-versatile"}, {"gpt-4o-mini"}},
		logger.NewNop(),
	)

	got := gw.Complete(context.Background(), chatRequest())

	assert.Equal(t, "primary answer", got)
	assert.Empty(t, secondary.calls, "chain must stop at the first success")
}

func TestGateway_FailsOverPastErrors(t *testing.T) {
	down := &stubProvider{name: "groq", err: errors.New("rate limited")}
	up := &stubProvider{name: "openai", text: "recovered"}
	gw := NewGatewayWithChain(
		[]ChatProvider{down, up},
		[][]string{{"llama-3.3-70b-versatile", "llama-3.1-8b-instant"}, {"gpt-4o-mini"}},
		logger.NewNop(),
	)

	got := gw.Complete(context.Background(), chatRequest())

	assert.Equal(t, "recovered", got)
	// Both Groq models are tried before moving to the next provider.
	assert.Equal(t, []string{"llama-3.3-70b-versatile", "llama-3.1-8b-instant"}, down.calls)
}

func TestGateway_EmptyCompletionTriggersFailover(t *testing.T) {
	empty := &stubProvider{name: "groq", text: ""}
	up := &stubProvider{name: "openai", text: "non-empty"}
	gw := NewGatewayWithChain(
		[]ChatProvider{empty, up},
		[][]string{{"m1"}, {"m2"}},
		logger.NewNop(),
	)

	assert.Equal(t, "non-empty", gw.Complete(context.Background(), chatRequest()))
}

func TestGateway_AllProvidersDownFallsBackToMock(t *testing.T) {
	down := &stubProvider{name: "groq", err: errors.New("connection refused")}
	gw := NewGatewayWithChain([]ChatProvider{down}, [][]string{{"m1"}}, logger.NewNop())

	req := chatRequest()
	req.Kind = service.KindRoadmap
	got := gw.Complete(context.Background(), req)

	require.NotEmpty(t, got)
	var doc roadmap.Document
	require.NoError(t, jsonext.ExtractInto(got, &doc))
	assert.NoError(t, doc.Validate(), "mock roadmap must satisfy the generated shape")
}

func TestGateway_NoProvidersConfigured(t *testing.T) {
	gw := NewGatewayWithChain(nil, nil, logger.NewNop())

	for _, kind := range []service.ResponseKind{
		service.KindRoadmap,
		service.KindQuiz,
		service.KindResumeAnalysis,
		service.KindInterviewQuestion,
		service.KindInterviewAnalysis,
		service.KindLearningResources,
		service.KindOpportunities,
		service.KindChat,
	} {
		req := chatRequest()
		req.Kind = kind
		assert.NotEmpty(t, gw.Complete(context.Background(), req), "kind %s", kind)
	}
}

func TestFailoverOrder(t *testing.T) {
	a := &stubProvider{name: "a"}
	b := &stubProvider{name: "b"}

	chain := failoverOrder([]ChatProvider{a, b}, [][]string{{"m1", ""}, {"m2"}})

	require.Len(t, chain, 2, "empty model names are skipped")
	assert.Equal(t, "m1", chain[0].model)
	assert.Equal(t, "m2", chain[1].model)
}

func TestMockQuizShape(t *testing.T) {
	req := chatRequest()
	req.Kind = service.KindQuiz
	raw := MockResponse(req)

	var payload struct {
		Questions []struct {
			ID      int      `json:"id"`
			Options []string `json:"options"`
			Correct int      `json:"correct"`
		} `json:"questions"`
	}
	require.NoError(t, jsonext.ExtractInto(raw, &payload))
	require.NotEmpty(t, payload.Questions)
	for _, q := range payload.Questions {
		assert.Len(t, q.Options, 4)
		assert.GreaterOrEqual(t, q.Correct, 0)
		assert.Less(t, q.Correct, len(q.Options))
	}
}

func TestMockResumeAnalysisShape(t *testing.T) {
	req := chatRequest()
	req.Kind = service.KindResumeAnalysis
	raw := MockResponse(req)

	var analysis struct {
		ATSScore        float64  `json:"ats_score"`
		Strengths       []string `json:"strengths"`
		Weaknesses      []string `json:"weaknesses"`
		MissingKeywords []string `json:"missing_keywords"`
		Suggestions     []string `json:"improvement_suggestions"`
		Summary         string   `json:"summary"`
	}
	require.NoError(t, jsonext.ExtractInto(raw, &analysis))

	// The outage diagnostics must land in the fields the caller reads.
	assert.Zero(t, analysis.ATSScore)
	assert.NotEmpty(t, analysis.MissingKeywords)
	assert.NotEmpty(t, analysis.Suggestions)
	assert.Contains(t, analysis.Summary, "unavailable")
}

func TestMockOpportunitiesShape(t *testing.T) {
	req := chatRequest()
	req.Kind = service.KindOpportunities
	raw := MockResponse(req)

	var payload struct {
		Opportunities []struct {
			Title  string `json:"title"`
			Source string `json:"source"`
		} `json:"opportunities"`
	}
	require.NoError(t, jsonext.ExtractInto(raw, &payload))
	require.NotEmpty(t, payload.Opportunities)
	for _, o := range payload.Opportunities {
		assert.NotEmpty(t, o.Title)
		assert.NotEmpty(t, o.Source)
	}
}
