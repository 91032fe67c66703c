package ai

import (
	"context"

	"go.uber.org/zap"

	"github.com/vidyamithra/backend/internal/application/service"
	"github.com/vidyamithra/backend/internal/config"
	"github.com/vidyamithra/backend/pkg/logger"
)

// attempt is one step in the failover chain: a provider paired with the
// model name to request from it.
type attempt struct {
	provider ChatProvider
	model    string
}

// Gateway fronts the LLM providers behind one Complete call. Providers have
// independent outage and quota profiles, so a failure in one never aborts
// the chain; when every upstream fails the deterministic mock answers, so a
// completion is always produced even with zero configured credentials.
type Gateway struct {
	attempts []attempt
	log      logger.Logger
}

var _ service.CompletionService = (*Gateway)(nil)

// NewGateway wires the chain from configuration: Groq primary (with an
// in-provider fallback model), then OpenAI, then Gemini. Providers without
// an API key are skipped.
func NewGateway(cfg config.Config, log logger.Logger) *Gateway {
	var providers []ChatProvider
	var models [][]string

	if cfg.AI.Groq.APIKey != "" {
		providers = append(providers, NewOpenAICompatProvider("groq", cfg.AI.Groq.APIKey, cfg.AI.Groq.BaseURL, cfg.AI.Groq.Timeout))
		models = append(models, []string{cfg.AI.Groq.Model, cfg.AI.Groq.FallbackModel})
	}
	if cfg.AI.OpenAI.APIKey != "" {
		providers = append(providers, NewOpenAICompatProvider("openai", cfg.AI.OpenAI.APIKey, cfg.AI.OpenAI.BaseURL, cfg.AI.OpenAI.Timeout))
		models = append(models, []string{cfg.AI.OpenAI.Model})
	}
	if cfg.AI.Gemini.APIKey != "" {
		providers = append(providers, NewOpenAICompatProvider("gemini", cfg.AI.Gemini.APIKey, cfg.AI.Gemini.BaseURL, cfg.AI.Gemini.Timeout))
		models = append(models, []string{cfg.AI.Gemini.Model})
	}

	gw := &Gateway{attempts: failoverOrder(providers, models), log: log}
	log.Info("AI completion gateway initialized", zap.Int("chain_length", len(gw.attempts)))
	return gw
}

// NewGatewayWithChain builds a gateway over an explicit provider/model
// chain. Used by tests and anywhere the config-driven wiring is unwanted.
func NewGatewayWithChain(providers []ChatProvider, models [][]string, log logger.Logger) *Gateway {
	return &Gateway{attempts: failoverOrder(providers, models), log: log}
}

// failoverOrder flattens providers and their model lists into the total,
// fixed attempt order. Pure function: same inputs, same chain.
func failoverOrder(providers []ChatProvider, models [][]string) []attempt {
	var out []attempt
	for i, p := range providers {
		if i >= len(models) {
			break
		}
		for _, m := range models[i] {
			if m == "" {
				continue
			}
			out = append(out, attempt{provider: p, model: m})
		}
	}
	return out
}

// Complete walks the failover chain in order. Each provider/model pair is
// attempted at most once; failures are logged with the originating error
// and the chain moves on. Never returns an empty string.
func (g *Gateway) Complete(ctx context.Context, req service.CompletionRequest) string {
	for _, att := range g.attempts {
		text, err := att.provider.Complete(ctx, att.model, req.Messages, req.SystemPrompt)
		if err != nil {
			g.log.Error("AI provider attempt failed, failing over", err,
				zap.String("provider", att.provider.Name()),
				zap.String("model", att.model),
			)
			continue
		}
		if text != "" {
			return text
		}
		g.log.Warn("AI provider returned empty completion, failing over",
			zap.String("provider", att.provider.Name()),
			zap.String("model", att.model),
		)
	}

	g.log.Warn("All AI providers failed or none configured, using mock fallback",
		zap.String("kind", string(req.Kind)),
	)
	return MockResponse(req)
}
