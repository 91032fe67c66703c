package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/vidyamithra/backend/internal/application/service"
)

// ChatProvider is one upstream chat-completion API in the failover chain.
type ChatProvider interface {
	Name() string
	Complete(ctx context.Context, model string, messages []service.Message, systemPrompt string) (string, error)
}

// openAICompatProvider drives any OpenAI-compatible chat endpoint. Groq,
// OpenAI, and Gemini's compatibility endpoint all speak this protocol, so
// one adapter covers the whole chain.
type openAICompatProvider struct {
	name    string
	client  *openai.Client
	timeout time.Duration
}

// NewOpenAICompatProvider builds a provider against the given base URL. An
// empty baseURL uses the library default (api.openai.com).
func NewOpenAICompatProvider(name, apiKey, baseURL string, timeout time.Duration) ChatProvider {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	return &openAICompatProvider{
		name:    name,
		client:  openai.NewClientWithConfig(clientCfg),
		timeout: timeout,
	}
}

func (p *openAICompatProvider) Name() string {
	return p.name
}

func (p *openAICompatProvider) Complete(ctx context.Context, model string, messages []service.Message, systemPrompt string) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if systemPrompt != "" {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	for _, m := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    chatMessages,
		Temperature: 0.7,
		MaxTokens:   4096,
	})
	if err != nil {
		return "", fmt.Errorf("%s chat completion request failed: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s returned no chat choices", p.name)
	}

	return resp.Choices[0].Message.Content, nil
}
