package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/raphaelgruber/tablerag/internal/models"
	"github.com/tmc/langchaingo/llms"
)

// ErrEmptyPrompt indicates a completion was requested with no rendered
// user prompt.
var ErrEmptyPrompt = errors.New("empty user prompt")

// Chat sends rendered prompts to a chat completion provider. One prompt
// in, one structured response out; provider errors surface with detail
// and are never retried here.
type Chat struct {
	llm   llms.Model
	model models.Model
}

// NewChat builds a chat client for a provider/model pair. An explicit
// apiKey overrides the configured provider default.
func NewChat(model models.Model, cfg ProviderConfig, apiKey string) (*Chat, error) {
	llm, err := newChatModel(model, cfg.Resolve(model.Provider, apiKey))
	if err != nil {
		return nil, err
	}
	return &Chat{llm: llm, model: model}, nil
}

// Model returns the chat model identifier.
func (c *Chat) Model() models.Model {
	return c.model
}

// CallChatCompletions sends a rendered prompt and returns the structured
// response.
func (c *Chat) CallChatCompletions(ctx context.Context, prompt models.RenderedPrompt) (*models.ChatResponse, error) {
	if prompt.UserRendered == "" {
		return nil, ErrEmptyPrompt
	}

	var messages []llms.MessageContent
	if prompt.SysRendered != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, prompt.SysRendered))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt.UserRendered))

	start := time.Now()
	resp, err := c.llm.GenerateContent(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("chat completion with %s: %w", c.model, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion with %s: no response choices", c.model)
	}
	choice := resp.Choices[0]

	slog.Debug("chat completion",
		"model", c.model.String(), "duration_ms", time.Since(start).Milliseconds())

	return &models.ChatResponse{
		ID:    uuid.NewString(),
		Model: c.model.String(),
		Text:  choice.Content,
		Usage: usageFromGenerationInfo(choice.GenerationInfo),
	}, nil
}

// Generate is the single-shot completion path with no system prompt and
// no retrieval context.
func (c *Chat) Generate(ctx context.Context, input string) (string, error) {
	resp, err := c.CallChatCompletions(ctx, models.RenderedPrompt{UserRendered: input})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// usageFromGenerationInfo extracts token accounting when the provider
// reports it. Key names and value types vary by provider.
func usageFromGenerationInfo(info map[string]any) *models.Usage {
	if info == nil {
		return nil
	}
	prompt, okP := intValue(info, "PromptTokens", "input_tokens")
	completion, okC := intValue(info, "CompletionTokens", "output_tokens")
	if !okP && !okC {
		return nil
	}
	return &models.Usage{PromptTokens: prompt, CompletionTokens: completion}
}

func intValue(info map[string]any, keys ...string) (int, bool) {
	for _, key := range keys {
		switch v := info[key].(type) {
		case int:
			return v, true
		case int64:
			return int(v), true
		case float64:
			return int(v), true
		}
	}
	return 0, false
}
