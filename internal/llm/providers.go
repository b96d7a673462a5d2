// Package llm provides embedding and chat completion clients over
// langchaingo, resolved per request from a provider/model identifier.
package llm

import (
	"errors"
	"fmt"

	"github.com/raphaelgruber/tablerag/internal/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Sentinel errors for provider calls.
var (
	// ErrEmptyEmbedding indicates a provider returned zero vectors for a
	// transform request.
	ErrEmptyEmbedding = errors.New("provider returned no embedding")

	// ErrEmptyInput indicates an embedding was requested for empty text.
	ErrEmptyInput = errors.New("empty input")

	// ErrEmbeddingsUnsupported indicates the provider has no embedding
	// endpoint.
	ErrEmbeddingsUnsupported = errors.New("provider does not support embeddings")

	// ErrMissingAPIKey indicates the provider requires a key and none was
	// given or configured.
	ErrMissingAPIKey = errors.New("API key required")
)

// ProviderConfig carries the endpoint and credential defaults for every
// provider. An explicit per-call API key is merged over these defaults
// with Resolve.
type ProviderConfig struct {
	OllamaHost      string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	AnthropicAPIKey string
}

// Resolve returns a copy of the config with apiKey, when non-empty,
// overriding the stored key for the given provider.
func (c ProviderConfig) Resolve(provider models.Provider, apiKey string) ProviderConfig {
	if apiKey == "" {
		return c
	}
	switch provider {
	case models.ProviderOpenAI:
		c.OpenAIAPIKey = apiKey
	case models.ProviderAnthropic:
		c.AnthropicAPIKey = apiKey
	}
	return c
}

// newChatModel builds the langchaingo chat model for a provider/model pair.
func newChatModel(model models.Model, cfg ProviderConfig) (llms.Model, error) {
	switch model.Provider {
	case models.ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(model.Name)}
		if cfg.OllamaHost != "" {
			opts = append(opts, ollama.WithServerURL(cfg.OllamaHost))
		}
		llm, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}
		return llm, nil

	case models.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: openai", ErrMissingAPIKey)
		}
		opts := []openai.Option{openai.WithToken(cfg.OpenAIAPIKey), openai.WithModel(model.Name)}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}
		return llm, nil

	case models.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("%w: anthropic", ErrMissingAPIKey)
		}
		llm, err := anthropic.New(anthropic.WithToken(cfg.AnthropicAPIKey), anthropic.WithModel(model.Name))
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}
		return llm, nil
	}
	return nil, fmt.Errorf("%w: %q", models.ErrUnknownProvider, model.Provider)
}
