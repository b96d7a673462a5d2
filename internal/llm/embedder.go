package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/raphaelgruber/tablerag/internal/models"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder turns text into embedding vectors with one model. Dimension
// is fixed by the model; no retries are performed here.
type Embedder struct {
	embedder embeddings.Embedder
	model    models.Model
}

// NewEmbedder builds an embedder for a provider/model pair. An explicit
// apiKey overrides the configured provider default. Anthropic exposes no
// embedding endpoint and is rejected.
func NewEmbedder(model models.Model, cfg ProviderConfig, apiKey string) (*Embedder, error) {
	cfg = cfg.Resolve(model.Provider, apiKey)

	var client embeddings.EmbedderClient
	switch model.Provider {
	case models.ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(model.Name)}
		if cfg.OllamaHost != "" {
			opts = append(opts, ollama.WithServerURL(cfg.OllamaHost))
		}
		llm, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}
		client = llm

	case models.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: openai", ErrMissingAPIKey)
		}
		opts := []openai.Option{openai.WithToken(cfg.OpenAIAPIKey), openai.WithEmbeddingModel(model.Name)}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create openai client: %w", err)
		}
		client = llm

	case models.ProviderAnthropic:
		return nil, fmt.Errorf("%w: anthropic", ErrEmbeddingsUnsupported)

	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownProvider, model.Provider)
	}

	embedder, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	return &Embedder{embedder: embedder, model: model}, nil
}

// Model returns the embedding model identifier.
func (e *Embedder) Model() models.Model {
	return e.model
}

// Transform embeds a batch of texts, one vector per input.
func (e *Embedder) Transform(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}

	start := time.Now()
	vectors, err := e.embedder.EmbedDocuments(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("transform with %s: %w", e.model, err)
	}
	if len(vectors) != len(inputs) {
		return nil, fmt.Errorf("transform with %s: got %d vectors for %d inputs", e.model, len(vectors), len(inputs))
	}

	slog.Debug("transformed embeddings",
		"model", e.model.String(), "inputs", len(inputs), "duration_ms", time.Since(start).Milliseconds())
	return vectors, nil
}

// Encode embeds a single input and requires the provider to return
// exactly one vector. Empty input and empty provider responses fail
// rather than substituting a default.
func (e *Embedder) Encode(ctx context.Context, input string) ([]float32, error) {
	if input == "" {
		return nil, ErrEmptyInput
	}

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{input})
	if err != nil {
		return nil, fmt.Errorf("encode with %s: %w", e.model, err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyEmbedding, e.model)
	}
	return vectors[0], nil
}
