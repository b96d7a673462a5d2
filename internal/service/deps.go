// Package service provides the orchestration layer: table provisioning,
// job registration, vector search, and the RAG flow.
package service

import (
	"context"

	"github.com/raphaelgruber/tablerag/internal/models"
)

// Embedder is the transform collaborator: one model, text in, vectors out.
type Embedder interface {
	Model() models.Model
	Transform(ctx context.Context, inputs []string) ([][]float32, error)
	Encode(ctx context.Context, input string) ([]float32, error)
}

// ChatClient is the chat completion collaborator.
type ChatClient interface {
	Model() models.Model
	CallChatCompletions(ctx context.Context, prompt models.RenderedPrompt) (*models.ChatResponse, error)
}

// EmbedderFactory builds an embedder for a model, with an optional
// per-call API key merged over provider defaults.
type EmbedderFactory func(model models.Model, apiKey string) (Embedder, error)

// ChatFactory builds a chat client for a model, with an optional
// per-call API key merged over provider defaults.
type ChatFactory func(model models.Model, apiKey string) (ChatClient, error)
