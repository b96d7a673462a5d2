package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/raphaelgruber/tablerag/internal/db"
	"github.com/raphaelgruber/tablerag/internal/models"
)

// fakeEmbedder returns canned vectors keyed by input text, with a
// fallback vector for unknown inputs (used for queries).
type fakeEmbedder struct {
	model    models.Model
	vectors  map[string][]float32
	fallback []float32
}

func (f *fakeEmbedder) Model() models.Model { return f.model }

func (f *fakeEmbedder) Encode(ctx context.Context, input string) ([]float32, error) {
	if input == "" {
		return nil, fmt.Errorf("empty input")
	}
	if v, ok := f.vectors[input]; ok {
		return v, nil
	}
	return f.fallback, nil
}

func (f *fakeEmbedder) Transform(ctx context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		v, err := f.Encode(ctx, in)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func fakeEmbedders(e *fakeEmbedder) EmbedderFactory {
	return func(model models.Model, apiKey string) (Embedder, error) {
		return e, nil
	}
}

// fakeChat echoes the rendered prompt back so tests can inspect what
// reached the provider.
type fakeChat struct {
	model    models.Model
	lastSent models.RenderedPrompt
	calls    int
}

func (f *fakeChat) Model() models.Model { return f.model }

func (f *fakeChat) CallChatCompletions(ctx context.Context, prompt models.RenderedPrompt) (*models.ChatResponse, error) {
	if prompt.UserRendered == "" {
		return nil, fmt.Errorf("empty user prompt")
	}
	f.lastSent = prompt
	f.calls++
	return &models.ChatResponse{
		ID:    "resp-1",
		Model: f.model.String(),
		Text:  "answer",
		Usage: &models.Usage{PromptTokens: 10, CompletionTokens: 5},
	}, nil
}

func fakeChats(c *fakeChat) ChatFactory {
	return func(model models.Model, apiKey string) (ChatClient, error) {
		c.model = model
		return c, nil
	}
}

func testDB(t *testing.T) *db.Client {
	t.Helper()
	client, err := db.Open(db.Config{Path: filepath.Join(t.TempDir(), "service.db")}, nil)
	if err != nil {
		t.Fatalf("db.Open() error = %v", err)
	}
	t.Cleanup(func() { client.Close() })
	if err := client.InitSchema(context.Background()); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}
	return client
}

func execSQL(t *testing.T, client *db.Client, stmts ...string) {
	t.Helper()
	for _, s := range stmts {
		if err := client.Exec(context.Background(), s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
}
