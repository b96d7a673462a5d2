package llm

import (
	"errors"
	"testing"

	"github.com/raphaelgruber/tablerag/internal/models"
)

func TestResolve_MergesAPIKey(t *testing.T) {
	base := ProviderConfig{OpenAIAPIKey: "default-openai", AnthropicAPIKey: "default-anthropic"}

	got := base.Resolve(models.ProviderOpenAI, "explicit")
	if got.OpenAIAPIKey != "explicit" {
		t.Errorf("openai key = %q, want explicit override", got.OpenAIAPIKey)
	}
	if got.AnthropicAPIKey != "default-anthropic" {
		t.Errorf("anthropic key changed unexpectedly: %q", got.AnthropicAPIKey)
	}

	got = base.Resolve(models.ProviderAnthropic, "")
	if got != base {
		t.Errorf("empty key should leave defaults untouched: %+v", got)
	}
}

func TestNewEmbedder_Validation(t *testing.T) {
	tests := []struct {
		name    string
		model   models.Model
		cfg     ProviderConfig
		wantErr error
	}{
		{
			name:    "anthropic has no embeddings",
			model:   models.Model{Provider: models.ProviderAnthropic, Name: "claude-3-5-haiku-latest"},
			wantErr: ErrEmbeddingsUnsupported,
		},
		{
			name:    "openai without key",
			model:   models.Model{Provider: models.ProviderOpenAI, Name: "text-embedding-3-small"},
			wantErr: ErrMissingAPIKey,
		},
		{
			name:    "unknown provider",
			model:   models.Model{Provider: "hf", Name: "x"},
			wantErr: models.ErrUnknownProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEmbedder(tt.model, tt.cfg, ""); !errors.Is(err, tt.wantErr) {
				t.Errorf("NewEmbedder() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewChat_RequiresKey(t *testing.T) {
	model := models.Model{Provider: models.ProviderAnthropic, Name: "claude-3-5-haiku-latest"}
	if _, err := NewChat(model, ProviderConfig{}, ""); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("NewChat() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestContextWindow(t *testing.T) {
	if got := ContextWindow(models.Model{Provider: models.ProviderOllama, Name: "llama3"}); got != 8192 {
		t.Errorf("ContextWindow(llama3) = %d, want 8192", got)
	}
	if got := ContextWindow(models.Model{Provider: models.ProviderOllama, Name: "mystery-model"}); got != DefaultContextWindow {
		t.Errorf("ContextWindow(unknown) = %d, want default %d", got, DefaultContextWindow)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"abc", 1},
		{"abcd", 1},
		{"abcde", 2},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestUsageFromGenerationInfo(t *testing.T) {
	if usage := usageFromGenerationInfo(nil); usage != nil {
		t.Errorf("nil info should yield nil usage, got %+v", usage)
	}
	if usage := usageFromGenerationInfo(map[string]any{"FinishReason": "stop"}); usage != nil {
		t.Errorf("info without token counts should yield nil usage, got %+v", usage)
	}

	usage := usageFromGenerationInfo(map[string]any{"PromptTokens": 12, "CompletionTokens": float64(34)})
	if usage == nil || usage.PromptTokens != 12 || usage.CompletionTokens != 34 {
		t.Errorf("usage = %+v, want 12/34", usage)
	}
}
