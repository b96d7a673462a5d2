package models

import (
	"errors"
	"testing"
)

func TestParseModel(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		want       Model
		wantErr    error
	}{
		{
			name:       "ollama embedding model",
			identifier: "ollama/nomic-embed-text",
			want:       Model{Provider: ProviderOllama, Name: "nomic-embed-text"},
		},
		{
			name:       "openai chat model",
			identifier: "openai/gpt-4o-mini",
			want:       Model{Provider: ProviderOpenAI, Name: "gpt-4o-mini"},
		},
		{
			name:       "model name containing slashes",
			identifier: "ollama/library/llama3",
			want:       Model{Provider: ProviderOllama, Name: "library/llama3"},
		},
		{
			name:       "unknown provider",
			identifier: "sentence-transformers/all-MiniLM-L6-v2",
			wantErr:    ErrUnknownProvider,
		},
		{
			name:       "missing separator",
			identifier: "llama3",
			wantErr:    ErrInvalidModel,
		},
		{
			name:       "empty name",
			identifier: "ollama/",
			wantErr:    ErrInvalidModel,
		},
		{
			name:       "empty identifier",
			identifier: "",
			wantErr:    ErrInvalidModel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModel(tt.identifier)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseModel(%q) error = %v, want %v", tt.identifier, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseModel(%q) error = %v", tt.identifier, err)
			}
			if got != tt.want {
				t.Errorf("ParseModel(%q) = %+v, want %+v", tt.identifier, got, tt.want)
			}
		})
	}
}

func TestModelString_RoundTrip(t *testing.T) {
	const id = "anthropic/claude-3-5-haiku-latest"
	m, err := ParseModel(id)
	if err != nil {
		t.Fatalf("ParseModel() error = %v", err)
	}
	if m.String() != id {
		t.Errorf("String() = %q, want %q", m.String(), id)
	}
}
