// Package models defines data structures for the tablerag indexing core.
package models

import (
	"fmt"
	"strings"
)

// Provider identifies an embedding or chat completion backend.
type Provider string

const (
	// ProviderOllama reaches a local Ollama server.
	ProviderOllama Provider = "ollama"

	// ProviderOpenAI reaches the OpenAI API (or a compatible endpoint).
	ProviderOpenAI Provider = "openai"

	// ProviderAnthropic reaches the Anthropic API. Chat only; Anthropic
	// exposes no embedding endpoint.
	ProviderAnthropic Provider = "anthropic"
)

// KnownProviders lists every provider this build can resolve.
var KnownProviders = []Provider{ProviderOllama, ProviderOpenAI, ProviderAnthropic}

// Model is a provider/model-name pair, parsed from an identifier string
// such as "ollama/nomic-embed-text" or "openai/gpt-4o-mini".
type Model struct {
	Provider Provider
	Name     string
}

// ParseModel parses a "<provider>/<model-name>" identifier. The first
// slash splits provider from name, so model names may themselves contain
// slashes. The provider must be one of KnownProviders.
func ParseModel(identifier string) (Model, error) {
	provider, name, ok := strings.Cut(identifier, "/")
	if !ok || provider == "" || name == "" {
		return Model{}, fmt.Errorf("%w: %q (want \"<provider>/<model-name>\")", ErrInvalidModel, identifier)
	}

	p := Provider(provider)
	for _, known := range KnownProviders {
		if p == known {
			return Model{Provider: p, Name: name}, nil
		}
	}
	return Model{}, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
}

// String returns the canonical "<provider>/<model-name>" form.
func (m Model) String() string {
	return string(m.Provider) + "/" + m.Name
}
