package llm

import "github.com/raphaelgruber/tablerag/internal/models"

// DefaultContextWindow is assumed for chat models with no entry in the
// window table.
const DefaultContextWindow = 8192

// contextWindows maps known chat model names to their context window in
// tokens.
var contextWindows = map[string]int{
	"llama3":                   8192,
	"llama3.1":                 131072,
	"gpt-4o":                   128000,
	"gpt-4o-mini":              128000,
	"gpt-3.5-turbo":            16385,
	"claude-3-5-haiku-latest":  200000,
	"claude-3-5-sonnet-latest": 200000,
}

// ContextWindow returns the context window size for a chat model.
func ContextWindow(model models.Model) int {
	if w, ok := contextWindows[model.Name]; ok {
		return w
	}
	return DefaultContextWindow
}

// EstimateTokens approximates the token count of text at four characters
// per token, rounding up. A coarse estimate is enough for trimming;
// exact tokenization is provider-specific.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// EstimatePromptTokens approximates the token footprint of a rendered
// prompt.
func EstimatePromptTokens(p models.RenderedPrompt) int {
	return EstimateTokens(p.SysRendered) + EstimateTokens(p.UserRendered)
}
