package models

// SearchResult is one ranked document from a vector search: the
// similarity score (sign convention per IndexDist) plus a projection of
// the requested columns.
type SearchResult struct {
	Score   float64        `json:"similarity_score"`
	Columns map[string]any `json:"columns"`
}

// RenderedPrompt holds a prompt template rendered with retrieved context
// and the user query. UserRendered must be non-empty for a valid
// completion request.
type RenderedPrompt struct {
	SysRendered  string `json:"sys_rendered"`
	UserRendered string `json:"user_rendered"`
}

// Usage reports provider token accounting when available.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// ChatResponse is a structured chat completion: the generated text plus
// provider metadata.
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Context []string `json:"context,omitempty"`
	Text    string   `json:"chat_response"`
	Usage   *Usage   `json:"usage,omitempty"`
}
