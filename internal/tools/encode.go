package tools

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/raphaelgruber/tablerag/internal/config"
)

// EncodeInput defines the input schema for the encode tool.
type EncodeInput struct {
	Input string `json:"input" jsonschema:"required,Text to embed"`
	Model string `json:"model,omitempty" jsonschema:"Embedding model as provider/model-name, default from config"`
}

// NewEncodeHandler creates the encode tool handler.
func NewEncodeHandler(deps *Dependencies, cfg *config.Config) mcp.ToolHandlerFor[EncodeInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input EncodeInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.Input == "" {
			return ErrorResult("Input cannot be empty", "Provide a text to embed"), nil, nil
		}

		model := input.Model
		if model == "" {
			model = cfg.EmbeddingModel
		}

		vec, err := deps.Transformer.Encode(ctx, input.Input, model, "")
		if err != nil {
			deps.Logger.Error("encode failed", "model", model, "error", err)
			return ErrorResult("Encode failed: "+err.Error(), "Check the model name and provider connection"), nil, nil
		}

		jsonBytes, _ := json.Marshal(vec)
		return TextResult(string(jsonBytes)), nil, nil
	}
}
