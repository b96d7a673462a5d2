package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/raphaelgruber/tablerag/internal/config"
	"github.com/raphaelgruber/tablerag/internal/prompt"
	"github.com/raphaelgruber/tablerag/internal/service"
)

// RAGInput defines the input schema for the rag tool.
type RAGInput struct {
	AgentName  string `json:"agent_name" jsonschema:"required,Name of the registered agent corpus"`
	Query      string `json:"query" jsonschema:"required,The question to answer"`
	ChatModel  string `json:"chat_model,omitempty" jsonschema:"Chat model as provider/model-name, default from config"`
	Task       string `json:"task,omitempty" jsonschema:"Prompt task template, default question_answer"`
	NumContext int    `json:"num_context,omitempty" jsonschema:"Context rows to retrieve, default 2"`
	ForceTrim  bool   `json:"force_trim,omitempty" jsonschema:"Drop context rows until the prompt fits the model window"`
}

// NewRAGHandler creates the rag tool handler.
func NewRAGHandler(deps *Dependencies, cfg *config.Config) mcp.ToolHandlerFor[RAGInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RAGInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.AgentName == "" {
			return ErrorResult("Agent name cannot be empty", "Use list_jobs to see registered agents"), nil, nil
		}
		if input.Query == "" {
			return ErrorResult("Query cannot be empty", "Provide a question"), nil, nil
		}

		chatModel := input.ChatModel
		if chatModel == "" {
			chatModel = cfg.ChatModel
		}
		task := input.Task
		if task == "" {
			task = prompt.TaskQuestionAnswer
		}
		numContext := input.NumContext
		if numContext <= 0 {
			numContext = 2
		}

		resp, err := deps.RAG.Ask(ctx, service.RAGRequest{
			AgentName:  input.AgentName,
			Query:      input.Query,
			ChatModel:  chatModel,
			Task:       task,
			NumContext: numContext,
			ForceTrim:  input.ForceTrim,
		})
		if err != nil {
			deps.Logger.Error("rag failed", "agent", input.AgentName, "error", err)
			return ErrorResult("RAG failed: "+err.Error(), "Check the agent name and chat model"), nil, nil
		}

		deps.Logger.Info("rag completed", "agent", input.AgentName, "context_rows", len(resp.Context))
		return TextResult(resp.Text), nil, nil
	}
}
