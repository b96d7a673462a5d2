package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/raphaelgruber/tablerag/internal/config"
)

// RegisterAll registers all tools with the MCP server.
// This is called from main after server creation but before Run().
func RegisterAll(server *mcp.Server, deps *Dependencies, cfg *config.Config) {
	// Ping tool - test/placeholder
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ping",
		Description: "Test tool - responds with pong or echoes input",
	}, NewPingHandler(deps))

	// Vector search over a registered job
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search",
		Description: "Vector search a registered job's rows, returning ranked matches as JSON",
	}, NewSearchHandler(deps))

	// Retrieval-augmented answer from an agent's corpus
	mcp.AddTool(server, &mcp.Tool{
		Name:        "rag",
		Description: "Answer a question from an agent's corpus using retrieval-augmented generation",
	}, NewRAGHandler(deps, cfg))

	// Embed a single text
	mcp.AddTool(server, &mcp.Tool{
		Name:        "encode",
		Description: "Embed a text with an embedding model and return the vector",
	}, NewEncodeHandler(deps, cfg))

	// Job registry listing
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_jobs",
		Description: "List registered jobs with their tables, models, and schedules",
	}, NewListJobsHandler(deps))

	// Refresh a job's embeddings
	mcp.AddTool(server, &mcp.Tool{
		Name:        "refresh",
		Description: "Embed a job's new and updated rows",
	}, NewRefreshHandler(deps))
}
