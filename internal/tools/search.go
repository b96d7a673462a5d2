package tools

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/raphaelgruber/tablerag/internal/service"
)

// SearchInput defines the input schema for the search tool.
type SearchInput struct {
	JobName string   `json:"job_name" jsonschema:"required,Name of the registered job to search"`
	Query   string   `json:"query" jsonschema:"required,The search query text"`
	Columns []string `json:"columns,omitempty" jsonschema:"Columns to return, * for all"`
	Limit   int      `json:"limit,omitempty" jsonschema:"Max results 1-100, default 10"`
	Where   string   `json:"where,omitempty" jsonschema:"Raw SQL predicate on the source table, alias s"`
}

// NewSearchHandler creates the search tool handler.
func NewSearchHandler(deps *Dependencies) mcp.ToolHandlerFor[SearchInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.JobName == "" {
			return ErrorResult("Job name cannot be empty", "Use list_jobs to see registered jobs"), nil, nil
		}
		if input.Query == "" {
			return ErrorResult("Query cannot be empty", "Provide a search query"), nil, nil
		}

		limit := input.Limit
		if limit <= 0 {
			limit = 10
		}
		if limit > 100 {
			return ErrorResult("Limit must be 1-100", "Reduce limit value"), nil, nil
		}
		columns := input.Columns
		if len(columns) == 0 {
			columns = []string{"*"}
		}

		results, err := deps.Searcher.Search(ctx, service.SearchRequest{
			JobName:       input.JobName,
			Query:         input.Query,
			ReturnColumns: columns,
			NumResults:    limit,
			WhereSQL:      input.Where,
		})
		if err != nil {
			deps.Logger.Error("search failed", "job", input.JobName, "error", err)
			return ErrorResult("Search failed: "+err.Error(), "Check the job name and query"), nil, nil
		}

		jsonBytes, _ := json.MarshalIndent(results, "", "  ")

		queryLog := input.Query
		if len(queryLog) > 30 {
			queryLog = queryLog[:30] + "..."
		}
		deps.Logger.Info("search completed", "job", input.JobName, "query", queryLog, "results", len(results))

		return TextResult(string(jsonBytes)), nil, nil
	}
}
