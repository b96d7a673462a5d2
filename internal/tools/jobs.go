package tools

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListJobsInput defines the input schema for the list_jobs tool.
type ListJobsInput struct{}

// jobSummary is the wire shape for one listed job.
type jobSummary struct {
	Name      string   `json:"name"`
	Table     string   `json:"table"`
	Columns   []string `json:"columns"`
	Model     string   `json:"model"`
	IndexDist string   `json:"index_dist"`
	Schedule  string   `json:"schedule"`
}

// NewListJobsHandler creates the list_jobs tool handler.
func NewListJobsHandler(deps *Dependencies) mcp.ToolHandlerFor[ListJobsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListJobsInput) (
		*mcp.CallToolResult, any, error,
	) {
		jobs, err := deps.DB.ListJobs(ctx)
		if err != nil {
			deps.Logger.Error("list jobs failed", "error", err)
			return ErrorResult("Listing jobs failed: "+err.Error(), "Database may be unavailable"), nil, nil
		}

		summaries := make([]jobSummary, 0, len(jobs))
		for _, job := range jobs {
			summaries = append(summaries, jobSummary{
				Name:      job.Name,
				Table:     job.Schema + "." + job.Table,
				Columns:   job.Columns,
				Model:     job.Model.String(),
				IndexDist: string(job.IndexDist),
				Schedule:  job.Schedule,
			})
		}

		jsonBytes, _ := json.MarshalIndent(summaries, "", "  ")
		return TextResult(string(jsonBytes)), nil, nil
	}
}
