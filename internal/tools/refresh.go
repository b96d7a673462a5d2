package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RefreshInput defines the input schema for the refresh tool.
type RefreshInput struct {
	JobName string `json:"job_name" jsonschema:"required,Name of the registered job to refresh"`
}

// NewRefreshHandler creates the refresh tool handler.
func NewRefreshHandler(deps *Dependencies) mcp.ToolHandlerFor[RefreshInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RefreshInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.JobName == "" {
			return ErrorResult("Job name cannot be empty", "Use list_jobs to see registered jobs"), nil, nil
		}

		n, err := deps.Refresher.Refresh(ctx, input.JobName, "")
		if err != nil {
			deps.Logger.Error("refresh failed", "job", input.JobName, "error", err)
			return ErrorResult("Refresh failed: "+err.Error(), "Check the job name and provider connection"), nil, nil
		}

		return TextResult(fmt.Sprintf("Embedded %d rows for job %s", n, input.JobName)), nil, nil
	}
}
