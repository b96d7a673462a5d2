// Package tools provides MCP tool handlers and registration.
package tools

import (
	"log/slog"

	"github.com/raphaelgruber/tablerag/internal/db"
	"github.com/raphaelgruber/tablerag/internal/service"
)

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture.
type Dependencies struct {
	DB          *db.Client
	Searcher    *service.Searcher
	RAG         *service.RAG
	Transformer *service.Transformer
	Refresher   *service.Refresher
	Logger      *slog.Logger
}
