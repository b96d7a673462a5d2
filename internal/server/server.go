// Package server hosts the MCP stdio surface. Tool registration happens
// in the tools package; this wrapper owns the transport and request
// logging.
package server

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server is the stdio MCP endpoint over the registered retrieval tools.
type Server struct {
	mcp    *mcp.Server
	logger *slog.Logger
}

// New builds a server identifying itself as tablerag. Request logging
// middleware is installed here so it covers every tool registered
// afterwards.
func New(version string, logger *slog.Logger) *Server {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "tablerag",
		Version: version,
	}, nil)
	srv.AddReceivingMiddleware(LoggingMiddleware(logger))

	return &Server{mcp: srv, logger: logger}
}

// MCPServer exposes the underlying server so tools can be registered on
// it before Run.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Run serves on stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("serving MCP", "transport", "stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
