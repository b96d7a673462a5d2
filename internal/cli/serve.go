package cli

import (
	"github.com/spf13/cobra"

	"github.com/raphaelgruber/tablerag/internal/server"
	"github.com/raphaelgruber/tablerag/internal/service"
	"github.com/raphaelgruber/tablerag/internal/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run tablerag as an MCP server on stdio",
	Long: `Expose search, rag, encode, list_jobs, and refresh as MCP tools over
stdio, for use from MCP-capable clients.

Example client registration:
  { "command": "tablerag", "args": ["serve"] }`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	srv := server.New(Version, logger)

	// Provisioning and registration stay CLI-only; tools operate on
	// already registered jobs.
	deps := &tools.Dependencies{
		DB:          dbClient,
		Searcher:    service.NewSearcher(dbClient, embedderFactory, logger, collector),
		RAG:         nil,
		Transformer: service.NewTransformer(embedderFactory, collector),
		Refresher:   service.NewRefresher(dbClient, embedderFactory, logger, collector),
		Logger:      logger,
	}
	deps.RAG = service.NewRAG(dbClient, deps.Searcher, chatFactory, logger, collector)
	tools.RegisterAll(srv.MCPServer(), deps, &cfg)

	return srv.Run(cmd.Context())
}
