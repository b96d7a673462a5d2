// Package cli provides the command-line interface for tablerag.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/raphaelgruber/tablerag/internal/config"
	"github.com/raphaelgruber/tablerag/internal/db"
	"github.com/raphaelgruber/tablerag/internal/llm"
	"github.com/raphaelgruber/tablerag/internal/metrics"
	"github.com/raphaelgruber/tablerag/internal/models"
	"github.com/raphaelgruber/tablerag/internal/service"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	configFile string
	verbose    bool

	// Global config, logging, storage
	cfg        config.Config
	logger     *slog.Logger
	logCleanup func() error
	dbClient   *db.Client
	collector  = metrics.NewCollector()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tablerag",
	Short: "Vector search and RAG over relational tables",
	Long: `Tablerag turns ordinary database tables into vector search indexes
and RAG corpora.

Register a job binding a table's text columns to an embedding model,
refresh its embeddings, then search it or ask questions answered from
the most relevant rows.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		// .env is optional; a missing file is not an error.
		_ = godotenv.Load()

		var err error
		cfg, err = config.LoadWithFile(configFile)
		if err != nil {
			return err
		}
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}
		logger, logCleanup = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		slog.SetDefault(logger)

		dbClient, err = db.Open(db.Config{Path: cfg.DBPath}, logger)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		if err := dbClient.InitSchema(cmd.Context()); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbClient != nil {
			if err := dbClient.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
			}
		}
		if logCleanup != nil {
			_ = logCleanup()
		}
	},
}

// providerConfig maps the loaded config onto the LLM provider settings.
func providerConfig() llm.ProviderConfig {
	return llm.ProviderConfig{
		OllamaHost:      cfg.OllamaHost,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OpenAIBaseURL:   cfg.OpenAIBaseURL,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
	}
}

// embedderFactory builds embedders against the configured providers.
func embedderFactory(model models.Model, apiKey string) (service.Embedder, error) {
	return llm.NewEmbedder(model, providerConfig(), apiKey)
}

// chatFactory builds chat clients against the configured providers.
func chatFactory(model models.Model, apiKey string) (service.ChatClient, error) {
	return llm.NewChat(model, providerConfig(), apiKey)
}

// getServices wires the orchestration layer over the open database.
func getServices() (*service.Registrar, *service.Searcher, *service.RAG, *service.Refresher, *service.Transformer) {
	provisioner := service.NewProvisioner(dbClient, logger, collector)
	registrar := service.NewRegistrar(dbClient, provisioner, logger)
	searcher := service.NewSearcher(dbClient, embedderFactory, logger, collector)
	rag := service.NewRAG(dbClient, searcher, chatFactory, logger, collector)
	refresher := service.NewRefresher(dbClient, embedderFactory, logger, collector)
	transformer := service.NewTransformer(embedderFactory, collector)
	return registrar, searcher, rag, refresher, transformer
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file overlaying environment values")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
