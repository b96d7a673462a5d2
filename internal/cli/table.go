package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/tablerag/internal/service"
)

var (
	tableColumns      []string
	tableJobName      string
	tablePrimaryKey   string
	tableSchema       string
	tableUpdateCol    string
	tableIndexDist    string
	tableModel        string
	tableChunkSize    int
	tableChunkOverlap int
	tableMethod       string
	tableSchedule     string
)

var tableCmd = &cobra.Command{
	Use:   "table <table>",
	Short: "Set up vector search over a table in one call",
	Long: `Set up vector search over a table: optionally chunk its text columns
into a derived table first, then register a search job over the result.

With --chunk-size the job binds to the derived "<table>_chunked" table
instead of the source table.

Examples:
  tablerag table products --columns description --primary-key product_id --job-name products_search
  tablerag table articles --columns body --primary-key article_id --chunk-size 1000 --job-name articles_search`,
	Args: cobra.ExactArgs(1),
	RunE: runTable,
}

func init() {
	tableCmd.Flags().StringSliceVarP(&tableColumns, "columns", "c", nil, "text columns to embed (required)")
	tableCmd.Flags().StringVarP(&tableJobName, "job-name", "j", "", "job name (required)")
	tableCmd.Flags().StringVarP(&tablePrimaryKey, "primary-key", "k", "", "primary key column (required)")
	tableCmd.Flags().StringVar(&tableSchema, "schema", "", "schema of the table (default from config)")
	tableCmd.Flags().StringVar(&tableUpdateCol, "update-col", "last_updated_at", "timestamp column marking row updates (empty to re-embed never)")
	tableCmd.Flags().StringVar(&tableIndexDist, "index-dist", "cosine-hnsw", "similarity metric: cosine-hnsw, ip-hnsw, l2-hnsw")
	tableCmd.Flags().StringVarP(&tableModel, "model", "m", "", "embedding model as <provider>/<model-name> (default from config)")
	tableCmd.Flags().IntVar(&tableChunkSize, "chunk-size", 0, "chunk columns into pieces of this many characters (0 = no chunking)")
	tableCmd.Flags().IntVar(&tableChunkOverlap, "chunk-overlap", 0, "characters shared between adjacent chunks (default from config when chunking)")
	tableCmd.Flags().StringVar(&tableMethod, "table-method", "join", "embedding storage method: join, append")
	tableCmd.Flags().StringVar(&tableSchedule, "schedule", "* * * * *", "refresh schedule: cron expression or realtime")
	_ = tableCmd.MarkFlagRequired("columns")
	_ = tableCmd.MarkFlagRequired("job-name")
	_ = tableCmd.MarkFlagRequired("primary-key")

	rootCmd.AddCommand(tableCmd)
}

func runTable(cmd *cobra.Command, args []string) error {
	registrar, _, _, _, _ := getServices()

	overlap := tableChunkOverlap
	if tableChunkSize > 0 && overlap == 0 {
		overlap = cfg.ChunkOverlap
	}

	msg, err := registrar.Table(cmd.Context(), service.TableRequest{
		Table:        args[0],
		Columns:      tableColumns,
		JobName:      tableJobName,
		PrimaryKey:   tablePrimaryKey,
		Schema:       schemaOrDefault(tableSchema),
		UpdateCol:    tableUpdateCol,
		IndexDist:    tableIndexDist,
		Model:        modelOrDefault(tableModel),
		ChunkSize:    tableChunkSize,
		ChunkOverlap: overlap,
		TableMethod:  tableMethod,
		Schedule:     tableSchedule,
	})
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

// schemaOrDefault falls back to the configured default schema.
func schemaOrDefault(schema string) string {
	if schema != "" {
		return schema
	}
	return cfg.DefaultSchema
}

// modelOrDefault falls back to the configured default embedding model.
func modelOrDefault(model string) string {
	if model != "" {
		return model
	}
	return cfg.EmbeddingModel
}
