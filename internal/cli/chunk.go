package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/tablerag/internal/service"
)

var (
	chunkColumns     []string
	chunkSize        int
	chunkOverlap     int
	chunkOutputTable string
	chunkSchema      string
)

var chunkTableCmd = &cobra.Command{
	Use:   "chunk-table <table>",
	Short: "Chunk a table's text columns into a derived table",
	Long: `Chunk a table's text columns into overlapping pieces stored in a new
table with columns (id, original_id, chunk). Each chunk keeps its source
row's primary key in original_id.

The output table must not already exist; a failed run leaves nothing
behind.

Examples:
  tablerag chunk-table articles --columns body
  tablerag chunk-table articles --columns title,body --chunk-size 500 --chunk-overlap 100 --output-table article_pieces`,
	Args: cobra.ExactArgs(1),
	RunE: runChunkTable,
}

func init() {
	chunkTableCmd.Flags().StringSliceVarP(&chunkColumns, "columns", "c", nil, "text columns to chunk (required)")
	chunkTableCmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "characters per chunk (default from config)")
	chunkTableCmd.Flags().IntVar(&chunkOverlap, "chunk-overlap", 0, "characters shared between adjacent chunks (default from config)")
	chunkTableCmd.Flags().StringVarP(&chunkOutputTable, "output-table", "o", "", "name of the derived table (default <table>_chunked)")
	chunkTableCmd.Flags().StringVar(&chunkSchema, "schema", "", "schema of the table (default from config)")
	_ = chunkTableCmd.MarkFlagRequired("columns")

	rootCmd.AddCommand(chunkTableCmd)
}

func runChunkTable(cmd *cobra.Command, args []string) error {
	table := args[0]

	size := chunkSize
	if size == 0 {
		size = cfg.ChunkSize
	}
	overlap := chunkOverlap
	if overlap == 0 {
		overlap = cfg.ChunkOverlap
	}
	output := chunkOutputTable
	if output == "" {
		output = table + "_chunked"
	}

	provisioner := service.NewProvisioner(dbClient, logger, collector)
	msg, err := provisioner.ChunkTable(cmd.Context(), service.ChunkTableRequest{
		InputTable:   table,
		Columns:      chunkColumns,
		ChunkSize:    size,
		ChunkOverlap: overlap,
		OutputTable:  output,
		Schema:       schemaOrDefault(chunkSchema),
	})
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}
