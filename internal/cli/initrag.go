package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/tablerag/internal/service"
)

var (
	ragInitTable     string
	ragInitRecordID  string
	ragInitColumn    string
	ragInitSchema    string
	ragInitIndexDist string
	ragInitModel     string
	ragInitMethod    string
	ragInitSchedule  string
)

var initRAGCmd = &cobra.Command{
	Use:   "init-rag <agent-name>",
	Short: "Register a chat corpus for retrieval-augmented answers",
	Long: `Register a table column as a chat corpus. The agent name identifies
the corpus in later 'rag' calls. Chat only supports a single text
column.

Examples:
  tablerag init-rag support_agent --table faq --column answer --unique-record-id faq_id`,
	Args: cobra.ExactArgs(1),
	RunE: runInitRAG,
}

func init() {
	initRAGCmd.Flags().StringVarP(&ragInitTable, "table", "t", "", "source table (required)")
	initRAGCmd.Flags().StringVarP(&ragInitColumn, "column", "c", "", "text column to embed (required)")
	initRAGCmd.Flags().StringVarP(&ragInitRecordID, "unique-record-id", "k", "", "unique record id column (required)")
	initRAGCmd.Flags().StringVar(&ragInitSchema, "schema", "", "schema of the table (default from config)")
	initRAGCmd.Flags().StringVar(&ragInitIndexDist, "index-dist", "cosine-hnsw", "similarity metric: cosine-hnsw, ip-hnsw, l2-hnsw")
	initRAGCmd.Flags().StringVarP(&ragInitModel, "model", "m", "", "embedding model as <provider>/<model-name> (default from config)")
	initRAGCmd.Flags().StringVar(&ragInitMethod, "table-method", "join", "embedding storage method: join, append")
	initRAGCmd.Flags().StringVar(&ragInitSchedule, "schedule", "* * * * *", "refresh schedule: cron expression or realtime")
	_ = initRAGCmd.MarkFlagRequired("table")
	_ = initRAGCmd.MarkFlagRequired("column")
	_ = initRAGCmd.MarkFlagRequired("unique-record-id")

	rootCmd.AddCommand(initRAGCmd)
}

func runInitRAG(cmd *cobra.Command, args []string) error {
	registrar, _, _, _, _ := getServices()

	msg, err := registrar.InitRAG(cmd.Context(), service.InitRAGRequest{
		AgentName:      args[0],
		TableName:      ragInitTable,
		UniqueRecordID: ragInitRecordID,
		Column:         ragInitColumn,
		Schema:         schemaOrDefault(ragInitSchema),
		IndexDist:      ragInitIndexDist,
		Model:          modelOrDefault(ragInitModel),
		TableMethod:    ragInitMethod,
		Schedule:       ragInitSchedule,
	})
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}
