package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/tablerag/internal/service"
)

var (
	searchColumns []string
	searchLimit   int
	searchWhere   string
	searchAPIKey  string
)

var searchCmd = &cobra.Command{
	Use:   "search <job-name> <query>",
	Short: "Vector search a registered job",
	Long: `Search a job's embedded rows for the nearest matches to a query.
Results print as JSON, best match first, with each row's similarity
score and requested columns.

The --where predicate is raw SQL passed through to the scan; alias the
source table as "s".

Examples:
  tablerag search products_search "running shoes"
  tablerag search products_search "running shoes" --columns name,price --limit 5
  tablerag search products_search "running shoes" --where "s.in_stock = 1"`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringSliceVarP(&searchColumns, "columns", "c", []string{"*"}, "columns to return")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "max results")
	searchCmd.Flags().StringVar(&searchWhere, "where", "", "raw SQL predicate on the source table (alias s)")
	searchCmd.Flags().StringVar(&searchAPIKey, "api-key", "", "override the provider API key for this call")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	_, searcher, _, _, _ := getServices()

	results, err := searcher.Search(cmd.Context(), service.SearchRequest{
		JobName:       args[0],
		Query:         args[1],
		APIKey:        searchAPIKey,
		ReturnColumns: searchColumns,
		NumResults:    searchLimit,
		WhereSQL:      searchWhere,
	})
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
