package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshAPIKey string

var refreshCmd = &cobra.Command{
	Use:   "refresh <job-name>",
	Short: "Embed a job's new and updated rows",
	Long: `Embed every source row of a job that has no stored vector yet, or
whose update column is newer than its vector. A scheduler normally runs
this on the job's cron cadence; run it by hand after bulk loads.

Examples:
  tablerag refresh products_search`,
	Args: cobra.ExactArgs(1),
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().StringVar(&refreshAPIKey, "api-key", "", "override the provider API key for this call")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	_, _, _, refresher, _ := getServices()

	n, err := refresher.Refresh(cmd.Context(), args[0], refreshAPIKey)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	fmt.Printf("Embedded %d rows for job %s\n", n, args[0])
	return nil
}
