package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print operation metrics for this process",
	Long:  `Print timing and token metrics collected during this invocation as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(collector.Snapshot())
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
