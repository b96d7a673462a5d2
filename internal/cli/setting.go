package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/tablerag/internal/config"
)

var settingCmd = &cobra.Command{
	Use:   "setting <name>",
	Short: "Resolve a named runtime setting",
	Long: `Resolve a named runtime setting from the environment, expanding any
${VAR} references in its value. Setting names use dotted form and map to
upper-snake environment variables.

Examples:
  tablerag setting tablerag.openai_key    # reads TABLERAG_OPENAI_KEY`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := config.InterpolateSetting(args[0])
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingCmd)
}
