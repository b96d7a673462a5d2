package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	generateModel  string
	generateAPIKey string
)

var generateCmd = &cobra.Command{
	Use:   "generate <input>",
	Short: "Run a chat completion without retrieval",
	Long: `Send an input straight to a chat model, no corpus involved.

Examples:
  tablerag generate "write a haiku about indexes"
  tablerag generate "translate to German: good morning" --chat-model anthropic/claude-3-5-haiku-latest`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateModel, "chat-model", "", "chat model as <provider>/<model-name> (default from config)")
	generateCmd.Flags().StringVar(&generateAPIKey, "api-key", "", "override the provider API key for this call")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	_, _, rag, _, _ := getServices()

	model := generateModel
	if model == "" {
		model = cfg.ChatModel
	}

	resp, err := rag.Generate(cmd.Context(), args[0], model, generateAPIKey)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	fmt.Println(resp.Text)
	return nil
}
