package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	encodeModel  string
	encodeAPIKey string
)

var encodeCmd = &cobra.Command{
	Use:     "encode <input>",
	Aliases: []string{"transform-embeddings"},
	Short:   "Embed a text and print its vector",
	Long: `Embed a single input with an embedding model and print the vector as
JSON.

Examples:
  tablerag encode "hello world"
  tablerag encode "hello world" --model openai/text-embedding-3-small`,
	Args: cobra.ExactArgs(1),
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().StringVarP(&encodeModel, "model", "m", "", "embedding model as <provider>/<model-name> (default from config)")
	encodeCmd.Flags().StringVar(&encodeAPIKey, "api-key", "", "override the provider API key for this call")

	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	_, _, _, _, transformer := getServices()

	vec, err := transformer.Encode(cmd.Context(), args[0], modelOrDefault(encodeModel), encodeAPIKey)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return json.NewEncoder(os.Stdout).Encode(vec)
}
