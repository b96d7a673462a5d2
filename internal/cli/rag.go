package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/tablerag/internal/prompt"
	"github.com/raphaelgruber/tablerag/internal/service"
)

var (
	ragChatModel  string
	ragTask       string
	ragNumContext int
	ragForceTrim  bool
	ragAPIKey     string
	ragShowCtx    bool
)

var ragCmd = &cobra.Command{
	Use:   "rag <agent-name> <query>",
	Short: "Answer a question from an agent's corpus",
	Long: `Answer a question using retrieval-augmented generation: the query is
embedded, the agent's most relevant rows are retrieved, and a chat model
completes over them.

With --force-trim, context rows are dropped lowest ranked first until
the prompt fits the chat model's context window.

Examples:
  tablerag rag support_agent "how do I reset my password?"
  tablerag rag support_agent "summarize our refund policy" --task summarize
  tablerag rag support_agent "what changed?" --chat-model openai/gpt-4o --num-context 5`,
	Args: cobra.ExactArgs(2),
	RunE: runRAG,
}

func init() {
	ragCmd.Flags().StringVar(&ragChatModel, "chat-model", "", "chat model as <provider>/<model-name> (default from config)")
	ragCmd.Flags().StringVar(&ragTask, "task", prompt.TaskQuestionAnswer, "prompt task template")
	ragCmd.Flags().IntVar(&ragNumContext, "num-context", 2, "context rows to retrieve")
	ragCmd.Flags().BoolVar(&ragForceTrim, "force-trim", false, "drop context rows until the prompt fits the model window")
	ragCmd.Flags().StringVar(&ragAPIKey, "api-key", "", "override the provider API key for this call")
	ragCmd.Flags().BoolVar(&ragShowCtx, "show-context", false, "print the retrieved context rows")

	rootCmd.AddCommand(ragCmd)
}

func runRAG(cmd *cobra.Command, args []string) error {
	_, _, rag, _, _ := getServices()

	chatModel := ragChatModel
	if chatModel == "" {
		chatModel = cfg.ChatModel
	}

	resp, err := rag.Ask(cmd.Context(), service.RAGRequest{
		AgentName:  args[0],
		Query:      args[1],
		ChatModel:  chatModel,
		Task:       ragTask,
		APIKey:     ragAPIKey,
		NumContext: ragNumContext,
		ForceTrim:  ragForceTrim,
	})
	if err != nil {
		return fmt.Errorf("rag: %w", err)
	}

	fmt.Println(resp.Text)
	if ragShowCtx {
		fmt.Printf("\nContext (%d rows):\n", len(resp.Context))
		for i, row := range resp.Context {
			fmt.Printf("%d. %s\n", i+1, row)
		}
	}
	if verbose && resp.Usage != nil {
		fmt.Printf("\nTokens: %d prompt, %d completion\n", resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}
	return nil
}
