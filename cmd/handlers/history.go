package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"trendscout/internal/config"
	"trendscout/internal/store"
)

// NewHistoryCmd creates the conversation history command
func NewHistoryCmd() *cobra.Command {
	var limit int
	var offset int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversation history",
		Long: `List recent chat exchanges from the local store, newest first.

Examples:
  trendscout history
  trendscout history --limit 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewStore(config.GetStore().Directory)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			history, err := st.GetConversationHistory(limit, offset)
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}

			if len(history) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No conversations recorded yet.")
				return nil
			}

			for _, conv := range history {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s]\n", conv.Timestamp.Format("2006-01-02 15:04:05"))
				fmt.Fprintf(cmd.OutOrStdout(), "You: %s\n", conv.UserInput)
				fmt.Fprintf(cmd.OutOrStdout(), "Assistant: %s\n\n", conv.Response)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "maximum exchanges to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of exchanges to skip")

	return cmd
}
