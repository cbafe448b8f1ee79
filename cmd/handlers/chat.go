package handlers

import (
	"context"

	"github.com/spf13/cobra"

	"trendscout/internal/interactive"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive product research chat",
		Long: `Start a terminal chat session with the research assistant.

Ask for trending products, request details about a specific product by
its ASIN, or say "analyze product #2" after a recommendation for a full
e-commerce viability analysis.

Examples:
  trendscout chat`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, st, err := buildAgent()
			if err != nil {
				return err
			}
			defer st.Close()

			handler := interactive.NewChatHandler(a)
			handler.Start()
			return handler.RunChatLoop(context.Background())
		},
	}
}
