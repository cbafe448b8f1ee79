package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"trendscout/internal/config"
	"trendscout/internal/llm"
)

// NewIdeasCmd creates the niche brainstorming command
func NewIdeasCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "ideas [interest]",
		Short: "Brainstorm product niches around an interest",
		Long: `Ask the assistant for product ideas an online seller could build a
store around, starting from an interest or hobby.

Examples:
  trendscout ideas "home coffee brewing"
  trendscout ideas --count 10 "indoor climbing"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			interest := strings.Join(args, " ")

			llmClient, err := llm.NewClient(config.GetGeminiModel())
			if err != nil {
				return fmt.Errorf("failed to create LLM client: %w", err)
			}

			ideas, err := llmClient.GeneratePassionIdeas(context.Background(), interest, count)
			if err != nil {
				return fmt.Errorf("failed to generate ideas: %w", err)
			}

			for i, idea := range ideas {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, idea)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "c", 5, "number of ideas to generate")

	return cmd
}
