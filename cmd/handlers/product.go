package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"trendscout/internal/config"
	"trendscout/internal/llm"
	"trendscout/internal/render"
)

// NewProductCmd creates the single-product lookup command
func NewProductCmd() *cobra.Command {
	var analyze bool

	cmd := &cobra.Command{
		Use:   "product [asin]",
		Short: "Show enriched detail for one product",
		Long: `Fetch, enrich, and score a single product by its ASIN.

Examples:
  trendscout product B08CRLVK9F
  trendscout product --analyze B08CRLVK9F`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			llmClient, err := llm.NewClient(config.GetGeminiModel())
			if err != nil {
				return fmt.Errorf("failed to create LLM client: %w", err)
			}

			pipe := buildPipeline(llmClient)
			product, err := pipe.Details(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch product: %w", err)
			}

			if analyze {
				fmt.Fprintln(cmd.OutOrStdout(), render.ViabilityAnalysis(product))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), render.ProductInfo(product))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&analyze, "analyze", "a", false, "print the full e-commerce viability analysis")

	return cmd
}
