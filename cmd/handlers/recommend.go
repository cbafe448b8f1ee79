package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"trendscout/internal/config"
	"trendscout/internal/llm"
	"trendscout/internal/pipeline"
	"trendscout/internal/render"
	"trendscout/internal/store"
)

// NewRecommendCmd creates the one-shot recommendation command
func NewRecommendCmd() *cobra.Command {
	var numResults int
	var category string
	var save bool

	cmd := &cobra.Command{
		Use:   "recommend [query]",
		Short: "Get scored product recommendations for a query",
		Long: `Run one recommendation query through the full pipeline and print the
ranked products as markdown.

Examples:
  trendscout recommend "trending water bottles under $25"
  trendscout recommend --num 10 "yoga mats with 40% margin"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			llmClient, err := llm.NewClient(config.GetGeminiModel())
			if err != nil {
				return fmt.Errorf("failed to create LLM client: %w", err)
			}

			pipe := buildPipeline(llmClient)
			result, err := pipe.Recommend(context.Background(), query, numResults, category)
			if err != nil {
				return fmt.Errorf("recommendation failed: %w", err)
			}

			if save {
				st, err := store.NewStore(config.GetStore().Directory)
				if err != nil {
					return fmt.Errorf("failed to open store: %w", err)
				}
				defer st.Close()
				for _, product := range result.Products {
					if _, err := st.SaveProduct(product); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not save %s: %v\n", product.ASIN, err)
					}
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.RecommendationList(query, result.Products))
			return nil
		},
	}

	cmd.Flags().IntVarP(&numResults, "num", "n", pipeline.DefaultResultCount, "number of products to return")
	cmd.Flags().StringVarP(&category, "category", "c", "", "restrict the search to one category")
	cmd.Flags().BoolVar(&save, "save", true, "save recommended products to the local store")

	return cmd
}
