package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trendscout/internal/config"
	"trendscout/internal/render"
	"trendscout/internal/store"
	"trendscout/internal/tui"
)

// NewProductsCmd creates the saved-products command with subcommands
func NewProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse and export saved products",
		Long: `Work with products discovered in earlier sessions.

Subcommands:
  list    - Print saved products as a table
  browse  - Browse products in an interactive terminal UI
  export  - Export saved products as CSV

Examples:
  trendscout products list --sort profit_margin
  trendscout products browse
  trendscout products export --out products.csv`,
	}

	cmd.AddCommand(NewProductsListCmd())
	cmd.AddCommand(NewProductsBrowseCmd())
	cmd.AddCommand(NewProductsExportCmd())

	return cmd
}

// NewProductsListCmd creates the list subcommand
func NewProductsListCmd() *cobra.Command {
	var (
		limit    int
		category string
		sortBy   string
		order    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print saved products",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewStore(config.GetStore().Directory)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			products, err := st.GetProducts(store.ProductQuery{
				Limit:     limit,
				Category:  category,
				SortBy:    sortBy,
				SortOrder: order,
			})
			if err != nil {
				return fmt.Errorf("failed to list products: %w", err)
			}

			if len(products) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No products saved yet. Run a recommendation first.")
				return nil
			}

			for _, p := range products {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %6.2f  $%8.2f  %5.2f%%  %s\n",
					p.ASIN, p.Score, p.Price, p.ProfitMargin, p.Title)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 100, "maximum products to show")
	cmd.Flags().StringVarP(&category, "category", "c", "", "filter by category substring")
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "score", "sort field (score, price, rating, review_count, best_seller_rank, sales_estimate, profit_margin, timestamp)")
	cmd.Flags().StringVar(&order, "order", "DESC", "sort order (ASC or DESC)")

	return cmd
}

// NewProductsBrowseCmd creates the TUI subcommand
func NewProductsBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse saved products in a terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewStore(config.GetStore().Directory)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			products, err := st.GetProducts(store.ProductQuery{})
			if err != nil {
				return fmt.Errorf("failed to list products: %w", err)
			}

			tui.StartTUI(products)
			return nil
		},
	}
}

// NewProductsExportCmd creates the CSV export subcommand
func NewProductsExportCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved products as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewStore(config.GetStore().Directory)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			products, err := st.GetProducts(store.ProductQuery{})
			if err != nil {
				return fmt.Errorf("failed to list products: %w", err)
			}

			csvData, err := render.ProductsCSV(products)
			if err != nil {
				return fmt.Errorf("failed to build CSV: %w", err)
			}

			if outFile == "" {
				fmt.Fprint(cmd.OutOrStdout(), csvData)
				return nil
			}
			if err := os.WriteFile(outFile, []byte(csvData), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outFile, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d products to %s\n", len(products), outFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")

	return cmd
}
