// Package render formats products and recommendations as markdown for
// chat responses, and exports stored products as CSV.
package render

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"trendscout/internal/core"
)

// RecommendationList formats a ranked product list as a numbered
// markdown response.
func RecommendationList(query string, products []core.Product) string {
	if len(products) == 0 {
		return "I couldn't find any products matching your query. Could you try a different search?"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on your search for '%s', here are the top trending products:\n\n", query)

	for i, p := range products {
		fmt.Fprintf(&b, "**Product #%d - Score: %.2f/100**\n", i+1, p.Score)
		fmt.Fprintf(&b, "- **Title:** %s\n", orUnknown(p.Title, "Unknown Product"))
		fmt.Fprintf(&b, "- **Brand:** %s\n", orUnknown(p.Brand, "Unknown Brand"))
		fmt.Fprintf(&b, "- **Retail Price:** $%.2f\n", p.Price)
		fmt.Fprintf(&b, "- **Wholesale Price:** $%.2f\n", p.WholesalePrice)
		fmt.Fprintf(&b, "- **Profit Margin:** %.2f%%\n", p.ProfitMargin)
		fmt.Fprintf(&b, "- **Rating:** %.1f/5 (%d reviews)\n", p.Rating, p.ReviewCount)
		if p.ListingURL != "" {
			fmt.Fprintf(&b, "- [View on Amazon](%s)\n", p.ListingURL)
		}
		b.WriteString("\n")
	}

	b.WriteString("Would you like more detailed information about any of these products? Reply with 'analyze product #1' (or any number) for a detailed e-commerce analysis.")
	return b.String()
}

// ProductInfo formats one product's detail view.
func ProductInfo(p core.Product) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", orUnknown(p.Title, "Unknown Product"))
	fmt.Fprintf(&b, "- **Brand:** %s\n", orUnknown(p.Brand, "Unknown Brand"))
	fmt.Fprintf(&b, "- **Category:** %s\n", orUnknown(p.Category, "Uncategorized"))
	fmt.Fprintf(&b, "- **Overall Score:** %.2f/100\n\n", p.Score)

	b.WriteString("## Pricing Information\n")
	fmt.Fprintf(&b, "- **Retail Price:** $%.2f\n", p.Price)
	fmt.Fprintf(&b, "- **Wholesale Price:** $%.2f\n", p.WholesalePrice)
	fmt.Fprintf(&b, "- **Profit Margin:** %.2f%%\n\n", p.ProfitMargin)

	b.WriteString("## Market Information\n")
	fmt.Fprintf(&b, "- **Rating:** %.1f/5 (%d reviews)\n", p.Rating, p.ReviewCount)
	fmt.Fprintf(&b, "- **Best Seller Rank:** %s\n", rankDisplay(p.BestSellerRank))
	fmt.Fprintf(&b, "- **Competition:** %s\n", competitionDisplay(p))
	fmt.Fprintf(&b, "- **Ad Pressure:** %s\n\n", adPressureDisplay(p.AdPressureLevel))

	if p.ListingURL != "" {
		fmt.Fprintf(&b, "[View on Amazon](%s)\n\n", p.ListingURL)
	}

	b.WriteString("Would you like me to analyze this product for e-commerce viability? Reply with 'analyze this product'.")
	return b.String()
}

// ViabilityAnalysis formats the full e-commerce analysis for a product.
func ViabilityAnalysis(p core.Product) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# E-commerce Analysis: %s\n\n", orUnknown(p.Title, "Unknown Product"))

	b.WriteString("## Product Information\n")
	fmt.Fprintf(&b, "- **Title:** %s\n", orUnknown(p.Title, "Unknown Product"))
	fmt.Fprintf(&b, "- **Brand:** %s\n", orUnknown(p.Brand, "Unknown Brand"))
	fmt.Fprintf(&b, "- **Category:** %s\n", orUnknown(p.Category, "Uncategorized"))
	fmt.Fprintf(&b, "- **Overall Score:** %.2f/100\n\n", p.Score)

	b.WriteString("## Financial Analysis\n")
	fmt.Fprintf(&b, "- **Retail Price:** $%.2f\n", p.Price)
	fmt.Fprintf(&b, "- **Wholesale Price:** $%.2f\n", p.WholesalePrice)
	fmt.Fprintf(&b, "- **Profit Margin:** %.2f%%\n", p.ProfitMargin)

	profitPerUnit := p.Price - p.WholesalePrice
	fmt.Fprintf(&b, "- **Profit Per Unit:** $%.2f\n", profitPerUnit)
	fmt.Fprintf(&b, "- **Estimated Monthly Profit:** $%.2f\n\n", profitPerUnit*float64(p.SalesEstimate))

	b.WriteString("## Market Analysis\n")
	fmt.Fprintf(&b, "- **Rating:** %.1f/5 (%d reviews)\n", p.Rating, p.ReviewCount)
	fmt.Fprintf(&b, "- **Best Seller Rank:** %s\n", rankDisplay(p.BestSellerRank))
	fmt.Fprintf(&b, "- **Estimated Monthly Sales:** %d units\n\n", p.SalesEstimate)

	fmt.Fprintf(&b, "## Overall Viability: %s\n\n", ViabilityLevel(p.Score))

	competition, risk := competitionAndRisk(p)
	fmt.Fprintf(&b, "- **Competition Level:** %s\n", competition)
	fmt.Fprintf(&b, "- **Risk Level:** %s\n\n", risk)

	b.WriteString("## Recommendations\n")
	switch {
	case p.Score >= 70:
		b.WriteString("- **Verdict:** Strong opportunity for e-commerce\n")
		b.WriteString("- **Action:** Consider immediate investment\n")
		b.WriteString("- High profit margin and proven sales history\n")
		b.WriteString("- Consider bundling options to increase average order value\n")
	case p.Score >= 40:
		b.WriteString("- **Verdict:** Moderate opportunity\n")
		b.WriteString("- **Action:** Consider testing with small inventory\n")
		b.WriteString("- Monitor performance closely before scaling\n")
		b.WriteString("- Look for ways to reduce acquisition costs\n")
	default:
		b.WriteString("- **Verdict:** Limited opportunity\n")
		b.WriteString("- **Action:** Consider alternative products\n")
		b.WriteString("- Low profit margin or limited market potential\n")
		b.WriteString("- High risk relative to potential reward\n")
	}

	return b.String()
}

// ViabilityLevel maps a 0-100 score to a coarse viability label.
func ViabilityLevel(score float64) string {
	switch {
	case score >= 70:
		return "High"
	case score >= 40:
		return "Medium"
	default:
		return "Low"
	}
}

// competitionAndRisk derives display labels, preferring the enriched
// classification and falling back to review volume.
func competitionAndRisk(p core.Product) (string, string) {
	if p.Competition != core.CompetitionUnknown && p.Competition != "" {
		return string(p.Competition) + " (" + p.CompetitionRationale + ")", riskFromReviews(p.ReviewCount)
	}

	switch {
	case p.ReviewCount == 0:
		return "Unknown (No reviews)", "High - No proven track record"
	case p.ReviewCount < 100:
		return "Low to Medium", "Medium - Limited market validation"
	case p.ReviewCount < 1000:
		return "Medium", "Medium - Established product with competition"
	default:
		return "High", "Low - Well-established market"
	}
}

func riskFromReviews(reviews int) string {
	switch {
	case reviews == 0:
		return "High - No proven track record"
	case reviews < 100:
		return "Medium - Limited market validation"
	case reviews < 1000:
		return "Medium - Established product with competition"
	default:
		return "Low - Well-established market"
	}
}

func rankDisplay(rank int) string {
	if rank <= 0 || rank >= core.UnrankedSentinel {
		return "N/A"
	}
	return "#" + strconv.Itoa(rank)
}

func competitionDisplay(p core.Product) string {
	if p.Competition == "" {
		return string(core.CompetitionUnknown)
	}
	if p.CompetitionRationale != "" {
		return fmt.Sprintf("%s (%s)", p.Competition, p.CompetitionRationale)
	}
	return string(p.Competition)
}

func adPressureDisplay(level core.AdPressure) string {
	if level == core.AdPressureUnknown {
		return "Unknown"
	}
	return string(level)
}

func orUnknown(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// csvColumns is the export header. Image and listing URLs are dropped
// from exports on purpose.
var csvColumns = []string{
	"asin", "title", "brand", "price", "wholesale_price", "rating",
	"review_count", "best_seller_rank", "sales_estimate", "profit_margin",
	"category", "score", "timestamp",
}

// ProductsCSV serializes stored products for spreadsheet export.
func ProductsCSV(products []core.StoredProduct) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(csvColumns); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, p := range products {
		record := []string{
			p.ASIN,
			p.Title,
			p.Brand,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			strconv.FormatFloat(p.WholesalePrice, 'f', 2, 64),
			strconv.FormatFloat(p.Rating, 'f', 1, 64),
			strconv.Itoa(p.ReviewCount),
			strconv.Itoa(p.BestSellerRank),
			strconv.Itoa(p.SalesEstimate),
			strconv.FormatFloat(p.ProfitMargin, 'f', 2, 64),
			p.Category,
			strconv.FormatFloat(p.Score, 'f', 2, 64),
			p.Timestamp.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}

	return b.String(), nil
}
