package scoring

import (
	"sort"

	"trendscout/internal/core"
	"trendscout/internal/logger"
)

// fallbackCount is how many top-scored products survive when filters
// would otherwise wipe out a non-empty result set.
const fallbackCount = 3

// ApplyFilters retains only the products satisfying every set criterion.
// Filtering a non-empty input down to nothing returns the top scored
// products unfiltered instead, so the caller always has something to
// show when products existed at all.
func ApplyFilters(products []core.Product, criteria core.FilterCriteria) []core.Product {
	if len(products) == 0 {
		return products
	}
	if criteria.IsEmpty() {
		return products
	}

	filtered := make([]core.Product, 0, len(products))
	for _, p := range products {
		if matches(p, criteria) {
			filtered = append(filtered, p)
		}
	}

	if len(filtered) > 0 {
		return filtered
	}

	logger.Debug("filters removed all products, falling back to top scored",
		"input_count", len(products))
	return topByScore(products, fallbackCount)
}

func matches(p core.Product, c core.FilterCriteria) bool {
	if c.MinMargin != nil && p.ProfitMargin < *c.MinMargin {
		return false
	}
	if c.MaxPrice != nil && p.Price > *c.MaxPrice {
		return false
	}
	if c.MinRating != nil && p.Rating < *c.MinRating {
		return false
	}
	if c.MaxReviews != nil && p.ReviewCount > *c.MaxReviews {
		return false
	}
	return true
}

// topByScore returns up to n products with the highest scores without
// mutating the input slice.
func topByScore(products []core.Product, n int) []core.Product {
	sorted := make([]core.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
