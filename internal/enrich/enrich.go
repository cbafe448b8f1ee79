// Package enrich turns search candidates into fully populated products
// by fetching per-ASIN detail records and deriving the business fields
// the scorer and renderer consume.
package enrich

import (
	"context"
	"fmt"
	"math"

	"trendscout/internal/core"
	"trendscout/internal/logger"
	"trendscout/internal/search"
)

// Enricher fetches detail records and derives wholesale price, margin,
// competition level, and reconciled ad pressure for each candidate.
type Enricher struct {
	fetcher        search.DetailFetcher
	wholesaleRatio float64
}

// NewEnricher creates an enricher. wholesaleRatio is the assumed
// wholesale-to-retail price ratio and must be in (0, 1).
func NewEnricher(fetcher search.DetailFetcher, wholesaleRatio float64) *Enricher {
	if wholesaleRatio <= 0 || wholesaleRatio >= 1 {
		wholesaleRatio = 0.55
	}
	return &Enricher{fetcher: fetcher, wholesaleRatio: wholesaleRatio}
}

// Enrich fetches the detail record for the candidate and returns the
// derived product. A fetch failure returns an error so callers can skip
// the candidate without aborting the batch.
func (e *Enricher) Enrich(ctx context.Context, candidate core.Candidate) (core.Product, error) {
	detail, err := e.fetcher.Fetch(ctx, candidate.ASIN)
	if err != nil {
		return core.Product{}, fmt.Errorf("failed to fetch detail for %s: %w", candidate.ASIN, err)
	}

	product := core.Product{Candidate: candidate}

	if detail.Title != "" {
		product.Title = detail.Title
	}
	if detail.Brand != "" {
		product.Brand = detail.Brand
	}
	if detail.Category != "" {
		product.Category = detail.Category
	}
	if detail.ImageURL != "" {
		product.ImageURL = detail.ImageURL
	}
	if detail.BuyboxPrice > 0 {
		product.Price = detail.BuyboxPrice
	}

	product.Rating = detail.Rating
	product.ReviewCount = detail.RatingsTotal
	product.CategoryRanks = detail.BestsellerRanks
	product.BestSellerRank = overallRank(detail.BestsellerRanks)

	// Wholesale is an assumed fraction of retail, so margin follows
	// directly from the ratio whenever a price exists.
	if product.Price > 0 {
		product.WholesalePrice = round2(product.Price * e.wholesaleRatio)
		product.ProfitMargin = round2((product.Price - product.WholesalePrice) / product.Price * 100)
	}

	product.SalesEstimate = estimateMonthlySales(product.BestSellerRank)

	product.Sellers = detail.Sellers
	product.SellerCount = len(detail.Sellers)
	product.Competition, product.CompetitionRationale = classifyCompetition(detail.Sellers, detail.RatingsTotal)

	product.Sponsored = detail.IsSponsored
	product.SponsoredCount = detail.SponsoredCount
	product.AdPressureScore = candidate.SponsoredRatio
	product.AdPressureLevel = reconcileAdPressure(candidate.AdPressure, detail.IsSponsored, detail.SponsoredCount)

	product.ListingURL = fmt.Sprintf("https://www.amazon.com/dp/%s", product.ASIN)

	logger.Debug("candidate enriched",
		"asin", product.ASIN,
		"margin", product.ProfitMargin,
		"competition", string(product.Competition),
		"ad_pressure", string(product.AdPressureLevel))

	return product, nil
}

// overallRank collapses per-category ranks into a single best rank.
// Lower is better so the minimum wins; no ranks means unranked.
func overallRank(ranks []core.CategoryRank) int {
	best := core.UnrankedSentinel
	for _, r := range ranks {
		if r.Rank > 0 && r.Rank < best {
			best = r.Rank
		}
	}
	return best
}

// classifyCompetition maps seller and review signals to a competition
// level with a rationale. Every input yields exactly one pair; the
// error pair appears only if classification itself panics.
func classifyCompetition(sellers []string, reviewCount int) (level core.CompetitionLevel, rationale string) {
	defer func() {
		if r := recover(); r != nil {
			level = core.CompetitionUnknown
			rationale = "Error analyzing competition data"
		}
	}()

	if len(sellers) > 0 {
		n := len(sellers)
		switch {
		case n <= 2:
			level = core.CompetitionLow
			rationale = fmt.Sprintf("Only %d seller(s) on this listing", n)
		case n <= 5:
			level = core.CompetitionMedium
			rationale = fmt.Sprintf("%d sellers competing on this listing", n)
		default:
			level = core.CompetitionHigh
			rationale = fmt.Sprintf("%d sellers competing on this listing", n)
		}
		if reviewCount > 0 {
			rationale += fmt.Sprintf(" with %d customer reviews", reviewCount)
		}
		return level, rationale
	}

	switch {
	case reviewCount == 0:
		return core.CompetitionUnknown, "No seller or review data available"
	case reviewCount < 500:
		return core.CompetitionLow, fmt.Sprintf("Low review volume (%d reviews)", reviewCount)
	case reviewCount < 1000:
		return core.CompetitionMedium, fmt.Sprintf("Moderate review volume (%d reviews)", reviewCount)
	default:
		return core.CompetitionHigh, fmt.Sprintf("High review volume (%d reviews)", reviewCount)
	}
}

// reconcileAdPressure merges the search-page baseline with detail-level
// sponsorship signals. Signals only escalate the level, never lower it.
// Two signals together always mean High.
func reconcileAdPressure(baseline core.AdPressure, sponsored bool, sponsoredCount int) core.AdPressure {
	steps := 0
	if sponsored {
		steps++
	}
	if sponsoredCount > 5 {
		steps++
	}
	if steps >= 2 {
		return core.AdPressureHigh
	}
	if steps == 0 {
		return baseline
	}

	switch baseline {
	case core.AdPressureHigh:
		return core.AdPressureHigh
	case core.AdPressureMedium:
		return core.AdPressureHigh
	case core.AdPressureLow:
		return core.AdPressureMedium
	default:
		// no baseline to escalate from, a single signal reads as Low
		return core.AdPressureLow
	}
}

// estimateMonthlySales applies the legacy rank-based sales heuristic.
// The value is display-only and does not feed the score.
func estimateMonthlySales(rank int) int {
	if rank <= 0 || rank >= core.UnrankedSentinel {
		return 0
	}
	var estimate float64
	switch {
	case rank < 100:
		estimate = 10000 + float64(100-rank)*200
	case rank < 1000:
		estimate = 3000 + float64(1000-rank)*7
	case rank < 10000:
		estimate = 500 + float64(10000-rank)*0.25
	default:
		estimate = math.Max(100, 500-float64(rank-10000)*0.05)
	}
	return int(estimate)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
