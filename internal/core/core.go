package core

import "time"

// AdPressure classifies how saturated a search space is with sponsored listings.
type AdPressure string

const (
	AdPressureUnknown AdPressure = ""
	AdPressureLow     AdPressure = "Low"
	AdPressureMedium  AdPressure = "Medium"
	AdPressureHigh    AdPressure = "High"
)

// CompetitionLevel classifies market crowding for a product.
type CompetitionLevel string

const (
	CompetitionUnknown CompetitionLevel = "Unknown"
	CompetitionLow     CompetitionLevel = "Low"
	CompetitionMedium  CompetitionLevel = "Medium"
	CompetitionHigh    CompetitionLevel = "High"
)

// UnrankedSentinel is the best-seller rank assigned when the marketplace
// reports no rank at all. Any rank this large scores as the worst rank.
const UnrankedSentinel = 999999

// SearchIntent is the structured search request extracted from a free-text query.
type SearchIntent struct {
	SearchTerms string `json:"search_terms"` // Main terms to search the catalog with
	Category    string `json:"category"`     // Product category ("" if not specified)
}

// FilterCriteria holds user-specified constraints extracted from the query.
// Nil fields mean "no constraint".
type FilterCriteria struct {
	MinMargin  *float64 `json:"min_margin"`  // Minimum profit margin in percent
	MaxPrice   *float64 `json:"max_price"`   // Maximum retail price in dollars
	MinRating  *float64 `json:"min_rating"`  // Minimum average rating (0-5)
	MaxReviews *int     `json:"max_reviews"` // Maximum review count
	Category   string   `json:"category"`    // Category constraint ("" if none)
}

// IsEmpty reports whether no constraint was extracted at all.
func (c FilterCriteria) IsEmpty() bool {
	return c.MinMargin == nil && c.MaxPrice == nil && c.MinRating == nil &&
		c.MaxReviews == nil && c.Category == ""
}

// Candidate is a product returned by a search call, pre-enrichment.
// ASIN is the 10-character alphanumeric catalog identifier.
type Candidate struct {
	ASIN     string  `json:"asin"`
	Title    string  `json:"title"`
	Brand    string  `json:"brand"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	ImageURL string  `json:"image_url"`

	// Search-level ad-pressure signal, populated only by fallback search.
	AdPressure     AdPressure `json:"ad_pressure,omitempty"`
	SponsoredRatio float64    `json:"sponsored_ratio,omitempty"`
}

// CategoryRank is one (category, rank) pair from the marketplace best-seller lists.
type CategoryRank struct {
	Category string `json:"category"`
	Rank     int    `json:"rank"`
}

// Product is an enriched candidate: search data merged with detail-fetch data
// and the derived business heuristics. Wholesale price and profit margin are
// estimates, never sourced facts.
type Product struct {
	Candidate

	Rating         float64        `json:"rating"`
	ReviewCount    int            `json:"review_count"`
	BestSellerRank int            `json:"best_seller_rank"`
	CategoryRanks  []CategoryRank `json:"category_ranks,omitempty"`

	WholesalePrice float64 `json:"wholesale_price"`
	ProfitMargin   float64 `json:"profit_margin"`
	SalesEstimate  int     `json:"sales_estimate"`

	SellerCount int      `json:"seller_count"`
	Sellers     []string `json:"sellers,omitempty"`

	Sponsored       bool       `json:"sponsored"`
	SponsoredCount  int        `json:"sponsored_count"`
	AdPressureLevel AdPressure `json:"ad_pressure_level"`
	AdPressureScore float64    `json:"ad_pressure_score"`

	Competition          CompetitionLevel `json:"competition"`
	CompetitionRationale string           `json:"competition_rationale"`

	ListingURL string `json:"listing_url"`

	// Score is the weighted 0-100 viability score. Zero until scored.
	Score float64 `json:"score"`
}

// Conversation is one persisted chat exchange.
type Conversation struct {
	ID        int64             `json:"id"`
	UserInput string            `json:"user_input"`
	Response  string            `json:"assistant_response"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// StoredProduct is a product row as persisted, with the time it was discovered.
type StoredProduct struct {
	Product
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}
