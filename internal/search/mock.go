package search

import (
	"context"

	"trendscout/internal/core"
)

// MockProvider implements Provider for testing purposes
type MockProvider struct {
	name       string
	candidates []core.Candidate
	err        error
}

// NewMockProvider creates a new mock search provider
func NewMockProvider() *MockProvider {
	return &MockProvider{
		name: "Mock",
		candidates: []core.Candidate{
			{
				ASIN:           "B0MOCK0001",
				Title:          "Stainless Steel Water Bottle 32oz",
				Brand:          "HydraPeak",
				Price:          24.99,
				Category:       "Kitchen",
				ImageURL:       "https://example.com/bottle.jpg",
				AdPressure:     core.AdPressureLow,
				SponsoredRatio: 0.1,
			},
			{
				ASIN:           "B0MOCK0002",
				Title:          "Insulated Travel Mug 16oz",
				Brand:          "RoamWare",
				Price:          18.50,
				Category:       "Kitchen",
				ImageURL:       "https://example.com/mug.jpg",
				AdPressure:     core.AdPressureLow,
				SponsoredRatio: 0.1,
			},
			{
				ASIN:           "B0MOCK0003",
				Title:          "Glass Infuser Bottle with Sleeve",
				Brand:          "LeafJoy",
				Price:          31.00,
				Category:       "Kitchen",
				ImageURL:       "https://example.com/infuser.jpg",
				AdPressure:     core.AdPressureLow,
				SponsoredRatio: 0.1,
			},
		},
	}
}

// GetName returns the name of this provider
func (m *MockProvider) GetName() string {
	return m.name
}

// Search returns mock candidates, truncated to the query limit.
func (m *MockProvider) Search(ctx context.Context, query Query) ([]core.Candidate, error) {
	if m.err != nil {
		return nil, m.err
	}

	max := query.Limit
	if max <= 0 || max > len(m.candidates) {
		max = len(m.candidates)
	}

	results := make([]core.Candidate, max)
	copy(results, m.candidates[:max])
	return results, nil
}

// SetCandidates allows customization of mock results for testing
func (m *MockProvider) SetCandidates(candidates []core.Candidate) {
	m.candidates = candidates
}

// SetError makes subsequent searches fail with err.
func (m *MockProvider) SetError(err error) {
	m.err = err
}

// MockDetailFetcher implements DetailFetcher for testing purposes
type MockDetailFetcher struct {
	details map[string]Detail
	err     error
}

// NewMockDetailFetcher creates a detail fetcher seeded with records for
// the mock provider's candidates.
func NewMockDetailFetcher() *MockDetailFetcher {
	return &MockDetailFetcher{
		details: map[string]Detail{
			"B0MOCK0001": {
				ASIN:            "B0MOCK0001",
				Title:           "Stainless Steel Water Bottle 32oz",
				Brand:           "HydraPeak",
				Category:        "Kitchen",
				Rating:          4.6,
				RatingsTotal:    2350,
				BuyboxPrice:     24.99,
				BestsellerRanks: []core.CategoryRank{{Category: "Kitchen & Dining", Rank: 42}},
				Sellers:         []string{"HydraPeak Direct"},
			},
			"B0MOCK0002": {
				ASIN:            "B0MOCK0002",
				Title:           "Insulated Travel Mug 16oz",
				Brand:           "RoamWare",
				Category:        "Kitchen",
				Rating:          4.2,
				RatingsTotal:    870,
				BuyboxPrice:     18.50,
				BestsellerRanks: []core.CategoryRank{{Category: "Travel Mugs", Rank: 15}, {Category: "Kitchen & Dining", Rank: 310}},
				Sellers:         []string{"RoamWare", "DealHub", "PrimeGoods"},
			},
			"B0MOCK0003": {
				ASIN:            "B0MOCK0003",
				Title:           "Glass Infuser Bottle with Sleeve",
				Brand:           "LeafJoy",
				Category:        "Kitchen",
				Rating:          4.8,
				RatingsTotal:    120,
				BuyboxPrice:     31.00,
				BestsellerRanks: []core.CategoryRank{{Category: "Tea Accessories", Rank: 8}},
				Sellers:         []string{"LeafJoy"},
			},
		},
	}
}

// Fetch returns the seeded detail for asin, or ErrNoResults when the
// ASIN is unknown.
func (m *MockDetailFetcher) Fetch(ctx context.Context, asin string) (Detail, error) {
	if m.err != nil {
		return Detail{}, m.err
	}
	d, ok := m.details[asin]
	if !ok {
		return Detail{}, ErrNoResults
	}
	return d, nil
}

// SetDetail seeds or overrides the record for one ASIN.
func (m *MockDetailFetcher) SetDetail(asin string, d Detail) {
	m.details[asin] = d
}

// SetError makes subsequent fetches fail with err.
func (m *MockDetailFetcher) SetError(err error) {
	m.err = err
}
