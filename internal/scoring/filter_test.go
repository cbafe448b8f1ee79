package scoring

import (
	"testing"

	"trendscout/internal/core"
)

func f64(v float64) *float64 { return &v }
func i(v int) *int           { return &v }

func sampleProducts() []core.Product {
	return []core.Product{
		{
			Candidate:    core.Candidate{ASIN: "B0A", Price: 24.99},
			Rating:       4.6,
			ReviewCount:  2350,
			ProfitMargin: 45.02,
			Score:        72.5,
		},
		{
			Candidate:    core.Candidate{ASIN: "B0B", Price: 18.50},
			Rating:       4.2,
			ReviewCount:  870,
			ProfitMargin: 45.03,
			Score:        61.0,
		},
		{
			Candidate:    core.Candidate{ASIN: "B0C", Price: 31.00},
			Rating:       4.8,
			ReviewCount:  120,
			ProfitMargin: 45.0,
			Score:        68.2,
		},
	}
}

func TestApplyFiltersEmptyCriteriaPassesThrough(t *testing.T) {
	products := sampleProducts()
	got := ApplyFilters(products, core.FilterCriteria{})
	if len(got) != len(products) {
		t.Errorf("expected all %d products, got %d", len(products), len(got))
	}
}

func TestApplyFiltersMaxPrice(t *testing.T) {
	got := ApplyFilters(sampleProducts(), core.FilterCriteria{MaxPrice: f64(25)})
	if len(got) != 2 {
		t.Fatalf("expected 2 products under $25, got %d", len(got))
	}
	for _, p := range got {
		if p.Price > 25 {
			t.Errorf("product %s priced %v exceeds max price", p.ASIN, p.Price)
		}
	}
}

func TestApplyFiltersMinRatingAndMaxReviews(t *testing.T) {
	got := ApplyFilters(sampleProducts(), core.FilterCriteria{
		MinRating:  f64(4.5),
		MaxReviews: i(500),
	})
	if len(got) != 1 || got[0].ASIN != "B0C" {
		t.Errorf("expected only B0C, got %+v", got)
	}
}

func TestApplyFiltersMinMargin(t *testing.T) {
	got := ApplyFilters(sampleProducts(), core.FilterCriteria{MinMargin: f64(45.01)})
	if len(got) != 2 {
		t.Errorf("expected 2 products at or above 45.01%% margin, got %d", len(got))
	}
}

func TestApplyFiltersNeverEmptiesNonEmptyInput(t *testing.T) {
	// impossible criterion wipes everything; top scored survive instead
	got := ApplyFilters(sampleProducts(), core.FilterCriteria{MaxPrice: f64(1)})
	if len(got) != 3 {
		t.Fatalf("expected top 3 fallback, got %d", len(got))
	}
	if got[0].ASIN != "B0A" || got[1].ASIN != "B0C" || got[2].ASIN != "B0B" {
		t.Errorf("fallback not ordered by score: %s, %s, %s", got[0].ASIN, got[1].ASIN, got[2].ASIN)
	}
}

func TestApplyFiltersFallbackCapsAtInputSize(t *testing.T) {
	products := sampleProducts()[:2]
	got := ApplyFilters(products, core.FilterCriteria{MaxPrice: f64(1)})
	if len(got) != 2 {
		t.Errorf("expected min(3, N)=2 fallback products, got %d", len(got))
	}
}

func TestApplyFiltersEmptyInputStaysEmpty(t *testing.T) {
	got := ApplyFilters(nil, core.FilterCriteria{MaxPrice: f64(1)})
	if len(got) != 0 {
		t.Errorf("expected empty output for empty input, got %d", len(got))
	}
}
