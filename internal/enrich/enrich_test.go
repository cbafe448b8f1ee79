package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"

	"trendscout/internal/core"
	"trendscout/internal/search"
)

func TestEnrichDerivesWholesaleAndMargin(t *testing.T) {
	fetcher := search.NewMockDetailFetcher()
	enricher := NewEnricher(fetcher, 0.55)

	product, err := enricher.Enrich(context.Background(), core.Candidate{ASIN: "B0MOCK0001", Price: 24.99})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if product.WholesalePrice != 13.74 {
		t.Errorf("WholesalePrice = %v, want 13.74", product.WholesalePrice)
	}
	if product.WholesalePrice > product.Price {
		t.Errorf("wholesale %v exceeds retail %v", product.WholesalePrice, product.Price)
	}
	if product.ProfitMargin != 45.02 {
		t.Errorf("ProfitMargin = %v, want 45.02", product.ProfitMargin)
	}
}

func TestEnrichZeroPriceYieldsZeroMargin(t *testing.T) {
	fetcher := search.NewMockDetailFetcher()
	fetcher.SetDetail("B0FREE0001", search.Detail{ASIN: "B0FREE0001", Title: "No Price Item"})
	enricher := NewEnricher(fetcher, 0.55)

	product, err := enricher.Enrich(context.Background(), core.Candidate{ASIN: "B0FREE0001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.ProfitMargin != 0 || product.WholesalePrice != 0 {
		t.Errorf("expected zero wholesale and margin, got %v / %v", product.WholesalePrice, product.ProfitMargin)
	}
}

func TestEnrichFetchFailurePropagates(t *testing.T) {
	fetcher := search.NewMockDetailFetcher()
	fetcher.SetError(errors.New("detail API down"))
	enricher := NewEnricher(fetcher, 0.55)

	_, err := enricher.Enrich(context.Background(), core.Candidate{ASIN: "B0MOCK0001"})
	if err == nil {
		t.Error("expected error when detail fetch fails")
	}
}

func TestOverallRank(t *testing.T) {
	tests := []struct {
		name  string
		ranks []core.CategoryRank
		want  int
	}{
		{"no ranks is unranked", nil, core.UnrankedSentinel},
		{"single rank", []core.CategoryRank{{Category: "Kitchen", Rank: 42}}, 42},
		{
			"minimum across categories wins",
			[]core.CategoryRank{{Category: "Travel Mugs", Rank: 15}, {Category: "Kitchen", Rank: 310}},
			15,
		},
		{"zero ranks ignored", []core.CategoryRank{{Category: "Kitchen", Rank: 0}}, core.UnrankedSentinel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overallRank(tt.ranks); got != tt.want {
				t.Errorf("overallRank() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClassifyCompetition(t *testing.T) {
	tests := []struct {
		name    string
		sellers []string
		reviews int
		want    core.CompetitionLevel
	}{
		{"two sellers is low", []string{"A", "B"}, 0, core.CompetitionLow},
		{"five sellers is medium", []string{"A", "B", "C", "D", "E"}, 100, core.CompetitionMedium},
		{"six sellers is high", []string{"A", "B", "C", "D", "E", "F"}, 0, core.CompetitionHigh},
		{"no data is unknown", nil, 0, core.CompetitionUnknown},
		{"few reviews is low", nil, 499, core.CompetitionLow},
		{"moderate reviews is medium", nil, 999, core.CompetitionMedium},
		{"many reviews is high", nil, 1000, core.CompetitionHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, rationale := classifyCompetition(tt.sellers, tt.reviews)
			if level != tt.want {
				t.Errorf("classifyCompetition() = %q, want %q", level, tt.want)
			}
			if rationale == "" {
				t.Error("rationale should never be empty")
			}
		})
	}
}

func TestClassifyCompetitionAppendsReviewContext(t *testing.T) {
	_, rationale := classifyCompetition([]string{"A", "B", "C"}, 250)
	if !strings.Contains(rationale, "250") {
		t.Errorf("rationale %q should mention the review count", rationale)
	}
}

func TestReconcileAdPressure(t *testing.T) {
	tests := []struct {
		name           string
		baseline       core.AdPressure
		sponsored      bool
		sponsoredCount int
		want           core.AdPressure
	}{
		{"no signals keep baseline", core.AdPressureLow, false, 0, core.AdPressureLow},
		{"own sponsored escalates one step", core.AdPressureLow, true, 0, core.AdPressureMedium},
		{"related sponsored escalates one step", core.AdPressureMedium, false, 6, core.AdPressureHigh},
		{"both signals force high", core.AdPressureLow, true, 6, core.AdPressureHigh},
		{"never de-escalates", core.AdPressureHigh, false, 0, core.AdPressureHigh},
		{"five related is not a signal", core.AdPressureLow, false, 5, core.AdPressureLow},
		{"no baseline single signal reads low", core.AdPressureUnknown, true, 0, core.AdPressureLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconcileAdPressure(tt.baseline, tt.sponsored, tt.sponsoredCount)
			if got != tt.want {
				t.Errorf("reconcileAdPressure() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEstimateMonthlySales(t *testing.T) {
	tests := []struct {
		rank int
		want int
	}{
		{1, 29800},
		{50, 20000},
		{500, 6500},
		{5000, 1750},
		{20000, 100},
		{core.UnrankedSentinel, 0},
	}

	for _, tt := range tests {
		if got := estimateMonthlySales(tt.rank); got != tt.want {
			t.Errorf("estimateMonthlySales(%d) = %d, want %d", tt.rank, got, tt.want)
		}
	}
}
