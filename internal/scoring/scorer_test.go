package scoring

import (
	"testing"

	"trendscout/internal/config"
	"trendscout/internal/core"
)

func testScoringConfig() config.Scoring {
	return config.Scoring{
		Weights: config.Weights{
			Rating:     0.25,
			Reviews:    0.15,
			Rank:       0.20,
			Margin:     0.25,
			AdPressure: 0.15,
		},
		WholesaleRatio: 0.55,
		ReviewNorm:     5000,
		RankNorm:       100,
		AdTermLow:      1.0,
		AdTermMedium:   0.5,
		AdTermHigh:     0.1,
	}
}

func TestScoreWeightedSum(t *testing.T) {
	engine := NewEngine(testScoringConfig())

	p := core.Product{
		Rating:          4.5,
		ReviewCount:     2500,
		BestSellerRank:  50,
		ProfitMargin:    45.0,
		AdPressureLevel: core.AdPressureLow,
	}
	// 0.25*0.9 + 0.15*0.5 + 0.20*0.5 + 0.25*0.45 + 0.15*1.0 = 0.6625
	if got := engine.Score(p); got != 66.25 {
		t.Errorf("Score() = %v, want 66.25", got)
	}
}

func TestScoreBounds(t *testing.T) {
	engine := NewEngine(testScoringConfig())

	best := core.Product{
		Rating:          5,
		ReviewCount:     10000,
		BestSellerRank:  1,
		ProfitMargin:    100,
		AdPressureLevel: core.AdPressureLow,
	}
	// rank term is 1 - 1/100 = 0.99, so the maximum is just under 100
	if got := engine.Score(best); got != 99.8 {
		t.Errorf("best case Score() = %v, want 99.8", got)
	}

	worst := core.Product{AdPressureLevel: core.AdPressureHigh}
	if got := engine.Score(worst); got != 1.5 {
		// only the ad term contributes: 0.15 * 0.1 = 0.015
		t.Errorf("worst case Score() = %v, want 1.5", got)
	}

	for _, p := range []core.Product{best, worst} {
		s := engine.Score(p)
		if s < 0 || s > 100 {
			t.Errorf("score %v out of [0,100]", s)
		}
	}
}

func TestScoreDeterministic(t *testing.T) {
	engine := NewEngine(testScoringConfig())
	p := core.Product{Rating: 4.2, ReviewCount: 870, BestSellerRank: 15, ProfitMargin: 45, AdPressureLevel: core.AdPressureMedium}

	first := engine.Score(p)
	for i := 0; i < 10; i++ {
		if got := engine.Score(p); got != first {
			t.Fatalf("score changed between identical calls: %v vs %v", first, got)
		}
	}
}

func TestScoreMissingFieldsLeastFavorable(t *testing.T) {
	engine := NewEngine(testScoringConfig())

	unranked := core.Product{Rating: 4, BestSellerRank: core.UnrankedSentinel, AdPressureLevel: core.AdPressureLow}
	ranked := unranked
	ranked.BestSellerRank = 10
	if engine.Score(unranked) >= engine.Score(ranked) {
		t.Error("unranked product should score below an identical ranked one")
	}

	// unknown ad pressure reads as the middle band
	unknown := core.Product{Rating: 4}
	medium := unknown
	medium.AdPressureLevel = core.AdPressureMedium
	if engine.Score(unknown) != engine.Score(medium) {
		t.Error("unknown ad pressure should score like Medium")
	}
}

func TestScoreRankMonotonicity(t *testing.T) {
	engine := NewEngine(testScoringConfig())
	base := core.Product{Rating: 4, ReviewCount: 1000, ProfitMargin: 40, AdPressureLevel: core.AdPressureLow}

	prev := -1.0
	for _, rank := range []int{100, 80, 50, 20, 5, 1} {
		p := base
		p.BestSellerRank = rank
		s := engine.Score(p)
		if s < prev {
			t.Errorf("score decreased as rank improved: rank=%d score=%v prev=%v", rank, s, prev)
		}
		prev = s
	}
}
