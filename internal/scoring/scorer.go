// Package scoring computes the 0-100 opportunity score for enriched
// products and applies user filter criteria to scored result sets.
package scoring

import (
	"math"

	"trendscout/internal/config"
	"trendscout/internal/core"
)

// missingRank is the least favorable rank assumed when a product has no
// best-seller rank at all. Any value past the rank normalization window
// zeroes the rank term.
const missingRank = 1000

// Engine scores products with the configured weight set. The weights
// must sum to 1.0, which config validation enforces.
type Engine struct {
	cfg config.Scoring
}

// NewEngine creates a scoring engine from the scoring configuration.
func NewEngine(cfg config.Scoring) *Engine {
	return &Engine{cfg: cfg}
}

// Score computes the weighted opportunity score for a product. The
// result is deterministic for identical input and always in [0, 100].
func (e *Engine) Score(p core.Product) float64 {
	ratingTerm := clamp01(p.Rating / 5)

	reviewTerm := math.Min(float64(p.ReviewCount)/e.cfg.ReviewNorm, 1)
	if p.ReviewCount < 0 {
		reviewTerm = 0
	}

	rank := p.BestSellerRank
	if rank <= 0 || rank >= core.UnrankedSentinel {
		rank = missingRank
	}
	rankTerm := 1 - math.Min(float64(rank)/e.cfg.RankNorm, 1)

	marginTerm := clamp01(p.ProfitMargin / 100)

	score := e.cfg.Weights.Rating*ratingTerm +
		e.cfg.Weights.Reviews*reviewTerm +
		e.cfg.Weights.Rank*rankTerm +
		e.cfg.Weights.Margin*marginTerm +
		e.cfg.Weights.AdPressure*e.adTerm(p.AdPressureLevel)

	return round2(clamp01(score) * 100)
}

// adTerm maps the ad pressure level to its score contribution. An
// unknown level is treated as the middle band.
func (e *Engine) adTerm(level core.AdPressure) float64 {
	switch level {
	case core.AdPressureLow:
		return e.cfg.AdTermLow
	case core.AdPressureHigh:
		return e.cfg.AdTermHigh
	default:
		return e.cfg.AdTermMedium
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
