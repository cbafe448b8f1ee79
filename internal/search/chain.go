package search

import (
	"context"

	"trendscout/internal/core"
	"trendscout/internal/logger"
)

// Chain is a Provider that queries the primary provider and, on any
// failure or empty result, delegates to the fallback provider with the
// same query. This is not a retry: the fallback has its own field
// semantics (ad-pressure signals, flattened nested shapes).
type Chain struct {
	primary  Provider
	fallback Provider
}

// NewChain creates a provider chain with the given primary and fallback.
func NewChain(primary, fallback Provider) *Chain {
	return &Chain{primary: primary, fallback: fallback}
}

// GetName returns the name of this provider
func (c *Chain) GetName() string {
	return c.primary.GetName() + "+" + c.fallback.GetName()
}

// Search queries the primary provider, falling back on error or no results.
func (c *Chain) Search(ctx context.Context, query Query) ([]core.Candidate, error) {
	candidates, err := c.primary.Search(ctx, query)
	if err == nil && len(candidates) > 0 {
		return candidates, nil
	}
	if err != nil {
		logger.Warn("primary search failed, falling back",
			"provider", c.primary.GetName(), "fallback", c.fallback.GetName(), "error", err.Error())
	} else {
		logger.Debug("primary search returned no results, falling back",
			"provider", c.primary.GetName(), "terms", query.Terms)
	}

	return c.fallback.Search(ctx, query)
}
