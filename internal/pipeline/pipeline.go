// Package pipeline orchestrates the recommendation flow: intent
// extraction, candidate search, detail enrichment, scoring, filtering,
// and ranking.
package pipeline

import (
	"context"
	"sort"

	"trendscout/internal/config"
	"trendscout/internal/core"
	"trendscout/internal/enrich"
	"trendscout/internal/intent"
	"trendscout/internal/logger"
	"trendscout/internal/scoring"
	"trendscout/internal/search"
)

// DefaultResultCount is how many products a recommendation returns when
// the caller does not ask for a specific count.
const DefaultResultCount = 5

// Result is the outcome of one recommendation run.
type Result struct {
	Query    string
	Intent   core.SearchIntent
	Criteria core.FilterCriteria
	Products []core.Product
}

// Pipeline wires the stages together. Each stage is injectable so tests
// can run the whole flow against mocks.
type Pipeline struct {
	extractor *intent.Extractor
	provider  search.Provider
	enricher  *enrich.Enricher
	engine    *scoring.Engine

	overfetchFactor int
	overfetchMin    int
}

// New creates a pipeline from its stages and the search configuration.
func New(extractor *intent.Extractor, provider search.Provider, enricher *enrich.Enricher, engine *scoring.Engine, cfg config.Search) *Pipeline {
	factor := cfg.OverfetchFactor
	if factor <= 0 {
		factor = 3
	}
	min := cfg.OverfetchMin
	if min <= 0 {
		min = 15
	}

	return &Pipeline{
		extractor:       extractor,
		provider:        provider,
		enricher:        enricher,
		engine:          engine,
		overfetchFactor: factor,
		overfetchMin:    min,
	}
}

// Recommend runs the full flow for a natural language query and returns
// up to numResults scored products, best first. A non-empty category
// overrides whatever category intent extraction found.
func (p *Pipeline) Recommend(ctx context.Context, query string, numResults int, category string) (Result, error) {
	if numResults <= 0 {
		numResults = DefaultResultCount
	}

	searchIntent, criteria := p.extractor.Extract(ctx, query)
	if category != "" {
		searchIntent.Category = category
	}
	result := Result{Query: query, Intent: searchIntent, Criteria: criteria}

	// Fetch more than requested so enrichment losses and filtering
	// still leave enough to rank.
	limit := numResults * p.overfetchFactor
	if limit < p.overfetchMin {
		limit = p.overfetchMin
	}

	candidates, err := p.provider.Search(ctx, search.Query{
		Terms:    searchIntent.SearchTerms,
		Category: searchIntent.Category,
		Limit:    limit,
	})
	if err != nil {
		logger.Warn("search failed, returning empty recommendation", "error", err.Error())
		return result, nil
	}
	if len(candidates) == 0 {
		logger.Info("search returned no candidates", "terms", searchIntent.SearchTerms)
		return result, nil
	}

	products := p.enrichAll(ctx, candidates)
	for i := range products {
		products[i].Score = p.engine.Score(products[i])
	}

	products = scoring.ApplyFilters(products, criteria)

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Score > products[j].Score
	})
	if len(products) > numResults {
		products = products[:numResults]
	}

	result.Products = products

	logger.Info("recommendation completed",
		"query", query,
		"candidates", len(candidates),
		"returned", len(products))

	return result, nil
}

// enrichAll enriches every candidate that carries an identifier,
// skipping failures rather than aborting the batch.
func (p *Pipeline) enrichAll(ctx context.Context, candidates []core.Candidate) []core.Product {
	products := make([]core.Product, 0, len(candidates))
	for _, c := range candidates {
		if c.ASIN == "" {
			continue
		}
		product, err := p.enricher.Enrich(ctx, c)
		if err != nil {
			logger.Warn("skipping candidate after enrichment failure", "asin", c.ASIN, "error", err.Error())
			continue
		}
		products = append(products, product)
	}
	return products
}

// Details enriches and scores a single product by identifier.
func (p *Pipeline) Details(ctx context.Context, asin string) (core.Product, error) {
	product, err := p.enricher.Enrich(ctx, core.Candidate{ASIN: asin})
	if err != nil {
		return core.Product{}, err
	}
	product.Score = p.engine.Score(product)
	return product, nil
}

// ComputeScore exposes the scoring engine for callers that already hold
// an enriched product.
func (p *Pipeline) ComputeScore(product core.Product) float64 {
	return p.engine.Score(product)
}
