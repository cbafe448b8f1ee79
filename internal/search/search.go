package search

import (
	"context"

	"trendscout/internal/config"
	"trendscout/internal/core"
)

// Query holds the parameters for one product search request.
type Query struct {
	Terms    string // Free-text search terms
	Category string // Optional category constraint ("" for none)
	Limit    int    // Maximum number of candidates to return
}

// Provider defines the unified interface for product search providers.
type Provider interface {
	// Search returns candidate products for the query.
	Search(ctx context.Context, query Query) ([]core.Candidate, error)

	// GetName returns the name of the search provider.
	GetName() string
}

// DetailFetcher fetches the detail record for a single catalog identifier.
type DetailFetcher interface {
	Fetch(ctx context.Context, asin string) (Detail, error)
}

// Detail is the raw per-product record returned by the detail API,
// before any derived fields are computed.
type Detail struct {
	ASIN            string
	Title           string
	Brand           string
	Category        string
	ImageURL        string
	Rating          float64
	RatingsTotal    int
	BuyboxPrice     float64
	BestsellerRanks []core.CategoryRank
	Sellers         []string
	IsSponsored     bool
	SponsoredCount  int
}

// ProviderType represents the type of search provider
type ProviderType string

const (
	ProviderTypeCatalog ProviderType = "catalog"
	ProviderTypeMarket  ProviderType = "market"
	ProviderTypeScrape  ProviderType = "scrape"
	ProviderTypeMock    ProviderType = "mock"
)

// ProviderFactory creates search providers based on type and configuration
type ProviderFactory struct{}

// NewProviderFactory creates a new provider factory
func NewProviderFactory() *ProviderFactory {
	return &ProviderFactory{}
}

// CreateProvider creates a search provider of the specified type
func (f *ProviderFactory) CreateProvider(providerType ProviderType, cfg *config.Config) (Provider, error) {
	switch providerType {
	case ProviderTypeCatalog:
		if cfg.Catalog.AccessToken == "" {
			return nil, ErrMissingAccessToken
		}
		return NewCatalogProvider(cfg.Catalog), nil
	case ProviderTypeMarket:
		if cfg.Market.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return NewMarketProvider(cfg.Market, cfg.Search.AdSampleSize), nil
	case ProviderTypeScrape:
		return NewScrapeProvider(cfg.Market.Domain, cfg.Search.AdSampleSize), nil
	case ProviderTypeMock:
		return NewMockProvider(), nil
	default:
		return nil, ErrUnsupportedProvider
	}
}

// NewChainFromConfig builds the standard primary-with-fallback provider
// chain the pipeline uses: catalog first, then whichever fallback the
// configuration selects.
func NewChainFromConfig(cfg *config.Config) *Chain {
	primary := NewCatalogProvider(cfg.Catalog)

	var fallback Provider
	if cfg.Search.FallbackProvider == "scrape" {
		fallback = NewScrapeProvider(cfg.Market.Domain, cfg.Search.AdSampleSize)
	} else {
		fallback = NewMarketProvider(cfg.Market, cfg.Search.AdSampleSize)
	}

	return NewChain(primary, fallback)
}
