package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"trendscout/internal/config"
	"trendscout/internal/core"
	"trendscout/internal/logger"
)

// MarketDetailFetcher implements DetailFetcher against the marketplace
// data API's product endpoint.
type MarketDetailFetcher struct {
	endpoint string
	apiKey   string
	domain   string
	client   *http.Client
}

// NewMarketDetailFetcher creates a new product detail fetcher
func NewMarketDetailFetcher(cfg config.Market) *MarketDetailFetcher {
	timeout := 30 * time.Second
	if d, err := time.ParseDuration(cfg.Timeout); err == nil && d > 0 {
		timeout = d
	}

	return &MarketDetailFetcher{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		domain:   cfg.Domain,
		client:   &http.Client{Timeout: timeout},
	}
}

type detailResponse struct {
	Product struct {
		ASIN      string     `json:"asin"`
		Title     string     `json:"title"`
		Brand     flexString `json:"brand"`
		MainImage struct {
			Link string `json:"link"`
		} `json:"main_image"`
		Rating       float64 `json:"rating"`
		RatingsTotal int     `json:"ratings_total"`
		BuyboxWinner struct {
			Price flexFloat `json:"price"`
		} `json:"buybox_winner"`
		BestsellersRank []struct {
			Category string `json:"category"`
			Rank     int    `json:"rank"`
		} `json:"bestsellers_rank"`
		Categories []struct {
			Name string `json:"name"`
		} `json:"categories"`
		Sellers []struct {
			Name string `json:"name"`
		} `json:"sellers"`
		Sponsored      bool `json:"sponsored"`
		SponsoredCount int  `json:"sponsored_products_count"`
	} `json:"product"`
}

// Fetch retrieves the full detail record for one ASIN.
func (f *MarketDetailFetcher) Fetch(ctx context.Context, asin string) (Detail, error) {
	if f.apiKey == "" {
		return Detail{}, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("api_key", f.apiKey)
	params.Set("type", "product")
	params.Set("amazon_domain", f.domain)
	params.Set("asin", asin)
	params.Set("include_data", "ratings,pricing,bestsellers_rank,sellers,sponsored")

	fullURL := f.endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return Detail{}, fmt.Errorf("failed to create detail request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Detail{}, fmt.Errorf("failed to execute detail request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Detail{}, fmt.Errorf("detail request failed with status: %d", resp.StatusCode)
	}

	var dr detailResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return Detail{}, fmt.Errorf("failed to parse detail response: %w", err)
	}

	p := dr.Product
	detail := Detail{
		ASIN:           p.ASIN,
		Title:          p.Title,
		Brand:          string(p.Brand),
		ImageURL:       p.MainImage.Link,
		Rating:         p.Rating,
		RatingsTotal:   p.RatingsTotal,
		BuyboxPrice:    float64(p.BuyboxWinner.Price),
		IsSponsored:    p.Sponsored,
		SponsoredCount: p.SponsoredCount,
	}
	if detail.ASIN == "" {
		detail.ASIN = asin
	}
	if len(p.Categories) > 0 {
		detail.Category = p.Categories[0].Name
	}
	for _, br := range p.BestsellersRank {
		detail.BestsellerRanks = append(detail.BestsellerRanks, core.CategoryRank{
			Category: br.Category,
			Rank:     br.Rank,
		})
	}
	for _, s := range p.Sellers {
		detail.Sellers = append(detail.Sellers, s.Name)
	}

	logger.Debug("product detail fetched", "asin", asin, "ranks", len(detail.BestsellerRanks))

	return detail, nil
}
