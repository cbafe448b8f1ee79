package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"trendscout/internal/config"
	"trendscout/internal/core"
	"trendscout/internal/logger"
)

// flexString decodes a field that upstream serializes either as a bare
// string or as an object carrying a name/value key.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}

	var obj struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		if obj.Name != "" {
			*f = flexString(obj.Name)
		} else {
			*f = flexString(obj.Value)
		}
		return nil
	}

	*f = ""
	return nil
}

// flexFloat decodes a number that upstream serializes as a bare number,
// a formatted string, or an object with a value key. Unparsable input
// decodes to 0.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
		s = strings.ReplaceAll(s, ",", "")
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*f = flexFloat(v)
		} else {
			*f = 0
		}
		return nil
	}

	var obj struct {
		Value float64 `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		*f = flexFloat(obj.Value)
		return nil
	}

	*f = 0
	return nil
}

// MarketProvider implements Provider against a marketplace data API. It
// serves as a fallback when the catalog search fails or comes back empty.
type MarketProvider struct {
	endpoint     string
	apiKey       string
	domain       string
	adSampleSize int
	client       *http.Client
}

// NewMarketProvider creates a new marketplace API provider
func NewMarketProvider(cfg config.Market, adSampleSize int) *MarketProvider {
	timeout := 30 * time.Second
	if d, err := time.ParseDuration(cfg.Timeout); err == nil && d > 0 {
		timeout = d
	}
	if adSampleSize <= 0 {
		adSampleSize = 20
	}

	return &MarketProvider{
		endpoint:     cfg.Endpoint,
		apiKey:       cfg.APIKey,
		domain:       cfg.Domain,
		adSampleSize: adSampleSize,
		client:       &http.Client{Timeout: timeout},
	}
}

// GetName returns the name of this provider
func (p *MarketProvider) GetName() string {
	return "Market"
}

type marketResult struct {
	ASIN        string     `json:"asin"`
	Title       string     `json:"title"`
	Brand       flexString `json:"brand"`
	Price       flexFloat  `json:"price"`
	Image       string     `json:"image"`
	CategoryRaw flexString `json:"category"`
	IsSponsored bool       `json:"is_sponsored"`
}

// Search queries the marketplace search endpoint and stamps every
// candidate with the ad pressure observed over the leading results.
func (p *MarketProvider) Search(ctx context.Context, query Query) ([]core.Candidate, error) {
	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("api_key", p.apiKey)
	params.Set("type", "search")
	params.Set("amazon_domain", p.domain)
	params.Set("search_term", query.Terms)
	params.Set("sort_by", "featured")
	if query.Category != "" {
		params.Set("search_filter", "department:"+query.Category)
	}

	fullURL := p.endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create market request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute market request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market request failed with status: %d", resp.StatusCode)
	}

	var apiResponse struct {
		SearchResults []marketResult `json:"search_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse market response: %w", err)
	}

	results := apiResponse.SearchResults
	pressure, ratio := MeasureAdPressure(sponsoredFlags(results), p.adSampleSize)

	candidates := make([]core.Candidate, 0, len(results))
	for i, r := range results {
		if query.Limit > 0 && i >= query.Limit {
			break
		}
		candidates = append(candidates, core.Candidate{
			ASIN:           r.ASIN,
			Title:          r.Title,
			Brand:          string(r.Brand),
			Price:          float64(r.Price),
			Category:       string(r.CategoryRaw),
			ImageURL:       r.Image,
			AdPressure:     pressure,
			SponsoredRatio: ratio,
		})
	}

	logger.Info("market search completed",
		"terms", query.Terms,
		"results_found", len(candidates),
		"ad_pressure", string(pressure))

	return candidates, nil
}

func sponsoredFlags(results []marketResult) []bool {
	flags := make([]bool, len(results))
	for i, r := range results {
		flags[i] = r.IsSponsored
	}
	return flags
}

// MeasureAdPressure classifies how crowded with sponsored placements a
// result page is, sampling at most sampleSize leading entries. The
// ratio boundaries are inclusive on the medium band.
func MeasureAdPressure(sponsored []bool, sampleSize int) (core.AdPressure, float64) {
	if len(sponsored) == 0 {
		return core.AdPressureUnknown, 0
	}
	if sampleSize <= 0 {
		sampleSize = 20
	}
	if len(sponsored) > sampleSize {
		sponsored = sponsored[:sampleSize]
	}

	count := 0
	for _, s := range sponsored {
		if s {
			count++
		}
	}
	ratio := float64(count) / float64(len(sponsored))

	switch {
	case ratio < 0.2:
		return core.AdPressureLow, ratio
	case ratio <= 0.5:
		return core.AdPressureMedium, ratio
	default:
		return core.AdPressureHigh, ratio
	}
}
