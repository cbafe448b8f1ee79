package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"trendscout/internal/config"
	"trendscout/internal/core"
	"trendscout/internal/logger"
)

// CatalogProvider implements Provider against the structured catalog API.
// Authentication uses an externally acquired bearer token; token refresh
// is not this provider's concern.
type CatalogProvider struct {
	endpoint      string
	marketplaceID string
	accessToken   string
	client        *http.Client
}

// NewCatalogProvider creates a new catalog search provider
func NewCatalogProvider(cfg config.Catalog) *CatalogProvider {
	timeout := 30 * time.Second
	if d, err := time.ParseDuration(cfg.Timeout); err == nil && d > 0 {
		timeout = d
	}

	return &CatalogProvider{
		endpoint:      cfg.Endpoint,
		marketplaceID: cfg.MarketplaceID,
		accessToken:   cfg.AccessToken,
		client:        &http.Client{Timeout: timeout},
	}
}

// GetName returns the name of this provider
func (p *CatalogProvider) GetName() string {
	return "Catalog"
}

// catalogItem mirrors the shape of one item in the catalog API response.
type catalogItem struct {
	ASIN      string `json:"asin"`
	Summaries []struct {
		ItemName string `json:"itemName"`
		Brand    string `json:"brand"`
	} `json:"summaries"`
	ProductTypes []struct {
		ProductType string `json:"productType"`
	} `json:"productTypes"`
	Images []struct {
		Variant string `json:"variant"`
		Link    string `json:"link"`
	} `json:"images"`
	Attributes []struct {
		Name  string    `json:"name"`
		Value flexFloat `json:"value"`
	} `json:"attributes"`
}

// Search queries the catalog items endpoint by keyword.
func (p *CatalogProvider) Search(ctx context.Context, query Query) ([]core.Candidate, error) {
	if p.accessToken == "" {
		return nil, ErrMissingAccessToken
	}

	params := url.Values{}
	params.Set("keywords", query.Terms)
	params.Set("marketplaceIds", p.marketplaceID)
	params.Set("includedData", "summaries,images,productTypes,attributes")
	params.Set("pageSize", strconv.Itoa(query.Limit))
	if query.Category != "" {
		params.Set("productType", query.Category)
	}

	fullURL := p.endpoint + "/catalog/2022-04-01/items?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}
	req.Header.Set("x-amz-access-token", p.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute catalog request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog request failed with status: %d", resp.StatusCode)
	}

	var apiResponse struct {
		Items []catalogItem `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse catalog response: %w", err)
	}

	candidates := make([]core.Candidate, 0, len(apiResponse.Items))
	for _, item := range apiResponse.Items {
		candidates = append(candidates, p.toCandidate(item))
	}

	logger.Info("catalog search completed", "terms", query.Terms, "results_found", len(candidates))

	return candidates, nil
}

// toCandidate flattens a catalog item into a Candidate. Missing fields
// become empty strings or zero, never nil.
func (p *CatalogProvider) toCandidate(item catalogItem) core.Candidate {
	candidate := core.Candidate{ASIN: item.ASIN}

	if len(item.Summaries) > 0 {
		candidate.Title = item.Summaries[0].ItemName
		candidate.Brand = item.Summaries[0].Brand
	}
	if len(item.ProductTypes) > 0 {
		candidate.Category = item.ProductTypes[0].ProductType
	}

	candidate.ImageURL = selectImage(item)
	candidate.Price = selectListPrice(item)

	return candidate
}

// selectImage prefers the image tagged as the main variant, then the
// first image present, then empty.
func selectImage(item catalogItem) string {
	for _, img := range item.Images {
		if img.Variant == "MAIN" {
			return img.Link
		}
	}
	if len(item.Images) > 0 {
		return item.Images[0].Link
	}
	return ""
}

// selectListPrice scans the named attribute list for a list-price entry;
// the first match wins, anything unparsable stays 0.
func selectListPrice(item catalogItem) float64 {
	for _, attr := range item.Attributes {
		if attr.Name == "ListPrice" || attr.Name == "list_price" {
			return float64(attr.Value)
		}
	}
	return 0
}
