package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"trendscout/internal/core"
	"trendscout/internal/logger"
)

// ScrapeProvider implements Provider by parsing marketplace search result
// pages directly. It is an alternative fallback for deployments without a
// marketplace API key.
type ScrapeProvider struct {
	domain       string
	adSampleSize int
	client       *http.Client
	userAgents   []string
}

// NewScrapeProvider creates a new page-scraping provider
func NewScrapeProvider(domain string, adSampleSize int) *ScrapeProvider {
	if domain == "" {
		domain = "amazon.com"
	}
	if adSampleSize <= 0 {
		adSampleSize = 20
	}

	return &ScrapeProvider{
		domain:       domain,
		adSampleSize: adSampleSize,
		client:       &http.Client{Timeout: 30 * time.Second},
		userAgents: []string{
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_5) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.5 Safari/605.1.15",
			"Mozilla/5.0 (X11; Linux x86_64; rv:126.0) Gecko/20100101 Firefox/126.0",
		},
	}
}

// GetName returns the name of this provider
func (p *ScrapeProvider) GetName() string {
	return "Scrape"
}

// Search fetches a search result page and extracts the organic and
// sponsored cards from the main result slot.
func (p *ScrapeProvider) Search(ctx context.Context, query Query) ([]core.Candidate, error) {
	params := url.Values{}
	params.Set("k", query.Terms)
	if query.Category != "" {
		params.Set("i", strings.ToLower(query.Category))
	}
	fullURL := fmt.Sprintf("https://www.%s/s?%s", p.domain, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create scrape request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgents[int(time.Now().UnixNano())%len(p.userAgents)])
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch search page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search page returned status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search page: %w", err)
	}

	candidates, sponsored := p.extractCards(doc, query.Limit)

	pressure, ratio := MeasureAdPressure(sponsored, p.adSampleSize)
	for i := range candidates {
		candidates[i].AdPressure = pressure
		candidates[i].SponsoredRatio = ratio
	}

	logger.Info("scrape search completed",
		"terms", query.Terms,
		"results_found", len(candidates),
		"ad_pressure", string(pressure))

	return candidates, nil
}

func (p *ScrapeProvider) extractCards(doc *goquery.Document, limit int) ([]core.Candidate, []bool) {
	var candidates []core.Candidate
	var sponsored []bool

	doc.Find("div.s-main-slot div[data-component-type='s-search-result']").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		asin, _ := sel.Attr("data-asin")
		title := strings.TrimSpace(sel.Find("h2 span").Text())
		if asin == "" || title == "" {
			return true
		}

		isSponsored := sel.Find("span.puis-sponsored-label-text").Length() > 0 ||
			strings.Contains(sel.AttrOr("class", ""), "AdHolder")
		sponsored = append(sponsored, isSponsored)

		if limit > 0 && len(candidates) >= limit {
			// keep walking to finish the ad pressure sample
			return len(sponsored) < p.adSampleSize
		}

		candidates = append(candidates, core.Candidate{
			ASIN:     asin,
			Title:    title,
			Price:    parseDisplayPrice(sel.Find("span.a-price span.a-offscreen").First().Text()),
			ImageURL: sel.Find("img.s-image").AttrOr("src", ""),
		})
		return true
	})

	return candidates, sponsored
}

// parseDisplayPrice strips currency formatting from a rendered price.
// Unparsable text yields 0.
func parseDisplayPrice(raw string) float64 {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "$")
	raw = strings.ReplaceAll(raw, ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
