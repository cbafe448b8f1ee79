package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"trendscout/internal/core"
	"trendscout/internal/llm"
	"trendscout/internal/logger"
)

// TextGenerator is the completion capability the extractor needs.
// *llm.Client satisfies it.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, options llm.TextGenerationOptions) (string, error)
}

// Extractor turns free-text queries into structured search intent and
// filter criteria. A failed or malformed completion is never an error:
// the extractor degrades to the raw query and all-nil criteria.
type Extractor struct {
	generator TextGenerator
}

// NewExtractor creates an extractor backed by the given completion client.
func NewExtractor(generator TextGenerator) *Extractor {
	return &Extractor{generator: generator}
}

const searchIntentPrompt = `Extract the main search terms and product category from this query: %q
Respond with a JSON object with these fields:
- search_terms: the main terms to search products with
- category: the product category, or an empty string if not specified

Example:
Query: "Find me trending bathroom products"
Response: {"search_terms": "trending bathroom products", "category": "Bathroom"}`

const filterCriteriaPrompt = `Extract any numeric product constraints from this query: %q
Respond with a JSON object with these fields (use null for anything the query does not specify):
- min_margin: minimum profit margin percentage
- max_price: maximum price in dollars
- min_rating: minimum star rating (0-5)
- max_reviews: maximum number of reviews
- category: product category, or null`

var searchIntentSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"search_terms": {
			Type:        genai.TypeString,
			Description: "Main terms to search products with",
		},
		"category": {
			Type:        genai.TypeString,
			Description: "Product category, empty if not specified",
		},
	},
}

var filterCriteriaSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"min_margin":  {Type: genai.TypeNumber, Nullable: genai.Ptr(true)},
		"max_price":   {Type: genai.TypeNumber, Nullable: genai.Ptr(true)},
		"min_rating":  {Type: genai.TypeNumber, Nullable: genai.Ptr(true)},
		"max_reviews": {Type: genai.TypeInteger, Nullable: genai.Ptr(true)},
		"category":    {Type: genai.TypeString, Nullable: genai.Ptr(true)},
	},
}

// Patterns for the regex fallback. They only fill fields the completion
// call left empty, never override it.
var (
	marginPattern     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%\s*margin`)
	marginOfPattern   = regexp.MustCompile(`margin\s+of\s+(\d+(?:\.\d+)?)\s*%`)
	underPricePattern = regexp.MustCompile(`under\s+\$?(\d+(?:\.\d+)?)`)
	lessThanPattern   = regexp.MustCompile(`less\s+than\s+\$?(\d+(?:\.\d+)?)`)
)

// Extract derives the search intent and filter criteria from a query.
// It issues one completion call per structure; no retries.
func (e *Extractor) Extract(ctx context.Context, query string) (core.SearchIntent, core.FilterCriteria) {
	intent := e.extractIntent(ctx, query)
	criteria := e.extractCriteria(ctx, query)
	applyRegexFallback(query, &criteria)
	return intent, criteria
}

func (e *Extractor) extractIntent(ctx context.Context, query string) core.SearchIntent {
	fallback := core.SearchIntent{SearchTerms: query}

	text, err := e.generator.GenerateText(ctx, fmt.Sprintf(searchIntentPrompt, query), llm.TextGenerationOptions{
		SystemPrompt:   "You extract search terms and categories from shopping queries.",
		MaxTokens:      150,
		ResponseSchema: searchIntentSchema,
	})
	if err != nil {
		logger.Debug("intent extraction failed, using raw query", "error", err.Error())
		return fallback
	}

	var intent core.SearchIntent
	if err := json.Unmarshal([]byte(text), &intent); err != nil {
		logger.Debug("intent response was not valid JSON", "error", err.Error())
		return fallback
	}
	if intent.SearchTerms == "" {
		intent.SearchTerms = query
	}
	return intent
}

func (e *Extractor) extractCriteria(ctx context.Context, query string) core.FilterCriteria {
	text, err := e.generator.GenerateText(ctx, fmt.Sprintf(filterCriteriaPrompt, query), llm.TextGenerationOptions{
		SystemPrompt:   "You extract numeric shopping constraints from queries.",
		MaxTokens:      150,
		ResponseSchema: filterCriteriaSchema,
	})
	if err != nil {
		logger.Debug("filter extraction failed, using empty criteria", "error", err.Error())
		return core.FilterCriteria{}
	}

	var raw struct {
		MinMargin  *float64 `json:"min_margin"`
		MaxPrice   *float64 `json:"max_price"`
		MinRating  *float64 `json:"min_rating"`
		MaxReviews *int     `json:"max_reviews"`
		Category   *string  `json:"category"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		logger.Debug("filter response was not valid JSON", "error", err.Error())
		return core.FilterCriteria{}
	}

	criteria := core.FilterCriteria{
		MinMargin:  raw.MinMargin,
		MaxPrice:   raw.MaxPrice,
		MinRating:  raw.MinRating,
		MaxReviews: raw.MaxReviews,
	}
	if raw.Category != nil {
		criteria.Category = *raw.Category
	}
	return criteria
}

// applyRegexFallback fills margin and price constraints from common query
// phrasings when the completion call did not supply them.
func applyRegexFallback(query string, criteria *core.FilterCriteria) {
	lower := strings.ToLower(query)

	if criteria.MinMargin == nil {
		if m := marginPattern.FindStringSubmatch(lower); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				criteria.MinMargin = &v
			}
		} else if m := marginOfPattern.FindStringSubmatch(lower); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				criteria.MinMargin = &v
			}
		}
	}

	if criteria.MaxPrice == nil {
		if m := underPricePattern.FindStringSubmatch(lower); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				criteria.MaxPrice = &v
			}
		} else if m := lessThanPattern.FindStringSubmatch(lower); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				criteria.MaxPrice = &v
			}
		}
	}
}
