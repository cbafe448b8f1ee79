package intent

import (
	"context"
	"errors"
	"testing"

	"trendscout/internal/llm"
)

// scriptedGenerator returns one canned response per call, in order.
type scriptedGenerator struct {
	responses []string
	calls     int
	err       error
}

func (s *scriptedGenerator) GenerateText(ctx context.Context, prompt string, options llm.TextGenerationOptions) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.calls >= len(s.responses) {
		return "", errors.New("no scripted response left")
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp, nil
}

func TestExtractFromModelOutput(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`{"search_terms": "bathroom organizers", "category": "Bathroom"}`,
		`{"min_margin": 30, "max_price": 50, "min_rating": null, "max_reviews": null, "category": "Bathroom"}`,
	}}
	e := NewExtractor(gen)

	intent, criteria := e.Extract(context.Background(), "trending bathroom organizers under $50 with 30% margin")

	if intent.SearchTerms != "bathroom organizers" || intent.Category != "Bathroom" {
		t.Errorf("intent = %+v", intent)
	}
	if criteria.MinMargin == nil || *criteria.MinMargin != 30 {
		t.Errorf("MinMargin = %v", criteria.MinMargin)
	}
	if criteria.MaxPrice == nil || *criteria.MaxPrice != 50 {
		t.Errorf("MaxPrice = %v", criteria.MaxPrice)
	}
	if criteria.MinRating != nil || criteria.MaxReviews != nil {
		t.Errorf("null fields should stay nil: %+v", criteria)
	}
	if criteria.Category != "Bathroom" {
		t.Errorf("Category = %q", criteria.Category)
	}
}

func TestExtractGeneratorFailureDegrades(t *testing.T) {
	e := NewExtractor(&scriptedGenerator{err: errors.New("model offline")})

	intent, criteria := e.Extract(context.Background(), "find me yoga mats")

	if intent.SearchTerms != "find me yoga mats" {
		t.Errorf("expected raw query fallback, got %q", intent.SearchTerms)
	}
	if !criteria.IsEmpty() {
		t.Errorf("expected empty criteria, got %+v", criteria)
	}
}

func TestExtractMalformedJSONDegrades(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`here are your search terms!`,
		`not json either`,
	}}
	e := NewExtractor(gen)

	intent, criteria := e.Extract(context.Background(), "wireless earbuds")

	if intent.SearchTerms != "wireless earbuds" {
		t.Errorf("expected raw query fallback, got %q", intent.SearchTerms)
	}
	if criteria.MinMargin != nil || criteria.MaxPrice != nil {
		t.Errorf("expected empty criteria, got %+v", criteria)
	}
}

func TestRegexFallbackMargin(t *testing.T) {
	e := NewExtractor(&scriptedGenerator{err: errors.New("model offline")})

	_, criteria := e.Extract(context.Background(), "products with 50% margin")
	if criteria.MinMargin == nil || *criteria.MinMargin != 50 {
		t.Errorf("expected MinMargin=50 from %q, got %v", "50% margin", criteria.MinMargin)
	}

	_, criteria = e.Extract(context.Background(), "items with a margin of 37.5%")
	if criteria.MinMargin == nil || *criteria.MinMargin != 37.5 {
		t.Errorf("expected MinMargin=37.5, got %v", criteria.MinMargin)
	}
}

func TestRegexFallbackPrice(t *testing.T) {
	e := NewExtractor(&scriptedGenerator{err: errors.New("model offline")})

	_, criteria := e.Extract(context.Background(), "water bottles under $25")
	if criteria.MaxPrice == nil || *criteria.MaxPrice != 25 {
		t.Errorf("expected MaxPrice=25, got %v", criteria.MaxPrice)
	}

	_, criteria = e.Extract(context.Background(), "gadgets less than 19.99")
	if criteria.MaxPrice == nil || *criteria.MaxPrice != 19.99 {
		t.Errorf("expected MaxPrice=19.99, got %v", criteria.MaxPrice)
	}
}

func TestRegexFallbackDoesNotOverrideModel(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`{"search_terms": "bottles", "category": ""}`,
		`{"min_margin": null, "max_price": 100, "min_rating": null, "max_reviews": null, "category": null}`,
	}}
	e := NewExtractor(gen)

	_, criteria := e.Extract(context.Background(), "bottles under $25")
	if criteria.MaxPrice == nil || *criteria.MaxPrice != 100 {
		t.Errorf("model value should win over regex, got %v", criteria.MaxPrice)
	}
}

func TestRegexFallbackNoMatchesLeavesNil(t *testing.T) {
	e := NewExtractor(&scriptedGenerator{err: errors.New("model offline")})

	_, criteria := e.Extract(context.Background(), "best selling kitchen gadgets")
	if !criteria.IsEmpty() {
		t.Errorf("expected empty criteria, got %+v", criteria)
	}
}
