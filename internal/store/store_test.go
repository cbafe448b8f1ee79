package store

import (
	"testing"

	"trendscout/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testProduct(asin string, score float64) core.Product {
	return core.Product{
		Candidate: core.Candidate{
			ASIN:     asin,
			Title:    "Stainless Steel Water Bottle",
			Brand:    "HydraPeak",
			Price:    24.99,
			Category: "Kitchen",
		},
		Rating:          4.6,
		ReviewCount:     2350,
		BestSellerRank:  42,
		WholesalePrice:  13.74,
		ProfitMargin:    45.02,
		SalesEstimate:   21600,
		AdPressureLevel: core.AdPressureLow,
		Competition:     core.CompetitionLow,
		ListingURL:      "https://www.amazon.com/dp/" + asin,
		Score:           score,
	}
}

func TestSaveAndGetConversationHistory(t *testing.T) {
	s := newTestStore(t)

	id, err := s.SaveConversation("find water bottles", "Here are some options...", map[string]string{"intent": "product_recommendation"})
	if err != nil {
		t.Fatalf("SaveConversation failed: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero conversation ID")
	}

	history, err := s.GetConversationHistory(10, 0)
	if err != nil {
		t.Fatalf("GetConversationHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(history))
	}
	if history[0].UserInput != "find water bottles" {
		t.Errorf("UserInput = %q", history[0].UserInput)
	}
	if history[0].Metadata["intent"] != "product_recommendation" {
		t.Errorf("metadata not round-tripped: %+v", history[0].Metadata)
	}
}

func TestSaveProductUpsertsByASIN(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.SaveProduct(testProduct("B0TEST0001", 60)); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if _, err := s.SaveProduct(testProduct("B0TEST0001", 75)); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	count, err := s.CountProducts()
	if err != nil {
		t.Fatalf("CountProducts failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 product after upsert, got %d", count)
	}

	p, err := s.GetProductByASIN("B0TEST0001")
	if err != nil {
		t.Fatalf("GetProductByASIN failed: %v", err)
	}
	if p == nil || p.Score != 75 {
		t.Errorf("expected updated score 75, got %+v", p)
	}
	if p != nil && (p.AdPressureLevel != core.AdPressureLow || p.Competition != core.CompetitionLow) {
		t.Errorf("classification columns not round-tripped: %+v", p)
	}
}

func TestSaveProductWithoutASINFails(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.SaveProduct(core.Product{}); err == nil {
		t.Error("expected error saving product without ASIN")
	}
}

func TestGetProductsSortAllowlist(t *testing.T) {
	s := newTestStore(t)

	low := testProduct("B0TEST0001", 40)
	low.Price = 10
	high := testProduct("B0TEST0002", 90)
	high.Price = 50
	for _, p := range []core.Product{low, high} {
		if _, err := s.SaveProduct(p); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	// default sort is score descending
	products, err := s.GetProducts(ProductQuery{})
	if err != nil {
		t.Fatalf("GetProducts failed: %v", err)
	}
	if len(products) != 2 || products[0].Score != 90 {
		t.Errorf("expected score-descending default, got %+v", products)
	}

	// injection-shaped sort field falls back to score
	products, err = s.GetProducts(ProductQuery{SortBy: "price; DROP TABLE products"})
	if err != nil {
		t.Fatalf("GetProducts with bad sort failed: %v", err)
	}
	if len(products) != 2 {
		t.Errorf("expected 2 products, got %d", len(products))
	}

	// valid alternative sort ascending
	products, err = s.GetProducts(ProductQuery{SortBy: "price", SortOrder: "ASC"})
	if err != nil {
		t.Fatalf("GetProducts by price failed: %v", err)
	}
	if products[0].Price != 10 {
		t.Errorf("expected cheapest first, got %+v", products[0])
	}
}

func TestGetProductsCategoryFilter(t *testing.T) {
	s := newTestStore(t)

	kitchen := testProduct("B0TEST0001", 60)
	outdoors := testProduct("B0TEST0002", 70)
	outdoors.Category = "Outdoors"
	for _, p := range []core.Product{kitchen, outdoors} {
		if _, err := s.SaveProduct(p); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	products, err := s.GetProducts(ProductQuery{Category: "Kitchen"})
	if err != nil {
		t.Fatalf("GetProducts failed: %v", err)
	}
	if len(products) != 1 || products[0].Category != "Kitchen" {
		t.Errorf("category filter failed: %+v", products)
	}
}

func TestGetProductByASINMissing(t *testing.T) {
	s := newTestStore(t)
	p, err := s.GetProductByASIN("B0NOPE0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil for missing product, got %+v", p)
	}
}
