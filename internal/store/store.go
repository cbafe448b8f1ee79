// Package store persists conversation history and discovered products
// in a local SQLite database.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"trendscout/internal/core"
)

// Store represents the SQLite-backed persistence layer
type Store struct {
	db   *sql.DB
	path string
}

// validSortFields is the allowlist for product listing sort columns.
var validSortFields = map[string]bool{
	"score":            true,
	"price":            true,
	"rating":           true,
	"review_count":     true,
	"best_seller_rank": true,
	"sales_estimate":   true,
	"profit_margin":    true,
	"timestamp":        true,
}

// NewStore creates a new store instance with SQLite database
func NewStore(dataDir string) (*Store, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "trendscout.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables
func (s *Store) initialize() error {
	conversationsTable := `
	CREATE TABLE IF NOT EXISTS conversations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_input TEXT NOT NULL,
		assistant_response TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		metadata TEXT
	);`

	productsTable := `
	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		asin TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL,
		brand TEXT,
		price REAL,
		wholesale_price REAL,
		rating REAL,
		review_count INTEGER,
		best_seller_rank INTEGER,
		sales_estimate INTEGER,
		profit_margin REAL,
		category TEXT,
		ad_pressure TEXT,
		competition TEXT,
		image_url TEXT,
		listing_url TEXT,
		score REAL,
		timestamp TEXT NOT NULL
	);`

	tables := []string{conversationsTable, productsTable}
	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveConversation persists one chat exchange and returns its row ID.
func (s *Store) SaveConversation(userInput, response string, metadata map[string]string) (int64, error) {
	var metadataJSON sql.NullString
	if len(metadata) > 0 {
		data, err := json.Marshal(metadata)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadataJSON = sql.NullString{String: string(data), Valid: true}
	}

	result, err := s.db.Exec(
		"INSERT INTO conversations (user_input, assistant_response, timestamp, metadata) VALUES (?, ?, ?, ?)",
		userInput, response, time.Now().Format(time.RFC3339), metadataJSON,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save conversation: %w", err)
	}

	return result.LastInsertId()
}

// GetConversationHistory returns recent exchanges, newest first.
func (s *Store) GetConversationHistory(limit, offset int) ([]core.Conversation, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		"SELECT id, user_input, assistant_response, timestamp, metadata FROM conversations ORDER BY timestamp DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var conversations []core.Conversation
	for rows.Next() {
		var conv core.Conversation
		var timestamp string
		var metadataJSON sql.NullString

		if err := rows.Scan(&conv.ID, &conv.UserInput, &conv.Response, &timestamp, &metadataJSON); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}

		conv.Timestamp, _ = time.Parse(time.RFC3339, timestamp)
		if metadataJSON.Valid && metadataJSON.String != "" {
			if err := json.Unmarshal([]byte(metadataJSON.String), &conv.Metadata); err != nil {
				conv.Metadata = nil
			}
		}

		conversations = append(conversations, conv)
	}

	return conversations, rows.Err()
}

// SaveProduct upserts a product by its ASIN and returns the row ID.
// Products without an ASIN are not persisted.
func (s *Store) SaveProduct(product core.Product) (int64, error) {
	if product.ASIN == "" {
		return 0, fmt.Errorf("cannot save product without ASIN")
	}

	result, err := s.db.Exec(`
		INSERT OR REPLACE INTO products
		(asin, title, brand, price, wholesale_price, rating, review_count,
		best_seller_rank, sales_estimate, profit_margin, category,
		ad_pressure, competition, image_url, listing_url, score, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ASIN, product.Title, product.Brand, product.Price,
		product.WholesalePrice, product.Rating, product.ReviewCount,
		product.BestSellerRank, product.SalesEstimate, product.ProfitMargin,
		product.Category, string(product.AdPressureLevel), string(product.Competition),
		product.ImageURL, product.ListingURL,
		product.Score, time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save product: %w", err)
	}

	return result.LastInsertId()
}

// ProductQuery controls product listing: pagination, category filter,
// and sort column/direction.
type ProductQuery struct {
	Limit     int
	Offset    int
	Category  string
	SortBy    string
	SortOrder string
}

// GetProducts lists stored products. Sort parameters outside the
// allowlist silently fall back to score descending.
func (s *Store) GetProducts(q ProductQuery) ([]core.StoredProduct, error) {
	if q.Limit <= 0 {
		q.Limit = 100
	}
	if !validSortFields[q.SortBy] {
		q.SortBy = "score"
	}
	order := strings.ToUpper(q.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	query := `SELECT id, asin, title, brand, price, wholesale_price, rating,
		review_count, best_seller_rank, sales_estimate, profit_margin,
		category, ad_pressure, competition, image_url, listing_url, score,
		timestamp FROM products`
	var params []interface{}

	if q.Category != "" {
		query += " WHERE category LIKE ?"
		params = append(params, "%"+q.Category+"%")
	}

	query += fmt.Sprintf(" ORDER BY %s %s LIMIT ? OFFSET ?", q.SortBy, order)
	params = append(params, q.Limit, q.Offset)

	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []core.StoredProduct
	for rows.Next() {
		var p core.StoredProduct
		var timestamp string

		if err := rows.Scan(&p.ID, &p.ASIN, &p.Title, &p.Brand, &p.Price,
			&p.WholesalePrice, &p.Rating, &p.ReviewCount, &p.BestSellerRank,
			&p.SalesEstimate, &p.ProfitMargin, &p.Category, &p.AdPressureLevel,
			&p.Competition, &p.ImageURL, &p.ListingURL, &p.Score,
			&timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		p.Timestamp, _ = time.Parse(time.RFC3339, timestamp)
		products = append(products, p)
	}

	return products, rows.Err()
}

// GetProductByASIN returns a single stored product, or nil when absent.
func (s *Store) GetProductByASIN(asin string) (*core.StoredProduct, error) {
	row := s.db.QueryRow(`SELECT id, asin, title, brand, price, wholesale_price,
		rating, review_count, best_seller_rank, sales_estimate, profit_margin,
		category, ad_pressure, competition, image_url, listing_url, score, timestamp
		FROM products WHERE asin = ?`, asin)

	var p core.StoredProduct
	var timestamp string
	err := row.Scan(&p.ID, &p.ASIN, &p.Title, &p.Brand, &p.Price,
		&p.WholesalePrice, &p.Rating, &p.ReviewCount, &p.BestSellerRank,
		&p.SalesEstimate, &p.ProfitMargin, &p.Category, &p.AdPressureLevel,
		&p.Competition, &p.ImageURL, &p.ListingURL, &p.Score, &timestamp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	p.Timestamp, _ = time.Parse(time.RFC3339, timestamp)
	return &p, nil
}

// CountProducts returns the number of stored products.
func (s *Store) CountProducts() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
