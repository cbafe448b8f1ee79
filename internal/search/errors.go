package search

import "errors"

var (
	// ErrMissingAPIKey is returned when a required API key is not provided
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrMissingAccessToken is returned when the catalog bearer token is not provided
	ErrMissingAccessToken = errors.New("catalog access token is required")

	// ErrUnsupportedProvider is returned when an unsupported provider type is specified
	ErrUnsupportedProvider = errors.New("unsupported search provider")

	// ErrNoResults is returned when a search returns no candidates
	ErrNoResults = errors.New("no products found")
)
