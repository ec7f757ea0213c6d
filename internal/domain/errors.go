package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product id has no row in the catalog
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrCategoryNotFound is returned when a category slug has no row in the catalog
	ErrCategoryNotFound = errors.New("category not found in catalog")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCatalogUnavailable is returned when the catalog backend cannot be reached
	ErrCatalogUnavailable = errors.New("catalog store unavailable")

	// ErrReadOnlyCatalog is returned when a write reaches a read-only catalog source
	ErrReadOnlyCatalog = errors.New("catalog source is read-only")
)
