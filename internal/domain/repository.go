package domain

import (
	"context"
	"time"
)

// CatalogRepository defines the interface for product and category persistence.
// Read methods must be safe for concurrent use; write methods on read-only
// sources return ErrReadOnlyCatalog.
type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]SearchableProduct, error)
	GetProduct(ctx context.Context, id string) (*SearchableProduct, error)
	CreateProduct(ctx context.Context, product *SearchableProduct) error
	UpdateProduct(ctx context.Context, product *SearchableProduct) error
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, category *Category) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Flush(ctx context.Context) error
}
