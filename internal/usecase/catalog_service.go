package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/probagno/backend/internal/domain"
	"github.com/probagno/backend/internal/search"
)

// categoriesCacheKey stores the full category listing; categories change so
// rarely that a single entry is enough.
const categoriesCacheKey = "categories"

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	CacheTTL time.Duration
}

// CatalogService serves catalog reads through the cache and applies the
// search filter, and forwards admin writes to the repository. Every write
// flushes the cache so listings never serve stale rows.
type CatalogService struct {
	catalog  domain.CatalogRepository
	cache    domain.CacheRepository
	logger   *logrus.Entry
	cacheTTL time.Duration
}

// NewCatalogService creates a new catalog service with dependencies
func NewCatalogService(
	catalog domain.CatalogRepository,
	cache domain.CacheRepository,
	logger *logrus.Entry,
	config CatalogServiceConfig,
) *CatalogService {
	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}

	return &CatalogService{
		catalog:  catalog,
		cache:    cache,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// SearchProducts returns the products matching the free-text query and the
// category slug. An empty query matches everything, an empty slug skips the
// category filter. Flow: check cache -> list from repository -> filter ->
// cache -> return.
func (s *CatalogService) SearchProducts(ctx context.Context, query, categorySlug string) ([]domain.SearchableProduct, error) {
	cacheKey := searchCacheKey(query, categorySlug)

	if products, ok := s.cachedProducts(ctx, cacheKey); ok {
		return products, nil
	}

	all, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.SearchableProduct, 0, len(all))
	for i := range all {
		if categorySlug != "" && all[i].Category != categorySlug {
			continue
		}
		if !search.MatchesProduct(&all[i], query) {
			continue
		}
		matched = append(matched, all[i])
	}

	if err := s.cache.Set(ctx, cacheKey, matched, s.cacheTTL); err != nil {
		s.logger.WithError(err).WithField("key", cacheKey).Warn("failed to cache product listing")
	}

	s.logger.WithFields(logrus.Fields{
		"query":    query,
		"category": categorySlug,
		"matched":  len(matched),
		"total":    len(all),
	}).Debug("product search served from repository")

	return matched, nil
}

// GetProduct returns a single product by id.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.SearchableProduct, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.catalog.GetProduct(ctx, id)
}

// ExplainMatches returns the per-field match report for one product against
// a search term, for diagnosing why a product does or does not surface.
func (s *CatalogService) ExplainMatches(ctx context.Context, id, query string) ([]string, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}

	product, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return search.ExplainProduct(product, query), nil
}

// CreateProduct validates and persists a new product, assigning an id when
// the caller left it empty.
func (s *CatalogService) CreateProduct(ctx context.Context, product *domain.SearchableProduct) error {
	if product == nil || product.Name == "" {
		return domain.ErrInvalidRequest
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	if err := s.catalog.CreateProduct(ctx, product); err != nil {
		return err
	}
	s.flushCache(ctx)
	return nil
}

// UpdateProduct persists changes to an existing product.
func (s *CatalogService) UpdateProduct(ctx context.Context, product *domain.SearchableProduct) error {
	if product == nil || product.ID == "" || product.Name == "" {
		return domain.ErrInvalidRequest
	}

	if err := s.catalog.UpdateProduct(ctx, product); err != nil {
		return err
	}
	s.flushCache(ctx)
	return nil
}

// DeleteProduct removes a product by id.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidRequest
	}

	if err := s.catalog.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.flushCache(ctx)
	return nil
}

// ListCategories returns all categories, cache-first.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if value, err := s.cache.Get(ctx, categoriesCacheKey); err == nil {
		if categories, ok := value.([]domain.Category); ok {
			return categories, nil
		}
	}

	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, categoriesCacheKey, categories, s.cacheTTL); err != nil {
		s.logger.WithError(err).Warn("failed to cache category listing")
	}
	return categories, nil
}

// CreateCategory validates and persists a new category.
func (s *CatalogService) CreateCategory(ctx context.Context, category *domain.Category) error {
	if category == nil || category.Slug == "" || category.Name == "" {
		return domain.ErrInvalidRequest
	}
	if category.ID == "" {
		category.ID = uuid.NewString()
	}

	if err := s.catalog.CreateCategory(ctx, category); err != nil {
		return err
	}
	s.flushCache(ctx)
	return nil
}

// searchCacheKey builds the cache key for a filtered product listing.
// Format: "products:{normalized_query}:{category}". Normalizing the query
// makes "ΛΕΥΚΟ", "λευκό" and " λευκο " share one entry.
func searchCacheKey(query, categorySlug string) string {
	return fmt.Sprintf("products:%s:%s", search.Normalize(query), categorySlug)
}

// cachedProducts retrieves a product listing from cache.
func (s *CatalogService) cachedProducts(ctx context.Context, key string) ([]domain.SearchableProduct, bool) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	products, ok := value.([]domain.SearchableProduct)
	return products, ok
}

// flushCache drops every cached listing after a write. Failures are logged,
// never surfaced to the caller.
func (s *CatalogService) flushCache(ctx context.Context) {
	if err := s.cache.Flush(ctx); err != nil {
		s.logger.WithError(err).Warn("failed to flush catalog cache")
	}
}
