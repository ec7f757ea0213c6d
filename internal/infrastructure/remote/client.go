// Package remote reads the product catalog from an upstream HTTP instance
// of this API. It is the read-only implementation of
// domain.CatalogRepository; every write reports domain.ErrReadOnlyCatalog.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/probagno/backend/internal/domain"
)

const (
	maxAttempts  = 3
	maxBodyBytes = 1 << 20
)

// errNotFound marks a 404 from the upstream catalog. Callers map it to the
// domain error that fits the resource they asked for.
var errNotFound = errors.New("remote catalog: not found")

// Client talks to the upstream catalog API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	rateLimiter *rate.Limiter
	logger      *logrus.Entry
}

// NewClient creates a catalog client for the given base URL. The API key is
// optional; when set it is sent as X-API-Key on every request.
func NewClient(baseURL, apiKey string, logger *logrus.Entry) *Client {
	// The upstream allows 300 requests per minute. 5/sec with a burst of
	// 10 stays well inside that.
	limiter := rate.NewLimiter(rate.Limit(5), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		rateLimiter: limiter,
		logger:      logger,
	}
}

type productsEnvelope struct {
	Products []domain.SearchableProduct `json:"products"`
}

type categoriesEnvelope struct {
	Categories []domain.Category `json:"categories"`
}

// ListProducts fetches the full upstream catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.SearchableProduct, error) {
	var envelope productsEnvelope
	if err := c.getJSON(ctx, "/api/v1/products", &envelope); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, fmt.Errorf("%w: products endpoint missing", domain.ErrCatalogUnavailable)
		}
		return nil, err
	}

	c.logger.Debugf("fetched %d products from upstream catalog", len(envelope.Products))
	if envelope.Products == nil {
		return []domain.SearchableProduct{}, nil
	}
	return envelope.Products, nil
}

// GetProduct fetches a single product by ID.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.SearchableProduct, error) {
	var product domain.SearchableProduct
	path := "/api/v1/products/" + url.PathEscape(id)
	if err := c.getJSON(ctx, path, &product); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// ListCategories fetches the upstream category list.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var envelope categoriesEnvelope
	if err := c.getJSON(ctx, "/api/v1/categories", &envelope); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, fmt.Errorf("%w: categories endpoint missing", domain.ErrCatalogUnavailable)
		}
		return nil, err
	}

	if envelope.Categories == nil {
		return []domain.Category{}, nil
	}
	return envelope.Categories, nil
}

// CreateProduct is not supported on a remote catalog.
func (c *Client) CreateProduct(ctx context.Context, _ *domain.SearchableProduct) error {
	return domain.ErrReadOnlyCatalog
}

// UpdateProduct is not supported on a remote catalog.
func (c *Client) UpdateProduct(ctx context.Context, _ *domain.SearchableProduct) error {
	return domain.ErrReadOnlyCatalog
}

// DeleteProduct is not supported on a remote catalog.
func (c *Client) DeleteProduct(ctx context.Context, _ string) error {
	return domain.ErrReadOnlyCatalog
}

// CreateCategory is not supported on a remote catalog.
func (c *Client) CreateCategory(ctx context.Context, _ *domain.Category) error {
	return domain.ErrReadOnlyCatalog
}

// getJSON executes a GET against the upstream and decodes the response into
// out. Transport errors, 5xx and 429 are retried with exponential backoff;
// other client errors fail immediately.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	reqURL := c.baseURL + path

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			c.logger.WithError(err).WithField("attempt", attempt).Warn("catalog request failed")
			lastErr = err
			if attempt < maxAttempts {
				time.Sleep(exponentialBackoff(attempt))
			}
			continue
		}

		body, err := readLimitedBody(resp.Body, maxBodyBytes)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: read response: %v", domain.ErrCatalogUnavailable, err)
			if attempt < maxAttempts {
				time.Sleep(exponentialBackoff(attempt))
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			return nil

		case resp.StatusCode == http.StatusNotFound:
			return errNotFound

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			c.logger.WithFields(logrus.Fields{
				"attempt": attempt,
				"status":  resp.StatusCode,
			}).Warn("catalog responded with retryable error")
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
			if attempt < maxAttempts {
				time.Sleep(exponentialBackoff(attempt))
			}
			continue

		default:
			return fmt.Errorf("%w: status %d, body: %s", domain.ErrCatalogUnavailable,
				resp.StatusCode, body)
		}
	}

	return lastErr
}

func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "probagno-backend/1.0")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return resp, nil
}

// exponentialBackoff returns 500ms doubled per attempt: 500ms, 1s, 2s.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}

// readLimitedBody reads at most limit bytes from r.
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}
