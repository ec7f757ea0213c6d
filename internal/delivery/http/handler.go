package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/probagno/backend/internal/domain"
	"github.com/probagno/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service *usecase.CatalogService
	logger  *logrus.Entry
}

// NewHandler creates a new HTTP handler
func NewHandler(service *usecase.CatalogService, logger *logrus.Entry) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "probagno-backend",
		"version": "1.0.0",
	})
}

// ListProducts returns the products matching the optional "search" and
// "category" query parameters. Without parameters it lists the whole
// catalog.
func (h *Handler) ListProducts(c *gin.Context) {
	query := c.Query("search")
	category := c.Query("category")

	products, err := h.service.SearchProducts(c.Request.Context(), query, category)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct returns a single product by ID.
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// ExplainMatches reports which fields of a product match the "search" query
// parameter. The parameter is required: explaining an empty search is
// meaningless.
func (h *Handler) ExplainMatches(c *gin.Context) {
	query := c.Query("search")
	if strings.TrimSpace(query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "search query is required"})
		return
	}

	id := c.Param("id")
	matches, err := h.service.ExplainMatches(c.Request.Context(), id, query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if matches == nil {
		matches = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"productId": id,
		"search":    query,
		"matches":   matches,
		"matched":   len(matches) > 0,
	})
}

// CreateProduct stores a new product. The ID is assigned server-side when
// the payload leaves it empty.
func (h *Handler) CreateProduct(c *gin.Context) {
	var product domain.SearchableProduct
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.service.CreateProduct(c.Request.Context(), &product); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct rewrites an existing product. The path ID wins over any ID
// in the payload.
func (h *Handler) UpdateProduct(c *gin.Context) {
	var product domain.SearchableProduct
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	product.ID = c.Param("id")

	if err := h.service.UpdateProduct(c.Request.Context(), &product); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product.
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.service.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListCategories returns all catalog categories.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// CreateCategory stores a new category.
func (h *Handler) CreateCategory(c *gin.Context) {
	var category domain.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.service.CreateCategory(c.Request.Context(), &category); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// respondError maps domain errors to HTTP status codes.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, domain.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
	case errors.Is(err, domain.ErrReadOnlyCatalog):
		c.JSON(http.StatusForbidden, gin.H{"error": "catalog is read-only"})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
	default:
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
