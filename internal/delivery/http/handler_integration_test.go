package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/probagno/backend/config"
	"github.com/probagno/backend/internal/domain"
	"github.com/probagno/backend/internal/infrastructure/cache"
	"github.com/probagno/backend/internal/infrastructure/store"
	"github.com/probagno/backend/internal/usecase"
)

const testAdminToken = "test-admin-token"

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

// setupTestRouter wires a router against a real SQLite store in a temp
// directory, seeded with a small Greek catalog.
func setupTestRouter(t *testing.T, adminToken string) *gin.Engine {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	seedCatalog(t, st)

	memoryCache := cache.NewMemoryCache()
	t.Cleanup(memoryCache.Stop)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	entry := logger.WithField("service", "test")

	service := usecase.NewCatalogService(st, memoryCache, entry, usecase.CatalogServiceConfig{
		CacheTTL: time.Minute,
	})

	handler := NewHandler(service, entry)

	// Budget high enough that tests never trip the limiter
	limiter := NewRateLimiter(6000, 1000)
	t.Cleanup(limiter.Stop)

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*", "https://probagno.gr"},
		},
		Admin: config.AdminConfig{Token: adminToken},
	}

	return SetupRouter(cfg, handler, entry, limiter)
}

func seedCatalog(t *testing.T, st *store.Store) {
	t.Helper()
	ctx := context.Background()

	products := []domain.SearchableProduct{
		{
			ID:          "p-1",
			Name:        "Νιπτήρας Επικαθήμενος Στρογγυλός",
			NameEn:      "Countertop Round Washbasin",
			Description: "Νιπτήρας από χυτό μάρμαρο",
			Colors:      []string{"λευκό ματ", "μαύρο"},
			Materials:   []string{"χυτό μάρμαρο"},
			Category:    "nipthres",
		},
		{
			ID:          "p-2",
			Name:        "Καμπίνα Ντουζιέρας Διαφανής",
			NameEn:      "Clear Shower Cabin",
			Description: "Κρύσταλλο ασφαλείας 8mm",
			Features:    []string{"εύκολος καθαρισμός"},
			Category:    "kampines",
		},
		{
			ID:          "p-3",
			Name:        "Έπιπλο Μπάνιου Lungo",
			NameEn:      "Lungo Bathroom Furniture",
			Description: "Κρεμαστό έπιπλο με καθρέπτη",
			Colors:      []string{"δρυς φυσικό"},
			Materials:   []string{"MDF"},
			Category:    "epipla",
		},
	}
	for i := range products {
		if err := st.CreateProduct(ctx, &products[i]); err != nil {
			t.Fatalf("Failed to seed product %s: %v", products[i].ID, err)
		}
	}

	categories := []domain.Category{
		{ID: "c-1", Slug: "nipthres", Name: "Νιπτήρες"},
		{ID: "c-2", Slug: "kampines", Name: "Καμπίνες Ντουζιέρας"},
		{ID: "c-3", Slug: "epipla", Name: "Έπιπλα Μπάνιου"},
	}
	for i := range categories {
		if err := st.CreateCategory(ctx, &categories[i]); err != nil {
			t.Fatalf("Failed to seed category %s: %v", categories[i].Slug, err)
		}
	}
}

// doRequest executes a request against the router, optionally with a JSON
// payload and a bearer token.
func doRequest(t *testing.T, router *gin.Engine, method, path, token, payload string) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != "" {
		body = strings.NewReader(payload)
	}

	req, err := http.NewRequest(method, path, body)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	if payload != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeProductList(t *testing.T, w *httptest.ResponseRecorder) ([]domain.SearchableProduct, int) {
	t.Helper()

	var body struct {
		Products []domain.SearchableProduct `json:"products"`
		Count    int                        `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	return body.Products, body.Count
}

func productIDs(products []domain.SearchableProduct) map[string]bool {
	ids := make(map[string]bool, len(products))
	for _, p := range products {
		ids[p.ID] = true
	}
	return ids
}

// TestHealthCheckEndpoint tests the health check endpoint
func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		w := doRequest(t, router, "GET", "/health", "", "")

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["service"] != "probagno-backend" {
			t.Errorf("service = %v, want probagno-backend", response["service"])
		}
		version, ok := response["version"].(string)
		if !ok || strings.TrimSpace(version) == "" {
			t.Errorf("version = %v, want non-empty string", response["version"])
		}
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			w := doRequest(t, router, method, "/health", "", "")
			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

// TestListProductsEndpoint tests the unfiltered product listing
func TestListProductsEndpoint(t *testing.T) {
	t.Run("returns the full catalog without filters", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		w := doRequest(t, router, "GET", "/api/v1/products", "", "")

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		products, count := decodeProductList(t, w)
		if count != 3 || len(products) != 3 {
			t.Errorf("count = %d, len = %d, want 3", count, len(products))
		}
	})

	t.Run("repeated requests serve the same results", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		// Second request is served from the cache
		first := doRequest(t, router, "GET", "/api/v1/products", "", "")
		second := doRequest(t, router, "GET", "/api/v1/products", "", "")

		_, firstCount := decodeProductList(t, first)
		_, secondCount := decodeProductList(t, second)
		if firstCount != secondCount {
			t.Errorf("counts differ between requests: %d vs %d", firstCount, secondCount)
		}
	})
}

// TestSearchProductsEndpoint tests free-text search over the catalog
func TestSearchProductsEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{
			name:    "greek word without accents",
			query:   "νιπτηρας",
			wantIDs: []string{"p-1"},
		},
		{
			name:    "uppercase greek with accent folding",
			query:   "ΚΑΜΠΙΝΑ",
			wantIDs: []string{"p-2"},
		},
		{
			name:    "latin text matches the english name",
			query:   "washbasin",
			wantIDs: []string{"p-1"},
		},
		{
			name:    "prefix of at least three runes",
			query:   "καμπ",
			wantIDs: []string{"p-2"},
		},
		{
			name:    "color label matches",
			query:   "δρυς",
			wantIDs: []string{"p-3"},
		},
		{
			name:    "no results for unrelated term",
			query:   "zzzzz",
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter(t, testAdminToken)

			path := "/api/v1/products?search=" + url.QueryEscape(tt.query)
			w := doRequest(t, router, "GET", path, "", "")

			if w.Code != http.StatusOK {
				t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
			}

			products, count := decodeProductList(t, w)
			if count != len(tt.wantIDs) {
				t.Errorf("count = %d, want %d", count, len(tt.wantIDs))
			}

			ids := productIDs(products)
			for _, want := range tt.wantIDs {
				if !ids[want] {
					t.Errorf("results missing product %s, got %v", want, ids)
				}
			}
		})
	}
}

// TestCategoryFilterEndpoint tests the category query parameter
func TestCategoryFilterEndpoint(t *testing.T) {
	t.Run("filters by category slug", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		w := doRequest(t, router, "GET", "/api/v1/products?category=kampines", "", "")

		products, count := decodeProductList(t, w)
		if count != 1 || !productIDs(products)["p-2"] {
			t.Errorf("expected only p-2 in category kampines, got count=%d ids=%v", count, productIDs(products))
		}
	})

	t.Run("combines search and category", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		path := "/api/v1/products?category=nipthres&search=" + url.QueryEscape("νιπτ")
		w := doRequest(t, router, "GET", path, "", "")

		products, count := decodeProductList(t, w)
		if count != 1 || !productIDs(products)["p-1"] {
			t.Errorf("expected only p-1, got count=%d ids=%v", count, productIDs(products))
		}
	})

	t.Run("search outside the category yields nothing", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		w := doRequest(t, router, "GET", "/api/v1/products?category=kampines&search=washbasin", "", "")

		_, count := decodeProductList(t, w)
		if count != 0 {
			t.Errorf("count = %d, want 0", count)
		}
	})
}

// TestGetProductEndpoint tests fetching a single product
func TestGetProductEndpoint(t *testing.T) {
	t.Run("returns the product by id", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		w := doRequest(t, router, "GET", "/api/v1/products/p-1", "", "")

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var product domain.SearchableProduct
		if err := json.Unmarshal(w.Body.Bytes(), &product); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if product.ID != "p-1" {
			t.Errorf("id = %s, want p-1", product.ID)
		}
		if product.Name != "Νιπτήρας Επικαθήμενος Στρογγυλός" {
			t.Errorf("name = %s, want the seeded Greek name", product.Name)
		}
	})

	t.Run("returns 404 for a missing product", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		w := doRequest(t, router, "GET", "/api/v1/products/ghost", "", "")

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["error"] != "product not found" {
			t.Errorf("error = %v, want 'product not found'", response["error"])
		}
	})
}

// TestExplainMatchesEndpoint tests the per-field match report
func TestExplainMatchesEndpoint(t *testing.T) {
	t.Run("reports matching fields", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		path := "/api/v1/products/p-1/matches?search=" + url.QueryEscape("λευκό")
		w := doRequest(t, router, "GET", path, "", "")

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response struct {
			ProductID string   `json:"productId"`
			Search    string   `json:"search"`
			Matches   []string `json:"matches"`
			Matched   bool     `json:"matched"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if response.ProductID != "p-1" {
			t.Errorf("productId = %s, want p-1", response.ProductID)
		}
		if !response.Matched {
			t.Error("matched = false, want true")
		}

		foundColorHit := false
		for _, hit := range response.Matches {
			if strings.HasPrefix(hit, "color: ") {
				foundColorHit = true
			}
		}
		if !foundColorHit {
			t.Errorf("matches = %v, want a color hit", response.Matches)
		}
	})

	t.Run("reports no matches for an unrelated term", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		w := doRequest(t, router, "GET", "/api/v1/products/p-1/matches?search=zzzzz", "", "")

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response struct {
			Matches []string `json:"matches"`
			Matched bool     `json:"matched"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response.Matched {
			t.Error("matched = true, want false")
		}
		if len(response.Matches) != 0 {
			t.Errorf("matches = %v, want empty", response.Matches)
		}
	})

	t.Run("requires the search parameter", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		w := doRequest(t, router, "GET", "/api/v1/products/p-1/matches", "", "")

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("returns 404 for a missing product", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		w := doRequest(t, router, "GET", "/api/v1/products/ghost/matches?search=abc", "", "")

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

// TestCreateProductEndpoint tests the admin-gated product creation
func TestCreateProductEndpoint(t *testing.T) {
	payload := `{"name":"Νιπτήρας Ημιεντοιχιζόμενος","nameEn":"Semi-Recessed Washbasin","colors":["λευκό"]}`

	t.Run("requires the admin token", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		w := doRequest(t, router, "POST", "/api/v1/products", "", payload)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("rejects a wrong token", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		w := doRequest(t, router, "POST", "/api/v1/products", "wrong-token", payload)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("creates a product and assigns an id", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		w := doRequest(t, router, "POST", "/api/v1/products", testAdminToken, payload)

		if w.Code != http.StatusCreated {
			t.Fatalf("Status = %d, want %d, body: %s", w.Code, http.StatusCreated, w.Body.String())
		}

		var created domain.SearchableProduct
		if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if created.ID == "" {
			t.Fatal("created product has no id")
		}

		got := doRequest(t, router, "GET", "/api/v1/products/"+created.ID, "", "")
		if got.Code != http.StatusOK {
			t.Errorf("GET created product: Status = %d, want %d", got.Code, http.StatusOK)
		}
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		w := doRequest(t, router, "POST", "/api/v1/products", testAdminToken, `{invalid json}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects a product without a name", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		w := doRequest(t, router, "POST", "/api/v1/products", testAdminToken, `{"nameEn":"No Greek Name"}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

// TestUpdateProductEndpoint tests the admin-gated product update
func TestUpdateProductEndpoint(t *testing.T) {
	t.Run("updates an existing product", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		payload := `{"name":"Νιπτήρας Επικαθήμενος Οβάλ","nameEn":"Countertop Oval Washbasin"}`
		w := doRequest(t, router, "PUT", "/api/v1/products/p-1", testAdminToken, payload)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		got := doRequest(t, router, "GET", "/api/v1/products/p-1", "", "")
		var product domain.SearchableProduct
		if err := json.Unmarshal(got.Body.Bytes(), &product); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if product.Name != "Νιπτήρας Επικαθήμενος Οβάλ" {
			t.Errorf("name = %s, want the updated name", product.Name)
		}
	})

	t.Run("returns 404 for a missing product", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		payload := `{"name":"Δεν Υπάρχει"}`
		w := doRequest(t, router, "PUT", "/api/v1/products/ghost", testAdminToken, payload)

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("requires the admin token", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		w := doRequest(t, router, "PUT", "/api/v1/products/p-1", "", `{"name":"Νέο Όνομα"}`)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})
}

// TestDeleteProductEndpoint tests the admin-gated product deletion
func TestDeleteProductEndpoint(t *testing.T) {
	t.Run("deletes an existing product", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		w := doRequest(t, router, "DELETE", "/api/v1/products/p-2", testAdminToken, "")
		if w.Code != http.StatusNoContent {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusNoContent)
		}

		got := doRequest(t, router, "GET", "/api/v1/products/p-2", "", "")
		if got.Code != http.StatusNotFound {
			t.Errorf("GET after delete: Status = %d, want %d", got.Code, http.StatusNotFound)
		}

		again := doRequest(t, router, "DELETE", "/api/v1/products/p-2", testAdminToken, "")
		if again.Code != http.StatusNotFound {
			t.Errorf("second delete: Status = %d, want %d", again.Code, http.StatusNotFound)
		}
	})

	t.Run("requires the admin token", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		w := doRequest(t, router, "DELETE", "/api/v1/products/p-2", "", "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})
}

// TestWritesDisabled tests that an empty admin token forbids all writes
func TestWritesDisabled(t *testing.T) {
	router := setupTestRouter(t, "")

	writes := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/products"},
		{"PUT", "/api/v1/products/p-1"},
		{"DELETE", "/api/v1/products/p-1"},
		{"POST", "/api/v1/categories"},
	}

	for _, op := range writes {
		t.Run(op.method+" "+op.path, func(t *testing.T) {
			w := doRequest(t, router, op.method, op.path, "any-token", `{"name":"x"}`)

			if w.Code != http.StatusForbidden {
				t.Errorf("Status = %d, want %d", w.Code, http.StatusForbidden)
			}

			var response map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("Failed to unmarshal response: %v", err)
			}
			if response["error"] != "catalog writes are disabled" {
				t.Errorf("error = %v, want 'catalog writes are disabled'", response["error"])
			}
		})
	}
}

// TestCategoriesEndpoint tests listing and creating categories
func TestCategoriesEndpoint(t *testing.T) {
	t.Run("lists the seeded categories ordered by slug", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		w := doRequest(t, router, "GET", "/api/v1/categories", "", "")

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var body struct {
			Categories []domain.Category `json:"categories"`
			Count      int               `json:"count"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if body.Count != 3 {
			t.Fatalf("count = %d, want 3", body.Count)
		}
		if body.Categories[0].Slug != "epipla" || body.Categories[2].Slug != "nipthres" {
			t.Errorf("categories not ordered by slug: %v", body.Categories)
		}
	})

	t.Run("creates a category with the admin token", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		payload := `{"id":"c-9","slug":"kathreptes","name":"Καθρέπτες"}`
		w := doRequest(t, router, "POST", "/api/v1/categories", testAdminToken, payload)

		if w.Code != http.StatusCreated {
			t.Fatalf("Status = %d, want %d, body: %s", w.Code, http.StatusCreated, w.Body.String())
		}

		list := doRequest(t, router, "GET", "/api/v1/categories", "", "")
		var body struct {
			Count int `json:"count"`
		}
		if err := json.Unmarshal(list.Body.Bytes(), &body); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if body.Count != 4 {
			t.Errorf("count after create = %d, want 4", body.Count)
		}
	})
}

// TestSearchCacheInvalidation tests that writes flush cached search results
func TestSearchCacheInvalidation(t *testing.T) {
	router := setupTestRouter(t, testAdminToken)
	path := "/api/v1/products?search=" + url.QueryEscape("νιπτηρας")

	// Prime the cache
	first := doRequest(t, router, "GET", path, "", "")
	_, firstCount := decodeProductList(t, first)
	if firstCount != 1 {
		t.Fatalf("initial count = %d, want 1", firstCount)
	}

	// A write must invalidate the cached result
	payload := `{"name":"Νιπτήρας Ημιεντοιχιζόμενος","nameEn":"Semi-Recessed Washbasin"}`
	created := doRequest(t, router, "POST", "/api/v1/products", testAdminToken, payload)
	if created.Code != http.StatusCreated {
		t.Fatalf("create Status = %d, want %d", created.Code, http.StatusCreated)
	}

	second := doRequest(t, router, "GET", path, "", "")
	_, secondCount := decodeProductList(t, second)
	if secondCount != 2 {
		t.Errorf("count after create = %d, want 2 (stale cache?)", secondCount)
	}
}

// TestCORSIntegration tests CORS headers work end-to-end with full router
func TestCORSIntegration(t *testing.T) {
	t.Run("health endpoint has CORS for the local frontend", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		req, _ := http.NewRequest("GET", "/health", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "http://localhost:5173")
		}
		if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
			t.Errorf("Access-Control-Allow-Credentials = %q, want %q", got, "true")
		}
	})

	t.Run("product endpoint has CORS for the storefront", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		req, _ := http.NewRequest("GET", "/api/v1/products", nil)
		req.Header.Set("Origin", "https://probagno.gr")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://probagno.gr" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "https://probagno.gr")
		}
	})
}

// TestRecoveryMiddleware tests panic recovery
func TestRecoveryMiddleware(t *testing.T) {
	t.Run("recovers from panic without crashing server", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		router.GET("/panic", func(c *gin.Context) {
			panic("test panic")
		})

		w := doRequest(t, router, "GET", "/panic", "", "")

		// Gin's default recovery returns 500
		if w.Code != http.StatusInternalServerError {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
	})
}

// TestAPIVersioning tests that API v1 routes are correctly versioned
func TestAPIVersioning(t *testing.T) {
	t.Run("v1 routes are accessible", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		w := doRequest(t, router, "GET", "/api/v1/products", "", "")
		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("non-versioned routes return 404", func(t *testing.T) {
		router := setupTestRouter(t, testAdminToken)

		w := doRequest(t, router, "GET", "/api/products", "", "")
		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

// TestJSONResponses tests that all responses are valid JSON
func TestJSONResponses(t *testing.T) {
	endpoints := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/api/v1/products"},
		{"GET", "/api/v1/products/ghost"},
		{"GET", "/api/v1/categories"},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			router := setupTestRouter(t, testAdminToken)

			w := doRequest(t, router, endpoint.method, endpoint.path, "", "")

			gotContentType := w.Header().Get("Content-Type")
			wantContentType := "application/json; charset=utf-8"
			if gotContentType != wantContentType {
				t.Errorf("Content-Type = %q, want %q", gotContentType, wantContentType)
			}

			var response map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Errorf("Response should be valid JSON, got error: %v", err)
			}
		})
	}
}
