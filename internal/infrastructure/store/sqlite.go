// Package store persists the product catalog in a local SQLite database.
// It is the write-capable implementation of domain.CatalogRepository; the
// schema ships embedded and is applied on every open, so a fresh path
// bootstraps itself.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/probagno/backend/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

const productColumns = `id, name, name_en, description, description_en,
	colors, materials, features, tags, category, subcategory`

// Store wraps a SQLite handle and implements domain.CatalogRepository.
type Store struct {
	db *sql.DB
}

// Open creates the database file (and its parent directory) if needed,
// applies the embedded schema and returns a ready Store.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListProducts returns the full catalog, newest first.
func (s *Store) ListProducts(ctx context.Context) ([]domain.SearchableProduct, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.SearchableProduct, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// GetProduct returns a single product by ID, or domain.ErrProductNotFound.
func (s *Store) GetProduct(ctx context.Context, id string) (*domain.SearchableProduct, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)

	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// CreateProduct inserts a new product row. The caller assigns the ID.
func (s *Store) CreateProduct(ctx context.Context, product *domain.SearchableProduct) error {
	if product == nil || product.ID == "" {
		return domain.ErrInvalidRequest
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID,
		product.Name,
		product.NameEn,
		product.Description,
		nullIfEmpty(product.DescriptionEn),
		encodeLabels(product.Colors),
		encodeLabels(product.Materials),
		encodeLabels(product.Features),
		encodeOptionalLabels(product.Tags),
		nullIfEmpty(product.Category),
		nullIfEmpty(product.Subcategory),
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// UpdateProduct rewrites an existing product row. The updated_at trigger
// stamps the change; a missing ID reports domain.ErrProductNotFound.
func (s *Store) UpdateProduct(ctx context.Context, product *domain.SearchableProduct) error {
	if product == nil || product.ID == "" {
		return domain.ErrInvalidRequest
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE products SET
			name = ?, name_en = ?, description = ?, description_en = ?,
			colors = ?, materials = ?, features = ?, tags = ?,
			category = ?, subcategory = ?
		 WHERE id = ?`,
		product.Name,
		product.NameEn,
		product.Description,
		nullIfEmpty(product.DescriptionEn),
		encodeLabels(product.Colors),
		encodeLabels(product.Materials),
		encodeLabels(product.Features),
		encodeOptionalLabels(product.Tags),
		nullIfEmpty(product.Category),
		nullIfEmpty(product.Subcategory),
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// DeleteProduct removes a product row, or reports domain.ErrProductNotFound.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// ListCategories returns all categories ordered by slug.
func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, slug, name, name_en FROM categories ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		var category domain.Category
		var nameEn sql.NullString
		if err := rows.Scan(&category.ID, &category.Slug, &category.Name, &nameEn); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		category.NameEn = nameEn.String
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory inserts a new category row. Slugs are unique.
func (s *Store) CreateCategory(ctx context.Context, category *domain.Category) error {
	if category == nil || category.ID == "" || category.Slug == "" {
		return domain.ErrInvalidRequest
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, slug, name, name_en) VALUES (?, ?, ?, ?)`,
		category.ID, category.Slug, category.Name, nullIfEmpty(category.NameEn))
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.SearchableProduct, error) {
	var product domain.SearchableProduct
	var descriptionEn, tags, category, subcat sql.NullString
	var colors, materials, features string

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.NameEn,
		&product.Description,
		&descriptionEn,
		&colors,
		&materials,
		&features,
		&tags,
		&category,
		&subcat,
	)
	if err != nil {
		return nil, err
	}

	product.DescriptionEn = descriptionEn.String
	product.Category = category.String
	product.Subcategory = subcat.String

	if product.Colors, err = decodeLabels(colors); err != nil {
		return nil, fmt.Errorf("decode colors: %w", err)
	}
	if product.Materials, err = decodeLabels(materials); err != nil {
		return nil, fmt.Errorf("decode materials: %w", err)
	}
	if product.Features, err = decodeLabels(features); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}
	if tags.Valid {
		if product.Tags, err = decodeLabels(tags.String); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}

	return &product, nil
}

// encodeLabels stores a label slice as JSON text. A []string never fails
// to marshal, so the error is discarded.
func encodeLabels(labels []string) string {
	if len(labels) == 0 {
		return "[]"
	}
	raw, _ := json.Marshal(labels)
	return string(raw)
}

// encodeOptionalLabels keeps the nil/empty distinction: a nil slice maps
// to NULL so it reads back as nil rather than an empty array.
func encodeOptionalLabels(labels []string) sql.NullString {
	if labels == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: encodeLabels(labels), Valid: true}
}

func decodeLabels(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var labels []string
	if err := json.Unmarshal([]byte(raw), &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
