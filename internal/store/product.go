// Package store contains the database access layer. Each entity gets its
// own store struct holding the shared *sql.DB pool; all SQL lives here.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"solarsite/internal/models"
)

// productColumns is the SELECT list shared by every product query.
const productColumns = `id, name, description, slug, image, product_type,
       category, sub_category, extra_category, features, created_at, updated_at`

// ProductStore handles all product-related database operations.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore creates a new ProductStore with the given database connection.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

// scanProduct reads one row into a Product, decoding the features JSONB.
func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	p := &models.Product{}
	var features []byte
	if err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Slug, &p.Image, &p.Type,
		&p.Category, &p.SubCategory, &p.ExtraCategory, &features,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(features, &p.Features); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}
	return p, nil
}

// List returns all products in insertion order. The catalog filters
// client-side, so no server-side filtering or pagination is applied.
func (s *ProductStore) List(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var items []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindBySlug retrieves a product by its slug. Returns nil if not found.
func (s *ProductStore) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE slug = $1
	`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by slug: %w", err)
	}
	return p, nil
}

// FindByID retrieves a product by its UUID. Returns nil if not found.
func (s *ProductStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return p, nil
}

// SlugExists reports whether a product with the given slug already exists.
func (s *ProductStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE slug = $1)`, slug,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("slug exists: %w", err)
	}
	return exists, nil
}

// Create inserts a new product and returns it with the generated ID and
// timestamps.
func (s *ProductStore) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	features, err := json.Marshal(featuresOrEmpty(p.Features))
	if err != nil {
		return nil, fmt.Errorf("encode features: %w", err)
	}

	result, err := scanProduct(s.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, slug, image, product_type,
		                      category, sub_category, extra_category, features)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+productColumns+`
	`, p.Name, p.Description, p.Slug, p.Image, p.Type,
		p.Category, p.SubCategory, p.ExtraCategory, features))
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return result, nil
}

// Update writes the full product row identified by p.ID and returns the
// stored result. Callers merge the incoming payload over the current
// document before calling, giving overwrite-at-matching-keys semantics.
// Returns nil if the id does not exist.
func (s *ProductStore) Update(ctx context.Context, p *models.Product) (*models.Product, error) {
	features, err := json.Marshal(featuresOrEmpty(p.Features))
	if err != nil {
		return nil, fmt.Errorf("encode features: %w", err)
	}

	result, err := scanProduct(s.db.QueryRowContext(ctx, `
		UPDATE products SET
			name = $1, description = $2, slug = $3, image = $4, product_type = $5,
			category = $6, sub_category = $7, extra_category = $8, features = $9,
			updated_at = NOW()
		WHERE id = $10
		RETURNING `+productColumns+`
	`, p.Name, p.Description, p.Slug, p.Image, p.Type,
		p.Category, p.SubCategory, p.ExtraCategory, features, p.ID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return result, nil
}

// Delete removes a product by ID. Returns whether a row was deleted,
// so callers can log deletes of absent ids while still reporting success.
func (s *ProductStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete product rows affected: %w", err)
	}
	return n > 0, nil
}

// Related returns products sharing the given category and subcategory,
// narrowed by extraCategory when supplied and excluding excludeSlug when
// supplied. Results keep insertion order; the client trims for display.
func (s *ProductStore) Related(ctx context.Context, category, subCategory string, extraCategory, excludeSlug *string) ([]models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE category = $1 AND sub_category = $2`
	args := []any{category, subCategory}

	if extraCategory != nil {
		args = append(args, *extraCategory)
		query += fmt.Sprintf(" AND extra_category = $%d", len(args))
	}
	if excludeSlug != nil {
		args = append(args, *excludeSlug)
		query += fmt.Sprintf(" AND slug <> $%d", len(args))
	}
	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("related products: %w", err)
	}
	defer rows.Close()

	var items []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// featuresOrEmpty normalizes a nil feature slice to an empty one so the
// stored JSON is always an array, never null.
func featuresOrEmpty(features []string) []string {
	if features == nil {
		return []string{}
	}
	return features
}
