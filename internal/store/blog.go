package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"solarsite/internal/models"
)

const blogColumns = `id, slug, title, author, published_at, read_time, category,
       image, excerpt, blocks, likes, views, comments, created_at, updated_at`

// BlogStore handles all blog-related database operations. Body blocks and
// comments are JSONB documents; likes and views are bumped with
// single-statement atomic updates.
type BlogStore struct {
	db *sql.DB
}

// NewBlogStore creates a new BlogStore with the given database connection.
func NewBlogStore(db *sql.DB) *BlogStore {
	return &BlogStore{db: db}
}

func scanBlogPost(row interface{ Scan(...any) error }) (*models.BlogPost, error) {
	b := &models.BlogPost{}
	var blocks, comments []byte
	if err := row.Scan(
		&b.ID, &b.Slug, &b.Title, &b.Author, &b.Date, &b.ReadTime, &b.Category,
		&b.Image, &b.Excerpt, &blocks, &b.Likes, &b.Views, &comments,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(blocks, &b.Blocks); err != nil {
		return nil, fmt.Errorf("decode blocks: %w", err)
	}
	if err := json.Unmarshal(comments, &b.Comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return b, nil
}

// List returns all posts in summary shape (no blocks, no comments),
// newest first.
func (s *BlogStore) List(ctx context.Context) ([]models.BlogSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, slug, title, author, published_at, read_time, category,
		       image, excerpt, likes, views
		FROM blogs
		ORDER BY published_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	var items []models.BlogSummary
	for rows.Next() {
		var b models.BlogSummary
		if err := rows.Scan(
			&b.ID, &b.Slug, &b.Title, &b.Author, &b.Date, &b.ReadTime,
			&b.Category, &b.Image, &b.Excerpt, &b.Likes, &b.Views,
		); err != nil {
			return nil, fmt.Errorf("scan blog summary: %w", err)
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

// FindBySlug retrieves a full post by its slug. Returns nil if not found.
func (s *BlogStore) FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	b, err := scanBlogPost(s.db.QueryRowContext(ctx, `
		SELECT `+blogColumns+`
		FROM blogs WHERE slug = $1
	`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog by slug: %w", err)
	}
	return b, nil
}

// FindByID retrieves a full post by ID. Returns nil if not found.
func (s *BlogStore) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	b, err := scanBlogPost(s.db.QueryRowContext(ctx, `
		SELECT `+blogColumns+`
		FROM blogs WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog by id: %w", err)
	}
	return b, nil
}

// SlugExists reports whether a post already uses the given slug.
func (s *BlogStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM blogs WHERE slug = $1)
	`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check blog slug: %w", err)
	}
	return exists, nil
}

// Create inserts a new post and returns it with the generated ID.
func (s *BlogStore) Create(ctx context.Context, b *models.BlogPost) (*models.BlogPost, error) {
	blocks, err := json.Marshal(blocksOrEmpty(b.Blocks))
	if err != nil {
		return nil, fmt.Errorf("encode blocks: %w", err)
	}

	result, err := scanBlogPost(s.db.QueryRowContext(ctx, `
		INSERT INTO blogs (slug, title, author, published_at, read_time,
		                   category, image, excerpt, blocks)
		VALUES ($1, $2, $3, COALESCE($4, NOW()), $5, $6, $7, $8, $9)
		RETURNING `+blogColumns+`
	`, b.Slug, b.Title, b.Author, nullableTime(b.Date), b.ReadTime,
		b.Category, b.Image, b.Excerpt, blocks))
	if err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}
	return result, nil
}

// Update writes the editable fields of a post by ID and returns the
// stored result. Counters and comments are not touched — they have
// dedicated operations. Returns nil if the id does not exist.
func (s *BlogStore) Update(ctx context.Context, b *models.BlogPost) (*models.BlogPost, error) {
	blocks, err := json.Marshal(blocksOrEmpty(b.Blocks))
	if err != nil {
		return nil, fmt.Errorf("encode blocks: %w", err)
	}

	result, err := scanBlogPost(s.db.QueryRowContext(ctx, `
		UPDATE blogs SET
			slug = $1, title = $2, author = $3, published_at = $4, read_time = $5,
			category = $6, image = $7, excerpt = $8, blocks = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING `+blogColumns+`
	`, b.Slug, b.Title, b.Author, b.Date, b.ReadTime,
		b.Category, b.Image, b.Excerpt, blocks, b.ID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}
	return result, nil
}

// Delete removes a post by ID. Returns whether a row was deleted.
func (s *BlogStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete blog: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete blog rows affected: %w", err)
	}
	return n > 0, nil
}

// IncrementViews atomically bumps the view counter and returns the new
// count. The server applies every call; per-client dedup lives in the
// browser and is advisory only. Returns ok=false when the slug is unknown.
func (s *BlogStore) IncrementViews(ctx context.Context, slug string) (int, bool, error) {
	return s.increment(ctx, slug, "views")
}

// IncrementLikes atomically bumps the like counter and returns the new
// count. Same dedup caveat as IncrementViews.
func (s *BlogStore) IncrementLikes(ctx context.Context, slug string) (int, bool, error) {
	return s.increment(ctx, slug, "likes")
}

func (s *BlogStore) increment(ctx context.Context, slug, column string) (int, bool, error) {
	// column is one of two compile-time constants, never user input.
	var count int
	err := s.db.QueryRowContext(ctx,
		`UPDATE blogs SET `+column+` = `+column+` + 1 WHERE slug = $1 RETURNING `+column,
		slug,
	).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("increment %s: %w", column, err)
	}
	return count, true, nil
}

// AddComment appends a comment to the post's embedded comment array.
// Returns ok=false when the slug is unknown.
func (s *BlogStore) AddComment(ctx context.Context, slug string, c models.Comment) (bool, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return false, fmt.Errorf("encode comment: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE blogs SET comments = comments || $2::jsonb, updated_at = NOW()
		WHERE slug = $1
	`, slug, payload)
	if err != nil {
		return false, fmt.Errorf("add comment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add comment rows affected: %w", err)
	}
	return n > 0, nil
}

func blocksOrEmpty(blocks []models.Block) []models.Block {
	if blocks == nil {
		return []models.Block{}
	}
	return blocks
}

// nullableTime maps the zero time to NULL so the column default applies.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
