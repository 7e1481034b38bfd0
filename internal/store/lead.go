package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"solarsite/internal/models"
)

// LeadStore handles lead-capture submission persistence.
type LeadStore struct {
	db *sql.DB
}

// NewLeadStore creates a new LeadStore with the given database connection.
func NewLeadStore(db *sql.DB) *LeadStore {
	return &LeadStore{db: db}
}

// Create inserts a lead submission and returns it with the generated ID.
func (s *LeadStore) Create(ctx context.Context, l *models.Lead) (*models.Lead, error) {
	if l.Fields == nil {
		l.Fields = map[string]string{}
	}
	fields, err := json.Marshal(l.Fields)
	if err != nil {
		return nil, fmt.Errorf("encode lead fields: %w", err)
	}

	result := &models.Lead{}
	var stored []byte
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO leads (kind, name, email, phone, fields, attachment_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, kind, name, email, phone, fields, attachment_url, created_at
	`, l.Kind, l.Name, l.Email, l.Phone, fields, l.AttachmentURL).Scan(
		&result.ID, &result.Kind, &result.Name, &result.Email, &result.Phone,
		&stored, &result.AttachmentURL, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	if err := json.Unmarshal(stored, &result.Fields); err != nil {
		return nil, fmt.Errorf("decode lead fields: %w", err)
	}
	return result, nil
}

// List returns stored submissions newest first, optionally restricted to
// one form kind.
func (s *LeadStore) List(ctx context.Context, kind *models.LeadKind) ([]models.Lead, error) {
	query := `
		SELECT id, kind, name, email, phone, fields, attachment_url, created_at
		FROM leads`
	var args []any
	if kind != nil {
		query += ` WHERE kind = $1`
		args = append(args, *kind)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var items []models.Lead
	for rows.Next() {
		var l models.Lead
		var fields []byte
		if err := rows.Scan(
			&l.ID, &l.Kind, &l.Name, &l.Email, &l.Phone,
			&fields, &l.AttachmentURL, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		if err := json.Unmarshal(fields, &l.Fields); err != nil {
			return nil, fmt.Errorf("decode lead fields: %w", err)
		}
		items = append(items, l)
	}
	return items, rows.Err()
}
