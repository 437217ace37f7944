package sqlstore

import (
	"context"
	"fmt"

	"github.com/healthfirst/homecare/internal/core/domain"
)

type ContactRepository struct {
	db *DB
}

func NewContactRepository(db *DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) CreateContact(ctx context.Context, c *domain.Contact) error {
	_, err := r.db.exec(ctx, `
INSERT INTO contacts (id, name, email, subject, message, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, c.ID, c.Name, c.Email, c.Subject, c.Message, string(c.Status), c.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (r *ContactRepository) ListContacts(ctx context.Context, limit int) ([]domain.Contact, error) {
	rows, err := r.db.query(ctx, `
SELECT id, name, email, subject, message, status, created_at
FROM contacts
ORDER BY created_at DESC`+limitClause(limit))
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Contact, 0)
	for rows.Next() {
		var c domain.Contact
		var status string
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		c.Status = domain.ContactStatus(status)
		c.CreatedAt = c.CreatedAt.UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return out, nil
}

func (r *ContactRepository) UpdateContactStatus(ctx context.Context, id string, status domain.ContactStatus) error {
	res, err := r.db.exec(ctx, `UPDATE contacts SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update contact status: %w", err)
	}
	return expectAffected(res, "update contact status", id)
}

func (r *ContactRepository) DeleteContact(ctx context.Context, id string) error {
	res, err := r.db.exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return expectAffected(res, "delete contact", id)
}

func (r *ContactRepository) CountContactsByStatus(ctx context.Context, status domain.ContactStatus) (int, error) {
	query := `SELECT COUNT(*) FROM contacts`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	var n int
	if err := r.db.queryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}
