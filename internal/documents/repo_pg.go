package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres. IDs come from gen_random_uuid().
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document and returns it with its assigned ID.
func (r *PGRepo) Create(ctx context.Context, content string) (Document, error) {
	const query = `
INSERT INTO documents (content)
VALUES ($1)
RETURNING id, created_at, updated_at`

	doc := Document{Content: content}
	if err := r.DB.QueryRowContext(ctx, query, content).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return Document{}, fmt.Errorf("insert document: %w", err)
	}
	return doc, nil
}

// UpdateAudioURL stores the audio reference for a document.
func (r *PGRepo) UpdateAudioURL(ctx context.Context, id, audioURL string) error {
	if audioURL == "" {
		return ErrInvalidInput
	}
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	const query = `
UPDATE documents
SET audio_url = $1, updated_at = now()
WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, audioURL, id)
	if err != nil {
		return fmt.Errorf("update document audio: %w", err)
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update document audio: %w", err)
	}
	if updated == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Document{}, ErrNotFound
	}
	const query = `
SELECT id, content, audio_url, created_at, updated_at
FROM documents
WHERE id = $1`
	var doc Document
	var audioURL sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.Content,
		&audioURL,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	if audioURL.Valid {
		doc.AudioURL = audioURL.String
	}
	return doc, nil
}

var _ Repo = (*PGRepo)(nil)
