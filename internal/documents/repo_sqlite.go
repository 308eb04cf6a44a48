package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLiteRepo implements Repo on an embedded sqlite database.
// Timestamps are stored as unix milliseconds.
type SQLiteRepo struct {
	DB  *sql.DB
	now func() time.Time
}

// NewSQLiteRepo constructs a SQLiteRepo over a migrated database.
func NewSQLiteRepo(db *sql.DB) *SQLiteRepo {
	return &SQLiteRepo{DB: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create inserts a new document under a fresh UUID.
func (r *SQLiteRepo) Create(ctx context.Context, content string) (Document, error) {
	now := r.now()
	doc := Document{
		ID:        uuid.NewString(),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	const query = `INSERT INTO documents (id, content, created_at, updated_at) VALUES (?, ?, ?, ?)`
	if _, err := r.DB.ExecContext(ctx, query, doc.ID, doc.Content, now.UnixMilli(), now.UnixMilli()); err != nil {
		return Document{}, fmt.Errorf("insert document: %w", err)
	}
	return doc, nil
}

// UpdateAudioURL stores the audio reference for a document.
func (r *SQLiteRepo) UpdateAudioURL(ctx context.Context, id, audioURL string) error {
	if audioURL == "" {
		return ErrInvalidInput
	}
	const query = `UPDATE documents SET audio_url = ?, updated_at = ? WHERE id = ?`
	res, err := r.DB.ExecContext(ctx, query, audioURL, r.now().UnixMilli(), id)
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
func (r *SQLiteRepo) GetByID(ctx context.Context, id string) (Document, error) {
	const query = `SELECT id, content, audio_url, created_at, updated_at FROM documents WHERE id = ?`
	var doc Document
	var audioURL sql.NullString
	var createdAt, updatedAt int64
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&doc.ID, &doc.Content, &audioURL, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	if audioURL.Valid {
		doc.AudioURL = audioURL.String
	}
	doc.CreatedAt = time.UnixMilli(createdAt).UTC()
	doc.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return doc, nil
}

var _ Repo = (*SQLiteRepo)(nil)
