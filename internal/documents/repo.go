package documents

import "context"

// Repo defines persistence operations for documents.
// Create assigns the ID; callers never choose it.
type Repo interface {
	Create(ctx context.Context, content string) (Document, error)
	UpdateAudioURL(ctx context.Context, id, audioURL string) error
	GetByID(ctx context.Context, id string) (Document, error)
}
