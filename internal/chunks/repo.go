package chunks

import "context"

// Repo defines persistence operations for document chunks.
type Repo interface {
	// ReplaceForDocument atomically swaps the chunks recorded for a document.
	ReplaceForDocument(ctx context.Context, documentID, companyID string, chunks []DocumentChunk) error
	ListByDocument(ctx context.Context, documentID string) ([]DocumentChunk, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}
