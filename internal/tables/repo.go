package tables

import "context"

// Repo defines persistence operations for extracted tables.
type Repo interface {
	// ReplaceForDocument atomically swaps the tables recorded for a document.
	// Re-running an extraction pass is therefore safe: it never duplicates.
	ReplaceForDocument(ctx context.Context, documentID, companyID string, tables []ExtractedTable) error
	ListByDocument(ctx context.Context, documentID string) ([]ExtractedTable, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}
