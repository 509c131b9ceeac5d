package documents

import "context"

// ListFilter narrows a company's document listing. A zero Category means
// all categories.
type ListFilter struct {
	Category Category
	Limit    int
	Offset   int
}

// DocumentsRepo defines persistence operations for documents.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, documentID string) (Document, error)
	ListByCompany(ctx context.Context, companyID string, f ListFilter) ([]Document, error)
	// ApplyProcessing performs the pipeline's one-shot transition out of
	// status uploaded. It returns ErrNotFound when the document is missing
	// or already in a terminal status.
	ApplyProcessing(ctx context.Context, documentID string, upd ProcessingUpdate) error
	Delete(ctx context.Context, documentID string) error
}
