package documents

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of DocumentsRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Document // documentID -> document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Document)}
}

// Create stores a new document.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.ID] = doc
	return nil
}

// GetByID returns a document by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[documentID]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// ListByCompany lists a company's documents newest-first, optionally
// narrowed to one category.
func (r *MemoryRepo) ListByCompany(ctx context.Context, companyID string, f ListFilter) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var docs []Document
	for _, doc := range r.data {
		if doc.CompanyID != companyID {
			continue
		}
		if f.Category != "" && doc.Category != f.Category {
			continue
		}
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})

	if f.Offset >= len(docs) {
		return nil, nil
	}
	docs = docs[f.Offset:]
	if len(docs) > f.Limit {
		docs = docs[:f.Limit]
	}
	return docs, nil
}

// ApplyProcessing records the pipeline outcome for a still-uploaded document.
func (r *MemoryRepo) ApplyProcessing(ctx context.Context, documentID string, upd ProcessingUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[documentID]
	if !ok || doc.Status != StatusUploaded {
		return ErrNotFound
	}
	doc.ExtractedText = upd.ExtractedText
	doc.Metadata = upd.Metadata
	doc.HasTables = upd.HasTables
	doc.Language = upd.Language
	doc.Type = upd.Type
	doc.Status = upd.Status
	doc.UpdatedAt = time.Now().UTC()
	r.data[documentID] = doc
	return nil
}

// Delete removes a document.
func (r *MemoryRepo) Delete(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[documentID]; !ok {
		return ErrNotFound
	}
	delete(r.data, documentID)
	return nil
}

var _ DocumentsRepo = (*MemoryRepo)(nil)
