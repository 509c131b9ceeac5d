package tables

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]ExtractedTable // documentID -> tables
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]ExtractedTable)}
}

// ReplaceForDocument swaps the stored tables for a document.
func (r *MemoryRepo) ReplaceForDocument(ctx context.Context, documentID, companyID string, tables []ExtractedTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := make([]ExtractedTable, len(tables))
	copy(stored, tables)
	r.data[documentID] = stored
	return nil
}

// ListByDocument returns a document's tables in extraction order.
func (r *MemoryRepo) ListByDocument(ctx context.Context, documentID string) ([]ExtractedTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ExtractedTable, len(r.data[documentID]))
	copy(out, r.data[documentID])
	return out, nil
}

// DeleteByDocument removes all tables owned by a document.
func (r *MemoryRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, documentID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
