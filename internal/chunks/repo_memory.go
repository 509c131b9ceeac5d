package chunks

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]DocumentChunk // documentID -> chunks
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]DocumentChunk)}
}

// ReplaceForDocument swaps the stored chunks for a document.
func (r *MemoryRepo) ReplaceForDocument(ctx context.Context, documentID, companyID string, chunks []DocumentChunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := make([]DocumentChunk, len(chunks))
	copy(stored, chunks)
	r.data[documentID] = stored
	return nil
}

// ListByDocument returns a document's chunks in order.
func (r *MemoryRepo) ListByDocument(ctx context.Context, documentID string) ([]DocumentChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]DocumentChunk, len(r.data[documentID]))
	copy(out, r.data[documentID])
	return out, nil
}

// DeleteByDocument removes all chunks owned by a document.
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
