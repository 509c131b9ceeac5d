package chunks

import (
	"context"
	"database/sql"
	"fmt"
)

// PGRepo implements Repo using Postgres with a pgvector embedding column.
type PGRepo struct {
	DB *sql.DB
}

// ReplaceForDocument deletes a document's previous chunks and inserts the new
// set in one transaction.
func (r *PGRepo) ReplaceForDocument(ctx context.Context, documentID, companyID string, chunks []DocumentChunk) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete existing chunks: %w", err)
	}

	const query = `
INSERT INTO document_chunks (
    id, document_id, company_id, category, content, section, chunk_index, embedding, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, c := range chunks {
		var embedding any
		if len(c.Embedding.Slice()) > 0 {
			embedding = c.Embedding
		}
		var section sql.NullString
		if c.Section != "" {
			section = sql.NullString{String: c.Section, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, query,
			c.ID, documentID, companyID, c.Category, c.Content, section, c.ChunkIndex, embedding, c.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert chunk %d: %w", c.ChunkIndex, err)
		}
	}

	return tx.Commit()
}

// ListByDocument returns a document's chunks in order.
func (r *PGRepo) ListByDocument(ctx context.Context, documentID string) ([]DocumentChunk, error) {
	const query = `
SELECT id, document_id, company_id, category, content, coalesce(section, ''), chunk_index, coalesce(embedding::text, ''), created_at
FROM document_chunks
WHERE document_id = $1
ORDER BY chunk_index`

	rows, err := r.DB.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DocumentChunk
	for rows.Next() {
		var c DocumentChunk
		var raw string
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.CompanyID, &c.Category, &c.Content, &c.Section, &c.ChunkIndex, &raw, &c.CreatedAt); err != nil {
			return nil, err
		}
		if raw != "" {
			if err := c.Embedding.Parse(raw); err != nil {
				return nil, fmt.Errorf("parse embedding: %w", err)
			}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteByDocument removes all chunks owned by a document.
func (r *PGRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, documentID)
	return err
}

var _ Repo = (*PGRepo)(nil)
