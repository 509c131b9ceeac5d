package tables

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PGRepo implements Repo using Postgres. Headers, rows, and metadata are
// stored as JSONB.
type PGRepo struct {
	DB *sql.DB
}

// ReplaceForDocument deletes any previously recorded tables for the document
// and inserts the new set in a single transaction.
func (r *PGRepo) ReplaceForDocument(ctx context.Context, documentID, companyID string, tables []ExtractedTable) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM extracted_tables WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete existing tables: %w", err)
	}

	const query = `
INSERT INTO extracted_tables (
    id, document_id, company_id, title, headers, rows, metadata, order_index, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, t := range tables {
		headers, err := json.Marshal(t.Headers)
		if err != nil {
			return fmt.Errorf("marshal headers: %w", err)
		}
		rows, err := json.Marshal(t.Rows)
		if err != nil {
			return fmt.Errorf("marshal rows: %w", err)
		}
		meta, err := json.Marshal(t.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query,
			t.ID, documentID, companyID, t.Title, headers, rows, meta, t.OrderIndex, t.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert table %d: %w", t.OrderIndex, err)
		}
	}

	return tx.Commit()
}

// ListByDocument returns a document's tables ordered by extraction index.
func (r *PGRepo) ListByDocument(ctx context.Context, documentID string) ([]ExtractedTable, error) {
	const query = `
SELECT id, document_id, company_id, title, headers, rows, metadata, order_index, created_at
FROM extracted_tables
WHERE document_id = $1
ORDER BY order_index`

	rows, err := r.DB.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExtractedTable
	for rows.Next() {
		var t ExtractedTable
		var headers, body, meta []byte
		if err := rows.Scan(&t.ID, &t.DocumentID, &t.CompanyID, &t.Title, &headers, &body, &meta, &t.OrderIndex, &t.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(headers, &t.Headers); err != nil {
			return nil, fmt.Errorf("unmarshal headers: %w", err)
		}
		if err := json.Unmarshal(body, &t.Rows); err != nil {
			return nil, fmt.Errorf("unmarshal rows: %w", err)
		}
		if err := json.Unmarshal(meta, &t.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteByDocument removes all tables owned by a document.
func (r *PGRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM extracted_tables WHERE document_id = $1`, documentID)
	return err
}

var _ Repo = (*PGRepo)(nil)
