package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tender-backend/internal/doctypes"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const docColumns = `id, company_id, category, file_name, mime_type, size_bytes, storage_key, uploaded_by, coalesce(extracted_text, ''), metadata, has_tables, coalesce(language, ''), coalesce(document_type, ''), status, created_at, updated_at`

// Create inserts a new document in status uploaded.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    company_id,
    category,
    file_name,
    mime_type,
    size_bytes,
    storage_key,
    uploaded_by,
    metadata,
    has_tables,
    document_type,
    status,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	meta, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	var uploadedBy sql.NullString
	if doc.UploadedBy != "" {
		uploadedBy = sql.NullString{String: doc.UploadedBy, Valid: true}
	}
	var docType sql.NullString
	if doc.Type != "" {
		docType = sql.NullString{String: string(doc.Type), Valid: true}
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.CompanyID,
		doc.Category,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		doc.StorageKey,
		uploadedBy,
		meta,
		doc.HasTables,
		docType,
		doc.Status,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	query := `SELECT ` + docColumns + ` FROM documents WHERE id = $1 LIMIT 1`

	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByCompany lists a company's documents newest-first, optionally
// narrowed to one category.
func (r *PGRepo) ListByCompany(ctx context.Context, companyID string, f ListFilter) ([]Document, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	query := `SELECT ` + docColumns + ` FROM documents WHERE company_id = $1`
	args := []any{companyID}
	if f.Category != "" {
		query += ` AND category = $2`
		args = append(args, string(f.Category))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// ApplyProcessing records the pipeline outcome. The status guard makes the
// transition one-shot: a document already processed or errored is untouched.
func (r *PGRepo) ApplyProcessing(ctx context.Context, documentID string, upd ProcessingUpdate) error {
	const query = `
UPDATE documents
SET extracted_text = $1,
    metadata = $2,
    has_tables = $3,
    language = $4,
    document_type = $5,
    status = $6,
    updated_at = $7
WHERE id = $8 AND status = 'uploaded'`

	meta, err := json.Marshal(upd.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	var language sql.NullString
	if upd.Language != "" {
		language = sql.NullString{String: upd.Language, Valid: true}
	}
	var docType sql.NullString
	if upd.Type != "" {
		docType = sql.NullString{String: string(upd.Type), Valid: true}
	}

	res, err := r.DB.ExecContext(ctx, query,
		upd.ExtractedText, meta, upd.HasTables, language, docType, upd.Status, time.Now().UTC(), documentID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document. Dependent tables and chunks cascade via FK.
func (r *PGRepo) Delete(ctx context.Context, documentID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, documentID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var uploadedBy sql.NullString
	var meta []byte
	var language, docType string
	if err := row.Scan(
		&doc.ID,
		&doc.CompanyID,
		&doc.Category,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.StorageKey,
		&uploadedBy,
		&doc.ExtractedText,
		&meta,
		&doc.HasTables,
		&language,
		&docType,
		&doc.Status,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	); err != nil {
		return Document{}, err
	}
	if uploadedBy.Valid {
		doc.UploadedBy = uploadedBy.String
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &doc.Metadata); err != nil {
			return Document{}, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	doc.Language = language
	doc.Type = doctypes.Type(docType)
	return doc, nil
}

var _ DocumentsRepo = (*PGRepo)(nil)
