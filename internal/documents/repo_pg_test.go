package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"tender-backend/internal/doctypes"
)

func TestPGRepoCreateInsertsUploadedDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	doc := Document{
		ID:         "doc-1",
		CompanyID:  "co-1",
		Category:   CategoryTenderDocument,
		FileName:   "pliego.pdf",
		MimeType:   "application/pdf",
		SizeBytes:  2048,
		StorageKey: "abc123/pliego.pdf",
		UploadedBy: "maria",
		Status:     StatusUploaded,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID,
			doc.CompanyID,
			doc.Category,
			doc.FileName,
			doc.MimeType,
			doc.SizeBytes,
			doc.StorageKey,
			"maria",
			sqlmock.AnyArg(), // metadata
			doc.HasTables,
			nil, // document_type
			doc.Status,
			now,
			now,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	columns := []string{
		"id", "company_id", "category", "file_name", "mime_type", "size_bytes",
		"storage_key", "uploaded_by", "extracted_text", "metadata", "has_tables",
		"language", "document_type", "status", "created_at", "updated_at",
	}
	rows := sqlmock.NewRows(columns).AddRow(
		"doc-1", "co-1", "tender_document", "pliego.pdf", "application/pdf", int64(2048),
		"abc123/pliego.pdf", "maria", "texto extraido", []byte(`{"wordCount":2,"tablesCount":1}`), true,
		"es", "tender_document", "processed", now, now,
	)

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE id").
		WithArgs("doc-1").
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc.Status != StatusProcessed || doc.Language != "es" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if doc.Type != doctypes.TypeTenderDocument {
		t.Fatalf("type: %q", doc.Type)
	}
	if doc.Metadata.TablesCount != 1 || doc.Metadata.WordCount != 2 {
		t.Fatalf("metadata: %+v", doc.Metadata)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT (.+) FROM documents WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoApplyProcessingGuardsStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	upd := ProcessingUpdate{
		ExtractedText: "texto",
		Metadata:      Metadata{WordCount: 1},
		HasTables:     true,
		Language:      "es",
		Type:          doctypes.TypePriceTable,
		Status:        StatusProcessed,
	}

	mock.ExpectExec("UPDATE documents").
		WithArgs(
			upd.ExtractedText,
			sqlmock.AnyArg(), // metadata
			upd.HasTables,
			"es",
			string(upd.Type),
			upd.Status,
			sqlmock.AnyArg(), // updated_at
			"doc-1",
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ApplyProcessing(context.Background(), "doc-1", upd); err != nil {
		t.Fatalf("ApplyProcessing: %v", err)
	}

	// A document no longer in status uploaded matches zero rows.
	mock.ExpectExec("UPDATE documents").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.ApplyProcessing(context.Background(), "doc-1", upd); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second transition, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("DELETE FROM documents").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
