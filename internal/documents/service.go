package documents

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"tender-backend/internal/chunks"
	"tender-backend/internal/doctypes"
	"tender-backend/internal/shared/storage/object"
	"tender-backend/internal/shared/telemetry"
	"tender-backend/internal/tables"
)

// Processor kicks off background ingestion for a freshly uploaded document.
type Processor interface {
	ProcessAsync(ctx context.Context, doc Document)
}

// Service contains business logic for documents.
type Service struct {
	Store     object.ObjectStore
	Repo      DocumentsRepo
	Tables    tables.Repo
	Chunks    chunks.Repo
	Processor Processor
}

// UploadInput carries the fields of a document upload request. Type is
// an optional caller override; when empty the pipeline classifies the
// document itself.
type UploadInput struct {
	CompanyID  string
	Category   Category
	FileName   string
	UploadedBy string
	Type       doctypes.Type
}

// Upload saves the file to object storage, records the document in status
// uploaded, and hands it to the ingestion pipeline.
func (s *Service) Upload(ctx context.Context, in UploadInput, r io.Reader) (Document, error) {
	if in.FileName == "" || in.CompanyID == "" {
		return Document{}, ErrInvalidInput
	}
	if !ValidCategory(in.Category) {
		return Document{}, ErrInvalidInput
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, in.CompanyID, in.FileName, r)
	if err != nil {
		return Document{}, err
	}

	now := time.Now().UTC()
	doc := Document{
		ID:         uuid.NewString(),
		CompanyID:  in.CompanyID,
		Category:   in.Category,
		FileName:   in.FileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: storageKey,
		UploadedBy: in.UploadedBy,
		Type:       in.Type,
		Status:     StatusUploaded,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}

	if s.Processor != nil {
		s.Processor.ProcessAsync(ctx, doc)
	}

	return doc, nil
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, documentID string) (Document, error) {
	if documentID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, documentID)
}

// List returns a company's documents newest-first. A non-empty filter
// category must be valid.
func (s *Service) List(ctx context.Context, companyID string, f ListFilter) ([]Document, error) {
	if companyID == "" {
		return nil, ErrInvalidInput
	}
	if f.Category != "" && !ValidCategory(f.Category) {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByCompany(ctx, companyID, f)
}

// TablesFor returns the tables extracted from a document.
func (s *Service) TablesFor(ctx context.Context, documentID string) ([]tables.ExtractedTable, error) {
	if _, err := s.Repo.GetByID(ctx, documentID); err != nil {
		return nil, err
	}
	return s.Tables.ListByDocument(ctx, documentID)
}

// Delete removes a document together with its tables and chunks. The stored
// blob is deleted best-effort; a failure there does not fail the request.
func (s *Service) Delete(ctx context.Context, documentID string) error {
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.Tables.DeleteByDocument(ctx, documentID); err != nil {
		return err
	}
	if err := s.Chunks.DeleteByDocument(ctx, documentID); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, documentID); err != nil {
		return err
	}

	if doc.StorageKey != "" {
		if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
			telemetry.Warn("blob delete failed", map[string]any{
				"document_id": documentID,
				"storage_key": doc.StorageKey,
				"error":       err.Error(),
			})
		}
	}

	return nil
}
