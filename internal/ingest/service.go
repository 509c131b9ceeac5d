package ingest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"golang.org/x/sync/errgroup"

	"tender-backend/internal/ai"
	"tender-backend/internal/chunks"
	"tender-backend/internal/doctypes"
	"tender-backend/internal/documents"
	"tender-backend/internal/extract"
	"tender-backend/internal/shared/metrics"
	"tender-backend/internal/shared/server/middleware"
	"tender-backend/internal/shared/storage/object"
	"tender-backend/internal/shared/telemetry"
	"tender-backend/internal/tables"
)

const (
	defaultLanguage        = "en"
	defaultLanguageTimeout = 10 * time.Second
	defaultEmbedWorkers    = 4

	// Texts at or below this length skip language detection entirely.
	languageMinChars = 100
	// Language samples are capped; the first kilobyte is plenty.
	languageSampleChars = 1000
)

// Service runs the ingestion pipeline for uploaded documents.
type Service struct {
	Docs     documents.DocumentsRepo
	Tables   tables.Repo
	Chunks   chunks.Repo
	Store    object.ObjectStore
	Language ai.LanguageDetector
	Embedder ai.Embedder

	ChunkWords      int
	EmbedWorkers    int
	LanguageTimeout time.Duration
}

// ProcessAsync runs the pipeline in the background. The request context is
// not reused; only its request ID survives into the background context.
func (s *Service) ProcessAsync(ctx context.Context, doc documents.Document) {
	go s.Process(backgroundWithRequestID(ctx), doc)
}

// Process takes a document from status uploaded to processed or error.
// Only format/decode failures and the final record update are fatal; table
// extraction, language detection, and embedding all degrade gracefully.
func (s *Service) Process(ctx context.Context, doc documents.Document) {
	defer func() {
		if r := recover(); r != nil {
			s.failDocument(ctx, doc, fmt.Errorf("panic: %v", r), nil)
		}
	}()

	startedAt := time.Now().UTC()
	metrics.IncIngestStarted()
	requestID := middleware.RequestIDFromStdContext(ctx)
	telemetry.Info("document.ingest", map[string]any{
		"request_id":  requestID,
		"company_id":  doc.CompanyID,
		"document_id": doc.ID,
		"status":      documents.StatusUploaded,
		"file_name":   doc.FileName,
		"mime_type":   doc.MimeType,
	})

	data, err := s.loadBlob(ctx, doc.StorageKey)
	if err != nil {
		s.failDocument(ctx, doc, fmt.Errorf("load blob %s: %w", doc.StorageKey, err), &startedAt)
		return
	}

	res, err := extract.Extract(data, doc.MimeType, doc.FileName)
	if err != nil {
		s.failDocument(ctx, doc, fmt.Errorf("extract %s mime %s: %w", doc.FileName, doc.MimeType, err), &startedAt)
		return
	}

	docType := doc.Type
	if docType == "" || docType == doctypes.TypeOther {
		docType = doctypes.Classify(doc.FileName, res.Text)
	}

	found, err := tables.Detect(data, doc.MimeType, doc.FileName, res.Text)
	if err != nil {
		telemetry.Warn("table extraction failed", map[string]any{
			"request_id":  requestID,
			"document_id": doc.ID,
			"error":       sanitizeError(err),
		})
		found = nil
	}

	language := s.detectLanguage(ctx, doc, extract.RawSection(res.Text))

	persisted := s.persistTables(ctx, doc, found)
	s.persistChunks(ctx, doc, extract.RawSection(res.Text), res.Metadata.Sections)

	meta := documents.Metadata{
		Pages:          res.Metadata.Pages,
		Sheets:         res.Metadata.Sheets,
		SheetCount:     res.Metadata.SheetCount,
		Sections:       res.Metadata.Sections,
		WordCount:      res.Metadata.WordCount,
		TablesCount:    persisted,
		HasPricingInfo: hasPricingInfo(found),
		HasContactInfo: hasContactInfo(res.Text),
	}

	upd := documents.ProcessingUpdate{
		ExtractedText: res.Text,
		Metadata:      meta,
		HasTables:     persisted > 0,
		Language:      language,
		Type:          docType,
		Status:        documents.StatusProcessed,
	}
	if err := s.Docs.ApplyProcessing(ctx, doc.ID, upd); err != nil {
		// The document stays unprocessed. Table and chunk writes are
		// idempotent, so a rerun of the whole pipeline is safe.
		metrics.IncIngestFailed()
		telemetry.Error("document update failed", map[string]any{
			"request_id":  requestID,
			"document_id": doc.ID,
			"error":       sanitizeError(err),
		})
		return
	}

	completedAt := time.Now().UTC()
	metrics.IncIngestProcessed()
	metrics.ObserveIngestDurationMs(durationMs(&startedAt, &completedAt))
	telemetry.Info("document.ingest", map[string]any{
		"request_id":        requestID,
		"company_id":        doc.CompanyID,
		"document_id":       doc.ID,
		"status":            documents.StatusProcessed,
		"status_transition": "uploaded->processed",
		"document_type":     docType,
		"language":          language,
		"tables":            persisted,
		"duration_ms":       durationMs(&startedAt, &completedAt),
	})
}

// detectLanguage asks the detector for the text's language, defaulting to
// English for short texts and on any failure.
func (s *Service) detectLanguage(ctx context.Context, doc documents.Document, text string) string {
	if len(text) <= languageMinChars || s.Language == nil {
		return defaultLanguage
	}

	sample := text
	if len(sample) > languageSampleChars {
		sample = sample[:languageSampleChars]
	}

	timeout := s.LanguageTimeout
	if timeout <= 0 {
		timeout = defaultLanguageTimeout
	}
	detectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	requestID := middleware.RequestIDFromStdContext(ctx)
	detector := newRetryingDetector(s.Language, doc.ID, requestID)
	code, err := detector.DetectLanguage(detectCtx, sample)
	if err != nil {
		telemetry.Warn("language detection failed", map[string]any{
			"request_id":  requestID,
			"document_id": doc.ID,
			"error":       sanitizeError(err),
		})
		return defaultLanguage
	}
	return code
}

// persistTables writes the detected tables and returns how many were stored.
// A persistence failure degrades to zero tables rather than failing the run.
func (s *Service) persistTables(ctx context.Context, doc documents.Document, found []tables.Table) int {
	if len(found) == 0 {
		return 0
	}

	now := time.Now().UTC()
	records := make([]tables.ExtractedTable, 0, len(found))
	for i, t := range found {
		records = append(records, tables.ExtractedTable{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			CompanyID:  doc.CompanyID,
			Title:      t.Title,
			Headers:    t.Headers,
			Rows:       t.Rows,
			Metadata:   t.Metadata,
			OrderIndex: i,
			CreatedAt:  now,
		})
	}

	if err := s.Tables.ReplaceForDocument(ctx, doc.ID, doc.CompanyID, records); err != nil {
		telemetry.Warn("table persist failed", map[string]any{
			"request_id":  middleware.RequestIDFromStdContext(ctx),
			"document_id": doc.ID,
			"error":       sanitizeError(err),
		})
		return 0
	}

	metrics.AddTablesExtracted(len(records))
	return len(records)
}

// persistChunks splits the text into fixed word windows, embeds each chunk
// with bounded concurrency, and stores the result. Embedding failures leave
// the chunk with an empty vector.
func (s *Service) persistChunks(ctx context.Context, doc documents.Document, text string, sections []string) {
	windows := chunks.Split(text, s.ChunkWords)
	if len(windows) == 0 {
		return
	}

	requestID := middleware.RequestIDFromStdContext(ctx)
	now := time.Now().UTC()
	records := make([]chunks.DocumentChunk, len(windows))
	for i, w := range windows {
		records[i] = chunks.DocumentChunk{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			CompanyID:  doc.CompanyID,
			Category:   string(doc.Category),
			Content:    w,
			Section:    sectionFor(w, sections),
			ChunkIndex: i,
			CreatedAt:  now,
		}
	}

	if s.Embedder != nil {
		embedder := newRetryingEmbedder(s.Embedder, doc.ID, requestID)
		workers := s.EmbedWorkers
		if workers <= 0 {
			workers = defaultEmbedWorkers
		}

		var g errgroup.Group
		g.SetLimit(workers)
		for i := range records {
			i := i
			g.Go(func() error {
				vec, err := embedder.EmbedText(ctx, records[i].Content)
				if err != nil {
					metrics.IncEmbedFailed()
					telemetry.Warn("chunk embedding failed", map[string]any{
						"request_id":  requestID,
						"document_id": doc.ID,
						"chunk_index": records[i].ChunkIndex,
						"error":       sanitizeError(err),
					})
					return nil
				}
				records[i].Embedding = pgvector.NewVector(vec)
				return nil
			})
		}
		_ = g.Wait()
	}

	if err := s.Chunks.ReplaceForDocument(ctx, doc.ID, doc.CompanyID, records); err != nil {
		telemetry.Warn("chunk persist failed", map[string]any{
			"request_id":  requestID,
			"document_id": doc.ID,
			"error":       sanitizeError(err),
		})
	}
}

// failDocument transitions the document to status error with the failure
// message recorded in metadata.
func (s *Service) failDocument(ctx context.Context, doc documents.Document, err error, startedAt *time.Time) {
	msg := sanitizeError(err)
	upd := documents.ProcessingUpdate{
		Metadata: documents.Metadata{Error: msg},
		Status:   documents.StatusError,
	}
	if updateErr := s.Docs.ApplyProcessing(context.Background(), doc.ID, upd); updateErr != nil {
		telemetry.Error("document error-status update failed", map[string]any{
			"document_id": doc.ID,
			"error":       sanitizeError(updateErr),
			"cause":       msg,
		})
	}
	metrics.IncIngestFailed()
	completedAt := time.Now().UTC()
	telemetry.Error("document.ingest", map[string]any{
		"request_id":        middleware.RequestIDFromStdContext(ctx),
		"company_id":        doc.CompanyID,
		"document_id":       doc.ID,
		"status":            documents.StatusError,
		"status_transition": "uploaded->error",
		"error":             msg,
		"duration_ms":       durationMs(startedAt, &completedAt),
	})
}

func (s *Service) loadBlob(ctx context.Context, storageKey string) ([]byte, error) {
	body, err := s.Store.Open(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

func backgroundWithRequestID(ctx context.Context) context.Context {
	requestID := middleware.RequestIDFromStdContext(ctx)
	if requestID == "" {
		return context.Background()
	}
	return middleware.ContextWithRequestID(context.Background(), requestID)
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}

var _ documents.Processor = (*Service)(nil)
