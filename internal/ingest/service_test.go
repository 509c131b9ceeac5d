package ingest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"tender-backend/internal/chunks"
	"tender-backend/internal/doctypes"
	"tender-backend/internal/documents"
	"tender-backend/internal/tables"
)

type blobStore struct {
	blobs map[string][]byte
}

func (s *blobStore) Save(ctx context.Context, companyID, fileName string, r io.Reader) (string, int64, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	key := companyID + "/" + fileName
	s.blobs[key] = data
	return key, int64(len(data)), "application/octet-stream", nil
}

func (s *blobStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	data, ok := s.blobs[storageKey]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *blobStore) Delete(ctx context.Context, storageKey string) error {
	delete(s.blobs, storageKey)
	return nil
}

type stubDetector struct {
	code    string
	err     error
	samples []string
}

func (d *stubDetector) DetectLanguage(ctx context.Context, sample string) (string, error) {
	d.samples = append(d.samples, sample)
	return d.code, d.err
}

type stubEmbedder struct {
	vec []float32
	err error
}

func (e *stubEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return e.vec, e.err
}

type pipelineEnv struct {
	svc    *Service
	docs   *documents.MemoryRepo
	tables *tables.MemoryRepo
	chunks *chunks.MemoryRepo
	store  *blobStore
}

func newPipelineEnv() *pipelineEnv {
	env := &pipelineEnv{
		docs:   documents.NewMemoryRepo(),
		tables: tables.NewMemoryRepo(),
		chunks: chunks.NewMemoryRepo(),
		store:  &blobStore{blobs: make(map[string][]byte)},
	}
	env.svc = &Service{
		Docs:     env.docs,
		Tables:   env.tables,
		Chunks:   env.chunks,
		Store:    env.store,
		Language: &stubDetector{code: "es"},
		Embedder: &stubEmbedder{vec: []float32{0.1, 0.2, 0.3}},
	}
	return env
}

func (env *pipelineEnv) seed(t *testing.T, doc documents.Document, blob []byte) documents.Document {
	t.Helper()
	if doc.ID == "" {
		doc.ID = "doc-1"
	}
	if doc.CompanyID == "" {
		doc.CompanyID = "co-1"
	}
	if doc.Category == "" {
		doc.Category = documents.CategoryTenderDocument
	}
	doc.Status = documents.StatusUploaded
	doc.StorageKey = doc.CompanyID + "/" + doc.FileName
	env.store.blobs[doc.StorageKey] = blob
	if err := env.docs.Create(context.Background(), doc); err != nil {
		t.Fatalf("seed document: %v", err)
	}
	return doc
}

func twoSheetWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "Precios"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	precios := [][]interface{}{
		{"Item", "Cantidad", "Precio"},
		{"Cemento portland", 100, "Bs. 1500"},
		{"Arena fina lavada", 20, "Bs. 300"},
	}
	for i, row := range precios {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Precios", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if _, err := f.NewSheet("Personal"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	personal := [][]interface{}{
		{"Nombre", "Cargo", "Contacto"},
		{"Ana Flores", "Gerente de proyecto", "ana.flores@empresa.com"},
		{"Luis Rojas", "Ingeniero residente", "luis.rojas@empresa.com"},
	}
	for i, row := range personal {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Personal", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestProcessTwoSheetWorkbook(t *testing.T) {
	env := newPipelineEnv()
	ctx := context.Background()
	doc := env.seed(t, documents.Document{
		FileName: "oferta.xlsx",
		MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Category: documents.CategoryCompanyData,
	}, twoSheetWorkbook(t))

	env.svc.Process(ctx, doc)

	got, err := env.docs.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != documents.StatusProcessed {
		t.Fatalf("status: %q, metadata: %+v", got.Status, got.Metadata)
	}
	if !got.HasTables {
		t.Fatalf("expected hasTables")
	}
	if got.Metadata.SheetCount != 2 || got.Metadata.TablesCount != 2 {
		t.Fatalf("metadata: %+v", got.Metadata)
	}
	if !got.Metadata.HasPricingInfo {
		t.Fatalf("precios header should flag pricing info")
	}
	if !got.Metadata.HasContactInfo {
		t.Fatalf("emails in cells should flag contact info")
	}
	if got.Language != "es" {
		t.Fatalf("language: %q", got.Language)
	}
	if got.ExtractedText == "" || got.Metadata.WordCount == 0 {
		t.Fatalf("extracted text not recorded")
	}

	stored, err := env.tables.ListByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("list tables: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 extracted tables, got %d", len(stored))
	}
	if stored[0].OrderIndex != 0 || stored[1].OrderIndex != 1 {
		t.Fatalf("order indices: %d, %d", stored[0].OrderIndex, stored[1].OrderIndex)
	}
	if stored[0].Metadata.Source.Sheet != "Precios" || stored[1].Metadata.Source.Sheet != "Personal" {
		t.Fatalf("sheet refs: %q, %q", stored[0].Metadata.Source.Sheet, stored[1].Metadata.Source.Sheet)
	}
	if stored[0].Metadata.Currency != "BOB" {
		t.Fatalf("currency: %q", stored[0].Metadata.Currency)
	}

	chunkRecords, err := env.chunks.ListByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("list chunks: %v", err)
	}
	if len(chunkRecords) == 0 {
		t.Fatalf("expected chunks persisted")
	}
	if chunkRecords[0].Category != string(documents.CategoryCompanyData) {
		t.Fatalf("chunk category: %q", chunkRecords[0].Category)
	}
	if len(chunkRecords[0].Embedding.Slice()) != 3 {
		t.Fatalf("embedding missing: %v", chunkRecords[0].Embedding.Slice())
	}
}

func TestProcessMimeMismatchFailsDocument(t *testing.T) {
	env := newPipelineEnv()
	ctx := context.Background()
	doc := env.seed(t, documents.Document{
		FileName: "fake.xlsx",
		MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}, []byte("esto es texto plano, no un libro de excel"))

	env.svc.Process(ctx, doc)

	got, err := env.docs.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != documents.StatusError {
		t.Fatalf("status: %q", got.Status)
	}
	if got.Metadata.Error == "" {
		t.Fatalf("expected error message in metadata")
	}
	if got.HasTables {
		t.Fatalf("failed document must not claim tables")
	}
	if stored, _ := env.tables.ListByDocument(ctx, doc.ID); len(stored) != 0 {
		t.Fatalf("no tables expected, got %d", len(stored))
	}
	if stored, _ := env.chunks.ListByDocument(ctx, doc.ID); len(stored) != 0 {
		t.Fatalf("no chunks expected, got %d", len(stored))
	}
}

func TestProcessMissingBlobFailsDocument(t *testing.T) {
	env := newPipelineEnv()
	ctx := context.Background()
	doc := documents.Document{
		ID:         "doc-1",
		CompanyID:  "co-1",
		Category:   documents.CategoryCompanyData,
		FileName:   "perdido.pdf",
		MimeType:   "application/pdf",
		StorageKey: "co-1/perdido.pdf",
		Status:     documents.StatusUploaded,
	}
	if err := env.docs.Create(ctx, doc); err != nil {
		t.Fatalf("seed: %v", err)
	}

	env.svc.Process(ctx, doc)

	got, _ := env.docs.GetByID(ctx, doc.ID)
	if got.Status != documents.StatusError {
		t.Fatalf("status: %q", got.Status)
	}
	if !strings.Contains(got.Metadata.Error, "load blob") {
		t.Fatalf("error: %q", got.Metadata.Error)
	}
}

func TestProcessClassifiesByFilename(t *testing.T) {
	env := newPipelineEnv()
	ctx := context.Background()
	doc := env.seed(t, documents.Document{
		FileName: "formulario_a1_identificacion.txt",
		MimeType: "text/plain",
	}, []byte("datos del oferente"))

	env.svc.Process(ctx, doc)

	got, _ := env.docs.GetByID(ctx, doc.ID)
	if got.Status != documents.StatusProcessed {
		t.Fatalf("status: %q", got.Status)
	}
	if got.Type != doctypes.TypeFormularioA1 {
		t.Fatalf("type: %q", got.Type)
	}
}

func TestProcessShortTextDefaultsLanguage(t *testing.T) {
	env := newPipelineEnv()
	detector := &stubDetector{code: "es"}
	env.svc.Language = detector
	ctx := context.Background()
	doc := env.seed(t, documents.Document{
		FileName: "nota.txt",
		MimeType: "text/plain",
	}, []byte("texto corto"))

	env.svc.Process(ctx, doc)

	got, _ := env.docs.GetByID(ctx, doc.ID)
	if got.Language != "en" {
		t.Fatalf("language: %q", got.Language)
	}
	if len(detector.samples) != 0 {
		t.Fatalf("detector should not run on short texts")
	}
}

func TestProcessLanguageSampleIsBounded(t *testing.T) {
	env := newPipelineEnv()
	detector := &stubDetector{code: "es"}
	env.svc.Language = detector
	ctx := context.Background()
	doc := env.seed(t, documents.Document{
		FileName: "largo.txt",
		MimeType: "text/plain",
	}, []byte(strings.Repeat("palabra ", 500)))

	env.svc.Process(ctx, doc)

	if len(detector.samples) == 0 {
		t.Fatalf("detector should run on long texts")
	}
	if len(detector.samples[0]) > 1000 {
		t.Fatalf("sample too long: %d chars", len(detector.samples[0]))
	}
	got, _ := env.docs.GetByID(ctx, doc.ID)
	if got.Language != "es" {
		t.Fatalf("language: %q", got.Language)
	}
}

func TestProcessLanguageFailureDefaults(t *testing.T) {
	env := newPipelineEnv()
	env.svc.Language = &stubDetector{err: errors.New("openai http status 400: bad request")}
	ctx := context.Background()
	doc := env.seed(t, documents.Document{
		FileName: "doc.txt",
		MimeType: "text/plain",
	}, []byte(strings.Repeat("contenido suficiente para detectar idioma ", 10)))

	env.svc.Process(ctx, doc)

	got, _ := env.docs.GetByID(ctx, doc.ID)
	if got.Status != documents.StatusProcessed {
		t.Fatalf("language failure must not fail the run: %q", got.Status)
	}
	if got.Language != "en" {
		t.Fatalf("language: %q", got.Language)
	}
}

func TestProcessEmbedFailureLeavesEmptyVectors(t *testing.T) {
	env := newPipelineEnv()
	env.svc.Embedder = &stubEmbedder{err: errors.New("openai http status 400: too long")}
	ctx := context.Background()
	doc := env.seed(t, documents.Document{
		FileName: "doc.txt",
		MimeType: "text/plain",
	}, []byte(strings.Repeat("palabra ", 200)))

	env.svc.Process(ctx, doc)

	got, _ := env.docs.GetByID(ctx, doc.ID)
	if got.Status != documents.StatusProcessed {
		t.Fatalf("embedding failure must not fail the run: %q", got.Status)
	}
	chunkRecords, err := env.chunks.ListByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("list chunks: %v", err)
	}
	if len(chunkRecords) == 0 {
		t.Fatalf("chunks must persist without embeddings")
	}
	for _, c := range chunkRecords {
		if len(c.Embedding.Slice()) != 0 {
			t.Fatalf("expected empty vector, got %v", c.Embedding.Slice())
		}
	}
}

type failingTablesRepo struct {
	tables.Repo
}

func (failingTablesRepo) ReplaceForDocument(ctx context.Context, documentID, companyID string, records []tables.ExtractedTable) error {
	return errors.New("insert failed")
}

func TestProcessTablePersistFailureDegrades(t *testing.T) {
	env := newPipelineEnv()
	env.svc.Tables = failingTablesRepo{Repo: env.tables}
	ctx := context.Background()
	doc := env.seed(t, documents.Document{
		FileName: "oferta.xlsx",
		MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}, twoSheetWorkbook(t))

	env.svc.Process(ctx, doc)

	got, _ := env.docs.GetByID(ctx, doc.ID)
	if got.Status != documents.StatusProcessed {
		t.Fatalf("table persist failure must not fail the run: %q", got.Status)
	}
	if got.HasTables || got.Metadata.TablesCount != 0 {
		t.Fatalf("hasTables must track persisted tables: %+v", got.Metadata)
	}
}

func TestProcessPanicIsRecovered(t *testing.T) {
	env := newPipelineEnv()
	env.svc.Tables = nil // persistTables will panic on a workbook
	ctx := context.Background()
	doc := env.seed(t, documents.Document{
		FileName: "oferta.xlsx",
		MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}, twoSheetWorkbook(t))

	env.svc.Process(ctx, doc)

	got, _ := env.docs.GetByID(ctx, doc.ID)
	if got.Status != documents.StatusError {
		t.Fatalf("status: %q", got.Status)
	}
	if !strings.Contains(got.Metadata.Error, "panic") {
		t.Fatalf("error: %q", got.Metadata.Error)
	}
}
