package documents

import (
	"time"

	"tender-backend/internal/doctypes"
)

// Category is the coarse bucket the uploader assigns to a document.
type Category string

const (
	CategoryReferenceProposal Category = "reference_proposal"
	CategoryCompanyData       Category = "company_data"
	CategoryTenderDocument    Category = "tender_document"
)

// ValidCategory reports whether c is a known upload category.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryReferenceProposal, CategoryCompanyData, CategoryTenderDocument:
		return true
	}
	return false
}

// Status is the ingestion state of a document.
type Status string

const (
	StatusUploaded  Status = "uploaded"
	StatusProcessed Status = "processed"
	StatusError     Status = "error"
)

// Metadata is the structured metadata blob recorded on a document. Fields
// are filled in as the pipeline learns them; Error is set only on failed runs.
type Metadata struct {
	Pages          int      `json:"pages,omitempty"`
	Sheets         []string `json:"sheets,omitempty"`
	SheetCount     int      `json:"sheetCount,omitempty"`
	Sections       []string `json:"sections,omitempty"`
	WordCount      int      `json:"wordCount,omitempty"`
	TablesCount    int      `json:"tablesCount,omitempty"`
	HasPricingInfo bool     `json:"hasPricingInfo,omitempty"`
	HasContactInfo bool     `json:"hasContactInfo,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// Document represents an uploaded file owned by a company. It is created in
// status uploaded and transitions exactly once, to processed or to error.
type Document struct {
	ID            string
	CompanyID     string
	Category      Category
	FileName      string
	MimeType      string
	SizeBytes     int64
	StorageKey    string
	UploadedBy    string
	ExtractedText string
	Metadata      Metadata
	HasTables     bool
	Language      string
	Type          doctypes.Type
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProcessingUpdate carries the single mutation the ingestion pipeline applies
// to a document record once processing completes or fails.
type ProcessingUpdate struct {
	ExtractedText string
	Metadata      Metadata
	HasTables     bool
	Language      string
	Type          doctypes.Type
	Status        Status
}
