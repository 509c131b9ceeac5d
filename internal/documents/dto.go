package documents

import (
	"time"

	"tender-backend/internal/doctypes"
)

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID string        `json:"documentId"`
	CompanyID  string        `json:"companyId"`
	Category   Category      `json:"category"`
	FileName   string        `json:"fileName"`
	MimeType   string        `json:"mimeType"`
	SizeBytes  int64         `json:"sizeBytes"`
	Status     Status        `json:"status"`
	Type       doctypes.Type `json:"documentType,omitempty"`
	Language   string        `json:"language,omitempty"`
	HasTables  bool          `json:"hasTables"`
	Metadata   Metadata      `json:"metadata"`
	UploadedAt time.Time     `json:"uploadedAt"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID: doc.ID,
		CompanyID:  doc.CompanyID,
		Category:   doc.Category,
		FileName:   doc.FileName,
		MimeType:   doc.MimeType,
		SizeBytes:  doc.SizeBytes,
		Status:     doc.Status,
		Type:       doc.Type,
		Language:   doc.Language,
		HasTables:  doc.HasTables,
		Metadata:   doc.Metadata,
		UploadedAt: doc.CreatedAt,
	}
}
