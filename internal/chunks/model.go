package chunks

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// DocumentChunk is a fixed-size window of a document's text together with
// its embedding. An empty embedding means the embedding call failed and the
// chunk was persisted anyway.
type DocumentChunk struct {
	ID         string          `json:"id"`
	DocumentID string          `json:"documentId"`
	CompanyID  string          `json:"companyId"`
	Category   string          `json:"category"`
	Content    string          `json:"content"`
	Section    string          `json:"section,omitempty"`
	ChunkIndex int             `json:"chunkIndex"`
	Embedding  pgvector.Vector `json:"-"`
	CreatedAt  time.Time       `json:"createdAt"`
}
