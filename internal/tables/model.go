// Package tables detects rectangular table regions in spreadsheets, HTML, and
// plain text, and persists them as extracted-table records.
package tables

import "time"

// Calculation is a labeled percentage figure found inside a table,
// e.g. "Carga Social: 33.39%".
type Calculation struct {
	Description string `json:"description"`
	Value       string `json:"value"`
}

// SourceRef locates a table inside its source document.
type SourceRef struct {
	Page  int    `json:"page,omitempty"`
	Sheet string `json:"sheet,omitempty"`
	Range string `json:"range,omitempty"`
}

// Metadata carries optional facts inferred about a table.
type Metadata struct {
	Currency     string        `json:"currency,omitempty"`
	Calculations []Calculation `json:"calculations,omitempty"`
	Source       *SourceRef    `json:"source,omitempty"`
}

// Table is a detected table region: headers, body rows, and inferred metadata.
// Rows are rectangular: every row has the same length as Headers.
type Table struct {
	Title    string
	Headers  []string
	Rows     [][]string
	Metadata Metadata
}

// ExtractedTable is a persisted table owned by a document.
type ExtractedTable struct {
	ID         string
	DocumentID string
	CompanyID  string
	Title      string
	Headers    []string
	Rows       [][]string
	Metadata   Metadata
	OrderIndex int
	CreatedAt  time.Time
}
