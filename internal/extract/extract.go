// Package extract pulls plain text (and, for structured formats, an HTML
// representation) out of uploaded document bytes.
package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	MimePDF   = "application/pdf"
	MimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeDOC   = "application/msword"
	MimeXLSX  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeXLS   = "application/vnd.ms-excel"
	MimeXLSM  = "application/vnd.ms-excel.sheet.macroEnabled.12"
	MimePlain = "text/plain"
)

// Meta carries coarse metadata gathered during extraction.
type Meta struct {
	Pages      int      `json:"pages,omitempty"`
	Sheets     []string `json:"sheets,omitempty"`
	SheetCount int      `json:"sheetCount,omitempty"`
	Sections   []string `json:"sections,omitempty"`
	WordCount  int      `json:"wordCount"`
}

// Result is the outcome of a successful extraction.
type Result struct {
	Text      string
	Metadata  Meta
	HasTables bool
}

// Extract produces text and metadata from document bytes. Decode errors are
// fatal for the document; the ingestion pipeline marks it failed.
func Extract(data []byte, mimeType, fileName string) (Result, error) {
	var res Result
	var err error

	switch NormalizeMimeType(mimeType, fileName, data) {
	case MimePDF:
		res, err = extractPDF(data)
	case MimeDOCX, MimeDOC:
		res, err = extractDOCX(data)
	case MimeXLSX, MimeXLS, MimeXLSM:
		res, err = extractXLSX(data)
	case MimePlain:
		text := string(data)
		res = Result{Text: text, HasTables: detectTablesInText(text)}
	default:
		return Result{}, fmt.Errorf("unsupported mime type: %s", mimeType)
	}
	if err != nil {
		return Result{}, err
	}

	res.Metadata.Sections = Sections(res.Text)
	res.Metadata.WordCount = len(strings.Fields(res.Text))
	return res, nil
}

func extractPDF(data []byte) (Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("pdf open: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return Result{}, fmt.Errorf("pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return Result{}, fmt.Errorf("pdf read: %w", err)
	}
	text := buf.String()
	return Result{
		Text:      text,
		Metadata:  Meta{Pages: reader.NumPage()},
		HasTables: detectTablesInText(text),
	}, nil
}

// NormalizeMimeType cleans a declared MIME type and resolves generic zip or
// octet-stream uploads to their OOXML type by sniffing the package contents,
// falling back to the file extension.
func NormalizeMimeType(mimeType, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean != "application/zip" && clean != "application/octet-stream" && clean != "" {
		return clean
	}

	if mapped := mapOOXMLFromZip(data); mapped != "" {
		return mapped
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".docx":
		return MimeDOCX
	case ".xlsx", ".xlsm":
		return MimeXLSX
	case ".txt", ".md":
		return MimePlain
	case ".pdf":
		return MimePDF
	default:
		return clean
	}
}

func mapOOXMLFromZip(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		switch strings.ReplaceAll(f.Name, "\\", "/") {
		case "word/document.xml":
			return MimeDOCX
		case "xl/workbook.xml":
			return MimeXLSX
		}
	}
	return ""
}

// detectTablesInText reports whether three or more consecutive lines carry
// tab or pipe separators.
func detectTablesInText(text string) bool {
	consecutive := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.ContainsAny(line, "\t|") {
			consecutive++
			if consecutive >= 3 {
				return true
			}
		} else {
			consecutive = 0
		}
	}
	return false
}
