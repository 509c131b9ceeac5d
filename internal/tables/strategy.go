package tables

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"tender-backend/internal/extract"
)

// Source is the input a detection strategy inspects. Grid strategies read the
// per-sheet cell grid; text strategies read the text stream.
type Source struct {
	SheetName string
	Grid      [][]string
	Text      string
}

// Strategy detects table regions in a source.
type Strategy interface {
	Name() string
	Detect(src Source) []Table
}

// Detect runs the applicable strategies for a document and returns all
// detected tables in order. Spreadsheets are scanned sheet by sheet with the
// grid strategy; every other format runs the HTML and plain-text strategies
// over the extracted text. Results are deduplicated by content hash, made
// rectangular, and stripped of zero-body-row tables.
func Detect(data []byte, mimeType, fileName, extractedText string) ([]Table, error) {
	var found []Table

	switch extract.NormalizeMimeType(mimeType, fileName, data) {
	case extract.MimeXLSX, extract.MimeXLS, extract.MimeXLSM:
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
		defer f.Close()

		grid := GridStrategy{}
		for _, sheet := range f.GetSheetList() {
			rows, err := f.GetRows(sheet)
			if err != nil {
				return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
			}
			found = append(found, grid.Detect(Source{SheetName: sheet, Grid: rows})...)
		}
	default:
		raw := extract.RawSection(extractedText)
		for _, s := range []Strategy{HTMLStrategy{}, ASCIIPipeStrategy{}, MarkdownStrategy{}} {
			src := Source{Text: raw}
			if _, isHTML := s.(HTMLStrategy); isHTML {
				src.Text = extractedText
			}
			found = append(found, s.Detect(src)...)
		}
	}

	return normalize(found), nil
}

// normalize enforces the detector's output contract: discard tables without
// body rows, square rows against headers, and drop exact duplicates produced
// by overlapping strategies.
func normalize(found []Table) []Table {
	seen := make(map[string]struct{}, len(found))
	out := make([]Table, 0, len(found))
	for _, t := range found {
		if len(t.Rows) == 0 {
			continue
		}
		t = rectangular(t)
		key := contentHash(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// rectangular pads or truncates every row to the header width.
func rectangular(t Table) Table {
	width := len(t.Headers)
	if width == 0 {
		return t
	}
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		squared := make([]string, width)
		for j := 0; j < width; j++ {
			if j < len(row) {
				squared[j] = strings.TrimSpace(row[j])
			}
		}
		rows[i] = squared
	}
	t.Rows = rows
	return t
}

func contentHash(t Table) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00", t.Title)
	for _, hd := range t.Headers {
		fmt.Fprintf(h, "%s\x1f", hd)
	}
	fmt.Fprint(h, "\x00")
	for _, row := range t.Rows {
		for _, cell := range row {
			fmt.Fprintf(h, "%s\x1f", cell)
		}
		fmt.Fprint(h, "\x1e")
	}
	return hex.EncodeToString(h.Sum(nil))
}
