package tables

import (
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// GridStrategy scans a rectangular grid of spreadsheet cells for table
// regions. A single non-blank cell opens a pending title; a row with two or
// more non-blank cells opens a region spanning its non-blank columns; rows
// without data inside that span close the region.
type GridStrategy struct{}

func (GridStrategy) Name() string { return "grid" }

var (
	currencyBOB = regexp.MustCompile(`(?i)bs\.?|bolivianos`)
	calcPattern = regexp.MustCompile(`(.*?):\s*(\d+\.?\d*)%`)
)

type gridRegion struct {
	title            string
	headers          []string
	rows             [][]string
	startRow, endRow int
	startCol, endCol int
}

func (GridStrategy) Detect(src Source) []Table {
	var regions []gridRegion
	var current *gridRegion
	title := ""

	for i, row := range src.Grid {
		nonEmpty := countNonBlank(row)

		if current == nil {
			switch {
			case nonEmpty == 1:
				title = firstNonBlank(row)
				continue
			case nonEmpty >= 2:
				start, end := nonBlankSpan(row)
				current = &gridRegion{
					title:    title,
					headers:  trimmedSlice(row[start : end+1]),
					startRow: i,
					endRow:   i,
					startCol: start,
					endCol:   end,
				}
				title = ""
				continue
			default:
				continue
			}
		}

		span := sliceSpan(row, current.startCol, current.endCol)
		if countNonBlank(span) > 0 {
			current.rows = append(current.rows, trimmedSlice(span))
			current.endRow = i
		} else {
			if len(current.rows) > 0 {
				regions = append(regions, *current)
			}
			current = nil
			title = ""
		}
	}

	if current != nil && len(current.rows) > 0 {
		regions = append(regions, *current)
	}

	tables := make([]Table, 0, len(regions))
	for _, region := range regions {
		t := Table{
			Title:   region.title,
			Headers: region.headers,
			Rows:    region.rows,
			Metadata: Metadata{
				Source: &SourceRef{
					Sheet: src.SheetName,
					Range: cellRange(region.startRow, region.startCol, region.endRow, region.endCol),
				},
			},
		}
		if t.Title == "" {
			t.Title = src.SheetName
		}

		allText := joinCells(region.rows)
		if currencyBOB.MatchString(allText) {
			t.Metadata.Currency = "BOB"
		} else if strings.Contains(allText, "$") {
			t.Metadata.Currency = "USD"
		}

		for _, row := range region.rows {
			if m := calcPattern.FindStringSubmatch(strings.Join(row, " ")); m != nil {
				t.Metadata.Calculations = append(t.Metadata.Calculations, Calculation{
					Description: strings.TrimSpace(m[1]),
					Value:       m[2] + "%",
				})
			}
		}

		tables = append(tables, t)
	}
	return tables
}

func countNonBlank(row []string) int {
	n := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			n++
		}
	}
	return n
}

func firstNonBlank(row []string) string {
	for _, cell := range row {
		if trimmed := strings.TrimSpace(cell); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// nonBlankSpan returns the indexes of the first and last non-blank cells.
func nonBlankSpan(row []string) (int, int) {
	start, end := -1, -1
	for i, cell := range row {
		if strings.TrimSpace(cell) != "" {
			if start < 0 {
				start = i
			}
			end = i
		}
	}
	return start, end
}

// sliceSpan extracts row[start..end], padding with blanks when the row is
// shorter than the span.
func sliceSpan(row []string, start, end int) []string {
	out := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		if i < len(row) {
			out = append(out, row[i])
		} else {
			out = append(out, "")
		}
	}
	return out
}

func trimmedSlice(cells []string) []string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}

func joinCells(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, " "))
		b.WriteString(" ")
	}
	return b.String()
}

// cellRange renders a region as an A1-style range.
func cellRange(startRow, startCol, endRow, endCol int) string {
	from, err := excelize.CoordinatesToCellName(startCol+1, startRow+1)
	if err != nil {
		return ""
	}
	to, err := excelize.CoordinatesToCellName(endCol+1, endRow+1)
	if err != nil {
		return ""
	}
	return from + ":" + to
}
