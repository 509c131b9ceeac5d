package extract

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/xuri/excelize/v2"
)

// extractXLSX renders every sheet of a workbook as both an HTML table and a
// tab-separated text dump, concatenated into one tagged composite.
// Spreadsheets always count as having tables.
func extractXLSX(data []byte) (Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("xlsx open: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	var htmlBuf, textBuf strings.Builder

	for _, name := range sheets {
		rows, err := f.GetRows(name)
		if err != nil {
			return Result{}, fmt.Errorf("xlsx sheet %q: %w", name, err)
		}

		fmt.Fprintf(&htmlBuf, "\n\n=== SHEET: %s ===\n%s\n=== END SHEET ===\n", name, sheetHTML(rows))
		fmt.Fprintf(&textBuf, "\n\n=== SHEET: %s ===\n%s\n=== END SHEET ===\n", name, sheetText(rows))
	}

	return Result{
		Text:      Composite(htmlBuf.String(), textBuf.String()),
		Metadata:  Meta{Sheets: sheets, SheetCount: len(sheets)},
		HasTables: true,
	}, nil
}

func sheetHTML(rows [][]string) string {
	var b strings.Builder
	b.WriteString("<table>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString("<td>")
			b.WriteString(html.EscapeString(cell))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return b.String()
}

// sheetText dumps non-blank rows as tab-separated lines.
func sheetText(rows [][]string) string {
	var lines []string
	for _, row := range rows {
		blank := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if blank {
			continue
		}
		lines = append(lines, strings.Join(row, "\t"))
	}
	return strings.Join(lines, "\n")
}
