package tables

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, sheets []string, rows map[string][][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i, name := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("new sheet: %v", err)
			}
		}
		for r, row := range rows[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestDetectWorkbookScansEverySheet(t *testing.T) {
	data := buildWorkbook(t, []string{"Precios", "Plazos"}, map[string][][]interface{}{
		"Precios": {
			{"Item", "Precio"},
			{"Cemento", "Bs. 1500"},
		},
		"Plazos": {
			{"Fase", "Dias"},
			{"Inicio", "30"},
		},
	})

	got, err := Detect(data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "oferta.xlsx", "")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(got))
	}
	if got[0].Metadata.Source.Sheet != "Precios" || got[1].Metadata.Source.Sheet != "Plazos" {
		t.Fatalf("sheet order: %q, %q", got[0].Metadata.Source.Sheet, got[1].Metadata.Source.Sheet)
	}
	if got[0].Metadata.Currency != "BOB" {
		t.Fatalf("currency: %q", got[0].Metadata.Currency)
	}
}

func TestDetectCorruptWorkbookFails(t *testing.T) {
	if _, err := Detect([]byte("not a zip"), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "x.xlsx", ""); err == nil {
		t.Fatalf("expected error for corrupt workbook")
	}
}

func TestDetectTextCollapsesOverlappingStrategies(t *testing.T) {
	text := `Personal Clave
Nombre | Cargo
| --- | --- |
Ana | Gerente
Luis | Ingeniero`

	got, err := Detect([]byte(text), "text/plain", "personal.txt", text)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ascii and markdown hits on the same table should dedupe, got %d: %+v", len(got), got)
	}
	if got[0].Title != "Personal Clave" {
		t.Fatalf("title: %q", got[0].Title)
	}
	if len(got[0].Rows) != 2 {
		t.Fatalf("rows: %v", got[0].Rows)
	}
}

func TestDetectHTMLRunsOnCompositeText(t *testing.T) {
	composite := "[HTML_CONTENT]\n<table><tr><th>A</th><th>B</th></tr><tr><td>1</td><td>2</td></tr></table>\n[/HTML_CONTENT]\n\n[RAW_TEXT]\nA\tB\n1\t2\n[/RAW_TEXT]"

	got, err := Detect(nil, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "doc.docx", composite)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 table from the html view, got %d", len(got))
	}
	if got[0].Headers[0] != "A" || got[0].Rows[0][1] != "2" {
		t.Fatalf("unexpected table: %+v", got[0])
	}
}

func TestDetectIsDeterministicOnSameBytes(t *testing.T) {
	data := buildWorkbook(t, []string{"Precios"}, map[string][][]interface{}{
		"Precios": {
			{"Presupuesto General"},
			{"Item", "Cantidad", "Precio"},
			{"Cemento", "10", "Bs. 1500"},
			{"Arena", "5", "Bs. 300"},
		},
	})

	first, err := Detect(data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "oferta.xlsx", "")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	second, err := Detect(data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "oferta.xlsx", "")
	if err != nil {
		t.Fatalf("detect again: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same workbook bytes must yield identical tables:\nfirst:  %+v\nsecond: %+v", first, second)
	}

	text := "Personal Clave\nNombre | Cargo\n| --- | --- |\nAna | Gerente\nLuis | Ingeniero"
	firstText, err := Detect([]byte(text), "text/plain", "personal.txt", text)
	if err != nil {
		t.Fatalf("detect text: %v", err)
	}
	secondText, err := Detect([]byte(text), "text/plain", "personal.txt", text)
	if err != nil {
		t.Fatalf("detect text again: %v", err)
	}
	if !reflect.DeepEqual(firstText, secondText) {
		t.Fatalf("same text must yield identical tables:\nfirst:  %+v\nsecond: %+v", firstText, secondText)
	}
}

func TestNormalizeSquaresRaggedRows(t *testing.T) {
	in := []Table{{
		Headers: []string{"a", "b", "c"},
		Rows: [][]string{
			{"1"},
			{"1", "2", "3", "4"},
		},
	}}

	out := normalize(in)
	if len(out) != 1 {
		t.Fatalf("expected 1 table, got %d", len(out))
	}
	for i, row := range out[0].Rows {
		if len(row) != 3 {
			t.Fatalf("row %d not squared: %v", i, row)
		}
	}
	if out[0].Rows[0][1] != "" || out[0].Rows[1][2] != "3" {
		t.Fatalf("unexpected cells: %v", out[0].Rows)
	}
}

func TestNormalizeDropsTablesWithoutBodyRows(t *testing.T) {
	in := []Table{
		{Headers: []string{"a", "b"}},
		{Headers: []string{"c", "d"}, Rows: [][]string{{"1", "2"}}},
	}
	out := normalize(in)
	if len(out) != 1 || out[0].Headers[0] != "c" {
		t.Fatalf("expected only the table with rows: %+v", out)
	}
}

func TestNormalizeDropsExactDuplicates(t *testing.T) {
	tbl := Table{Title: "x", Headers: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}}
	out := normalize([]Table{tbl, tbl})
	if len(out) != 1 {
		t.Fatalf("expected duplicates collapsed, got %d", len(out))
	}
}

func TestContentHashDistinguishesTitles(t *testing.T) {
	a := Table{Title: "x", Headers: []string{"a"}, Rows: [][]string{{"1"}}}
	b := a
	b.Title = "y"
	if contentHash(a) == contentHash(b) {
		t.Fatalf("tables differing only by title must hash differently")
	}
}
