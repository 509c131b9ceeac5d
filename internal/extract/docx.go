package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
)

// extractDOCX converts a Word document to both an HTML rendering (preserving
// table structure) and a raw-text rendering. When the HTML contains a table,
// the two views are returned as a tagged composite; otherwise raw text only.
func extractDOCX(data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("docx open: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return Result{}, errors.New("document.xml not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return Result{}, fmt.Errorf("docx open document.xml: %w", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return Result{}, fmt.Errorf("docx read document.xml: %w", err)
	}

	htmlText, rawText, err := walkDocxXML(raw)
	if err != nil {
		return Result{}, err
	}

	if strings.Contains(htmlText, "<table>") {
		return Result{Text: Composite(htmlText, rawText), HasTables: true}, nil
	}
	return Result{Text: rawText, HasTables: detectTablesInText(rawText)}, nil
}

// walkDocxXML renders document.xml into parallel HTML and plain-text views.
// Word nests paragraphs inside table cells; those contribute text to the
// enclosing <td> rather than opening <p> elements.
func walkDocxXML(raw []byte) (string, string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var htmlBuf, rawBuf strings.Builder
	tableDepth := 0
	paraOpen := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", "", fmt.Errorf("docx parse: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
				htmlBuf.WriteString("<table>")
			case "tr":
				if tableDepth > 0 {
					htmlBuf.WriteString("<tr>")
				}
			case "tc":
				if tableDepth > 0 {
					htmlBuf.WriteString("<td>")
				}
			case "p":
				if tableDepth == 0 {
					htmlBuf.WriteString("<p>")
					paraOpen = true
				}
			}
		case xml.CharData:
			text := string(t)
			htmlBuf.WriteString(html.EscapeString(text))
			rawBuf.WriteString(text)
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				htmlBuf.WriteString("</table>")
				if tableDepth > 0 {
					tableDepth--
				}
				rawBuf.WriteString("\n")
			case "tr":
				if tableDepth > 0 {
					htmlBuf.WriteString("</tr>")
					rawBuf.WriteString("\n")
				}
			case "tc":
				if tableDepth > 0 {
					htmlBuf.WriteString("</td>")
					rawBuf.WriteString("\t")
				}
			case "p":
				if paraOpen {
					htmlBuf.WriteString("</p>")
					paraOpen = false
				}
				if tableDepth == 0 && rawBuf.Len() > 0 {
					rawBuf.WriteString("\n")
				}
			case "br":
				rawBuf.WriteString("\n")
			}
		}
	}

	return htmlBuf.String(), strings.TrimSpace(rawBuf.String()), nil
}
