package extract

import "strings"

// Tags delimiting the dual HTML/text representation produced for word
// processor and spreadsheet documents.
const (
	htmlOpen  = "[HTML_CONTENT]"
	htmlClose = "[/HTML_CONTENT]"
	rawOpen   = "[RAW_TEXT]"
	rawClose  = "[/RAW_TEXT]"
)

// Composite wraps an HTML rendering and a plain-text rendering into a single
// tagged string so downstream consumers can recover either view.
func Composite(html, raw string) string {
	var b strings.Builder
	b.WriteString(htmlOpen)
	b.WriteString("\n")
	b.WriteString(html)
	b.WriteString("\n")
	b.WriteString(htmlClose)
	b.WriteString("\n\n")
	b.WriteString(rawOpen)
	b.WriteString("\n")
	b.WriteString(raw)
	b.WriteString("\n")
	b.WriteString(rawClose)
	return b.String()
}

// HTMLSection returns the HTML part of a composite, if present.
func HTMLSection(text string) (string, bool) {
	return between(text, htmlOpen, htmlClose)
}

// RawSection returns the plain-text part of a composite, or the input
// unchanged when it carries no composite tags.
func RawSection(text string) string {
	if raw, ok := between(text, rawOpen, rawClose); ok {
		return raw
	}
	return text
}

func between(text, open, close string) (string, bool) {
	start := strings.Index(text, open)
	if start < 0 {
		return "", false
	}
	start += len(open)
	end := strings.Index(text[start:], close)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(text[start : start+end]), true
}
