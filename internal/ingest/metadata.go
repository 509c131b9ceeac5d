package ingest

import (
	"regexp"
	"strings"

	"tender-backend/internal/tables"
)

var (
	pricingHeaderPattern = regexp.MustCompile(`(?i)price|precio|cost|costo|monto|total|tarifa|rate`)
	emailPattern         = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern         = regexp.MustCompile(`\+?\d[\d\s().-]{6,}\d`)
	addressPattern       = regexp.MustCompile(`(?i)\baddress\b|dirección|avenida|\bav\.|\bcalle\b`)
)

// hasPricingInfo reports whether any table header looks like a price column.
func hasPricingInfo(tbls []tables.Table) bool {
	for _, t := range tbls {
		for _, h := range t.Headers {
			if pricingHeaderPattern.MatchString(h) {
				return true
			}
		}
	}
	return false
}

// hasContactInfo reports whether the text carries an email, phone number, or
// address marker.
func hasContactInfo(text string) bool {
	return emailPattern.MatchString(text) ||
		phonePattern.MatchString(text) ||
		addressPattern.MatchString(text)
}

// sectionFor picks the first detected section heading present in the chunk.
// Best-effort only; chunks that span no heading get an empty label.
func sectionFor(chunk string, sections []string) string {
	for _, s := range sections {
		if s != "" && strings.Contains(chunk, s) {
			return s
		}
	}
	return ""
}
