package extract

import (
	"regexp"
	"strings"
)

// Heading shapes recognized by the section heuristic.
var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z][A-Z\s]{5,}$`), // all caps
	regexp.MustCompile(`^\d+\.\s+[A-Z]`),     // decimal-numbered
	regexp.MustCompile(`^[IVX]+\.\s+`),       // roman numerals
}

// Sections returns a best-effort list of section headings: lines shorter than
// 100 characters matching one of the heading shapes.
func Sections(text string) []string {
	var sections []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) == 0 || len(trimmed) >= 100 {
			continue
		}
		for _, pattern := range headingPatterns {
			if pattern.MatchString(trimmed) {
				sections = append(sections, trimmed)
				break
			}
		}
	}
	return sections
}
