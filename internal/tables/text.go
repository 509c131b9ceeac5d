package tables

import (
	"regexp"
	"strings"
)

var (
	asciiSeparator    = regexp.MustCompile(`^[+\-|=\s]+$`)
	markdownSeparator = regexp.MustCompile(`^\|[\s\-:]+\|`)
	markdownHeading   = regexp.MustCompile(`^#+\s*`)
)

// ASCIIPipeStrategy detects pipe-delimited tables in plain text. A line
// splitting into two or more non-blank cells opens a header (or extends an
// open table); a single non-blank line just before a table is its title.
// Markdown header separators are skipped so that tables detected by both
// text strategies collapse to one.
type ASCIIPipeStrategy struct{}

func (ASCIIPipeStrategy) Name() string { return "ascii" }

func (ASCIIPipeStrategy) Detect(src Source) []Table {
	var tables []Table
	var current *Table
	title := ""

	flush := func() {
		if current != nil && len(current.Rows) > 0 {
			current.Title = title
			tables = append(tables, *current)
			current = nil
			title = ""
		}
	}

	for _, rawLine := range strings.Split(src.Text, "\n") {
		line := strings.TrimSpace(rawLine)

		if asciiSeparator.MatchString(line) && len(line) > 10 {
			continue
		}
		if markdownSeparator.MatchString(line) {
			continue
		}

		cells := splitPipeCells(line)
		switch {
		case len(cells) >= 2:
			if current == nil {
				current = &Table{Headers: cells}
			} else {
				current.Rows = append(current.Rows, cells)
			}
		case current != nil && len(current.Rows) > 0:
			flush()
		case current == nil && line != "" && len(cells) == 1:
			title = line
		}
	}
	flush()

	return tables
}

// MarkdownStrategy detects markdown tables: a pipe-bearing line followed by
// the |---|---| header separator, then pipe-bearing body rows. The line just
// above the header (leading # stripped) becomes the title.
type MarkdownStrategy struct{}

func (MarkdownStrategy) Name() string { return "markdown" }

func (MarkdownStrategy) Detect(src Source) []Table {
	var tables []Table
	lines := strings.Split(src.Text, "\n")

	for i := 0; i < len(lines)-1; i++ {
		line := strings.TrimSpace(lines[i])
		next := strings.TrimSpace(lines[i+1])

		if !strings.Contains(line, "|") || !markdownSeparator.MatchString(next) {
			continue
		}

		headers := splitPipeCells(line)
		var rows [][]string
		for j := i + 2; j < len(lines); j++ {
			rowLine := strings.TrimSpace(lines[j])
			if !strings.Contains(rowLine, "|") {
				break
			}
			if cells := splitPipeCells(rowLine); len(cells) > 0 {
				rows = append(rows, cells)
			}
		}

		if len(rows) > 0 {
			title := ""
			if i > 0 {
				prev := strings.TrimSpace(lines[i-1])
				if prev != "" && !strings.Contains(prev, "|") {
					title = markdownHeading.ReplaceAllString(prev, "")
				}
			}
			tables = append(tables, Table{Title: title, Headers: headers, Rows: rows})
		}

		i += len(rows) + 1
	}

	return tables
}

func splitPipeCells(line string) []string {
	var cells []string
	for _, part := range strings.Split(line, "|") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cells = append(cells, trimmed)
		}
	}
	return cells
}
