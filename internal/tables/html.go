package tables

import (
	"html"
	"regexp"
	"strings"
)

// HTMLStrategy parses every <table> block in an HTML stream. <th> cells
// become headers; when no <th> exists the first row is promoted. A heading
// element immediately preceding the table becomes its title.
type HTMLStrategy struct{}

func (HTMLStrategy) Name() string { return "html" }

var (
	tablePattern   = regexp.MustCompile(`(?is)<table[^>]*>(.*?)</table>`)
	headerPattern  = regexp.MustCompile(`(?is)<th[^>]*>(.*?)</th>`)
	rowPattern     = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	cellPattern    = regexp.MustCompile(`(?is)<td[^>]*>(.*?)</td>`)
	headingPattern = regexp.MustCompile(`(?is)<h[1-6][^>]*>(.*?)</h[1-6]>`)
	tagPattern     = regexp.MustCompile(`<[^>]*>`)
)

func (HTMLStrategy) Detect(src Source) []Table {
	var tables []Table

	for _, loc := range tablePattern.FindAllStringSubmatchIndex(src.Text, -1) {
		block := src.Text[loc[2]:loc[3]]

		var headers []string
		for _, m := range headerPattern.FindAllStringSubmatch(block, -1) {
			headers = append(headers, stripHTML(m[1]))
		}

		var rows [][]string
		for _, m := range rowPattern.FindAllStringSubmatch(block, -1) {
			rowHTML := m[1]
			if strings.Contains(strings.ToLower(rowHTML), "<th") {
				continue
			}
			var cells []string
			for _, c := range cellPattern.FindAllStringSubmatch(rowHTML, -1) {
				cells = append(cells, stripHTML(c[1]))
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
		}

		if len(headers) == 0 && len(rows) == 0 {
			continue
		}
		if len(headers) == 0 && len(rows) > 0 {
			headers = rows[0]
			rows = rows[1:]
		}

		tables = append(tables, Table{
			Title:   precedingHeading(src.Text[:loc[0]]),
			Headers: headers,
			Rows:    rows,
		})
	}

	return tables
}

// precedingHeading returns the text of the last heading element before the
// table, provided only whitespace and non-heading tags separate the two.
func precedingHeading(before string) string {
	matches := headingPattern.FindAllStringSubmatchIndex(before, -1)
	if len(matches) == 0 {
		return ""
	}
	last := matches[len(matches)-1]
	between := before[last[1]:]
	if strings.TrimSpace(tagPattern.ReplaceAllString(between, "")) != "" {
		return ""
	}
	return stripHTML(before[last[2]:last[3]])
}

func stripHTML(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	return strings.TrimSpace(html.UnescapeString(s))
}
