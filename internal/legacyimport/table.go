package legacyimport

import (
	"fmt"
	"strings"
)

// InvalidHeaderError signals that a strict feed is missing required columns.
// It fails that file only; the orchestrator keeps processing other feeds.
type InvalidHeaderError struct {
	Feed     string
	Required []string
}

func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf("%s: missing required columns, the file must contain %s",
		e.Feed, strings.Join(e.Required, ", "))
}

// Table is the parsed form of one uploaded sheet: an ordered header plus
// header-keyed rows.
type Table struct {
	Headers []string
	Rows    []Row
}

// Row maps a header cell to the row's value under it. Lookups tolerate
// header case differences because the legacy exports are inconsistent.
type Row map[string]string

// Get returns the first non-empty value among the given header spellings,
// probing exact matches before case-insensitive ones.
func (r Row) Get(headers ...string) string {
	for _, h := range headers {
		if v, ok := r[h]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	for _, h := range headers {
		for k, v := range r {
			if strings.EqualFold(k, h) && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

// Has reports whether any of the given headers exists on the row at all,
// regardless of value.
func (t Table) Has(headers ...string) bool {
	for _, h := range headers {
		for _, existing := range t.Headers {
			if strings.EqualFold(existing, h) {
				return true
			}
		}
	}
	return false
}

// ParseTable turns raw delimited text into a Table. Blank lines and the
// literal "..." placeholder left by sample exports are dropped; the first
// surviving line is the header. Rows shorter than the header are discarded,
// extra trailing cells are ignored. Fewer than two usable lines yields an
// empty table, never an error.
func ParseTable(raw string) Table {
	lines := usableLines(raw)
	if len(lines) < 2 {
		return Table{}
	}

	headers := splitLine(lines[0])
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}

	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		cells := splitLine(line)
		if len(cells) < len(headers) {
			continue
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			row[h] = cells[i]
		}
		rows = append(rows, row)
	}
	return Table{Headers: headers, Rows: rows}
}

// ParseTableStrict parses like ParseTable but fails fast when any of the
// required headers is absent. An empty file still degrades to an empty
// table: only a present-but-wrong header row is a hard error.
func ParseTableStrict(raw, feed string, required []string) (Table, error) {
	table := ParseTable(raw)
	if len(table.Headers) == 0 {
		return table, nil
	}
	for _, want := range required {
		if !table.Has(want) {
			return Table{}, &InvalidHeaderError{Feed: feed, Required: required}
		}
	}
	return table, nil
}

func usableLines(raw string) []string {
	split := strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == '\r' })
	lines := make([]string, 0, len(split))
	for _, line := range split {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "..." {
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines
}

// splitLine is a comma splitter with just enough quote handling to keep a
// quoted cell containing commas in one piece. It is deliberately not an
// RFC 4180 parser: escaped quotes are not interpreted.
func splitLine(line string) []string {
	parts := strings.Split(line, ",")
	cells := make([]string, 0, len(parts))
	for i := 0; i < len(parts); i++ {
		cell := parts[i]
		trimmed := strings.TrimSpace(cell)
		if strings.HasPrefix(trimmed, `"`) && !hasClosingQuote(trimmed) {
			for i+1 < len(parts) {
				i++
				cell += "," + parts[i]
				if hasClosingQuote(strings.TrimSpace(parts[i])) {
					break
				}
			}
			trimmed = strings.TrimSpace(cell)
		}
		cells = append(cells, stripQuotes(trimmed))
	}
	return cells
}

func hasClosingQuote(cell string) bool {
	return len(cell) > 1 && strings.HasSuffix(cell, `"`)
}

func stripQuotes(cell string) string {
	cell = strings.TrimPrefix(cell, `"`)
	cell = strings.TrimSuffix(cell, `"`)
	return strings.TrimSpace(cell)
}
