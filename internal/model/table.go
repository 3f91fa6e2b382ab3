package model

import (
	"strconv"
	"strings"
)

// Table is a worksheet snapshot: the header row plus all data rows, every cell
// already a string the way the Sheets API returns it.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Col returns the index of a header, matching on trimmed text.
func (t *Table) Col(name string) (int, bool) {
	if t == nil {
		return 0, false
	}
	for i, h := range t.Headers {
		if strings.TrimSpace(h) == name {
			return i, true
		}
	}
	return 0, false
}

// Value reads the named column out of a data row. Ragged rows (trailing empty
// cells trimmed by the API) read as "".
func (t *Table) Value(row []string, name string) string {
	idx, ok := t.Col(name)
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// SheetRow converts a data-row index into the 1-based worksheet row number
// (row 1 is the header).
func (t *Table) SheetRow(i int) int {
	return i + 2
}

// ParseAmount converts comma-formatted money text ("1,500,000") to a number.
// Empty or malformed cells count as zero.
func ParseAmount(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
