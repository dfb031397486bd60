package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Row is one record of a table. Values are looked up by column name; a
// dotted name such as "owner.name" descends into nested maps.
type Row map[string]interface{}

// TableOptions controls RenderTable.
type TableOptions struct {
	// Columns to print, in order.
	Columns []string
	// Sort keys. A leading "-" sorts that key in descending order.
	Sort []string
	// NoHeader suppresses the header line.
	NoHeader bool
}

// columnGap separates table columns.
const columnGap = "  "

// Lookup returns the value of a (possibly dotted) field of row.
func Lookup(row Row, name string) (interface{}, bool) {
	if v, ok := row[name]; ok {
		return v, true
	}
	var cur interface{} = map[string]interface{}(row)
	for _, part := range strings.Split(name, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case Row:
		return m, true
	}
	return nil, false
}

// FormatCell renders a value for display: nil as "-", numbers without
// exponent, strings verbatim and anything else as compact JSON.
func FormatCell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// SortRows sorts rows in place by the given keys.
func SortRows(rows []Row, keys []string) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, key := range keys {
			desc := strings.HasPrefix(key, "-")
			name := strings.TrimPrefix(key, "-")
			a, _ := Lookup(rows[i], name)
			b, _ := Lookup(rows[j], name)
			c := compareCells(a, b)
			if c == 0 {
				continue
			}
			if desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compareCells orders missing values first, numbers numerically and
// everything else by its display text.
func compareCells(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	af, aNum := a.(float64)
	bf, bNum := b.(float64)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return strings.Compare(FormatCell(a), FormatCell(b))
}

// RenderTable writes rows as aligned columns. Headers are the upper-cased
// column names.
func RenderTable(w io.Writer, rows []Row, opts TableOptions) error {
	SortRows(rows, opts.Sort)

	cells := make([][]string, 0, len(rows)+1)
	if !opts.NoHeader {
		header := make([]string, len(opts.Columns))
		for i, c := range opts.Columns {
			header[i] = HeaderStyle().Render(strings.ToUpper(c))
		}
		cells = append(cells, header)
	}
	for _, row := range rows {
		line := make([]string, len(opts.Columns))
		for i, c := range opts.Columns {
			v, _ := Lookup(row, c)
			line[i] = FormatCell(v)
		}
		cells = append(cells, line)
	}

	widths := make([]int, len(opts.Columns))
	for _, line := range cells {
		for i, cell := range line {
			if cw := lipgloss.Width(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	for _, line := range cells {
		var b strings.Builder
		for i, cell := range line {
			if i == len(line)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(padRight(cell, widths[i]))
			b.WriteString(columnGap)
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// padRight pads a string to the specified width.
func padRight(s string, width int) string {
	// Account for ANSI codes when calculating visible length
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visibleLen)
}
