package console

import (
	"strings"
	"unicode/utf8"
)

// Table helps create formatted tables for CLI output
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
}

// NewTable creates a new table with headers
func NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	return &Table{
		headers: headers,
		rows:    [][]string{},
		widths:  widths,
	}
}

// AddRow adds a row to the table. Rows with the wrong column count are
// dropped silently.
func (t *Table) AddRow(cells ...string) {
	if len(cells) != len(t.headers) {
		return
	}
	t.rows = append(t.rows, cells)
	for i, cell := range cells {
		if w := utf8.RuneCountInString(cell); w > t.widths[i] {
			t.widths[i] = w
		}
	}
}

// Len reports the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// String returns the formatted table
func (t *Table) String() string {
	var sb strings.Builder

	t.writeBorder(&sb, "┌", "┬", "┐")

	sb.WriteString("│")
	for i, h := range t.headers {
		t.writeCell(&sb, i, h)
	}
	sb.WriteString("\n")

	t.writeBorder(&sb, "├", "┼", "┤")

	for _, row := range t.rows {
		sb.WriteString("│")
		for i, cell := range row {
			t.writeCell(&sb, i, cell)
		}
		sb.WriteString("\n")
	}

	t.writeBorder(&sb, "└", "┴", "┘")

	return sb.String()
}

// writeCell pads by rune count so multibyte cells keep columns aligned.
func (t *Table) writeCell(sb *strings.Builder, col int, text string) {
	pad := t.widths[col] - utf8.RuneCountInString(text)
	if pad < 0 {
		pad = 0
	}
	sb.WriteString(" ")
	sb.WriteString(text)
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString(" │")
}

func (t *Table) writeBorder(sb *strings.Builder, left, middle, right string) {
	sb.WriteString(left)
	for i, w := range t.widths {
		sb.WriteString(strings.Repeat("─", w+2))
		if i < len(t.widths)-1 {
			sb.WriteString(middle)
		}
	}
	sb.WriteString(right)
	sb.WriteString("\n")
}
