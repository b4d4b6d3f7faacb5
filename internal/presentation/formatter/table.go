package formatter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/penwyp/go-activity-monitor/internal/util"
	"golang.org/x/term"
)

const (
	minFlexibleWidth = 12
	fallbackWidth    = 100
)

// TableFormatter renders a Table with box borders, sizing columns to the
// content and truncating the flexible column to the terminal width.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter writes to stdout.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{writer: os.Stdout}
}

// NewTableFormatterTo writes to the given writer (used by tests and the
// live watch view).
func NewTableFormatterTo(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// Format renders the table.
func (f *TableFormatter) Format(t Table) error {
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(f.writer, "No data.")
		return err
	}

	widths := f.columnWidths(t)
	rows := f.fitRows(t, widths)

	f.printBorder(widths)
	f.printRow(t.Headers, widths)
	f.printBorder(widths)
	for _, row := range rows {
		f.printRow(row, widths)
	}
	f.printBorder(widths)
	return nil
}

// columnWidths sizes each column to its widest cell, then shrinks the
// flexible column until the table fits the terminal.
func (f *TableFormatter) columnWidths(t Table) []int {
	widths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		widths[i] = util.DisplayWidth(header)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && util.DisplayWidth(cell) > widths[i] {
				widths[i] = util.DisplayWidth(cell)
			}
		}
	}

	if t.Flexible < 0 || t.Flexible >= len(widths) {
		return widths
	}

	// Each column costs its width plus 3 for " | ", plus the outer borders.
	total := 1
	for _, w := range widths {
		total += w + 3
	}
	if over := total - terminalWidth(); over > 0 {
		flexible := widths[t.Flexible] - over
		if flexible < minFlexibleWidth {
			flexible = minFlexibleWidth
		}
		widths[t.Flexible] = flexible
	}
	return widths
}

func (f *TableFormatter) fitRows(t Table, widths []int) [][]string {
	if t.Flexible < 0 || t.Flexible >= len(widths) {
		return t.Rows
	}
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		fitted := make([]string, len(row))
		copy(fitted, row)
		fitted[t.Flexible] = util.TruncateDisplay(row[t.Flexible], widths[t.Flexible])
		rows[i] = fitted
	}
	return rows
}

func (f *TableFormatter) printBorder(widths []int) {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w+2)
	}
	fmt.Fprintln(f.writer, "+"+strings.Join(parts, "+")+"+")
}

func (f *TableFormatter) printRow(cells []string, widths []int) {
	parts := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = " " + util.PadDisplay(cell, widths[i]) + " "
	}
	fmt.Fprintln(f.writer, "|"+strings.Join(parts, "|")+"|")
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 40 {
		return fallbackWidth
	}
	return width
}
