package formatter

import (
	"encoding/csv"
	"io"
	"os"
)

// CSVFormatter writes the table as CSV, untruncated.
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter writes to stdout.
func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{writer: os.Stdout}
}

// NewCSVFormatterTo writes to the given writer.
func NewCSVFormatterTo(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// Format writes headers and rows.
func (f *CSVFormatter) Format(t Table) error {
	w := csv.NewWriter(f.writer)
	defer w.Flush()

	if err := w.Write(t.Headers); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
