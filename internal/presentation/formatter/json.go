package formatter

import (
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
)

// JSONFormatter marshals the typed report data rather than the rendered
// table, so JSON output keeps field names and native types.
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter writes to stdout.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{writer: os.Stdout}
}

// Format writes v as indented JSON.
func (f *JSONFormatter) Format(v interface{}) error {
	data, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(f.writer, string(data))
	return err
}
