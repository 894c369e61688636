package export

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"
)

// TableExporter renders datasets as aligned plain text for terminals.
type TableExporter struct{}

// NewTableExporter constructs a text table exporter.
func NewTableExporter() *TableExporter {
	return &TableExporter{}
}

// Render writes the title, an aligned table and the notes.
func (e *TableExporter) Render(data Dataset) ([]byte, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	if data.Title != "" {
		fmt.Fprintln(buf, data.Title)
		fmt.Fprintln(buf)
	}

	tw := tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(data.Headers, "\t"))
	for _, row := range data.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("flush table: %w", err)
	}

	if len(data.Notes) > 0 {
		fmt.Fprintln(buf)
		for _, note := range data.Notes {
			fmt.Fprintln(buf, note)
		}
	}
	return buf.Bytes(), nil
}
