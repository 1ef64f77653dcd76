package export

import (
	"fmt"
	"strings"
)

// Format names a supported export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// Dataset is tabular export content. Rows are keyed by header; a missing key
// renders as an empty cell.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}

// Renderer encodes a Dataset into a file body.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
}

var renderers = map[Format]Renderer{
	FormatCSV:  NewCSVExporter(),
	FormatPDF:  NewPDFExporter(),
	FormatXLSX: NewXLSXExporter(),
}

// ParseFormat normalises a user supplied format, defaulting to CSV.
func ParseFormat(raw string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(raw)))
	if f == "" {
		return FormatCSV, nil
	}
	if _, ok := renderers[f]; !ok {
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
	return f, nil
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Render encodes data in format f.
func Render(f Format, data Dataset) ([]byte, error) {
	r, ok := renderers[f]
	if !ok {
		return nil, fmt.Errorf("unsupported export format %q", f)
	}
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("%s export requires at least one header", f)
	}
	return r.Render(data)
}

// records flattens the rows in header order.
func (d Dataset) records() [][]string {
	out := make([][]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		record := make([]string, len(d.Headers))
		for i, header := range d.Headers {
			record[i] = row[header]
		}
		out = append(out, record)
	}
	return out
}
