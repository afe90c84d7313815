package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
	// FormatMarkdown is the Markdown feedback document.
	FormatMarkdown OutputFormat = "markdown"
	// FormatCSV is CSV output.
	FormatCSV OutputFormat = "csv"
)

// ParseFormat checks s against the formats a command supports.
func ParseFormat(s string, allowed ...OutputFormat) (OutputFormat, error) {
	names := make([]string, len(allowed))
	for i, f := range allowed {
		if string(f) == s {
			return f, nil
		}
		names[i] = string(f)
	}
	return "", fmt.Errorf("unsupported format %q (expected one of: %s)", s, strings.Join(names, ", "))
}

// Texter is implemented by results with a human-readable rendering.
type Texter interface {
	Text() string
}

// Markdowner is implemented by results with a Markdown rendering.
type Markdowner interface {
	Markdown() string
}

// Tabular is implemented by results that can be written as CSV.
type Tabular interface {
	Header() []string
	Rows() [][]string
}

// Formatter formats command output.
type Formatter interface {
	FormatTo(w io.Writer, data any) error
}

// TextFormatter formats output as plain text.
type TextFormatter struct{}

// FormatTo writes data to writer in text format.
func (f *TextFormatter) FormatTo(w io.Writer, data any) error {
	var s string
	switch v := data.(type) {
	case Texter:
		s = v.Text()
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprintf("%v", data)
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(w, s)
	return err
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatTo writes data to writer in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// MarkdownFormatter formats output as Markdown.
type MarkdownFormatter struct{}

// FormatTo writes data to writer in Markdown format.
func (f *MarkdownFormatter) FormatTo(w io.Writer, data any) error {
	m, ok := data.(Markdowner)
	if !ok {
		return fmt.Errorf("markdown output not supported for %T", data)
	}
	_, err := io.WriteString(w, m.Markdown())
	return err
}

// CSVFormatter formats output as CSV.
type CSVFormatter struct {
	OmitHeader bool
}

// FormatTo writes data to writer in CSV format.
func (f *CSVFormatter) FormatTo(w io.Writer, data any) error {
	t, ok := data.(Tabular)
	if !ok {
		return fmt.Errorf("csv output not supported for %T", data)
	}

	csvWriter := csv.NewWriter(w)
	if !f.OmitHeader {
		if err := csvWriter.Write(t.Header()); err != nil {
			return err
		}
	}
	if err := csvWriter.WriteAll(t.Rows()); err != nil {
		return err
	}
	return csvWriter.Error()
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	case FormatCSV:
		return &CSVFormatter{}
	default:
		return &TextFormatter{}
	}
}
