package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"mercator-hq/odrlcheck/pkg/history"
)

// CSVExporter exports records as CSV. The stored report is omitted; issue
// types are joined with "|".
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

// Header is the CSV header row.
var Header = []string{
	"id", "request_id", "created_at", "duration_ms", "source",
	"user_text_hash", "graph_hash",
	"valid", "policy_count", "violation_count", "warning_count", "issue_types",
}

// Export writes records to w.
func (e *CSVExporter) Export(ctx context.Context, records []*history.Record, w io.Writer) error {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(Header); err != nil {
			return history.NewExportError("csv", len(records), err)
		}
	}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writer.Write(recordToRow(record)); err != nil {
			return history.NewExportError("csv", len(records), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return history.NewExportError("csv", len(records), err)
	}
	return nil
}

func recordToRow(r *history.Record) []string {
	return []string{
		r.ID,
		r.RequestID,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
		strconv.FormatInt(r.Duration.Milliseconds(), 10),
		r.Source,
		r.UserTextHash,
		r.GraphHash,
		strconv.FormatBool(r.Valid),
		strconv.Itoa(r.PolicyCount),
		strconv.Itoa(r.ViolationCount),
		strconv.Itoa(r.WarningCount),
		strings.Join(r.IssueTypes, "|"),
	}
}
