package history

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Storage.Get for unknown IDs.
var ErrNotFound = errors.New("history record not found")

// StorageError is a failed backend operation.
type StorageError struct {
	Backend   string // "sqlite" or "memory"
	Operation string // "open", "store", "list", ...
	Cause     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s history: %s: %v", e.Backend, e.Operation, e.Cause)
}

func (e *StorageError) Unwrap() error { return e.Cause }

// NewStorageError wraps cause as a failure of operation on backend.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

// QueryError reports a query that failed validation.
type QueryError struct {
	Query *Query
	Cause error
}

func (e *QueryError) Error() string { return "invalid history query: " + e.Cause.Error() }

func (e *QueryError) Unwrap() error { return e.Cause }

// NewQueryError wraps cause as a problem with q.
func NewQueryError(q *Query, cause error) *QueryError {
	return &QueryError{Query: q, Cause: cause}
}

// RecorderError is returned when a report could not be queued. RecordID is
// empty if the record was never built.
type RecorderError struct {
	RecordID string
	Cause    error
}

func (e *RecorderError) Error() string {
	if e.RecordID == "" {
		return "record validation: " + e.Cause.Error()
	}
	return fmt.Sprintf("record validation %s: %v", e.RecordID, e.Cause)
}

func (e *RecorderError) Unwrap() error { return e.Cause }

// NewRecorderError wraps cause for the record with the given ID.
func NewRecorderError(recordID string, cause error) *RecorderError {
	return &RecorderError{RecordID: recordID, Cause: cause}
}

// ExportError is a failed export of RecordCount records.
type ExportError struct {
	Format      string
	RecordCount int
	Cause       error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("%s export of %d record(s): %v", e.Format, e.RecordCount, e.Cause)
}

func (e *ExportError) Unwrap() error { return e.Cause }

// NewExportError wraps cause for an export in format.
func NewExportError(format string, recordCount int, cause error) *ExportError {
	return &ExportError{Format: format, RecordCount: recordCount, Cause: cause}
}
