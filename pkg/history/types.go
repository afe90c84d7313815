package history

import (
	"context"
	"encoding/json"
	"io"
	"time"
)

// Record is the stored outcome of one validation. The policy graph and the
// user text are kept only as hashes; the full report is kept as JSON.
type Record struct {
	// Identity
	ID        string `json:"id"`         // UUID v4
	RequestID string `json:"request_id"` // From the HTTP layer, empty for the CLI

	CreatedAt time.Time     `json:"created_at"`
	Duration  time.Duration `json:"duration"`

	// Source is where the graph came from: "api", "cli:<path>" or "watch:<path>".
	Source string `json:"source"`

	UserTextHash string `json:"user_text_hash"` // SHA-256 of the natural-language request
	GraphHash    string `json:"graph_hash"`     // SHA-256 of the Turtle graph

	// Outcome
	Valid          bool     `json:"valid"`
	PolicyCount    int      `json:"policy_count"`
	ViolationCount int      `json:"violation_count"`
	WarningCount   int      `json:"warning_count"`
	IssueTypes     []string `json:"issue_types"` // Distinct issue types, in report order

	Report json.RawMessage `json:"report,omitempty"`
}

// Query defines filter parameters for listing records.
type Query struct {
	// Time range
	Since *time.Time `json:"since,omitempty"` // Inclusive
	Until *time.Time `json:"until,omitempty"` // Exclusive

	// Filters
	Source string `json:"source,omitempty"`
	Valid  *bool  `json:"valid,omitempty"`

	// Pagination
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// SortOrder orders by creation time: "asc" or "desc".
	SortOrder string `json:"sort_order,omitempty"`
}

// Storage defines the interface for history storage backends.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Store persists a record. Storing an existing ID fails.
	Store(ctx context.Context, record *Record) error

	// Get returns the record with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns the records matching the query.
	// Returns an empty slice if no records match.
	List(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of records matching the query.
	Count(ctx context.Context, query *Query) (int64, error)

	// DeleteBefore removes records created before cutoff and returns how many
	// were removed. Used for retention enforcement.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Ping reports whether the backend is usable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the backend.
	Close() error
}

// Exporter writes records in an interchange format.
type Exporter interface {
	Export(ctx context.Context, records []*Record, w io.Writer) error
}
