package history

import (
	"fmt"
	"time"
)

const (
	// DefaultLimit is the number of records returned when a query sets none.
	DefaultLimit = 100

	// MaxLimit is the maximum number of records a single query may return.
	MaxLimit = 10000
)

// Validate validates a query and returns a *QueryError if any parameter is invalid.
func (q *Query) Validate() error {
	if q.Limit < 0 {
		return NewQueryError(q, fmt.Errorf("limit must be >= 0, got %d", q.Limit))
	}
	if q.Limit > MaxLimit {
		return NewQueryError(q, fmt.Errorf("limit must be <= %d, got %d", MaxLimit, q.Limit))
	}
	if q.Offset < 0 {
		return NewQueryError(q, fmt.Errorf("offset must be >= 0, got %d", q.Offset))
	}
	if q.SortOrder != "" && q.SortOrder != "asc" && q.SortOrder != "desc" {
		return NewQueryError(q, fmt.Errorf("invalid sort order: %s (must be 'asc' or 'desc')", q.SortOrder))
	}
	if q.Since != nil && q.Until != nil && q.Since.After(*q.Until) {
		return NewQueryError(q, fmt.Errorf("since must be before until"))
	}
	return nil
}

// ApplyDefaults fills in the default limit and sort order.
func (q *Query) ApplyDefaults() {
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
}

// Matches reports whether r passes the query filters. Pagination is ignored.
func (q *Query) Matches(r *Record) bool {
	if q.Since != nil && r.CreatedAt.Before(*q.Since) {
		return false
	}
	if q.Until != nil && !r.CreatedAt.Before(*q.Until) {
		return false
	}
	if q.Source != "" && r.Source != q.Source {
		return false
	}
	if q.Valid != nil && r.Valid != *q.Valid {
		return false
	}
	return true
}

// TimeRange is a convenience constructor for a query over [since, until).
func TimeRange(since, until time.Time) *Query {
	return &Query{Since: &since, Until: &until}
}
