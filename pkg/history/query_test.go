package history

import (
	"errors"
	"testing"
	"time"
)

func TestQueryValidate(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Hour)

	tests := []struct {
		name    string
		query   Query
		wantErr bool
	}{
		{"empty", Query{}, false},
		{"negative limit", Query{Limit: -1}, true},
		{"limit too large", Query{Limit: MaxLimit + 1}, true},
		{"negative offset", Query{Offset: -1}, true},
		{"bad sort order", Query{SortOrder: "random"}, true},
		{"inverted range", Query{Since: &now, Until: &earlier}, true},
		{"valid range", Query{Since: &earlier, Until: &now, SortOrder: "asc", Limit: 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			var qerr *QueryError
			if err != nil && !errors.As(err, &qerr) {
				t.Errorf("Validate() error type = %T, want *QueryError", err)
			}
		})
	}
}

func TestQueryApplyDefaults(t *testing.T) {
	q := Query{}
	q.ApplyDefaults()
	if q.Limit != DefaultLimit || q.SortOrder != "desc" {
		t.Errorf("ApplyDefaults() = %+v", q)
	}

	q = Query{Limit: 5, SortOrder: "asc"}
	q.ApplyDefaults()
	if q.Limit != 5 || q.SortOrder != "asc" {
		t.Errorf("ApplyDefaults() overwrote explicit values: %+v", q)
	}
}

func TestQueryMatches(t *testing.T) {
	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	r := &Record{CreatedAt: created, Source: "api", Valid: true}
	invalid := false

	tests := []struct {
		name  string
		query *Query
		want  bool
	}{
		{"no filters", &Query{}, true},
		{"range includes start", TimeRange(created, created.Add(time.Hour)), true},
		{"range excludes end", TimeRange(created.Add(-time.Hour), created), false},
		{"source mismatch", &Query{Source: "cli:x.ttl"}, false},
		{"validity mismatch", &Query{Valid: &invalid}, false},
	}

	for _, tt := range tests {
		if got := tt.query.Matches(r); got != tt.want {
			t.Errorf("%s: Matches() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("boom")
	for _, err := range []error{
		NewStorageError("sqlite", "store", cause),
		NewQueryError(&Query{}, cause),
		NewRecorderError("id", cause),
		NewExportError("csv", 3, cause),
	} {
		if !errors.Is(err, cause) {
			t.Errorf("%T does not unwrap to its cause", err)
		}
	}
}
