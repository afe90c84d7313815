package storage

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"mercator-hq/odrlcheck/pkg/config"
	"mercator-hq/odrlcheck/pkg/history"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newRecord(id string, offset time.Duration, valid bool) *history.Record {
	r := &history.Record{
		ID:           id,
		RequestID:    "req-" + id,
		CreatedAt:    base.Add(offset),
		Duration:     3 * time.Millisecond,
		Source:       "api",
		UserTextHash: "u" + id,
		GraphHash:    "g" + id,
		Valid:        valid,
		PolicyCount:  1,
		IssueTypes:   []string{},
		Report:       json.RawMessage(`{"is_valid":true}`),
	}
	if !valid {
		r.ViolationCount = 1
		r.IssueTypes = []string{"Missing Required Property"}
		r.Report = json.RawMessage(`{"is_valid":false}`)
	}
	return r
}

// runConformance exercises the history.Storage contract.
func runConformance(t *testing.T, s history.Storage) {
	t.Helper()
	ctx := context.Background()

	records := []*history.Record{
		newRecord("a", 0, true),
		newRecord("b", time.Minute, false),
		newRecord("c", 2*time.Minute, true),
	}
	records[2].Source = "cli:policy.ttl"
	for _, r := range records {
		if err := s.Store(ctx, r); err != nil {
			t.Fatalf("Store(%s) error = %v", r.ID, err)
		}
	}

	t.Run("duplicate", func(t *testing.T) {
		err := s.Store(ctx, newRecord("a", 0, true))
		var serr *history.StorageError
		if !errors.As(err, &serr) {
			t.Errorf("Store(duplicate) error = %v, want *StorageError", err)
		}
	})

	t.Run("get", func(t *testing.T) {
		got, err := s.Get(ctx, "b")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if diff := cmp.Diff(records[1], got, cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })); diff != "" {
			t.Errorf("Get() mismatch (-want +got):\n%s", diff)
		}

		if _, err := s.Get(ctx, "missing"); !errors.Is(err, history.ErrNotFound) {
			t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("list", func(t *testing.T) {
		valid := true
		tests := []struct {
			name  string
			query history.Query
			want  []string
		}{
			{"default newest first", history.Query{}, []string{"c", "b", "a"}},
			{"ascending", history.Query{SortOrder: "asc"}, []string{"a", "b", "c"}},
			{"limit and offset", history.Query{Limit: 1, Offset: 1}, []string{"b"}},
			{"offset past end", history.Query{Offset: 10}, []string{}},
			{"valid only", history.Query{Valid: &valid}, []string{"c", "a"}},
			{"by source", history.Query{Source: "cli:policy.ttl"}, []string{"c"}},
			{"time range", *history.TimeRange(base.Add(time.Minute), base.Add(2 * time.Minute)), []string{"b"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := s.List(ctx, &tt.query)
				if err != nil {
					t.Fatalf("List() error = %v", err)
				}
				ids := []string{}
				for _, r := range got {
					ids = append(ids, r.ID)
				}
				if diff := cmp.Diff(tt.want, ids); diff != "" {
					t.Errorf("List() ids mismatch (-want +got):\n%s", diff)
				}
			})
		}

		var qerr *history.QueryError
		if _, err := s.List(ctx, &history.Query{SortOrder: "sideways"}); !errors.As(err, &qerr) {
			t.Errorf("List(bad sort) error = %v, want *QueryError", err)
		}
	})

	t.Run("count", func(t *testing.T) {
		invalid := false
		n, err := s.Count(ctx, &history.Query{Valid: &invalid})
		if err != nil || n != 1 {
			t.Errorf("Count(invalid) = %d, %v; want 1", n, err)
		}
	})

	t.Run("delete before", func(t *testing.T) {
		n, err := s.DeleteBefore(ctx, base.Add(time.Minute))
		if err != nil || n != 1 {
			t.Fatalf("DeleteBefore() = %d, %v; want 1", n, err)
		}
		total, _ := s.Count(ctx, &history.Query{})
		if total != 2 {
			t.Errorf("Count() after delete = %d, want 2", total)
		}
		if _, err := s.Get(ctx, "a"); !errors.Is(err, history.ErrNotFound) {
			t.Errorf("deleted record still present: %v", err)
		}
	})

	if err := s.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestMemoryStorage(t *testing.T) {
	s := NewMemoryStorage(0)
	runConformance(t, s)

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Ping(context.Background()); err == nil {
		t.Error("Ping() after Close() should fail")
	}
}

func TestMemoryStorageEviction(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage(2)
	for i, id := range []string{"a", "b", "c"} {
		if err := s.Store(ctx, newRecord(id, time.Duration(i)*time.Second, true)); err != nil {
			t.Fatal(err)
		}
	}
	if s.Size() != 2 {
		t.Errorf("Size() = %d, want 2", s.Size())
	}
	if _, err := s.Get(ctx, "a"); !errors.Is(err, history.ErrNotFound) {
		t.Error("oldest record should have been evicted")
	}
}

func TestMemoryStorageReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage(0)
	r := newRecord("a", 0, false)
	if err := s.Store(ctx, r); err != nil {
		t.Fatal(err)
	}
	r.IssueTypes[0] = "mutated"

	got, _ := s.Get(ctx, "a")
	if got.IssueTypes[0] != "Missing Required Property" {
		t.Errorf("stored record was mutated through the caller's slice: %v", got.IssueTypes)
	}
}

func TestSQLiteStorage(t *testing.T) {
	s, err := NewSQLiteStorage(&SQLiteConfig{
		Path:        filepath.Join(t.TempDir(), "history.db"),
		Driver:      DriverModernc,
		WALMode:     true,
		BusyTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	defer s.Close()

	runConformance(t, s)
}

func TestSQLiteStorageMattnDriver(t *testing.T) {
	s, err := NewSQLiteStorage(&SQLiteConfig{
		Path:        filepath.Join(t.TempDir(), "history.db"),
		Driver:      DriverMattn,
		BusyTimeout: time.Second,
	})
	if err != nil {
		if strings.Contains(err.Error(), "CGO_ENABLED=0") || strings.Contains(err.Error(), "cgo") {
			t.Skipf("mattn/go-sqlite3 unavailable: %v", err)
		}
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	defer s.Close()

	runConformance(t, s)
}

func TestSQLiteStorageReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := NewSQLiteStorage(&SQLiteConfig{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Store(ctx, newRecord("persisted", 0, false)); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = NewSQLiteStorage(&SQLiteConfig{Path: path})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	got, err := s.Get(ctx, "persisted")
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if got.Valid || got.ViolationCount != 1 || string(got.Report) != `{"is_valid":false}` {
		t.Errorf("reopened record = %+v", got)
	}
}

func TestSQLiteStorageUnknownDriver(t *testing.T) {
	_, err := NewSQLiteStorage(&SQLiteConfig{Path: filepath.Join(t.TempDir(), "x.db"), Driver: "postgres"})
	var serr *history.StorageError
	if !errors.As(err, &serr) || serr.Operation != "open" {
		t.Errorf("error = %v, want open StorageError", err)
	}
}

func TestDSN(t *testing.T) {
	tests := []struct {
		driver string
		wal    bool
		want   string
	}{
		{DriverModernc, true, "h.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"},
		{DriverModernc, false, "h.db?_pragma=busy_timeout(5000)"},
		{DriverMattn, true, "h.db?_busy_timeout=5000&_journal_mode=WAL"},
	}
	for _, tt := range tests {
		got := dsn(&SQLiteConfig{Path: "h.db", Driver: tt.driver, WALMode: tt.wal, BusyTimeout: 5 * time.Second})
		if got != tt.want {
			t.Errorf("dsn(%s, wal=%v) = %q, want %q", tt.driver, tt.wal, got, tt.want)
		}
	}
}

func TestOpen(t *testing.T) {
	cfg := config.NewConfig().History

	cfg.Backend = "memory"
	s, err := Open(&cfg)
	if err != nil {
		t.Fatalf("Open(memory) error = %v", err)
	}
	if _, ok := s.(*MemoryStorage); !ok {
		t.Errorf("Open(memory) = %T", s)
	}
	s.Close()

	cfg.Backend = "sqlite"
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "open.db")
	s, err = Open(&cfg)
	if err != nil {
		t.Fatalf("Open(sqlite) error = %v", err)
	}
	if _, ok := s.(*SQLiteStorage); !ok {
		t.Errorf("Open(sqlite) = %T", s)
	}
	s.Close()

	cfg.Backend = "etcd"
	if _, err := Open(&cfg); err == nil {
		t.Error("Open(etcd) should fail")
	}
}
