package retention

import (
	"context"
	"fmt"
	"testing"
	"time"

	"mercator-hq/odrlcheck/pkg/history"
	"mercator-hq/odrlcheck/pkg/history/storage"
)

var now = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, ages ...time.Duration) *storage.MemoryStorage {
	t.Helper()
	s := storage.NewMemoryStorage(0)
	for i, age := range ages {
		r := &history.Record{ID: fmt.Sprintf("r%d", i), CreatedAt: now.Add(-age), Valid: true}
		if err := s.Store(context.Background(), r); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func newPruner(s history.Storage, cfg *Config) *Pruner {
	p := NewPruner(s, cfg)
	p.now = func() time.Time { return now }
	return p
}

func TestPrune(t *testing.T) {
	day := 24 * time.Hour
	tests := []struct {
		name        string
		config      Config
		ages        []time.Duration
		wantDeleted int64
		wantLeft    int
	}{
		{
			name:        "by age",
			config:      Config{RetentionDays: 7},
			ages:        []time.Duration{day, 3 * day, 8 * day, 30 * day},
			wantDeleted: 2,
			wantLeft:    2,
		},
		{
			name:        "by count",
			config:      Config{MaxRecords: 2},
			ages:        []time.Duration{day, 2 * day, 3 * day, 4 * day},
			wantDeleted: 2,
			wantLeft:    2,
		},
		{
			name:        "age then count",
			config:      Config{RetentionDays: 10, MaxRecords: 1},
			ages:        []time.Duration{day, 2 * day, 20 * day},
			wantDeleted: 2,
			wantLeft:    1,
		},
		{
			name:        "disabled",
			config:      Config{},
			ages:        []time.Duration{400 * day},
			wantDeleted: 0,
			wantLeft:    1,
		},
		{
			name:        "under limit",
			config:      Config{MaxRecords: 5},
			ages:        []time.Duration{day, 2 * day},
			wantDeleted: 0,
			wantLeft:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seed(t, tt.ages...)
			cfg := tt.config
			deleted, err := newPruner(s, &cfg).Prune(context.Background())
			if err != nil {
				t.Fatalf("Prune() error = %v", err)
			}
			if deleted != tt.wantDeleted {
				t.Errorf("Prune() deleted %d, want %d", deleted, tt.wantDeleted)
			}
			if s.Size() != tt.wantLeft {
				t.Errorf("Size() = %d, want %d", s.Size(), tt.wantLeft)
			}
		})
	}
}

func TestPruneByCountKeepsNewest(t *testing.T) {
	s := seed(t, time.Hour, 2*time.Hour, 3*time.Hour)
	if _, err := newPruner(s, &Config{MaxRecords: 1}).Prune(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(context.Background(), "r0"); err != nil {
		t.Errorf("newest record was pruned: %v", err)
	}
}

func TestSchedulerLifecycle(t *testing.T) {
	p := newPruner(storage.NewMemoryStorage(0), &Config{RetentionDays: 1, PruneSchedule: "0 3 * * *"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !p.scheduler.IsRunning() {
		t.Fatal("scheduler should be running")
	}
	next := p.NextPruning()
	if next == nil || next.Hour() != 3 || next.Minute() != 0 {
		t.Errorf("NextPruning() = %v, want 03:00", next)
	}
	if err := p.Start(ctx); err == nil {
		t.Error("second Start() should fail")
	}

	p.Stop()
	if p.scheduler.IsRunning() {
		t.Error("scheduler should be stopped")
	}
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	p := newPruner(storage.NewMemoryStorage(0), &Config{PruneSchedule: "@every 1h"})

	ctx, cancel := context.WithCancel(context.Background())
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for p.scheduler.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if p.scheduler.IsRunning() {
		t.Error("scheduler still running after context cancel")
	}
}

func TestSchedulerConfig(t *testing.T) {
	p := newPruner(storage.NewMemoryStorage(0), &Config{})
	if err := p.Start(context.Background()); err != nil {
		t.Errorf("Start() with empty schedule error = %v", err)
	}
	if p.scheduler.IsRunning() || p.NextPruning() != nil {
		t.Error("empty schedule should not start the scheduler")
	}

	p = newPruner(storage.NewMemoryStorage(0), &Config{PruneSchedule: "not a schedule"})
	if err := p.Start(context.Background()); err == nil {
		t.Error("Start() with invalid schedule should fail")
	}
}
