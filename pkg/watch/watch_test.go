package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestHasExtension(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"policy.ttl", true},
		{"dir/POLICY.TTL", true},
		{"policy.ttl.bak", false},
		{"policy.jsonld", false},
		{"ttl", false},
	}
	for _, tt := range tests {
		if got := HasExtension(tt.path, []string{".ttl"}); got != tt.want {
			t.Errorf("HasExtension(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestShouldProcess(t *testing.T) {
	w, err := New(&Config{Path: t.TempDir(), Extensions: []string{".ttl"}, SkipHidden: true}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "a.ttl", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "a.ttl", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "a.ttl", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "a.ttl", Op: fsnotify.Write | fsnotify.Chmod}, true},
		{fsnotify.Event{Name: ".a.ttl", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "a.txt", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		if got := w.ShouldProcess(tt.event); got != tt.want {
			t.Errorf("ShouldProcess(%v) = %v, want %v", tt.event, got, tt.want)
		}
	}
}

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var calls, last atomic.Int32

	for i := 1; i <= 5; i++ {
		n := int32(i)
		d.Trigger(func() {
			calls.Add(1)
			last.Store(n)
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)
	if calls.Load() != 1 || last.Load() != 5 {
		t.Errorf("calls = %d, last = %d; want 1 call of the last callback", calls.Load(), last.Load())
	}

	d.Stop()
	d.Trigger(func() { calls.Add(1) })
	time.Sleep(60 * time.Millisecond)
	if calls.Load() != 1 {
		t.Error("Trigger() after Stop() should be ignored")
	}
	d.Stop()
}

func TestWatchReportsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New(&Config{Path: dir, DebounceInterval: 50 * time.Millisecond, Extensions: []string{".ttl"}, SkipHidden: true}, nil)
	if err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var got []string
	changed := make(chan struct{}, 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Watch(ctx, func(paths []string) {
			mu.Lock()
			got = append(got, paths...)
			mu.Unlock()
			changed <- struct{}{}
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	policy := filepath.Join(dir, "policy.ttl")
	if err := os.WriteFile(policy, []byte("@prefix ex: <http://example.com/> ."), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	mu.Lock()
	for _, p := range got {
		if p != policy {
			t.Errorf("unexpected path reported: %s", p)
		}
	}
	if len(got) == 0 {
		t.Error("policy.ttl was not reported")
	}
	mu.Unlock()

	if err := w.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := <-errCh; err != nil {
		t.Errorf("Watch() error = %v", err)
	}
}

func TestWatchMissingPath(t *testing.T) {
	w, err := New(&Config{Path: filepath.Join(t.TempDir(), "missing")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := w.Watch(context.Background(), func([]string) {}); err == nil {
		t.Error("Watch() on a missing path should fail")
	}
}
