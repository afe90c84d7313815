package ratelimit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercator-hq/odrlcheck/pkg/config"
	"mercator-hq/odrlcheck/pkg/server/auth"
	"mercator-hq/odrlcheck/pkg/server/handlers"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestTokenBucket(t *testing.T) {
	clock := newClock()
	tb := newTokenBucket(2, 1, clock.now)

	for i := 0; i < 2; i++ {
		if ok, _ := tb.Take(); !ok {
			t.Fatalf("Take() #%d rejected within burst", i+1)
		}
	}
	ok, wait := tb.Take()
	if ok || wait != time.Second {
		t.Fatalf("Take() on empty bucket = %v, %v; want false, 1s", ok, wait)
	}

	clock.advance(500 * time.Millisecond)
	if ok, wait := tb.Take(); ok || wait != 500*time.Millisecond {
		t.Errorf("Take() after 500ms = %v, %v; want false, 500ms", ok, wait)
	}

	clock.advance(500 * time.Millisecond)
	if ok, _ := tb.Take(); !ok {
		t.Error("Take() after refill rejected")
	}

	clock.advance(time.Hour)
	if got := tb.Remaining(); got != 2 {
		t.Errorf("Remaining() = %d, want capacity 2", got)
	}
}

func TestConcurrentLimiter(t *testing.T) {
	cl := NewConcurrentLimiter(2)
	if !cl.Acquire() || !cl.Acquire() {
		t.Fatal("Acquire() rejected below limit")
	}
	if cl.Acquire() {
		t.Fatal("Acquire() allowed above limit")
	}
	cl.Release()
	if cl.Current() != 1 {
		t.Errorf("Current() = %d, want 1", cl.Current())
	}
	if !cl.Acquire() {
		t.Error("Acquire() rejected after Release")
	}
}

func TestLimiterPerClient(t *testing.T) {
	clock := newClock()
	l := newLimiter(&config.RateLimitConfig{RequestsPerSecond: 1, Burst: 1}, clock.now)

	if res := l.Check("a"); !res.Allowed {
		t.Fatal("first request of a rejected")
	}
	res := l.Check("a")
	if res.Allowed || !strings.Contains(res.Reason, "requests per second") {
		t.Fatalf("second request of a = %+v, want rate rejection", res)
	}
	if res := l.Check("b"); !res.Allowed {
		t.Fatal("clients must not share a bucket")
	}
	if l.Clients() != 2 {
		t.Fatalf("Clients() = %d, want 2", l.Clients())
	}

	clock.advance(idleTimeout + time.Second)
	l.Check("c")
	if l.Clients() != 1 {
		t.Errorf("Clients() after idle sweep = %d, want 1", l.Clients())
	}
}

func TestLimiterMaxConcurrent(t *testing.T) {
	clock := newClock()
	l := newLimiter(&config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100, MaxConcurrent: 1}, clock.now)

	first := l.Check("a")
	if !first.Allowed {
		t.Fatal("first request rejected")
	}
	second := l.Check("a")
	if second.Allowed || !strings.Contains(second.Reason, "concurrent") {
		t.Fatalf("second request = %+v, want concurrency rejection", second)
	}
	second.Done()

	first.Done()
	third := l.Check("a")
	if !third.Allowed {
		t.Fatal("request after Done rejected")
	}
	third.Done()
}

func TestMiddleware(t *testing.T) {
	l := New(&config.RateLimitConfig{RequestsPerSecond: 1, Burst: 1})
	h := l.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/validate", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := do("10.0.0.1:5000"); rec.Code != http.StatusOK || rec.Header().Get("X-RateLimit-Limit") != "1" {
		t.Fatalf("first request: status %d, limit header %q", rec.Code, rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := do("10.0.0.1:5001")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request from same IP: status %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "1" {
		t.Errorf("Retry-After = %q, want 1", rec.Header().Get("Retry-After"))
	}
	var resp handlers.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error.Type != handlers.ErrorTypeRateLimited {
		t.Errorf("error type = %s", resp.Error.Type)
	}

	if rec := do("10.0.0.2:5000"); rec.Code != http.StatusOK {
		t.Errorf("other IP: status %d, want 200", rec.Code)
	}
}

func TestMiddlewareKeysByAPIKey(t *testing.T) {
	keys := auth.NewKeySet([]*auth.Key{{Name: "ci", Secret: "sk-ci", Enabled: true}})
	l := New(&config.RateLimitConfig{RequestsPerSecond: 1, Burst: 1})

	var seen string
	h := auth.NewMiddleware(keys, "Authorization", "Bearer", nil).Handle(
		l.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = ClientID(r)
		})),
	)

	for i, remote := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/operands", nil)
		req.RemoteAddr = remote
		req.Header.Set("Authorization", "Bearer sk-ci")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		want := http.StatusOK
		if i == 1 {
			want = http.StatusTooManyRequests
		}
		if rec.Code != want {
			t.Errorf("request %d from %s: status %d, want %d", i+1, remote, rec.Code, want)
		}
	}
	if seen != "key:ci" {
		t.Errorf("ClientID() = %q, want key:ci", seen)
	}
}
