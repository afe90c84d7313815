package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"mercator-hq/odrlcheck/pkg/config"
)

const (
	// idleTimeout is how long a client stays tracked without requests.
	idleTimeout = 10 * time.Minute
	// sweepInterval is the minimum time between idle-client sweeps.
	sweepInterval = time.Minute
)

// Result is the outcome of a limit check.
type Result struct {
	Allowed    bool
	Reason     string
	Limit      int
	Remaining  int
	RetryAfter time.Duration

	release func()
}

// Done releases the concurrency slot held by an allowed request.
func (r Result) Done() {
	if r.release != nil {
		r.release()
	}
}

type client struct {
	bucket     *TokenBucket
	concurrent *ConcurrentLimiter
	lastSeen   time.Time
}

// Limiter tracks per-client buckets.
type Limiter struct {
	cfg config.RateLimitConfig
	now func() time.Time

	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

// New creates a limiter from server.rate_limit.
func New(cfg *config.RateLimitConfig) *Limiter {
	return newLimiter(cfg, time.Now)
}

func newLimiter(cfg *config.RateLimitConfig, now func() time.Time) *Limiter {
	return &Limiter{
		cfg:       *cfg,
		now:       now,
		clients:   make(map[string]*client),
		lastSweep: now(),
	}
}

// Check applies the limits of client id to one request. An allowed result
// must be finished with Done.
func (l *Limiter) Check(id string) Result {
	c := l.client(id)

	res := Result{Limit: c.bucket.Capacity()}
	if c.concurrent != nil {
		if !c.concurrent.Acquire() {
			res.Reason = fmt.Sprintf("more than %d concurrent requests", l.cfg.MaxConcurrent)
			res.RetryAfter = time.Second
			return res
		}
		res.release = c.concurrent.Release
	}

	ok, wait := c.bucket.Take()
	if !ok {
		res.Done()
		res.release = nil
		res.Reason = fmt.Sprintf("rate of %g requests per second exceeded", l.cfg.RequestsPerSecond)
		res.RetryAfter = wait
		return res
	}

	res.Allowed = true
	res.Remaining = c.bucket.Remaining()
	return res
}

// Clients returns the number of tracked clients.
func (l *Limiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *Limiter) client(id string) *client {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= sweepInterval {
		l.sweepLocked(now)
	}

	c, ok := l.clients[id]
	if !ok {
		c = &client{bucket: newTokenBucket(l.cfg.Burst, l.cfg.RequestsPerSecond, l.now)}
		if l.cfg.MaxConcurrent > 0 {
			c.concurrent = NewConcurrentLimiter(l.cfg.MaxConcurrent)
		}
		l.clients[id] = c
	}
	c.lastSeen = now
	return c
}

// sweepLocked forgets clients idle for longer than idleTimeout.
// Caller must hold l.mu.
func (l *Limiter) sweepLocked(now time.Time) {
	for id, c := range l.clients {
		if now.Sub(c.lastSeen) > idleTimeout && (c.concurrent == nil || c.concurrent.Current() == 0) {
			delete(l.clients, id)
		}
	}
	l.lastSweep = now
}
