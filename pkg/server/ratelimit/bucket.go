package ratelimit

import (
	"sync"
	"sync/atomic"
	"time"
)

// TokenBucket allows bursts up to its capacity while holding an average
// rate. Tokens are added continuously at the refill rate.
type TokenBucket struct {
	mu         sync.Mutex
	capacity   float64
	tokens     float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	now        func() time.Time
}

// NewTokenBucket creates a full bucket.
func NewTokenBucket(capacity int, refillRate float64) *TokenBucket {
	return newTokenBucket(capacity, refillRate, time.Now)
}

func newTokenBucket(capacity int, refillRate float64, now func() time.Time) *TokenBucket {
	return &TokenBucket{
		capacity:   float64(capacity),
		tokens:     float64(capacity),
		refillRate: refillRate,
		lastRefill: now(),
		now:        now,
	}
}

// Take consumes one token. When none is available it returns false and the
// time until the next token.
func (tb *TokenBucket) Take() (bool, time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()
	if tb.tokens >= 1 {
		tb.tokens--
		return true, 0
	}
	missing := 1 - tb.tokens
	return false, time.Duration(missing / tb.refillRate * float64(time.Second))
}

// Remaining returns the number of whole tokens available.
func (tb *TokenBucket) Remaining() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refillLocked()
	return int(tb.tokens)
}

// Capacity returns the bucket size.
func (tb *TokenBucket) Capacity() int {
	return int(tb.capacity)
}

// refillLocked adds the tokens accrued since the last refill.
// Caller must hold tb.mu.
func (tb *TokenBucket) refillLocked() {
	now := tb.now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	tb.tokens += elapsed * tb.refillRate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
	tb.lastRefill = now
}

// ConcurrentLimiter is a counting semaphore for in-flight requests.
type ConcurrentLimiter struct {
	limit   int64
	current atomic.Int64
}

// NewConcurrentLimiter creates a limiter allowing limit simultaneous holders.
func NewConcurrentLimiter(limit int) *ConcurrentLimiter {
	return &ConcurrentLimiter{limit: int64(limit)}
}

// Acquire takes a slot. A true result must be paired with Release.
func (cl *ConcurrentLimiter) Acquire() bool {
	if cl.current.Add(1) > cl.limit {
		cl.current.Add(-1)
		return false
	}
	return true
}

// Release frees a slot taken by Acquire.
func (cl *ConcurrentLimiter) Release() {
	cl.current.Add(-1)
}

// Current returns the number of held slots.
func (cl *ConcurrentLimiter) Current() int64 {
	return cl.current.Load()
}
