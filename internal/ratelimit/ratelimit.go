// Package ratelimit implements a keyed token-bucket limiter for contact-form
// submissions. Buckets live in process memory only and reset on restart.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// unknownKey pools all requests whose client could not be identified into a
// single shared bucket.
const unknownKey = "unknown"

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter bounds request frequency per client key using token buckets of
// capacity Burst refilled at Refill tokens every Period. It is safe for
// concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	burst  int
	refill rate.Limit
}

// NewLimiter creates a limiter allowing bursts of burst requests per key,
// refilled at refill tokens per period.
func NewLimiter(burst, refill int, period time.Duration) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		burst:   burst,
		refill:  rate.Limit(float64(refill) / period.Seconds()),
	}
}

// Allow reports whether the client identified by key may proceed at the given
// instant, consuming one token if so. An empty key degrades to one shared
// bucket for all unattributable clients.
func (l *Limiter) Allow(key string, now time.Time) bool {
	if key == "" {
		key = unknownKey
	}

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.refill, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	return b.limiter.AllowN(now, 1)
}

// PruneStale drops buckets idle longer than maxIdle so the key map stays
// bounded over the process lifetime. Idle buckets are full again anyway.
func (l *Limiter) PruneStale(now time.Time, maxIdle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	pruned := 0
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > maxIdle {
			delete(l.buckets, key)
			pruned++
		}
	}
	return pruned
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
