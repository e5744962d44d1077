// Package quota enforces a process-wide cap on accepted submissions per UTC
// calendar day. It is a single global fuse bounding aggregate email cost, not
// a per-client limit. Counters live in memory and reset on restart.
package quota

import (
	"sync"
	"time"
)

// retention is how long finished day-keys are kept before pruning.
const retention = 48 * time.Hour

// DailyQuota counts accepted submissions per day-key ("YYYYMMDD", UTC).
// Safe for concurrent use.
type DailyQuota struct {
	mu     sync.Mutex
	counts map[string]int
	limit  int
}

// NewDailyQuota creates a quota allowing at most maxPerDay consumptions per
// UTC day.
func NewDailyQuota(maxPerDay int) *DailyQuota {
	return &DailyQuota{
		counts: make(map[string]int),
		limit:  maxPerDay,
	}
}

// TryConsume records one submission attempt against the current day and
// reports whether it fits within the daily limit. The counter is clamped at
// the limit, so a flood of rejected attempts cannot overflow it.
func (q *DailyQuota) TryConsume(now time.Time) bool {
	key := DayKey(now)

	q.mu.Lock()
	defer q.mu.Unlock()

	q.pruneLocked(now)

	if q.counts[key] >= q.limit {
		return false
	}
	q.counts[key]++
	return true
}

// Remaining returns how many submissions are still allowed today.
func (q *DailyQuota) Remaining(now time.Time) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	remaining := q.limit - q.counts[DayKey(now)]
	if remaining < 0 {
		return 0
	}
	return remaining
}

// DayKey formats the UTC calendar date of t as a counter key.
func DayKey(t time.Time) string {
	return t.UTC().Format("20060102")
}

// pruneLocked drops day-keys older than the retention window. Without this a
// long-running process accumulates one entry per calendar day forever.
func (q *DailyQuota) pruneLocked(now time.Time) {
	if len(q.counts) <= 2 {
		return
	}
	cutoff := DayKey(now.Add(-retention))
	for key := range q.counts {
		if key < cutoff {
			delete(q.counts, key)
		}
	}
}
