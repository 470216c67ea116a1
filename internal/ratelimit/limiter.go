package ratelimit

import (
	"sync"
	"time"
)

// Clock lets tests advance virtual time instead of sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the production clock.
func SystemClock() Clock { return systemClock{} }

type window struct {
	count   int
	startAt time.Time
}

// Limiter counts attempts per identity in fixed windows. Each endpoint class
// gets its own Limiter so exhausting one never blocks another.
type Limiter struct {
	limit    int
	interval time.Duration
	clock    Clock

	mu      sync.Mutex
	windows map[string]*window
}

func NewLimiter(limit int, interval time.Duration, clock Clock) *Limiter {
	if clock == nil {
		clock = SystemClock()
	}
	return &Limiter{
		limit:    limit,
		interval: interval,
		clock:    clock,
		windows:  make(map[string]*window),
	}
}

// Allow records one attempt for identity. It returns false with a retry-after
// hint once the identity has exceeded the limit inside the current window.
// The count is incremented under the lock so concurrent requests cannot
// under-count and slip past the limit.
func (l *Limiter) Allow(identity string) (bool, time.Duration) {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[identity]
	if !ok || now.Sub(w.startAt) >= l.interval {
		l.windows[identity] = &window{count: 1, startAt: now}
		return true, 0
	}

	w.count++
	if w.count <= l.limit {
		return true, 0
	}

	retryAfter := l.interval - now.Sub(w.startAt)
	if retryAfter < 0 {
		retryAfter = 0
	}
	return false, retryAfter
}

// Prune drops windows that ended before now. Counters are volatile; this only
// bounds memory on long-running deployments.
func (l *Limiter) Prune() {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for identity, w := range l.windows {
		if now.Sub(w.startAt) >= l.interval {
			delete(l.windows, identity)
		}
	}
}
