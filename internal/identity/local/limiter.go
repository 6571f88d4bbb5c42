package local

import (
	"sync"

	"golang.org/x/time/rate"
)

const maxTrackedEmails = 10000

type attemptLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newAttemptLimiter(r rate.Limit, burst int) *attemptLimiter {
	return &attemptLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     r,
		burst:    burst,
	}
}

func (l *attemptLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxTrackedEmails {
			l.evictFull()
		}
		lim = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = lim
	}
	return lim.Allow()
}

// evictFull forgets limiters whose bucket has refilled.
func (l *attemptLimiter) evictFull() {
	for key, lim := range l.limiters {
		if lim.Tokens() >= float64(l.burst) {
			delete(l.limiters, key)
		}
	}
}
