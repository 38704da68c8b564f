package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// requestRecord tracks the number of requests in the current window
type requestRecord struct {
	count       int
	windowStart time.Time
	mu          sync.Mutex
}

// Throttle limits each client to maxRequests per period using fixed windows
type Throttle struct {
	maxRequests int
	period      time.Duration
	keyOf       func(*http.Request) string
	now         func() time.Time

	mu      sync.RWMutex
	records map[string]*requestRecord
}

// NewThrottle creates a throttle keyed by ClientIP
func NewThrottle(maxRequests int, period time.Duration) *Throttle {
	if maxRequests <= 0 {
		maxRequests = 1
	}
	if period <= 0 {
		period = time.Minute
	}
	return &Throttle{
		maxRequests: maxRequests,
		period:      period,
		keyOf:       ClientIP,
		now:         time.Now,
		records:     make(map[string]*requestRecord),
	}
}

func (t *Throttle) record(key string) *requestRecord {
	t.mu.RLock()
	rec, ok := t.records[key]
	t.mu.RUnlock()
	if ok {
		return rec
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if rec, ok := t.records[key]; ok {
		return rec
	}
	rec = &requestRecord{windowStart: t.now()}
	t.records[key] = rec
	return rec
}

// Allow counts a request for key and reports whether it is within the limit
func (t *Throttle) Allow(key string) bool {
	rec := t.record(key)

	rec.mu.Lock()
	defer rec.mu.Unlock()

	now := t.now()
	if now.Sub(rec.windowStart) >= t.period {
		rec.count = 1
		rec.windowStart = now
		return true
	}
	if rec.count >= t.maxRequests {
		return false
	}
	rec.count++
	return true
}

// Cleanup drops records whose window ended before cutoff
func (t *Throttle) Cleanup(cutoff time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, rec := range t.records {
		rec.mu.Lock()
		if rec.windowStart.Add(t.period).Before(cutoff) {
			delete(t.records, key)
		}
		rec.mu.Unlock()
	}
}

// RunCleanup calls Cleanup every interval until ctx is done
func (t *Throttle) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Cleanup(t.now())
		}
	}
}

// Middleware rejects requests over the limit with 429
func (t *Throttle) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !t.Allow(t.keyOf(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", formatRetryAfter(t.period))
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"rate limit exceeded"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func formatRetryAfter(period time.Duration) string {
	seconds := int(period.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
