package adapthttp

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL = 10 * time.Minute
	limiterMaxKeys = 10000
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// keyedLimiter keeps one token bucket per key (client IP or user).
// A nil keyedLimiter allows everything.
type keyedLimiter struct {
	every time.Duration
	burst int

	mu      sync.Mutex
	entries map[string]*limiterEntry
}

// newKeyedLimiter allows perMinute requests per key per minute. perMinute <= 0
// disables limiting.
func newKeyedLimiter(perMinute int) *keyedLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &keyedLimiter{
		every:   time.Minute / time.Duration(perMinute),
		burst:   perMinute,
		entries: make(map[string]*limiterEntry),
	}
}

func (l *keyedLimiter) allow(key string, now time.Time) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) >= limiterMaxKeys {
		for k, e := range l.entries {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(l.entries, k)
			}
		}
	}
	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Every(l.every), l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// rateLimit rejects requests over the limit of their key with 429.
func (s *Server) rateLimit(l *keyedLimiter, key func(*http.Request) string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(key(r), time.Now()) {
			w.Header().Set("Retry-After", strconv.Itoa(int(l.every.Seconds())+1))
			writeJSON(w, http.StatusTooManyRequests, map[string]any{"error": "too many requests, slow down"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userKey(r *http.Request) string {
	if u := userFromContext(r); u != nil {
		return "user:" + strconv.FormatInt(u.ID, 10)
	}
	return clientIP(r)
}
