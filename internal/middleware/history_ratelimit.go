package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/andrew-nagda/texting-project/pkg/clientip"
	"golang.org/x/time/rate"
)

// Message history rate limit: per-IP, different limits for token-bearing vs
// anonymous callers. Token: 30 req/min, burst 20. Anonymous: 10 req/min,
// burst 5. Keeps console polling smooth while blocking scraping.

const (
	historyAuthRPS    = 0.5  // 30/min
	historyAuthBurst  = 20
	historyAnonRPS    = 0.17 // ~10/min
	historyAnonBurst  = 5
	historyCleanupMin = 5 * time.Minute
	historyLimiterTTL = 30 * time.Minute
)

type historyLimiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

var (
	historyEntries   = make(map[string]*historyLimiterEntry)
	historyEntriesMu sync.Mutex
	historyCleanup   bool
)

func getHistoryLimiter(ip string, authenticated bool) *rate.Limiter {
	key := ip
	if authenticated {
		key = "auth:" + ip
	} else {
		key = "anon:" + ip
	}

	historyEntriesMu.Lock()
	defer historyEntriesMu.Unlock()
	startHistoryCleanupOnce()

	e, ok := historyEntries[key]
	if !ok {
		if authenticated {
			e = &historyLimiterEntry{
				limiter: rate.NewLimiter(rate.Limit(historyAuthRPS), historyAuthBurst),
				lastUse: time.Now(),
			}
		} else {
			e = &historyLimiterEntry{
				limiter: rate.NewLimiter(rate.Limit(historyAnonRPS), historyAnonBurst),
				lastUse: time.Now(),
			}
		}
		historyEntries[key] = e
	}
	e.lastUse = time.Now()
	return e.limiter
}

func startHistoryCleanupOnce() {
	if historyCleanup {
		return
	}
	historyCleanup = true
	go func() {
		ticker := time.NewTicker(historyCleanupMin)
		defer ticker.Stop()
		for range ticker.C {
			historyEntriesMu.Lock()
			now := time.Now()
			for k, e := range historyEntries {
				if now.Sub(e.lastUse) > historyLimiterTTL {
					delete(historyEntries, k)
				}
			}
			historyEntriesMu.Unlock()
		}
	}()
}

// historyHasToken checks for a Bearer token in the Authorization header.
func historyHasToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && len(strings.TrimPrefix(auth, "Bearer ")) > 0
}

// MessageHistoryRateLimit applies rate limiting only to GET /__admin/messages.
// Token: 30/min burst 20. Anonymous: 10/min burst 5. Returns 429 with headers when exceeded.
func MessageHistoryRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || !strings.HasPrefix(r.URL.Path, "/__admin/messages") {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientip.RealClientIP(r)
		auth := historyHasToken(r)
		limiter := getHistoryLimiter(ip, auth)

		if !limiter.Allow() {
			limit := historyAnonBurst
			if auth {
				limit = historyAuthBurst
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"Too many history requests. Please slow down."}`))
			return
		}

		limit := historyAnonBurst
		if auth {
			limit = historyAuthBurst
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-1)) // Best-effort for debugging
		next.ServeHTTP(w, r)
	})
}
