package middleware

import (
	"net/http"
	apperrors "roombook/pkg/errors"
	httputil "roombook/pkg/http"
	"roombook/pkg/logger"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type tenantLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// TenantRateLimiter gives each tenant a token bucket refilling limit tokens
// per window, with a burst of limit.
type TenantRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*tenantLimiter
	limit    rate.Limit
	burst    int
	window   time.Duration
	log      *logger.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewTenantRateLimiter(limit int, window time.Duration, log *logger.Logger) *TenantRateLimiter {
	limiter := &TenantRateLimiter{
		limiters: make(map[string]*tenantLimiter),
		limit:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		window:   window,
		log:      log,
		stopCh:   make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *TenantRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for tenantID, entry := range rl.limiters {
				if time.Since(entry.lastSeen) > rl.window {
					delete(rl.limiters, tenantID)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *TenantRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func (rl *TenantRateLimiter) Allow(tenantID string) bool {
	if tenantID == "" {
		return true
	}

	rl.mu.Lock()
	entry, ok := rl.limiters[tenantID]
	if !ok {
		entry = &tenantLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[tenantID] = entry
	}
	entry.lastSeen = time.Now()
	rl.mu.Unlock()

	return entry.limiter.Allow()
}

// TenantRateLimit throttles requests per Tenant-Id header. Requests without
// a tenant pass through and are rejected by the handlers.
func TenantRateLimit(limiter *TenantRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID := r.Header.Get(httputil.TenantIDHeader)

			if !limiter.Allow(tenantID) {
				limiter.log.Warn("Rate limit exceeded",
					"request_id", logger.RequestID(r.Context()),
					"tenant_id", tenantID,
					"path", r.URL.Path,
				)
				w.Header().Set("Retry-After", "1")
				_ = httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.ErrorResponse{
					Error: "Rate limit exceeded",
					Code:  apperrors.CodeRateLimited,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
