package middleware

import (
	"bytes"
	"context"
	"net/http"
	"roombook/pkg/cache"
	"roombook/pkg/logger"
	"time"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// IdempotencyStore keeps successful responses so a retried request with the
// same key is replayed instead of executed twice.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*CachedResponse, bool, error)
	Set(ctx context.Context, key string, response *CachedResponse) error
	Stop()
}

type CachedResponse struct {
	StatusCode int         `json:"status_code"`
	Headers    http.Header `json:"headers"`
	Body       []byte      `json:"body"`
	CreatedAt  time.Time   `json:"created_at"`
}

const defaultIdempotencyEntries = 100_000

// InMemoryIdempotencyStore is the single-instance store, backed by the
// in-process cache.
type InMemoryIdempotencyStore struct {
	entries *cache.Cache[*CachedResponse]
}

func NewInMemoryIdempotencyStore(ttl time.Duration) (*InMemoryIdempotencyStore, error) {
	entries, err := cache.New[*CachedResponse](defaultIdempotencyEntries, ttl)
	if err != nil {
		return nil, err
	}
	return &InMemoryIdempotencyStore{entries: entries}, nil
}

func (s *InMemoryIdempotencyStore) Get(_ context.Context, key string) (*CachedResponse, bool, error) {
	response, ok := s.entries.Get(key)
	return response, ok, nil
}

func (s *InMemoryIdempotencyStore) Set(_ context.Context, key string, response *CachedResponse) error {
	response.CreatedAt = time.Now()
	s.entries.Set(key, response)
	s.entries.Wait()
	return nil
}

func (s *InMemoryIdempotencyStore) Stop() {
	s.entries.Close()
}

type responseCapture struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (rc *responseCapture) WriteHeader(statusCode int) {
	rc.statusCode = statusCode
	rc.ResponseWriter.WriteHeader(statusCode)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	rc.body.Write(b)
	return rc.ResponseWriter.Write(b)
}

// Idempotency replays the stored 2xx response for a repeated key. Keys are
// scoped by tenant, method and path, so two tenants reusing a key never see
// each other's responses. Store failures are logged and the request runs
// normally.
func Idempotency(store IdempotencyStore, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idempotencyKey := r.Header.Get(IdempotencyKeyHeader)
			if idempotencyKey == "" || r.Method == http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := scopedIdempotencyKey(r, idempotencyKey)
			cached, found, err := store.Get(r.Context(), key)
			if err != nil {
				log.Warn("Idempotency lookup failed",
					"request_id", logger.RequestID(r.Context()),
					"error", err,
				)
			}
			if found {
				replayCachedResponse(w, cached)
				return
			}

			capture := &responseCapture{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				body:           &bytes.Buffer{},
			}
			next.ServeHTTP(capture, r)

			if capture.statusCode < 200 || capture.statusCode >= 300 {
				return
			}
			if err := store.Set(r.Context(), key, &CachedResponse{
				StatusCode: capture.statusCode,
				Headers:    w.Header().Clone(),
				Body:       capture.body.Bytes(),
			}); err != nil {
				log.Warn("Failed to store idempotent response",
					"request_id", logger.RequestID(r.Context()),
					"error", err,
				)
			}
		})
	}
}

func scopedIdempotencyKey(r *http.Request, key string) string {
	return r.Header.Get("Tenant-Id") + ":" + r.Method + ":" + r.URL.Path + ":" + key
}

func replayCachedResponse(w http.ResponseWriter, cached *CachedResponse) {
	for key, values := range cached.Headers {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(cached.StatusCode)
	_, _ = w.Write(cached.Body)
}
