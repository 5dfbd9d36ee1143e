package handler

import (
	"context"
	"net/http"
	"time"

	httputil "roombook/pkg/http"
	"roombook/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const readinessTimeout = 2 * time.Second

type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// DependencyCheck pings one backing store for the readiness probe.
type DependencyCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

func MongoCheck(client *mongo.Client) DependencyCheck {
	return DependencyCheck{
		Name: "database",
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
	}
}

func RedisCheck(client *redis.Client) DependencyCheck {
	return DependencyCheck{
		Name: "redis",
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}

type HealthHandler struct {
	checks []DependencyCheck
	log    *logger.Logger
}

func NewHealthHandler(log *logger.Logger, checks ...DependencyCheck) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		log:    log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	status := http.StatusOK
	resp := HealthResponse{
		Status:       "ready",
		Dependencies: make(map[string]string, len(h.checks)),
	}

	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			h.log.Error("Dependency health check failed",
				"dependency", check.Name,
				"error", err,
				"path", r.URL.Path,
			)
			resp.Dependencies[check.Name] = "error"
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Dependencies[check.Name] = "ok"
	}

	if err := httputil.WriteJSON(w, status, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
