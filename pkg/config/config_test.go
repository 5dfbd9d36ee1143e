package config

import (
	"io"
	"roombook/pkg/logger"
	"strings"
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv("test")

	if cfg.Port != DefaultPort {
		t.Errorf("expected default port %s, got %s", DefaultPort, cfg.Port)
	}
	if cfg.BookingLockTimeout != DefaultBookingLockTimeout {
		t.Errorf("expected default lock timeout %s, got %s", DefaultBookingLockTimeout, cfg.BookingLockTimeout)
	}
	if cfg.EventsEnabled {
		t.Error("expected events to be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got: %v", err)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvBookingLockTimeout, "750ms")
	t.Setenv(EnvRoomCacheMaxCost, "42")
	t.Setenv(EnvEventsEnabled, "true")
	t.Setenv(EnvRedisAddr, "localhost:6379")

	cfg := FromEnv("test")

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.BookingLockTimeout != 750*time.Millisecond {
		t.Errorf("expected 750ms, got %s", cfg.BookingLockTimeout)
	}
	if cfg.RoomCacheMaxCost != 42 {
		t.Errorf("expected 42, got %d", cfg.RoomCacheMaxCost)
	}
	if !cfg.EventsEnabled {
		t.Error("expected events to be enabled")
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("expected redis addr, got %q", cfg.RedisAddr)
	}
}

func TestFromEnv_MalformedValuesFallBack(t *testing.T) {
	t.Setenv(EnvRequestTimeout, "soon")
	t.Setenv(EnvRateLimitRequests, "many")

	cfg := FromEnv("test")

	if cfg.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("expected fallback request timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.RateLimitRequests != DefaultRateLimitRequests {
		t.Errorf("expected fallback rate limit, got %d", cfg.RateLimitRequests)
	}
}

func TestValidate_AccumulatesErrors(t *testing.T) {
	cfg := &Config{
		Port:               "0",
		MongoURI:           "postgres://nope",
		MongoDatabaseName:  "",
		MongoConnTimeout:   time.Second,
		RateLimitRequests:  1,
		RateLimitWindow:    time.Second,
		RequestTimeout:     time.Second,
		IdempotencyTTL:     time.Second,
		MaxRequestSize:     1,
		ReadTimeout:        time.Second,
		WriteTimeout:       time.Second,
		IdleTimeout:        time.Second,
		ShutdownTimeout:    time.Second,
		BookingLockTimeout: 2 * time.Second,
		RoomCacheMaxCost:   1,
		Log:                logger.New(logger.Config{Output: io.Discard}),
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}

	msg := err.Error()
	for _, want := range []string{
		"Port must be between 1 and 65535",
		"MongoURI must start with",
		"MongoDatabaseName cannot be empty",
		"BookingLockTimeout (2s) must be shorter than RequestTimeout (1s)",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected error to mention %q, got:\n%s", want, msg)
		}
	}
}

func TestRedactMongoURI(t *testing.T) {
	got := redactMongoURI("mongodb://admin:secret@db:27017/roombook")
	if strings.Contains(got, "secret") {
		t.Errorf("password leaked: %s", got)
	}
	if got != "mongodb://***:***@db:27017/roombook" {
		t.Errorf("unexpected redaction: %s", got)
	}
}
