package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Env != "development" {
		t.Fatalf("expected development default, got %q", cfg.Env)
	}
	if cfg.HTTPAddr != ":8090" {
		t.Fatalf("expected :8090 default, got %q", cfg.HTTPAddr)
	}
	if cfg.JWTExpirySeconds != 86400 {
		t.Fatalf("expected 86400 default expiry, got %d", cfg.JWTExpirySeconds)
	}
	if cfg.SessionCookieName != "pos_session" {
		t.Fatalf("expected pos_session cookie, got %q", cfg.SessionCookieName)
	}
	if cfg.MaxFileSizeBytes != 5*1024*1024 {
		t.Fatalf("expected 5MB default, got %d", cfg.MaxFileSizeBytes)
	}
	if cfg.WSFloorPollInterval != 5*time.Second {
		t.Fatalf("expected 5s poll default, got %s", cfg.WSFloorPollInterval)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("JWT_EXPIRY", "3600")
	t.Setenv("WS_FLOOR_POLL_INTERVAL", "2s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("MAX_FILE_SIZE", "-1")

	cfg := Load()

	if cfg.HTTPAddr != ":9000" {
		t.Fatalf("expected :9000, got %q", cfg.HTTPAddr)
	}
	if cfg.JWTExpirySeconds != 3600 {
		t.Fatalf("expected 3600, got %d", cfg.JWTExpirySeconds)
	}
	if cfg.WSFloorPollInterval != 2*time.Second {
		t.Fatalf("expected 2s, got %s", cfg.WSFloorPollInterval)
	}
	if len(cfg.CorsAllowedOrigins) != 2 || cfg.CorsAllowedOrigins[0] != "https://a.example" {
		t.Fatalf("unexpected origins: %v", cfg.CorsAllowedOrigins)
	}
	// Non-positive sizes fall back to the default.
	if cfg.MaxFileSizeBytes != 5*1024*1024 {
		t.Fatalf("expected fallback size, got %d", cfg.MaxFileSizeBytes)
	}
}

func TestBadValuesFallBack(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "not-a-number")
	t.Setenv("WS_HEARTBEAT_INTERVAL", "soon")

	cfg := Load()
	if cfg.JWTExpirySeconds != 86400 {
		t.Fatalf("expected default expiry, got %d", cfg.JWTExpirySeconds)
	}
	if cfg.WSHeartbeatInterval != 30*time.Second {
		t.Fatalf("expected default heartbeat, got %s", cfg.WSHeartbeatInterval)
	}
}
