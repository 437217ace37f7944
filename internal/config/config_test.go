package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_DSN", "TRIAGE_MODE", "SESSION_TTL", "NATS_URL", "SYNC_BACKEND", "CORS_ALLOWED_ORIGINS", "API_RATE_LIMIT_RPS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.DatabaseDSN != "sqlite://./data/homecare.db" {
		t.Fatalf("unexpected default dsn %q", cfg.DatabaseDSN)
	}
	if cfg.TriageMode != "auto" {
		t.Fatalf("expected auto triage mode, got %q", cfg.TriageMode)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("expected 30m session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.NATSURL != "" {
		t.Fatalf("nats must be off by default, got %q", cfg.NATSURL)
	}
	if cfg.SyncBackend != SyncBackendLocal {
		t.Fatalf("expected localfs sync backend, got %q", cfg.SyncBackend)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no cors origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.APIRateLimitRPS != 20 {
		t.Fatalf("expected 20 rps, got %v", cfg.APIRateLimitRPS)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("TRIAGE_MODE", "keyword")
	t.Setenv("MODEL_RETRAIN", "true")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SYNC_BACKEND", "GCS")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.vn, ,https://b.vn")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("API_BACKPRESSURE_WAIT", "1s")

	cfg := Load()
	if cfg.TriageMode != "keyword" || !cfg.ModelRetrain {
		t.Fatalf("unexpected triage settings %q %v", cfg.TriageMode, cfg.ModelRetrain)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("expected 2h, got %s", cfg.SessionTTL)
	}
	if cfg.SyncBackend != SyncBackendGCS {
		t.Fatalf("expected gcs, got %q", cfg.SyncBackend)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.vn" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.APIRateLimitRPS != 2.5 || cfg.APIBackpressureWait != time.Second {
		t.Fatalf("unexpected traffic settings %v %s", cfg.APIRateLimitRPS, cfg.APIBackpressureWait)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("API_MAX_IN_FLIGHT", "many")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg := Load()
	if cfg.SessionTTL != 30*time.Minute || cfg.APIMaxInFlight != 64 || cfg.CookieSecure {
		t.Fatalf("invalid values must fall back to defaults: %+v", cfg)
	}
}
