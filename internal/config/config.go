package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	APIPort  string
	LogLevel string

	DatabaseDSN string

	DataDir      string
	AIDataDir    string
	StoragePath  string
	ModelPath    string
	SettingsPath string
	TriageMode   string
	ModelRetrain bool

	NATSURL     string
	NATSSubject string

	SyncBackend       string
	SyncLocalPath     string
	GCSBucket         string
	GCSPrefix         string
	GCSCredentials    string
	GCSEndpoint       string
	ResilienceRetries int
	ResilienceBreaker bool

	SessionTTL   time.Duration
	CookieSecure bool

	APIRateLimitRPS      float64
	APIRateLimitBurst    int
	APIMaxInFlight       int
	APIBackpressureWait  time.Duration
	CORSAllowedOrigins   []string
	OpenAPIValidation    bool
	AdminEmail           string
	AdminPassword        string
	WorkerMetricsPort    string
	SessionPurgeInterval time.Duration
}

const (
	SyncBackendLocal = "localfs"
	SyncBackendGCS   = "gcs"
	SyncBackendNone  = "none"
)

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		DatabaseDSN: mustEnv("DATABASE_DSN", "sqlite://./data/homecare.db"),

		DataDir:      mustEnv("DATA_DIR", "./data/app"),
		AIDataDir:    mustEnv("AI_DATA_DIR", "./data/ai"),
		StoragePath:  mustEnv("STORAGE_PATH", "./data/storage"),
		ModelPath:    mustEnv("MODEL_PATH", "models/health_model.json"),
		SettingsPath: mustEnv("SETTINGS_PATH", "settings/admin_settings.json"),
		TriageMode:   mustEnv("TRIAGE_MODE", "auto"),
		ModelRetrain: mustEnvBool("MODEL_RETRAIN", false),

		NATSURL:     mustEnv("NATS_URL", ""),
		NATSSubject: mustEnv("NATS_SUBJECT", "homecare.sync"),

		SyncBackend:       strings.ToLower(mustEnv("SYNC_BACKEND", SyncBackendLocal)),
		SyncLocalPath:     mustEnv("SYNC_LOCAL_PATH", "./data/docstore"),
		GCSBucket:         mustEnv("GCS_BUCKET", ""),
		GCSPrefix:         mustEnv("GCS_PREFIX", ""),
		GCSCredentials:    mustEnv("GCS_CREDENTIALS_FILE", ""),
		GCSEndpoint:       mustEnv("GCS_ENDPOINT", ""),
		ResilienceRetries: mustEnvInt("RESILIENCE_RETRY_MAX_ATTEMPTS", 3),
		ResilienceBreaker: mustEnvBool("RESILIENCE_BREAKER_ENABLED", true),

		SessionTTL:   mustEnvDuration("SESSION_TTL", 30*time.Minute),
		CookieSecure: mustEnvBool("COOKIE_SECURE", false),

		APIRateLimitRPS:      mustEnvFloat("API_RATE_LIMIT_RPS", 20),
		APIRateLimitBurst:    mustEnvInt("API_RATE_LIMIT_BURST", 40),
		APIMaxInFlight:       mustEnvInt("API_MAX_IN_FLIGHT", 64),
		APIBackpressureWait:  mustEnvDuration("API_BACKPRESSURE_WAIT", 250*time.Millisecond),
		CORSAllowedOrigins:   mustEnvList("CORS_ALLOWED_ORIGINS"),
		OpenAPIValidation:    mustEnvBool("OPENAPI_VALIDATION", true),
		AdminEmail:           mustEnv("ADMIN_EMAIL", "admin@healthfirst.com"),
		AdminPassword:        mustEnv("ADMIN_PASSWORD", ""),
		WorkerMetricsPort:    mustEnv("WORKER_METRICS_PORT", "9090"),
		SessionPurgeInterval: mustEnvDuration("SESSION_PURGE_INTERVAL", 10*time.Minute),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// mustEnvList splits a comma-separated value, dropping blanks.
func mustEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
