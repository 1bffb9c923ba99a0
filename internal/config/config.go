package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config carries every knob the service reads from the environment.
type Config struct {
	// HTTP Server
	Port string

	// Storage backend selection
	StorageBackend string // memory | sqlite | gcs
	SQLiteDBPath   string
	GCSBucket      string
	GCSPrefix      string

	// Gemini
	FastModel string // classification, buddy feedback, tips
	ProModel  string // runway, peer comparison, goal strategy

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Advisory job queue
	QueueBufferSize int
	WorkerCount     int
}

// Load reads the configuration from the environment with defaults.
func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		StorageBackend: getEnv("STORAGE_BACKEND", "sqlite"),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/spendwise.db"),
		GCSBucket:      getEnv("GCS_BUCKET", ""),
		GCSPrefix:      getEnv("GCS_PREFIX", "spendwise"),

		FastModel: getEnv("GEMINI_FAST_MODEL", "gemini-3-flash-preview"),
		ProModel:  getEnv("GEMINI_PRO_MODEL", "gemini-3-pro-preview"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),

		QueueBufferSize: getEnvInt("QUEUE_BUFFER_SIZE", 100),
		WorkerCount:     getEnvInt("WORKER_COUNT", 5),
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errs []string

	switch c.StorageBackend {
	case "memory", "sqlite", "gcs":
	default:
		errs = append(errs, fmt.Sprintf("invalid storage backend %q: must be one of memory, sqlite, gcs", c.StorageBackend))
	}

	if c.StorageBackend == "sqlite" && c.SQLiteDBPath == "" {
		errs = append(errs, "sqlite database path cannot be empty when using the sqlite backend")
	}
	if c.StorageBackend == "gcs" && c.GCSBucket == "" {
		errs = append(errs, "GCS bucket cannot be empty when using the gcs backend")
	}

	if c.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET must be set")
	}

	if c.QueueBufferSize <= 0 {
		errs = append(errs, "queue buffer size must be positive")
	}
	if c.WorkerCount <= 0 {
		errs = append(errs, "worker count must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
