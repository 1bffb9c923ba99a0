package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.StorageBackend != "sqlite" {
		t.Errorf("StorageBackend = %q, want sqlite", cfg.StorageBackend)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want 24h", cfg.TokenTTL)
	}
	if cfg.QueueBufferSize != 100 || cfg.WorkerCount != 5 {
		t.Errorf("Queue defaults = %d/%d, want 100/5", cfg.QueueBufferSize, cfg.WorkerCount)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("WORKER_COUNT", "2")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.StorageBackend != "memory" {
		t.Errorf("StorageBackend = %q, want memory", cfg.StorageBackend)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %v, want 30m", cfg.TokenTTL)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("WorkerCount = %d, want 2", cfg.WorkerCount)
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{
		StorageBackend:  "memory",
		JWTSecret:       "secret",
		QueueBufferSize: 10,
		WorkerCount:     1,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "unknown backend", mutate: func(c *Config) { c.StorageBackend = "redis" }},
		{name: "missing jwt secret", mutate: func(c *Config) { c.JWTSecret = "" }},
		{name: "sqlite without path", mutate: func(c *Config) { c.StorageBackend = "sqlite"; c.SQLiteDBPath = "" }},
		{name: "gcs without bucket", mutate: func(c *Config) { c.StorageBackend = "gcs"; c.GCSBucket = "" }},
		{name: "zero workers", mutate: func(c *Config) { c.WorkerCount = 0 }},
		{name: "zero buffer", mutate: func(c *Config) { c.QueueBufferSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
