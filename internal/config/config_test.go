package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warning")
	t.Setenv("LOG_FORMAT", "weird")
	t.Setenv("PET_API_URL", "http://pets.local:9000")
	t.Setenv("CACHE_STALE_TIME", "30s")
	t.Setenv("CACHE_RETRY", "nope") // fallback al default
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("HTTP_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LogLevel != "warn" || cfg.LogFormat != "text" {
		t.Fatalf("logging not normalized: %q %q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.Backend.PetURL != "http://pets.local:9000" || cfg.Backend.UserURL != "http://localhost:3001" {
		t.Fatalf("backend urls unexpected: %+v", cfg.Backend)
	}
	if cfg.Backend.Timeout != 2*time.Second {
		t.Fatalf("expected 2s timeout, got %s", cfg.Backend.Timeout)
	}
	if cfg.Cache.StaleTime != 30*time.Second || cfg.Cache.Retry != 1 {
		t.Fatalf("cache config unexpected: %+v", cfg.Cache)
	}
	if cfg.Storage.Driver != StorageMemory {
		t.Fatalf("expected memory driver, got %q", cfg.Storage.Driver)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"bad url", map[string]string{"USER_API_URL": "not a url"}},
		{"negative retry", map[string]string{"CACHE_RETRY": "-1"}},
		{"postgres without dsn", map[string]string{"STORAGE_DRIVER": "postgres"}},
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "redis"}},
		{"bad sample ratio", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "1.5"}},
		{"zero login burst", map[string]string{"LOGIN_BURST": "0"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadWithDotEnv_DoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "APPOINTMENT_API_URL=http://citas.local:7000\nSTORAGE_DRIVER=memory\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("STORAGE_DRIVER", "sqlite")
	// godotenv escribe en el entorno del proceso; lo limpiamos al terminar.
	t.Cleanup(func() { _ = os.Unsetenv("APPOINTMENT_API_URL") })

	cfg, err := LoadWithDotEnv(path)
	if err != nil {
		t.Fatalf("LoadWithDotEnv: %v", err)
	}
	if cfg.Storage.Driver != StorageSQLite {
		t.Fatalf("env var must win over .env, got %q", cfg.Storage.Driver)
	}
	if cfg.Backend.AppointmentURL != "http://citas.local:7000" {
		t.Fatalf("expected url from .env, got %q", cfg.Backend.AppointmentURL)
	}
}
