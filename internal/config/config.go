// Package config carga la configuración del cliente desde variables de entorno
// (opcionalmente desde un archivo .env), aplica defaults y valida.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers soportados para el estado persistido del cliente.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// BackendConfig agrupa las URLs base de los cuatro servicios.
type BackendConfig struct {
	UserURL        string // USER_API_URL
	PetURL         string // PET_API_URL
	AppointmentURL string // APPOINTMENT_API_URL
	StatisticsURL  string // STATISTICS_API_URL
	Timeout        time.Duration
}

// CacheConfig es la política compartida por todas las queries.
type CacheConfig struct {
	StaleTime time.Duration // ventana de frescura
	GCTime    time.Duration // tiempo sin uso antes de desalojar
	Retry     int           // reintentos por query (>= 0)
}

// StorageConfig define dónde se persisten accessToken/refreshToken/user.
type StorageConfig struct {
	Driver     string // memory|sqlite|postgres
	SQLitePath string
	DSN        string
	Namespace  string
}

// OTELConfig define la exportación de trazas.
type OTELConfig struct {
	Enabled     bool
	Endpoint    string
	Insecure    bool
	ServiceName string
	SampleRatio float64
}

type Config struct {
	// Server
	ListenAddr   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Logging / Docs
	LogLevel       string
	LogFormat      string
	AppName        string
	SwaggerEnabled bool
	MetricsEnabled bool

	// Login: tokens por segundo y burst del limitador
	LoginRPS   float64
	LoginBurst int

	Backend BackendConfig
	Cache   CacheConfig
	Storage StorageConfig
	OTEL    OTELConfig
}

// MustLoad carga la configuración y hace panic si es inválida.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadWithDotEnv lee primero el archivo .env indicado (si existe) sin pisar
// variables ya definidas, y luego llama a Load.
func LoadWithDotEnv(path string) (Config, error) {
	if strings.TrimSpace(path) != "" {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return Config{}, fmt.Errorf("config: load %s: %w", path, err)
			}
		}
	}
	return Load()
}

// Load lee env, aplica defaults, normaliza y valida.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:   getenv("LISTEN_ADDR", "127.0.0.1:8090"),
		ReadTimeout:  getdur("READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getdur("WRITE_TIMEOUT", 30*time.Second),

		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getenv("LOG_FORMAT", "text")),
		AppName:        getenv("APP_NAME", "petcast-web"),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		MetricsEnabled: getbool("METRICS_ENABLED", true),

		LoginRPS:   getfloat("LOGIN_RPS", 1),
		LoginBurst: getint("LOGIN_BURST", 5),

		Backend: BackendConfig{
			UserURL:        getenv("USER_API_URL", "http://localhost:3001"),
			PetURL:         getenv("PET_API_URL", "http://localhost:3002"),
			AppointmentURL: getenv("APPOINTMENT_API_URL", "http://localhost:3003"),
			StatisticsURL:  getenv("STATISTICS_API_URL", "http://localhost:3004"),
			Timeout:        getdur("HTTP_TIMEOUT", 10*time.Second),
		},
		Cache: CacheConfig{
			StaleTime: getdur("CACHE_STALE_TIME", 5*time.Minute),
			GCTime:    getdur("CACHE_GC_TIME", 10*time.Minute),
			Retry:     getint("CACHE_RETRY", 1),
		},
		Storage: StorageConfig{
			Driver:     strings.ToLower(getenv("STORAGE_DRIVER", StorageSQLite)),
			SQLitePath: getenv("SQLITE_PATH", "petcast.db"),
			DSN:        getenv("DB_DSN", ""),
			Namespace:  getenv("STORAGE_NAMESPACE", "default"),
		},
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "petcast-web"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalización ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	if cfg.LogFormat != "json" {
		cfg.LogFormat = "text"
	}

	// --- validación ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error")
	}
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		return cfg, errors.New("LISTEN_ADDR must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.Backend.Timeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	for name, raw := range map[string]string{
		"USER_API_URL":        cfg.Backend.UserURL,
		"PET_API_URL":         cfg.Backend.PetURL,
		"APPOINTMENT_API_URL": cfg.Backend.AppointmentURL,
		"STATISTICS_API_URL":  cfg.Backend.StatisticsURL,
	} {
		if _, err := url.ParseRequestURI(raw); err != nil {
			return cfg, fmt.Errorf("%s must be an absolute url: %w", name, err)
		}
	}
	if cfg.Cache.StaleTime < 0 || cfg.Cache.GCTime <= 0 {
		return cfg, errors.New("CACHE_STALE_TIME must be >= 0 and CACHE_GC_TIME > 0")
	}
	if cfg.Cache.Retry < 0 {
		return cfg, errors.New("CACHE_RETRY must be >= 0")
	}
	switch cfg.Storage.Driver {
	case StorageMemory:
	case StorageSQLite:
		if strings.TrimSpace(cfg.Storage.SQLitePath) == "" {
			return cfg, errors.New("SQLITE_PATH must not be empty")
		}
	case StoragePostgres:
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return cfg, errors.New("DB_DSN is required when STORAGE_DRIVER=postgres")
		}
	default:
		return cfg, errors.New("STORAGE_DRIVER must be one of: memory, sqlite, postgres")
	}
	if cfg.LoginRPS <= 0 || cfg.LoginBurst < 1 {
		return cfg, errors.New("LOGIN_RPS must be > 0 and LOGIN_BURST >= 1")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
