package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
	Redis    RedisConfig
}

// SessionConfig controls the session cookie and the backend holding session records.
type SessionConfig struct {
	Name         string
	Secret       string
	TTL          time.Duration
	Backend      string
	CookieSecure bool
}

type ObservabilityConfig struct {
	MetricsAddr  string
	PprofAddr    string
	OTLPEndpoint string
	ServiceName  string
}

type Config struct {
	Env           string
	LogLevel      string
	ServerPort    string
	Repositories  RepositoriesConfig
	Session       SessionConfig
	Observability ObservabilityConfig
	BcryptCost    int
	StatsCacheTTL time.Duration
	MaxBodyBytes  int64
}

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

const devSessionSecret = "dev-secret-key-change-me-in-production"

func Load() (*Config, error) {
	cfg := &Config{
		Env:        getEnvOrDefault("APP_ENV", "development"),
		LogLevel:   getEnvOrDefault("LOG_LEVEL", "info"),
		ServerPort: getEnvOrDefault("SERVER_PORT", "8080"),
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "ella_rises_dev"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: int32(getIntOrDefault("POSTGRES_MAX_CONNS", 10)),
				MinConns: int32(getIntOrDefault("POSTGRES_MIN_CONNS", 2)),
			},
			Redis: RedisConfig{
				Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getIntOrDefault("REDIS_DB", 0),
			},
		},
		Session: SessionConfig{
			Name:         getEnvOrDefault("SESSION_NAME", "ella.sid"),
			Secret:       getEnvOrDefault("SESSION_SECRET", ""),
			TTL:          getDurationOrDefault("SESSION_TTL", 24*time.Hour),
			Backend:      strings.ToLower(getEnvOrDefault("SESSION_BACKEND", SessionBackendMemory)),
			CookieSecure: getBoolOrDefault("COOKIE_SECURE", false),
		},
		Observability: ObservabilityConfig{
			MetricsAddr:  getEnvOrDefault("METRICS_ADDR", ":9092"),
			PprofAddr:    os.Getenv("PPROF_ADDR"),
			OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName:  getEnvOrDefault("OTEL_SERVICE_NAME", "ella-rises"),
		},
		BcryptCost:    getIntOrDefault("BCRYPT_COST", 10),
		StatsCacheTTL: getDurationOrDefault("STATS_CACHE_TTL", time.Minute),
		MaxBodyBytes:  int64(getIntOrDefault("MAX_BODY_BYTES", 1<<20)),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	if c.IsProduction() {
		if c.Session.Secret == "" {
			return fmt.Errorf("SESSION_SECRET environment variable is required in production")
		}
		if c.Repositories.Postgres.Password == "" {
			return fmt.Errorf("POSTGRES_PASSWORD environment variable is required in production")
		}
	}
	if c.Session.Secret == "" {
		c.Session.Secret = devSessionSecret
	}
	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.Session.Backend)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
