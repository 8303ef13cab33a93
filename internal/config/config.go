// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env    string // APP_ENV (dev, test, prod)
	Port   string // APP_PORT
	Driver string // STORE_DRIVER

	DBUser    string
	DBPass    string
	DBHost    string
	DBPort    string
	DBName    string
	DBMigrate bool // apply the embedded schema at startup

	LogLevel  string
	LogFormat string // json or console

	Events    EventsConfig
	Redis     RedisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// EventsConfig controls the activity event publisher and the optional
// in-process consumer.
type EventsConfig struct {
	Enabled  bool
	URL      string
	Queue    string
	Consumer bool
	LogDir   string
}

// LoadDotEnv loads variables from the given files (default .env) without
// overriding the ones already set.  A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

// Load reads configuration values from the environment.  Variables
// required by the selected store driver must be set; every other value
// falls back to a default.
func Load() (Config, error) {
	cfg := Config{
		Env:       envStr("APP_ENV", "dev"),
		Port:      envStr("APP_PORT", "8080"),
		Driver:    strings.ToLower(envStr("STORE_DRIVER", DriverMySQL)),
		DBUser:    os.Getenv("DB_USER"),
		DBPass:    os.Getenv("DB_PASS"),
		DBHost:    envStr("DB_HOST", "127.0.0.1"),
		DBPort:    envStr("DB_PORT", "3306"),
		DBName:    os.Getenv("DB_NAME"),
		DBMigrate: envBool("DB_MIGRATE", true),
		LogLevel:  envStr("LOG_LEVEL", "info"),
		LogFormat: envStr("LOG_FORMAT", "json"),
		Events:    LoadEventsConfig(),
		Redis:     LoadRedisConfig(),
		Cache:     LoadCacheConfig(),
		RateLimit: LoadRateLimitConfig(),
	}

	var errs []error
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		errs = append(errs, fmt.Errorf("invalid APP_PORT %q", cfg.Port))
	}
	switch cfg.Driver {
	case DriverMemory:
	case DriverMySQL:
		for key, v := range map[string]string{"DB_USER": cfg.DBUser, "DB_NAME": cfg.DBName} {
			if v == "" {
				errs = append(errs, fmt.Errorf("missing required env var: %s", key))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Driver))
	}
	if cfg.Events.Enabled && cfg.Events.URL == "" {
		errs = append(errs, errors.New("EVENTS_ENABLED requires RABBITMQ_URL"))
	}
	return cfg, errors.Join(errs...)
}

// LoadEventsConfig reads the RabbitMQ settings.  RABBITMQ_URL wins over
// AMQP_URL when both are set.
func LoadEventsConfig() EventsConfig {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	return EventsConfig{
		Enabled:  envBool("EVENTS_ENABLED", false),
		URL:      url,
		Queue:    envStr("EVENTS_QUEUE", "directory.activity"),
		Consumer: envBool("EVENTS_CONSUMER", false),
		LogDir:   envStr("EVENTS_LOG_DIR", "logs"),
	}
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// SafeURL is URL with any credentials masked, for logging.
func (e EventsConfig) SafeURL() string {
	if i := strings.LastIndex(e.URL, "@"); i >= 0 {
		scheme := ""
		if j := strings.Index(e.URL, "://"); j >= 0 && j < i {
			scheme = e.URL[:j+3]
		}
		return scheme + "***@" + e.URL[i+1:]
	}
	return e.URL
}
