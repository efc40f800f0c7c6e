// Package config builds runtime configuration from the environment so main
// stays lean. Every knob has a development-friendly default; production
// deployments override through NGX_* variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full runtime configuration.
type Config struct {
	Addr        string
	Env         string
	LogLevel    string
	LogFormat   string
	DatabaseURL string
	Redis       RedisConfig
	Kafka       KafkaConfig

	// AdminJWTKey signs and verifies tokens for the admin endpoints.
	AdminJWTKey string

	ShutdownTimeout time.Duration
}

// RedisConfig configures the read-through client cache. An empty URL disables
// caching entirely.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	TTL          time.Duration
}

// KafkaConfig configures the event publisher. Empty brokers fall back to the
// in-process publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// IsProduction reports whether the service runs with production hardening.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// FromEnv reads configuration from NGX_* environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:            getenv("NGX_ADDR", ":8080"),
		Env:             getenv("NGX_ENV", "development"),
		LogLevel:        getenv("NGX_LOG_LEVEL", "info"),
		LogFormat:       getenv("NGX_LOG_FORMAT", "json"),
		DatabaseURL:     os.Getenv("NGX_DATABASE_URL"),
		AdminJWTKey:     getenv("NGX_ADMIN_JWT_KEY", "dev-secret-key-change-in-production"),
		ShutdownTimeout: getduration("NGX_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	cfg.Redis = RedisConfig{
		URL:          os.Getenv("NGX_REDIS_URL"),
		PoolSize:     getint("NGX_REDIS_POOL_SIZE", 10),
		MinIdleConns: getint("NGX_REDIS_MIN_IDLE_CONNS", 2),
		DialTimeout:  getduration("NGX_REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  getduration("NGX_REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: getduration("NGX_REDIS_WRITE_TIMEOUT", 3*time.Second),
		TTL:          getduration("NGX_REDIS_TTL", 5*time.Minute),
	}

	if brokers := os.Getenv("NGX_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.Kafka.Brokers = append(cfg.Kafka.Brokers, b)
			}
		}
	}
	cfg.Kafka.Topic = getenv("NGX_KAFKA_TOPIC", "ngx.client-events")

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
