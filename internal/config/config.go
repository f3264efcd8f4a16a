// Package config loads runtime configuration from environment variables.
// Every knob has a default that works for a single local binary, so a
// bare `server` starts without any environment at all; a .env file (read
// by the caller via godotenv) or real environment variables override.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Strings for addresses
// and credentials, ints and durations for tunables.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	ListenAddr   string // TCP address for the booking protocol listener
	OpsAddr      string // HTTP address for health/stats endpoints
	SnapshotPath string // path of the store snapshot file

	BcryptCost int // bcrypt cost for password hashing

	AdminUser  string // bootstrap administrator username
	AdminPass  string // bootstrap administrator password
	AdminEmail string // bootstrap administrator email

	EventsEnabled   bool   // publish booking events to the message broker
	ConsumerEnabled bool   // run the booking-log consumer in this process
	BookingLogPath  string // file the booking-log consumer appends to

	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// RedisConfig carries the connection parameters for the rate limiter's
// Redis backend. Addr is either REDIS_ADDR or REDIS_HOST:REDIS_PORT, with
// host/port winning when both are set.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	TLS           bool
	TLSSkipVerify bool // skip certificate verification; off unless asked for
}

// RateLimitConfig tunes the per-session command limiter. The limiter only
// engages when Enabled is true and a Redis server is reachable; otherwise
// every command is allowed.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

// Load reads the environment and returns a fully-populated Config.
func Load() Config {
	cfg := Config{
		Env:          getenv("APP_ENV", "dev"),
		ListenAddr:   getenv("LISTEN_ADDR", ":4242"),
		OpsAddr:      getenv("OPS_ADDR", ":8080"),
		SnapshotPath: getenv("SNAPSHOT_PATH", "data/store.json"),

		BcryptCost: envInt("BCRYPT_COST", 10),

		AdminUser:  getenv("ADMIN_USER", "admin"),
		AdminPass:  getenv("ADMIN_PASS", "admin123"),
		AdminEmail: getenv("ADMIN_EMAIL", "admin@cinema.local"),

		EventsEnabled:   envBool("EVENTS_ENABLED", false),
		ConsumerEnabled: envBool("EVENTS_CONSUMER_ENABLED", false),
		BookingLogPath:  getenv("BOOKING_LOG_PATH", "logs/booking.log"),

		Redis: RedisConfig{
			Addr:          getenv("REDIS_ADDR", "localhost:6379"),
			Password:      os.Getenv("REDIS_PASSWORD"),
			DB:            envInt("REDIS_DB", 0),
			TLS:           envBool("REDIS_TLS", false),
			TLSSkipVerify: envBool("REDIS_TLS_SKIP_VERIFY", false),
		},

		RateLimit: RateLimitConfig{
			Enabled:        envBool("RATE_LIMIT_ENABLED", false),
			Capacity:       envInt("RATE_LIMIT_CAPACITY", 30),
			RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
			RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
			TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
			Prefix:         getenv("RATE_LIMIT_PREFIX", "rl"),
		},
	}
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		cfg.Redis.Addr = host + ":" + port
	}
	if cfg.RateLimit.Capacity < 1 {
		cfg.RateLimit.Capacity = 1
	}
	if cfg.RateLimit.RefillTokens < 1 {
		cfg.RateLimit.RefillTokens = 1
	}
	if cfg.RateLimit.RefillInterval <= 0 {
		cfg.RateLimit.RefillInterval = time.Second
	}
	if minTTL := 5 * cfg.RateLimit.RefillInterval; cfg.RateLimit.TTL < minTTL {
		cfg.RateLimit.TTL = minTTL
	}
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}
