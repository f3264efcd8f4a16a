package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"LISTEN_ADDR", "OPS_ADDR", "SNAPSHOT_PATH", "BOOKING_LOG_PATH",
		"REDIS_ADDR", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD",
		"REDIS_DB", "REDIS_TLS", "REDIS_TLS_SKIP_VERIFY",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.ListenAddr != ":4242" || cfg.OpsAddr != ":8080" {
		t.Fatalf("unexpected default addresses: %q %q", cfg.ListenAddr, cfg.OpsAddr)
	}
	if cfg.SnapshotPath != "data/store.json" {
		t.Fatalf("unexpected default snapshot path: %q", cfg.SnapshotPath)
	}
	if cfg.BookingLogPath != "logs/booking.log" {
		t.Fatalf("unexpected default booking log path: %q", cfg.BookingLogPath)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.DB != 0 {
		t.Fatalf("unexpected default redis config: %+v", cfg.Redis)
	}
	if cfg.Redis.TLS || cfg.Redis.TLSSkipVerify {
		t.Fatalf("expected TLS off and verification on by default, got %+v", cfg.Redis)
	}
}

func TestLoadRedisHostPortWinsOverAddr(t *testing.T) {
	t.Setenv("REDIS_ADDR", "addr-host:1111")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_PASSWORD", "hunter2")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("REDIS_TLS_SKIP_VERIFY", "")

	cfg := Load()
	if cfg.Redis.Addr != "cache.internal:6380" {
		t.Fatalf("expected host/port to win, got %q", cfg.Redis.Addr)
	}
	if cfg.Redis.Password != "hunter2" || cfg.Redis.DB != 3 {
		t.Fatalf("unexpected redis config: %+v", cfg.Redis)
	}
	if !cfg.Redis.TLS || cfg.Redis.TLSSkipVerify {
		t.Fatalf("expected TLS on with verification, got %+v", cfg.Redis)
	}
}

func TestLoadRateLimitClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-2")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := Load()
	if cfg.RateLimit.Capacity != 1 || cfg.RateLimit.RefillTokens != 1 {
		t.Fatalf("expected capacity and refill clamped to 1, got %+v", cfg.RateLimit)
	}
	if cfg.RateLimit.TTL != 10*time.Second {
		t.Fatalf("expected TTL raised to 5x the refill interval, got %v", cfg.RateLimit.TTL)
	}
}
