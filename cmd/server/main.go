package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/auth"
	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/config"
	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/ops"
	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/queue"
	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/ratelimit"
	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/server"
	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/store"
)

func main() {
	// A .env file is optional; real environment variables win either way.
	_ = godotenv.Load()
	cfg := config.Load()

	st := store.New(cfg.SnapshotPath)
	if err := st.Load(); err != nil {
		log.Fatalf("store: restore snapshot: %v", err)
	}
	adminHash, err := auth.HashPassword(cfg.AdminPass, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}
	st.EnsureAdmin(cfg.AdminUser, adminHash, cfg.AdminEmail)
	if err := st.Save(); err != nil {
		log.Printf("store: initial snapshot write failed: %v", err)
	}

	// Rate limiting engages only when Redis is reachable; otherwise the
	// limiter allows everything.
	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		rdb := config.NewRedisClient(cfg.Redis)
		if rdb == nil {
			log.Printf("ratelimit: redis unreachable, command rate limiting disabled")
		}
		limiter = ratelimit.New(cfg.RateLimit, rdb)
	}

	if cfg.ConsumerEnabled {
		go queue.NewConsumer(queue.BrokerURL(), cfg.BookingLogPath).Run()
	}

	srv := server.New(server.Options{
		Addr:          cfg.ListenAddr,
		Store:         st,
		Limiter:       limiter,
		BcryptCost:    cfg.BcryptCost,
		EventsEnabled: cfg.EventsEnabled,
	})
	if err := srv.Listen(); err != nil {
		log.Fatalf("server: %v", err)
	}

	opsSrv := ops.New(st, srv)
	go func() {
		if err := opsSrv.Start(cfg.OpsAddr); err != nil {
			log.Printf("ops: http server stopped: %v", err)
		}
	}()

	// Shutdown closes the listener and stops accepting; in-flight
	// sessions run until their clients hang up.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("server: received %s, shutting down", sig)
		_ = srv.Close()
	}()

	log.Printf("booking server starting (env=%s, tcp=%s, ops=%s)", cfg.Env, cfg.ListenAddr, cfg.OpsAddr)
	if err := srv.Serve(); err != nil {
		log.Fatalf("server: %v", err)
	}
}
