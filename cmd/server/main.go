package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/npezzotti/scholarly/internal/api"
	"github.com/npezzotti/scholarly/internal/config"
	"github.com/npezzotti/scholarly/internal/events"
	"github.com/npezzotti/scholarly/internal/registry"
	"github.com/npezzotti/scholarly/internal/stats"
	"github.com/npezzotti/scholarly/internal/store"
)

const defaultSigningKey = "5DUKqmM6HhUO0J3S5wJ7Xy9PzGxWQmE3yT6o7nB6N2s="

type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, strings.Split(value, ",")...)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var (
	addr           string
	dataDir        string
	dsn            string
	signingKey     string
	allowedOrigins stringSliceFlag
)

func main() {
	// optional .env for local development; flags still win
	godotenv.Load()

	flag.StringVar(&addr, "addr", envOr("SCHOLARLY_ADDR", "localhost:8000"), "server address")
	flag.StringVar(&dataDir, "data-dir", envOr("SCHOLARLY_DATA_DIR", "."), "directory holding the snapshot document")
	flag.StringVar(&dsn, "dsn", envOr("SCHOLARLY_DSN", ""), "postgres connection string for the snapshot store (optional)")
	flag.StringVar(&signingKey, "signing-key", envOr("SCHOLARLY_SIGNING_KEY", defaultSigningKey), "base64 encoded signing key")
	flag.Var(&allowedOrigins, "allowed-origins", "comma-separated list of allowed origins for CORS")
	flag.Parse()

	logger := log.New(os.Stderr, "[scholarly] ", log.LstdFlags)

	cfg, err := config.NewConfig(addr, dataDir, dsn, signingKey, allowedOrigins)
	if err != nil {
		logger.Fatal("config:", err)
	}

	var hubStore store.HubStore
	if cfg.DatabaseDSN != "" {
		pgStore, err := store.NewPgHubStore(logger, cfg.DatabaseDSN)
		if err != nil {
			logger.Fatal("open snapshot store:", err)
		}
		defer func() {
			if err := pgStore.Close(); err != nil {
				logger.Println("close snapshot store:", err)
			}
		}()
		hubStore = pgStore
	} else {
		fileStore, err := store.NewFileHubStore(logger, cfg.DataDir)
		if err != nil {
			logger.Fatal("open snapshot store:", err)
		}
		hubStore = fileStore
	}

	reg := registry.NewRegistry(logger, hubStore)

	mux := http.NewServeMux()

	statsUpdater := stats.NewStatsUpdater(mux)
	for _, name := range []string{
		stats.MetricHubsCreated,
		stats.MetricHubsDeleted,
		stats.MetricClassesCreated,
		stats.MetricResourcesPublished,
		stats.MetricResourcesDeleted,
		stats.MetricAuthFailures,
		stats.MetricActiveWatchers,
	} {
		statsUpdater.RegisterMetric(name)
	}

	notifier := events.NewNotifier(logger)

	srv := api.NewScholarlyApp(mux, logger, reg, hubStore, notifier, statsUpdater, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s\n", sig)
	case err := <-errCh:
		logger.Println("server:", err)
	}

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("HTTP server shutdown:", err)
	}

	logger.Println("shutting down watchers...")
	notifier.Shutdown()

	logger.Println("shutdown complete")
}
