package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"route-optimizer-service/internal/adapters/cache"
	"route-optimizer-service/internal/adapters/memory"
	"route-optimizer-service/internal/adapters/repositories"
	"route-optimizer-service/internal/adapters/seed"
	"route-optimizer-service/internal/api"
	"route-optimizer-service/internal/config"
	"route-optimizer-service/internal/logging"
	"route-optimizer-service/internal/platform/db"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (Postgres or memory, Redis) behind ports and starts the HTTP server.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Info("no .env file found, using environment variables")
	}

	if err := run(cfg, logger); err != nil {
		logging.LogError(logger, "server stopped", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := api.Deps{AverageSpeedKmh: cfg.AverageSpeedKmh, Logger: logger}

	var (
		locations ports.LocationSource
		routes    ports.RouteStore
	)

	switch cfg.Store {
	case config.StorePostgres:
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := repositories.Migrate(conn); err != nil {
			return err
		}

		locations = repositories.NewPostgresLocationSource(conn)
		routes = repositories.NewPostgresRouteStore(conn)
		deps.DB = conn
	case config.StoreMemory:
		f, err := seed.Load(cfg.SeedPath)
		if err != nil {
			return err
		}
		store := memory.NewStoreFromSeed(f)
		locations, routes = store, store
		logger.Info("using in-memory store", slog.String("seed_path", cfg.SeedPath))
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			logging.LogError(logger, "redis unreachable, location cache will fall through", err)
		}
		locations = cache.NewLocationCache(locations, client, cfg.LocationCacheTTL)
	}

	seqCfg := services.DefaultSequencerConfig()
	seqCfg.AverageSpeedKmh = cfg.AverageSpeedKmh
	seqCfg.FuelPricePerLiter = cfg.FuelPricePerLiter

	sequencer, err := services.NewSequencer(cfg.Sequencer, seqCfg)
	if err != nil {
		return err
	}

	deps.Routes = services.NewRouteOptimizer(locations, routes, sequencer, services.OptimizerConfig{
		TimeZone:          cfg.TimeZone,
		DefaultStartClock: cfg.DefaultStartClock,
		ShiftHours:        cfg.ShiftHours,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			slog.String("addr", srv.Addr),
			slog.String("store", cfg.Store),
			slog.String("sequencer", sequencer.Name()),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
