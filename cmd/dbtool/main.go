package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"strings"

	"route-optimizer-service/internal/adapters/repositories"
	"route-optimizer-service/internal/adapters/seed"
	"route-optimizer-service/internal/config"
	"route-optimizer-service/internal/logging"
	"route-optimizer-service/internal/platform/db"

	"github.com/joho/godotenv"
)

// dbtool applies migrations and, unless -migrate-only is set, loads the seed file.
func main() {
	migrateOnly := flag.Bool("migrate-only", false, "apply migrations without seeding")
	flag.Parse()

	logger := logging.NewStructuredLogger(os.Stdout, logging.ParseLevel(config.Get("LOG_LEVEL", "info")))

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		logging.LogError(logger, "open database failed", err)
		os.Exit(1)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/dispatch.json")
	if err := initAndSeed(ctx, logger, conn, seedPath, *migrateOnly); err != nil {
		logging.LogError(logger, "dbtool failed", err)
		conn.Close()
		os.Exit(1)
	}
}

func initAndSeed(ctx context.Context, logger *slog.Logger, conn *sql.DB, seedPath string, migrateOnly bool) error {
	logger.Info("applying migrations")
	if err := repositories.Migrate(conn); err != nil {
		return err
	}
	logger.Info("schema ready")

	if migrateOnly {
		return nil
	}

	f, err := seed.Load(seedPath)
	if err != nil {
		return err
	}

	logger.Info("seeding database", slog.String("seed_path", seedPath))
	if err := repositories.SeedFromFile(ctx, conn, f); err != nil {
		return err
	}
	logger.Info("seeding complete", slog.Int("tenants", len(f.Tenants)))

	return nil
}
