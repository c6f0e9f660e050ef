// Command booking-service loads and validates the booking-service
// configuration and prints it with secrets redacted. With --check it also
// verifies that the booking database is reachable.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"

	"event-booking-portal/internal/config"
	"event-booking-portal/internal/logging"
)

func main() {
	var check bool
	flagSet := pflag.NewFlagSet("booking-service", pflag.ContinueOnError)
	flagSet.BoolVar(&check, "check", false, "ping the booking database and exit non-zero on failure")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.LoadBookingService()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load booking-service configuration")
	}
	if err := logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}); err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialise logging")
	}
	defer logging.Close()

	if cfg.SecretKey == config.DefaultSecretKey {
		logging.Warn().Msg("SECRET_KEY is the built-in placeholder; set it before deploying")
	}

	out, err := json.MarshalIndent(cfg.Redacted(), "", "  ")
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to encode configuration")
	}
	fmt.Println(string(out))

	if !check {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pingDatabase(ctx, cfg.DatabaseURL); err != nil {
		logging.Error().Err(err).Str("database", cfg.Redacted().DatabaseURL).Msg("Booking database check failed")
		cancel()
		_ = logging.Close()
		os.Exit(1)
	}
	logging.Info().Str("database", cfg.Redacted().DatabaseURL).Msg("Booking database reachable")
}

func pingDatabase(ctx context.Context, dsn string) error {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("failed to parse database url: %w", err)
	}
	poolCfg.MaxConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
