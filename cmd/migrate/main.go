package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"event-booking-portal/internal/config"
	"event-booking-portal/internal/database"
	"event-booking-portal/internal/logging"
)

func main() {
	var (
		statusFlag bool
		upFlag     bool
	)
	flagSet := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	flagSet.BoolVar(&statusFlag, "status", false, "show migration status")
	flagSet.BoolVar(&upFlag, "up", false, "run pending migrations")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if !statusFlag && !upFlag {
		fmt.Println("Usage:")
		fmt.Println("  migrate --status   # Show migration status")
		fmt.Println("  migrate --up       # Run pending migrations")
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load config")
	}
	if err := logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}); err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialise logging")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.NewConnection(ctx, cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if upFlag {
		if err := db.RunMigrations(ctx); err != nil {
			logging.Fatal().Err(err).Msg("Failed to run migrations")
		}
		fmt.Println("All migrations completed successfully")
	}

	if statusFlag {
		states, err := db.MigrationStatus(ctx)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to get migration status")
		}
		fmt.Printf("%-8s %-40s %s\n", "VERSION", "NAME", "STATUS")
		for _, s := range states {
			status := "pending"
			if s.Applied {
				status = "applied"
			}
			fmt.Printf("%-8d %-40s %s\n", s.Version, s.Name, status)
		}
	}
}
