package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"event-booking-portal/internal/config"
	"event-booking-portal/internal/database"
	"event-booking-portal/internal/logging"
	"event-booking-portal/internal/repositories"
	"event-booking-portal/internal/server"
	"event-booking-portal/internal/services"
	"event-booking-portal/internal/session"
	"event-booking-portal/internal/utils"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("user-service exited")
		_ = logging.Close()
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  string
		skipMigrate bool
	)
	flagSet := pflag.NewFlagSet("user-service", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to a YAML config file (overrides CONFIG_PATH)")
	flagSet.BoolVar(&skipMigrate, "skip-migrations", false, "do not apply schema migrations on startup")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if configPath != "" {
		os.Setenv(config.ConfigPathEnvVar, configPath)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}); err != nil {
		return fmt.Errorf("failed to initialise logging: %w", err)
	}
	defer logging.Close()

	if cfg.Session.Secret == config.DefaultSessionSecret {
		logging.Warn().Msg("SESSION_SECRET is the built-in placeholder; set it before deploying")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	users, closeStore, err := openUserStore(ctx, cfg, !skipMigrate)
	if err != nil {
		return err
	}
	defer closeStore()

	if n, err := users.Count(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to count registered users")
	} else {
		logging.Info().Int("users", n).Str("credential_store", cfg.Database.CredentialStore).Msg("Credential store ready")
	}

	sessions, err := session.NewGorillaStore(session.Options{
		Secret:  cfg.Session.Secret,
		Backend: cfg.Session.Backend,
		Dir:     cfg.Session.Dir,
		MaxAge:  cfg.Session.MaxAge,
		Secure:  cfg.Session.Secure,
	})
	if err != nil {
		return fmt.Errorf("failed to create session store: %w", err)
	}

	router := server.NewRouter(server.Dependencies{
		Auth: services.NewAuthService(users, utils.NewPasswordHasher(utils.DefaultArgon2Params())),
		Events: services.NewEventClient(services.EventClientConfig{
			URL:             cfg.Services.EventsURL,
			Timeout:         cfg.Services.EventsTimeout,
			BreakerFailures: cfg.Services.BreakerFailures,
			BreakerCooldown: cfg.Services.BreakerCooldown,
		}),
		Booking:     services.NewBookingClient(cfg.Services.BookingURL, cfg.Services.BookingTimeout),
		Sessions:    sessions,
		CORSOrigins: cfg.CORS.Origins,
		StaticDir:   cfg.Server.StaticDir,
	})
	srv := server.New(cfg, router)

	serveErr := make(chan error, 1)
	go func() {
		logging.Info().
			Str("addr", srv.Addr).
			Str("env", cfg.Server.Env).
			Str("credential_store", cfg.Database.CredentialStore).
			Str("event_service", cfg.Services.EventsURL).
			Str("booking_service", cfg.Services.BookingURL).
			Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logging.Info().Msg("Server stopped")
	return nil
}

// userStore is a credential store that can also report its size.
type userStore interface {
	services.UserRepository
	Count(ctx context.Context) (int, error)
}

// openUserStore returns the configured credential store and its cleanup.
func openUserStore(ctx context.Context, cfg *config.Config, migrate bool) (userStore, func(), error) {
	if cfg.Database.CredentialStore == "memory" {
		logging.Warn().Msg("Using in-memory credential store; accounts are lost on restart")
		return repositories.NewMemoryUserRepository(), func() {}, nil
	}

	db, err := database.NewConnection(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logging.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.DBName).Msg("Database connection established")

	if migrate {
		if err := db.RunMigrations(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return repositories.NewUserRepository(db.DB), func() { db.Close() }, nil
}
