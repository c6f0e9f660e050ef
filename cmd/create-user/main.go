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
	"event-booking-portal/internal/models"
	"event-booking-portal/internal/repositories"
	"event-booking-portal/internal/services"
	"event-booking-portal/internal/utils"
)

func main() {
	var name, email, password string
	flagSet := pflag.NewFlagSet("create-user", pflag.ContinueOnError)
	flagSet.StringVar(&name, "name", "", "display name")
	flagSet.StringVar(&email, "email", "", "login email")
	flagSet.StringVar(&password, "password", "", "plaintext password (hashed before storage)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewConnection(ctx, cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.RunMigrations(ctx); err != nil {
		logging.Fatal().Err(err).Msg("Failed to run migrations")
	}

	users := repositories.NewUserRepository(db.DB)
	auth := services.NewAuthService(users, utils.NewPasswordHasher(utils.DefaultArgon2Params()))

	user, err := auth.Register(ctx, &models.RegisterRequest{Name: name, Email: email, Password: password})
	switch {
	case errors.Is(err, models.ErrDuplicateEmail):
		fmt.Fprintf(os.Stderr, "A user with email %s already exists\n", email)
		os.Exit(1)
	case errors.Is(err, models.ErrInvalidInput):
		fmt.Fprintln(os.Stderr, err)
		flagSet.PrintDefaults()
		os.Exit(2)
	case err != nil:
		logging.Fatal().Err(err).Msg("Failed to create user")
	}

	fmt.Printf("User created: %s (%s) - ID: %d\n", user.Name, user.Email, user.ID)
	if n, err := users.Count(ctx); err == nil {
		fmt.Printf("Registered users: %d\n", n)
	}
}
