package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"

	"passvault/internal/auth"
	"passvault/internal/config"
	"passvault/internal/db"
	apperrors "passvault/internal/errors"
	"passvault/internal/logging"
	"passvault/internal/repository"
	"passvault/internal/service"
)

// seedOptions describes the demo account created by the seed script.
type seedOptions struct {
	Email    string `env:"SEED_EMAIL" envDefault:"demo@passvault.local"`
	Password string `env:"SEED_PASSWORD" envDefault:"demo-password"`
}

// demoEntries are saved with freshly generated passwords.
var demoEntries = []struct {
	AppName, Username, Category string
}{
	{"github", "demo", "dev"},
	{"gmail", "demo@gmail.com", "email"},
	{"bank", "demo-customer", "finance"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	if err := seed(ctx, log, cfg); err != nil {
		log.Error(ctx, "seed failed", "error", err)
		os.Exit(1)
	}
}

func seed(ctx context.Context, log logging.Logger, cfg *config.Config) error {
	var opts seedOptions
	if err := env.Parse(&opts); err != nil {
		return fmt.Errorf("parse seed env: %w", err)
	}
	if db.IsMemory(cfg.StoreDSN) {
		return errors.New("seeding an in-memory store has no effect; set STORE_DSN to a database")
	}

	gormDB, err := db.Open(cfg.StoreDSN)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	log.Info(ctx, "connected to store")

	repo := repository.NewUserRepository(gormDB)
	authService := service.NewAuthService(repo, auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL), 0)
	entryService := service.NewEntryService(repo, nil)

	user, err := authService.Register(ctx, opts.Email, opts.Password)
	if errors.Is(err, apperrors.ErrEmailTaken) {
		log.Info(ctx, "demo user already exists, nothing to do", "email", opts.Email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("register demo user: %w", err)
	}

	for _, d := range demoEntries {
		pw, err := service.GeneratePassword(service.DefaultLength)
		if err != nil {
			return fmt.Errorf("generate password: %w", err)
		}
		if _, err := entryService.AddEntry(ctx, user.ID, d.AppName, d.Username, pw, d.Category); err != nil {
			return fmt.Errorf("add entry %s: %w", d.AppName, err)
		}
	}

	log.Info(ctx, "seed completed", "email", opts.Email, "entries", len(demoEntries))
	return nil
}
