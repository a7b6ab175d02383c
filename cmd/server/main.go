package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "passvault/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"passvault/internal/auth"
	"passvault/internal/breach"
	"passvault/internal/cache"
	"passvault/internal/config"
	"passvault/internal/db"
	"passvault/internal/handler"
	"passvault/internal/logging"
	"passvault/internal/repository"
	"passvault/internal/router"
	"passvault/internal/service"
	"passvault/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

// @title Password Vault API
// @version 1.0
// @description Password manager backend: accounts, saved credentials, password generation and breach checks.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := run(); err != nil {
		logging.New(os.Stderr, "error").Error(context.Background(), "server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logging.New(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn(sctx, "tracing shutdown", "error", err)
		}
	}()

	userRepo, err := openStore(ctx, log, cfg.StoreDSN)
	if err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if cacheClient != nil {
		if err := cacheClient.Ping(ctx); err != nil {
			log.Warn(ctx, "redis unreachable, continuing without cache", "addr", cfg.RedisAddr, "error", err)
		}
	}

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, jwtService, cfg.MinPasswordEntropy)
	entryService := service.NewEntryService(userRepo, cacheClient)
	passwordService := service.NewPasswordService(breach.NewClient(cfg.BreachAPIURL, cfg.BreachTimeout, log))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(
		e,
		log,
		authService,
		handler.NewAuthHandler(authService, log),
		handler.NewEntryHandler(entryService, log),
		handler.NewPasswordHandler(passwordService, log),
	)

	log.Info(ctx, "swagger documentation available", "url", swaggerURL(cfg.SwaggerHost, cfg.Port))

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info(ctx, "server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}

// openStore picks the user store from the DSN and prepares its schema.
func openStore(ctx context.Context, log logging.Logger, dsn string) (repository.UserRepository, error) {
	if db.IsMemory(dsn) {
		log.Warn(ctx, "using in-memory store, data is lost on restart")
		return repository.NewMemoryUserRepository(), nil
	}

	gormDB, err := db.Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(gormDB); err != nil {
		return nil, err
	}
	return repository.NewUserRepository(gormDB), nil
}

func swaggerURL(host, port string) string {
	switch {
	case host == "":
		return "http://localhost:" + port + "/swagger/index.html"
	case strings.HasPrefix(host, "http://"), strings.HasPrefix(host, "https://"):
		return host + "/swagger/index.html"
	default:
		return "http://" + host + "/swagger/index.html"
	}
}
