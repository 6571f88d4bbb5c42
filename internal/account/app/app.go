package app

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

	httpapi "github.com/aussiebroadwan/bizdesk/internal/account/http"
	"github.com/aussiebroadwan/bizdesk/internal/account/service"
	"github.com/aussiebroadwan/bizdesk/internal/account/store"
	"github.com/aussiebroadwan/bizdesk/internal/account/store/drivers/sqlite"
	"github.com/aussiebroadwan/bizdesk/internal/identity/local"
	"github.com/aussiebroadwan/bizdesk/pkg/cryptox"
	"github.com/aussiebroadwan/bizdesk/pkg/jwtx"
	"github.com/aussiebroadwan/bizdesk/pkg/slogx"
	"golang.org/x/time/rate"
)

const (
	// BuildVersion is overridden at build time via -ldflags.
	BuildVersion = "v0.1.0"
)

// Application holds the account service and everything it depends on.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	keys     *jwtx.KeySet
	provider *local.Provider

	reconciler          *service.Reconciler
	authService         *service.AuthService
	observer            *service.Observer
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialised.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "bizdesk",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initProvider(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler exposes the router, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("bizdesk starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down bizdesk...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Event streams never finish on their own.
	app.router.CloseStreams()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()
	app.observer.Close()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("bizdesk stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite",
		app.cfg.DatabaseFile,
	)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initProvider() error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}

	signer, keys, err := InitSessionKeys(app.cfg, app.logger)
	if err != nil {
		return err
	}
	app.keys = keys

	app.provider = local.New(
		app.db.Accounts(),
		cryptox.PasswordHasher{Pepper: pepper},
		signer,
		jwtx.NewVerifierEdDSA(keys, app.cfg.Issuer),
		local.Config{
			Issuer:      app.cfg.Issuer,
			SessionTTL:  app.cfg.SessionTTL,
			AutoConfirm: app.cfg.AutoConfirm,
			SignInRate:  rate.Every(app.cfg.SignInEvery),
			SignInBurst: app.cfg.SignInBurst,
		},
		app.logger,
	)

	app.logger.Info("local identity provider ready", "auto_confirm", app.cfg.AutoConfirm, "session_ttl", app.cfg.SessionTTL)
	return nil
}

func (app *Application) initServices() error {
	app.reconciler = &service.Reconciler{
		Provider: app.provider,
		Profiles: app.db.Profiles(),
		Logger:   app.logger,
	}

	app.authService = &service.AuthService{
		Provider:   app.provider,
		Profiles:   app.db.Profiles(),
		Reconciler: app.reconciler,
		Logger:     app.logger,
	}

	app.observer = &service.Observer{
		Provider:   app.provider,
		Reconciler: app.reconciler,
		Logger:     app.logger,
	}
	if err := app.observer.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start session observer: %w", err)
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.UnconfirmedRetention,
	)
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.AuthService = app.authService
	router.Observer = app.observer
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
