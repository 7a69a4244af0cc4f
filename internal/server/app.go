// Package server assembles the identity service: it opens the database,
// applies migrations, builds the cipher, hasher and services in dependency
// order, and runs the HTTP API and gRPC health endpoint until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/piiguard/internal/cryptox"
	"github.com/dmitrijs2005/piiguard/internal/filex"
	"github.com/dmitrijs2005/piiguard/internal/logging"
	"github.com/dmitrijs2005/piiguard/internal/server/config"
	"github.com/dmitrijs2005/piiguard/internal/server/httpapi"
	"github.com/dmitrijs2005/piiguard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/piiguard/internal/server/services"

	gs "github.com/dmitrijs2005/piiguard/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	authService *services.AuthService
}

// NewApp wires every component from c. Logs go to stdout.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	logger := logging.New(logOut, c.LogLevel, c.LogFormat)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	rm, err := repomanager.New(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := openDB(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	cipher, err := cryptox.NewCipher(c.CryptoSecret)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	hasher := cryptox.NewPasswordHasher(c.PasswordHashCost)
	if hasher.Cost() != c.PasswordHashCost {
		logger.Warn(ctx, "password hash cost out of range, using default",
			"configured", c.PasswordHashCost, "cost", hasher.Cost())
	}

	us := services.NewUserService(db, rm, cipher, hasher, logger)
	as := services.NewAuthService(db, rm, cipher, hasher, c.JWTSecret, logger)

	return &App{config: c, logger: logger, db: db, userService: us, authService: as}, nil
}

func openDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == config.DriverSQLite {
		// Every connection to ":memory:" gets its own empty database.
		if strings.Contains(dsn, ":memory:") {
			db.SetMaxOpenConns(1)
		} else if path := sqliteFilePath(dsn); path != "" {
			if _, err := filex.EnsureParentDir(path); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// sqliteFilePath extracts the file path from a SQLite DSN such as
// "data/piiguard.db" or "file:data/piiguard.db?_pragma=busy_timeout(5000)".
func sqliteFilePath(dsn string) string {
	path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	return path
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := httpapi.NewRouter(app.userService, app.authService, app.db, app.logger)
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, router, app.config.ShutdownTimeout, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db, app.config.HealthCheckInterval)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err)
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives or either
// server fails, then closes the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "driver", app.config.DatabaseDriver)

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.EndpointAddrGRPC != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "closing database", "error", err)
	}

	app.logger.Info(context.Background(), "App stopped")
}
