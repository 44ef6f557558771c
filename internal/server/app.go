// Package server wires the accountd server together: it opens the account
// store, builds the session registry and user service, and runs the HTTP
// endpoint until a stop signal arrives.
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

	"github.com/dmitrijs2005/accountd/internal/cryptox"
	"github.com/dmitrijs2005/accountd/internal/logging"
	"github.com/dmitrijs2005/accountd/internal/server/config"
	"github.com/dmitrijs2005/accountd/internal/server/httpserver"
	"github.com/dmitrijs2005/accountd/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accountd/internal/server/services"
	"github.com/dmitrijs2005/accountd/internal/server/sessions"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	sessions    *sessions.Registry
	userService *services.UserService
}

// NewApp opens the database named by c.DatabaseDSN, migrates it and builds
// the services. Logs go to out as JSON.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSONLogger(out, level)

	hasher, err := cryptox.NewPasswordHasher(c.PasswordHashScheme, c.BcryptCost)
	if err != nil {
		return nil, err
	}

	db, rm, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	reg := sessions.New()
	us := services.NewUserService(db, rm, reg, hasher)

	app := &App{config: c, logger: logger, db: db, sessions: reg, userService: us}
	app.checkStoredDigests(ctx, rm)
	return app, nil
}

// checkStoredDigests warns when existing accounts were hashed with another
// scheme than the configured one: those accounts cannot log in.
func (app *App) checkStoredDigests(ctx context.Context, rm repomanager.RepositoryManager) {
	want := strings.ToLower(strings.TrimSpace(app.config.PasswordHashScheme))

	users, err := rm.Users(app.db).List(ctx)
	if err != nil {
		app.logger.Warn(ctx, "could not inspect stored password digests", "error", err)
		return
	}

	mismatched := map[string]int{}
	for _, u := range users {
		if got := cryptox.DetectScheme(u.PasswordHash); got != "" && got != want {
			mismatched[got]++
		}
	}
	for scheme, n := range mismatched {
		app.logger.Warn(ctx, "stored password digests use a different hash scheme; those accounts cannot log in",
			"configured_scheme", want, "stored_scheme", scheme, "accounts", n)
	}
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpserver.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.config.ShutdownTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a SIGINT/SIGTERM/SIGQUIT arrives,
// then drops every session and closes the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "dsn_dialect", app.dialect(), "hash_scheme", app.config.PasswordHashScheme)

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.shutdown(context.WithoutCancel(ctx))
}

func (app *App) shutdown(ctx context.Context) {
	app.sessions.Clear()
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}

func (app *App) dialect() string {
	if repomanager.IsPostgresDSN(app.config.DatabaseDSN) {
		return "postgres"
	}
	return "sqlite"
}
