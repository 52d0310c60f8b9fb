// Package mockapi runs an in-memory stand-in for the public burger API, for
// local development of the client. Its wire format follows the public
// service; its data lives only as long as the process.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/stellarburgers/internal/logging"
	"github.com/dmitrijs2005/stellarburgers/internal/mockapi/config"
	"github.com/dmitrijs2005/stellarburgers/internal/mockapi/handler"
	"github.com/dmitrijs2005/stellarburgers/internal/mockapi/kitchen"
	"github.com/dmitrijs2005/stellarburgers/internal/mockapi/users"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	server *http.Server
}

func NewApp(c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, err
	}

	us := users.NewService(users.Settings{
		SecretKey:       []byte(c.SecretKey),
		AccessTokenTTL:  c.AccessTokenTTL,
		RefreshTokenTTL: c.RefreshTokenTTL,
	})
	k := kitchen.New(kitchen.DefaultCatalogue(), c.FirstOrderNumber, kitchen.WithCookTime(c.CookTime))
	h := handler.New(us, k, []byte(c.SecretKey), logger)

	return &App{
		config: c,
		logger: logger,
		server: &http.Server{Addr: c.Addr, Handler: h.Router(), ReadHeaderTimeout: 5 * time.Second},
	}, nil
}

// Run serves on the configured address until ctx is cancelled, then shuts
// the server down gracefully.
func (app *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", app.config.Addr, err)
	}
	return app.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (app *App) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info(ctx, "serving burger API", "addr", ln.Addr().String(), "base_url", "http://"+ln.Addr().String()+"/api")
		if err := app.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		app.logger.Info(context.Background(), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
