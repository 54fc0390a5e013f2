package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/faqbot/internal/infra/config"
)

// Runner is a background task that lives as long as the server.
type Runner interface {
	Run(ctx context.Context) error
}

// App encapsulates the HTTP server lifecycle and its background tasks.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	server  *http.Server
	runners []Runner
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, runners []Runner) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, runners: runners}
}

// Run starts the HTTP server and background runners, and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1+len(a.runners))

	for _, runner := range a.runners {
		go func(r Runner) {
			if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("background runner stopped", "error", err)
				errCh <- err
			}
		}(runner)
	}

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
		return a.shutdown()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		if shutdownErr := a.shutdown(); shutdownErr != nil {
			a.logger.Error("shutdown failed", "error", shutdownErr)
		}
		return err
	}
}

func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.server.Shutdown(shutdownCtx)
}
