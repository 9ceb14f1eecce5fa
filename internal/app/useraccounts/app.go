package useraccounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/user-accounts/internal/cache"
	"github.com/magabrotheeeer/user-accounts/internal/config"
	"github.com/magabrotheeeer/user-accounts/internal/events"
	"github.com/magabrotheeeer/user-accounts/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-accounts/internal/lib/password"
	"github.com/magabrotheeeer/user-accounts/internal/lib/sl"
	"github.com/magabrotheeeer/user-accounts/internal/migrations"
	userservice "github.com/magabrotheeeer/user-accounts/internal/services/users"
	"github.com/magabrotheeeer/user-accounts/internal/storage"
)

type App struct {
	server          *http.Server
	logger          *slog.Logger
	shutdownTimeout time.Duration
	closers         []func() error
}

// New поднимает зависимости в порядке: база, миграции, кэш, издатель событий.
// Кэш и издатель подключаются, только если заданы в конфиге.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.useraccounts.New"

	app := &App{
		logger:          logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app.closers = append(app.closers, db.Close)

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var opts []userservice.Option

	if cfg.CacheEnabled() {
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.closers = append(app.closers, cacheRedis.Close)
		opts = append(opts, userservice.WithCache(cacheRedis))
		logger.Info("user cache enabled", slog.String("address", cfg.AddressRedis))
	}

	if cfg.EventsEnabled() {
		publisher, err := events.NewPublisher(cfg.RabbitMQ)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.closers = append(app.closers, publisher.Close)
		opts = append(opts, userservice.WithPublisher(publisher))
		logger.Info("registration events enabled", slog.String("exchange", cfg.Exchange))
	}

	userService := userservice.New(db, password.New(), logger, opts...)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, userService, middlewarectx.NewMetrics(prometheus.DefaultRegisterer))

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return app, nil
}

// Run обслуживает HTTP до отмены ctx, затем корректно останавливает сервер
// и закрывает зависимости.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

// close освобождает зависимости в обратном порядке.
func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("failed to close dependency", sl.Err(err))
		}
	}
	a.closers = nil
}
