// Package main User Accounts API
//
// @title           User Accounts API
// @version         1.0
// @description     API для регистрации, входа и просмотра учётных записей пользователей

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:3000
// @BasePath  /
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/magabrotheeeer/user-accounts/docs"
	"github.com/magabrotheeeer/user-accounts/internal/app/useraccounts"
	"github.com/magabrotheeeer/user-accounts/internal/config"
	"github.com/magabrotheeeer/user-accounts/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.SetupLogger(cfg.Env)

	logger.Info("starting user-accounts", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := useraccounts.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("user-accounts stopped gracefully")
}
