// Package useraccounts собирает HTTP-приложение сервиса учётных записей.
package useraccounts

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/user-accounts/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/user-accounts/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/user-accounts/internal/http/handlers/health"
	"github.com/magabrotheeeer/user-accounts/internal/http/handlers/users/list"
	"github.com/magabrotheeeer/user-accounts/internal/http/handlers/users/read"
	"github.com/magabrotheeeer/user-accounts/internal/http/middlewarectx"
)

// UserService объединяет бизнес-логику, которой пользуются обработчики.
type UserService interface {
	register.Service
	login.Service
	list.Service
	read.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, users UserService, metrics *middlewarectx.Metrics) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		metrics.Middleware,
	)

	r.Get("/", health.New(logger).ServeHTTP)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", register.New(logger, users).ServeHTTP)
		r.Post("/login", login.New(logger, users).ServeHTTP)
		r.Get("/", list.New(logger, users).ServeHTTP)
		r.Get("/{id}", read.New(logger, users).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
