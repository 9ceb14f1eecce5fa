// Package read реализует HTTP-обработчик получения пользователя по ID.
//
// ID берётся из URL-параметра {id}. Некорректный UUID обрабатывается так же,
// как отсутствующий пользователь.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-accounts/internal/http/response"
	"github.com/magabrotheeeer/user-accounts/internal/lib/sl"
	"github.com/magabrotheeeer/user-accounts/internal/models"
)

// Service описывает бизнес-логику чтения пользователя.
type Service interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Handler обрабатывает GET /auth/{id}.
type Handler struct {
	log   *slog.Logger
	users Service
}

// New создает Handler.
func New(log *slog.Logger, users Service) *Handler {
	return &Handler{
		log:   log,
		users: users,
	}
}

// ServeHTTP godoc
// @Summary Пользователь по ID
// @Tags Users
// @Produce  json
// @Param id path string true "ID пользователя (UUID)"
// @Success 200 {object} models.PublicUser
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.read"

	id := chi.URLParam(r, "id")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("user_id", id),
	)

	user, err := h.users.GetUserByID(r.Context(), id)
	if err != nil {
		status, body := response.FromError(err)
		if status == http.StatusInternalServerError {
			log.Error("failed to read user", sl.Err(err))
		} else {
			log.Info("user not found", sl.Err(err))
		}
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, user.Public())
}
