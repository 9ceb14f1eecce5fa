// Package list реализует HTTP-обработчик получения списка пользователей.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-accounts/internal/http/response"
	"github.com/magabrotheeeer/user-accounts/internal/lib/sl"
	"github.com/magabrotheeeer/user-accounts/internal/models"
)

// Service описывает бизнес-логику получения списка пользователей.
type Service interface {
	GetAllUsers(ctx context.Context) ([]*models.User, error)
}

type Handler struct {
	log   *slog.Logger
	users Service
}

func New(log *slog.Logger, users Service) *Handler {
	return &Handler{
		log:   log,
		users: users,
	}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает всех пользователей в порядке создания.
// @Tags Users
// @Produce  json
// @Success 200 {array} models.PublicUser
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.users.GetAllUsers(r.Context())
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		status, body := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Debug("users listed", slog.Int("count", len(users)))
	render.Status(r, http.StatusOK)
	render.JSON(w, r, models.PublicUsers(users))
}
