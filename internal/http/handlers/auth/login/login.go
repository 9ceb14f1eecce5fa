// Package login реализует HTTP-обработчик входа пользователя.
//
// Токены и сессии не выдаются: при успехе возвращается публичное
// представление пользователя без хэша пароля.
package login

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-accounts/internal/http/request"
	"github.com/magabrotheeeer/user-accounts/internal/http/response"
	"github.com/magabrotheeeer/user-accounts/internal/lib/sl"
	"github.com/magabrotheeeer/user-accounts/internal/lib/validate"
)

// Request содержит учётные данные для входа. Правила те же, что и при регистрации.
type Request struct {
	Email    string `json:"email" validate:"required,email" example:"john@example.com"`
	Password string `json:"password" validate:"required,min=8,max=30,has_lower,has_upper,has_digit,has_special" example:"Passw0rd!"`
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log      *slog.Logger
	users    Service
	validate *validate.Validator
}

// New создает Handler.
func New(log *slog.Logger, users Service) *Handler {
	return &Handler{
		log:      log,
		users:    users,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет email, подтверждение учётной записи и пароль.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} models.PublicUser
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Не подтверждён или неверный пароль"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := request.DecodeJSON(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(request.MsgInvalidBody))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		status, body := response.FromError(err)
		if status == http.StatusInternalServerError {
			log.Error("login failed", sl.Err(err))
		} else {
			log.Info("login rejected", slog.Int("status", status), sl.Err(err))
		}
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("login success", slog.String("user_id", user.ID))
	render.Status(r, http.StatusOK)
	render.JSON(w, r, user)
}
