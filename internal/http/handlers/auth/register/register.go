// Package register реализует HTTP-обработчик регистрации пользователя.
package register

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

// Request описывает входные данные для регистрации.
type Request struct {
	Email    string `json:"email" validate:"required,email" example:"john@example.com"`
	Password string `json:"password" validate:"required,min=8,max=30,has_lower,has_upper,has_digit,has_special" example:"Passw0rd!"`
}

type Handler struct {
	log      *slog.Logger
	users    Service
	validate *validate.Validator
}

func New(log *slog.Logger, users Service) *Handler {
	return &Handler{
		log:      log,
		users:    users,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создаёт учётную запись по email и паролю.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Email и пароль"
// @Success 201 {object} models.PublicUser
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 409 {object} response.ErrorResponse "Email уже занят"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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

	user, err := h.users.RegisterUser(r.Context(), req.Email, req.Password)
	if err != nil {
		status, body := response.FromError(err)
		if status == http.StatusInternalServerError {
			log.Error("registration failed", sl.Err(err))
		} else {
			log.Info("registration rejected", sl.Err(err))
		}
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("user registered", slog.String("user_id", user.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, user.Public())
}
