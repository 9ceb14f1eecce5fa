// Package response формирует JSON-ответы HTTP-обработчиков.
// Ошибка всегда отдаётся в виде {"error": "<сообщение>"}.
package response

import (
	"net/http"

	"github.com/magabrotheeeer/user-accounts/internal/lib/apperr"
)

// MsgInternal отдаётся клиенту при непредвиденных ошибках. Подробности остаются в логах.
const MsgInternal = "internal server error"

// ErrorResponse описывает тело ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error" example:"User not found"`
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// FromError сопоставляет ошибку сервиса статусу и телу ответа.
// Доменная ошибка отдаётся со своим статусом и сообщением, любая другая отдаётся как 500.
func FromError(err error) (int, ErrorResponse) {
	if appErr, ok := apperr.From(err); ok {
		return appErr.Status(), Error(appErr.Message)
	}
	return http.StatusInternalServerError, Error(MsgInternal)
}
