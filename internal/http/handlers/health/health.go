package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

// Greeting отдаётся телом ответа корневого маршрута.
const Greeting = "Hello World!"

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

// ServeHTTP godoc
// @Summary Проверка доступности
// @Tags Health
// @Produce  plain
// @Success 200 {string} string "Hello World!"
// @Router / [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.log.Debug("health check", slog.String("remote_addr", r.RemoteAddr))
	render.Status(r, http.StatusOK)
	render.PlainText(w, r, Greeting)
}
