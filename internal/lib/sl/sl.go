// Package sl содержит вспомогательные функции для работы с логгером slog.
package sl

import (
	"log/slog"
	"os"

	"github.com/magabrotheeeer/user-accounts/internal/config"
)

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
//
// Пример:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// SetupLogger создаёт логгер под окружение: текстовый debug для local/dev, JSON info для prod.
func SetupLogger(env string) *slog.Logger {
	switch env {
	case config.EnvProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
