// Package request содержит разбор тел входящих запросов.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MsgInvalidBody отдаётся клиенту, если тело не разбирается как JSON.
const MsgInvalidBody = "invalid request body"

// DecodeJSON разбирает тело запроса в dst. Неизвестные поля считаются ошибкой.
// Пустое тело не ошибка: обязательные поля отсечёт валидация.
func DecodeJSON(r *http.Request, dst any) error {
	const op = "request.DecodeJSON"
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
