// Package apperr описывает ожидаемые доменные ошибки сервиса.
//
// Каждая ошибка несёт вид (Kind), человекочитаемое сообщение и HTTP-статус,
// который по нему однозначно определяется. Всё, что не является *Error,
// считается внутренней ошибкой.
package apperr

import (
	"errors"
	"net/http"
)

// Kind задаёт вид доменной ошибки.
type Kind int

const (
	KindAlreadyExists Kind = iota + 1
	KindNotFound
	KindUnauthorized
)

// Error описывает доменную ошибку.
type Error struct {
	Kind    Kind
	Message string
}

// Эталонные значения для сравнения через errors.Is.
var (
	ErrAlreadyExists = &Error{Kind: KindAlreadyExists}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrUnauthorized  = &Error{Kind: KindUnauthorized}
)

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.defaultMessage()
	}
	return e.Message
}

// Is сравнивает ошибки по виду, сообщение не учитывается.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Status возвращает HTTP-статус для вида ошибки.
func (e *Error) Status() int {
	return e.Kind.Status()
}

// Status возвращает HTTP-статус для вида ошибки.
func (k Kind) Status() int {
	switch k {
	case KindAlreadyExists:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) defaultMessage() string {
	switch k {
	case KindAlreadyExists:
		return "Resource already exists"
	case KindNotFound:
		return "Not Found"
	case KindUnauthorized:
		return "Unauthorized"
	default:
		return "internal server error"
	}
}

// AlreadyExists создаёт ошибку конфликта. Пустое сообщение заменяется стандартным.
func AlreadyExists(msg string) *Error {
	return newError(KindAlreadyExists, msg)
}

// NotFound создаёт ошибку отсутствия ресурса.
func NotFound(msg string) *Error {
	return newError(KindNotFound, msg)
}

// Unauthorized создаёт ошибку отказа в доступе.
func Unauthorized(msg string) *Error {
	return newError(KindUnauthorized, msg)
}

func newError(kind Kind, msg string) *Error {
	if msg == "" {
		msg = kind.defaultMessage()
	}
	return &Error{Kind: kind, Message: msg}
}

// From извлекает доменную ошибку из цепочки обёрток.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
