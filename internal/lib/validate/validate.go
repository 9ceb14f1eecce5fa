// Package validate проверяет входные данные запросов по тегам go-playground/validator.
//
// Помимо стандартных правил регистрируются правила сложности пароля:
// has_lower, has_upper, has_digit, has_special. Проверка останавливается на первом
// нарушенном правиле (поля по порядку объявления, правила по порядку в теге),
// и наружу уходит только его сообщение.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator"
)

var (
	lowerRe   = regexp.MustCompile(`[a-z]`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// Error описывает первое нарушенное правило.
type Error struct {
	Field   string
	Rule    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validator оборачивает *validator.Validate с зарегистрированными правилами сервиса.
type Validator struct {
	v *validator.Validate
}

// New создаёт Validator. Имена полей в сообщениях берутся из json-тегов.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	rules := map[string]*regexp.Regexp{
		"has_lower":   lowerRe,
		"has_upper":   upperRe,
		"has_digit":   digitRe,
		"has_special": specialRe,
	}
	for tag, re := range rules {
		mustRegister(v, tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
	}

	return &Validator{v: v}
}

// mustRegister регистрирует правило и паникует при ошибке, как regexp.MustCompile:
// неверно заданное правило должно ронять сервис при старте, а не в Struct.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validate: register %q: %v", tag, err))
	}
}

// Struct проверяет структуру и возвращает *Error для первого нарушения.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return fmt.Errorf("validate.Struct: %w", err)
	}

	first := errs[0]
	return &Error{
		Field:   first.Field(),
		Rule:    first.Tag(),
		Message: message(first),
	}
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "min":
		return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%q length must be less than or equal to %s characters long", field, fe.Param())
	case "has_lower":
		return fmt.Sprintf("%s must contain at least 1 lowercase letter", capitalize(field))
	case "has_upper":
		return fmt.Sprintf("%s must contain at least 1 uppercase letter", capitalize(field))
	case "has_digit":
		return fmt.Sprintf("%s must contain at least 1 digit", capitalize(field))
	case "has_special":
		return fmt.Sprintf("%s must contain at least 1 special character", capitalize(field))
	default:
		return fmt.Sprintf("%q is not valid", field)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
