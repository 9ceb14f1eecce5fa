// Package password реализует хеширование и проверку паролей на основе bcrypt.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost задаёт число раундов bcrypt. Меняется только пересборкой сервиса.
const Cost = 10

// MaxBytes задаёт, сколько байт пароля учитывает bcrypt. Остаток отбрасывается
// одинаково при хешировании и при сверке.
const MaxBytes = 72

// Hasher описывает одностороннее хеширование паролей и их сверку.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) bool
}

// Bcrypt реализует Hasher поверх golang.org/x/crypto/bcrypt.
type Bcrypt struct {
	cost int
}

// NewBcrypt создаёт Bcrypt с заданной стоимостью (в тестах удобно bcrypt.MinCost).
func NewBcrypt(cost int) *Bcrypt {
	return &Bcrypt{cost: cost}
}

// New возвращает Bcrypt со стоимостью Cost.
func New() *Bcrypt {
	return NewBcrypt(Cost)
}

// Hash возвращает bcrypt-хэш пароля. Соль генерируется заново при каждом вызове.
// Пароль длиннее MaxBytes байт хешируется по первым MaxBytes байтам.
func (b *Bcrypt) Hash(password string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword(clamp(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Compare сообщает, соответствует ли пароль хэшу.
// Сравнение дайджестов выполняется за постоянное время.
func (b *Bcrypt) Compare(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), clamp(password)) == nil
}

// clamp обрезает пароль до MaxBytes байт. Граница может прийтись на середину
// символа UTF-8, для bcrypt это просто байты.
func clamp(password string) []byte {
	b := []byte(password)
	if len(b) > MaxBytes {
		return b[:MaxBytes]
	}
	return b
}
