// Package models содержит доменную модель учётной записи пользователя.
package models

import (
	"strings"
	"time"
)

// UserStatus описывает состояние учётной записи.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
	StatusBlocked  UserStatus = "blocked"
	StatusDeleted  UserStatus = "deleted"
)

// DefaultRole назначается при регистрации.
const DefaultRole = "user"

// User представляет учётную запись в том виде, в котором она хранится.
// Хэш пароля не сериализуется; наружу отдаётся PublicUser.
type User struct {
	ID           string     `json:"id"`
	FirstName    *string    `json:"firstName"`
	MiddleName   *string    `json:"middleName"`
	LastName     *string    `json:"lastName"`
	Username     *string    `json:"username"`
	ProfileURL   *string    `json:"profileUrl"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	CountryCode  *string    `json:"countryCode"`
	PhoneNumber  *string    `json:"phoneNumber"`
	Role         string     `json:"role"`
	Status       UserStatus `json:"status"`
	VerifiedAt   *time.Time `json:"verifiedAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	DeletedAt    *time.Time `json:"deletedAt"`
}

// PublicUser содержит все поля пользователя, кроме хэша пароля.
type PublicUser struct {
	ID          string     `json:"id"`
	FirstName   *string    `json:"firstName"`
	MiddleName  *string    `json:"middleName"`
	LastName    *string    `json:"lastName"`
	Username    *string    `json:"username"`
	ProfileURL  *string    `json:"profileUrl"`
	Email       string     `json:"email"`
	CountryCode *string    `json:"countryCode"`
	PhoneNumber *string    `json:"phoneNumber"`
	Role        string     `json:"role"`
	Status      UserStatus `json:"status"`
	VerifiedAt  *time.Time `json:"verifiedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt"`
}

// UserUpdate описывает частичное изменение профиля. Nil-поля не меняются.
type UserUpdate struct {
	FirstName   *string
	MiddleName  *string
	LastName    *string
	Username    *string
	ProfileURL  *string
	CountryCode *string
	PhoneNumber *string
	Role        *string
	Status      *UserStatus
}

// Empty сообщает, что в изменении нет ни одного поля.
func (u UserUpdate) Empty() bool {
	return u.FirstName == nil && u.MiddleName == nil && u.LastName == nil &&
		u.Username == nil && u.ProfileURL == nil && u.CountryCode == nil &&
		u.PhoneNumber == nil && u.Role == nil && u.Status == nil
}

// IsVerified сообщает, задан ли VerifiedAt.
func (u *User) IsVerified() bool {
	return u.VerifiedAt != nil
}

// FullName собирает имя из непустых частей.
func (u *User) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []*string{u.FirstName, u.MiddleName, u.LastName} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	return strings.Join(parts, " ")
}

// Public возвращает представление пользователя без хэша пароля.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		FirstName:   u.FirstName,
		MiddleName:  u.MiddleName,
		LastName:    u.LastName,
		Username:    u.Username,
		ProfileURL:  u.ProfileURL,
		Email:       u.Email,
		CountryCode: u.CountryCode,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		Status:      u.Status,
		VerifiedAt:  u.VerifiedAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		DeletedAt:   u.DeletedAt,
	}
}

// PublicUsers конвертирует список пользователей в публичные представления.
func PublicUsers(users []*User) []PublicUser {
	result := make([]PublicUser, 0, len(users))
	for _, u := range users {
		result = append(result, u.Public())
	}
	return result
}
