// Package users содержит бизнес-логику учётных записей: регистрацию, поиск и вход.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/user-accounts/internal/events"
	"github.com/magabrotheeeer/user-accounts/internal/lib/apperr"
	"github.com/magabrotheeeer/user-accounts/internal/lib/password"
	"github.com/magabrotheeeer/user-accounts/internal/lib/sl"
	"github.com/magabrotheeeer/user-accounts/internal/models"
	"github.com/magabrotheeeer/user-accounts/internal/storage"
)

// Сообщения входа отдаются клиенту как есть.
const (
	msgLoginUserNotFound = "User not found"
	msgLoginNotVerified  = "User is not verified"
	msgLoginBadPassword  = "Invalid email or password"
)

// Repository описывает контракт хранилища пользователей.
type Repository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user models.User) (*models.User, error)
	Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	SoftDelete(ctx context.Context, id string) error
	MarkVerified(ctx context.Context, id string) (*models.User, error)
}

// Cache описывает необязательный кэш пользователей по ID.
type Cache interface {
	GetUser(ctx context.Context, id string) (*models.User, bool, error)
	SetUser(ctx context.Context, u *models.User) error
	InvalidateUser(ctx context.Context, id string) error
}

// Publisher описывает необязательного издателя событий регистрации.
type Publisher interface {
	PublishUserRegistered(ctx context.Context, event events.UserRegistered) error
}

// Service отвечает за операции с учётными записями.
type Service struct {
	repo      Repository
	hasher    password.Hasher
	cache     Cache
	publisher Publisher
	log       *slog.Logger
}

// Option настраивает необязательные зависимости Service.
type Option func(*Service)

// WithCache подключает кэш пользователей.
func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithPublisher подключает публикацию событий регистрации.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// New создаёт Service. Все обязательные зависимости передаются явно.
func New(repo Repository, hasher password.Hasher, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		hasher: hasher,
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterUser создаёт пользователя с email и хэшем пароля.
// Предварительная проверка email лишь экономит запрос; окончательно дубликат
// отсекает ограничение уникальности в базе.
func (s *Service) RegisterUser(ctx context.Context, email, rawPassword string) (*models.User, error) {
	const op = "services.users.RegisterUser"
	log := s.log.With(slog.String("op", op))

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil, alreadyExists(email)
	}

	hashed, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.repo.Create(ctx, models.User{Email: email, PasswordHash: hashed})
	if errors.Is(err, storage.ErrUserExists) {
		return nil, alreadyExists(email)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("user registered", slog.String("user_id", user.ID))

	if s.publisher != nil {
		event := events.UserRegistered{UserID: user.ID, Email: user.Email, RegisteredAt: user.CreatedAt}
		if err := s.publisher.PublishUserRegistered(ctx, event); err != nil {
			log.Warn("failed to publish registration event", sl.Err(err))
		}
	}
	return user, nil
}

// GetAllUsers возвращает всех пользователей. Пагинации нет.
func (s *Service) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	const op = "services.users.GetAllUsers"
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// GetUserByID возвращает пользователя по ID. Если кэш подключён, сначала смотрит в него.
func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "services.users.GetUserByID"
	log := s.log.With(slog.String("op", op))

	if s.cache != nil {
		u, found, err := s.cache.GetUser(ctx, id)
		if err != nil {
			log.Warn("cache read failed", sl.Err(err))
		} else if found {
			return u, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, storage.ErrUserNotFound) {
		return nil, apperr.NotFound(fmt.Sprintf("User with id %q not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.SetUser(ctx, user); err != nil {
			log.Warn("cache write failed", sl.Err(err))
		}
	}
	return user, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "services.users.GetUserByEmail"
	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, storage.ErrUserNotFound) {
		return nil, apperr.NotFound(fmt.Sprintf("User with email %q not found", email))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// UpdateUser применяет частичное изменение профиля и сбрасывает запись в кэше.
func (s *Service) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	const op = "services.users.UpdateUser"

	user, err := s.repo.Update(ctx, id, upd)
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		return nil, apperr.NotFound(fmt.Sprintf("User with id %q not found", id))
	case errors.Is(err, storage.ErrUserExists):
		return nil, apperr.AlreadyExists("User with these details already exists")
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx, op, id)
	return user, nil
}

// VerifyUser отмечает учётную запись подтверждённой. Повторный вызов не меняет
// verifiedAt. Вызывается процессом подтверждения почты, наружу по HTTP не выставлен.
func (s *Service) VerifyUser(ctx context.Context, id string) (*models.User, error) {
	const op = "services.users.VerifyUser"

	user, err := s.repo.MarkVerified(ctx, id)
	if errors.Is(err, storage.ErrUserNotFound) {
		return nil, apperr.NotFound(fmt.Sprintf("User with id %q not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx, op, id)
	return user, nil
}

// DeleteUser мягко удаляет учётную запись: строка остаётся, email по-прежнему занят.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	const op = "services.users.DeleteUser"

	err := s.repo.SoftDelete(ctx, id)
	if errors.Is(err, storage.ErrUserNotFound) {
		return apperr.NotFound(fmt.Sprintf("User with id %q not found", id))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx, op, id)
	return nil
}

// invalidate сбрасывает запись кэша после изменения пользователя.
// Ошибка кэша только логируется: запись всё равно истечёт по TTL.
func (s *Service) invalidate(ctx context.Context, op, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUser(ctx, id); err != nil {
		s.log.Warn("cache invalidation failed", slog.String("op", op), sl.Err(err))
	}
}

// Login проверяет учётные данные. Порядок проверок фиксирован:
// существование email (404), подтверждение (401), пароль (401).
// Для неизвестного email отдаётся 404, а не 401.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*models.PublicUser, error) {
	const op = "services.users.Login"

	user, err := s.GetUserByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.NotFound(msgLoginUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !user.IsVerified() {
		return nil, apperr.Unauthorized(msgLoginNotVerified)
	}
	if !s.hasher.Compare(rawPassword, user.PasswordHash) {
		return nil, apperr.Unauthorized(msgLoginBadPassword)
	}

	s.log.Info("user logged in", slog.String("op", op), slog.String("user_id", user.ID))
	public := user.Public()
	return &public, nil
}

func alreadyExists(email string) error {
	return apperr.AlreadyExists(fmt.Sprintf("User with email %s already exists", email))
}
