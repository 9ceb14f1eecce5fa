package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/user-accounts/internal/models"
)

const userColumns = `id, first_name, middle_name, last_name, username, profile_url,
	email, password_hash, country_code, phone_number, role, status,
	verified_at, created_at, updated_at, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var status string
	if err := row.Scan(&u.ID, &u.FirstName, &u.MiddleName, &u.LastName, &u.Username, &u.ProfileURL,
		&u.Email, &u.PasswordHash, &u.CountryCode, &u.PhoneNumber, &u.Role, &status,
		&u.VerifiedAt, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt); err != nil {
		return nil, err
	}
	u.Status = models.UserStatus(status)
	return &u, nil
}

// validID отсекает строки, которые PostgreSQL не примет как UUID.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

// ExistsByID сообщает, есть ли пользователь с таким ID.
func (s *Storage) ExistsByID(ctx context.Context, id string) (bool, error) {
	const op = "storage.ExistsByID"
	if !validID(id) {
		return false, nil
	}

	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ExistsByEmail сообщает, есть ли пользователь с таким email.
// Мягко удалённые строки тоже учитываются: они продолжают держать ограничение уникальности.
func (s *Storage) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const op = "storage.ExistsByEmail"

	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// FindAll возвращает всех пользователей в порядке создания.
func (s *Storage) FindAll(ctx context.Context) ([]*models.User, error) {
	const op = "storage.FindAll"

	rows, err := s.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindByID возвращает пользователя по ID или ErrUserNotFound.
func (s *Storage) FindByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.FindByID"
	if !validID(id) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// FindByEmail возвращает пользователя по email или ErrUserNotFound.
func (s *Storage) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.FindByEmail"

	u, err := scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// Create сохраняет нового пользователя и возвращает сохранённую строку.
// ID генерируется здесь, если не задан; роль и статус получают значения по умолчанию.
func (s *Storage) Create(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.Create"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.DefaultRole
	}
	if user.Status == "" {
		user.Status = models.StatusActive
	}

	query := `INSERT INTO users (id, first_name, middle_name, last_name, username, profile_url,
			      email, password_hash, country_code, phone_number, role, status, verified_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query,
		user.ID, user.FirstName, user.MiddleName, user.LastName, user.Username, user.ProfileURL,
		user.Email, user.PasswordHash, user.CountryCode, user.PhoneNumber, user.Role, string(user.Status),
		user.VerifiedAt))
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// Update применяет частичное изменение и возвращает обновлённую строку.
// Пустое изменение ничего не пишет и просто возвращает текущее состояние.
func (s *Storage) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	const op = "storage.Update"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if !validID(id) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if upd.Empty() {
		return s.FindByID(ctx, id)
	}

	sets := make([]string, 0, 10)
	args := make([]any, 0, 10)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.FirstName != nil {
		add("first_name", *upd.FirstName)
	}
	if upd.MiddleName != nil {
		add("middle_name", *upd.MiddleName)
	}
	if upd.LastName != nil {
		add("last_name", *upd.LastName)
	}
	if upd.Username != nil {
		add("username", *upd.Username)
	}
	if upd.ProfileURL != nil {
		add("profile_url", *upd.ProfileURL)
	}
	if upd.CountryCode != nil {
		add("country_code", *upd.CountryCode)
	}
	if upd.PhoneNumber != nil {
		add("phone_number", *upd.PhoneNumber)
	}
	if upd.Role != nil {
		add("role", *upd.Role)
	}
	if upd.Status != nil {
		add("status", string(*upd.Status))
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), userColumns)
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// SoftDelete помечает пользователя удалённым, строка физически остаётся.
func (s *Storage) SoftDelete(ctx context.Context, id string) error {
	const op = "storage.SoftDelete"
	if !validID(id) {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	query := `UPDATE users
			  SET deleted_at = now(), status = $1, updated_at = now()
			  WHERE id = $2 AND deleted_at IS NULL`
	result, err := s.DB.ExecContext(ctx, query, string(models.StatusDeleted), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// MarkVerified выставляет verified_at, если он ещё не задан.
// Используется внешним процессом подтверждения почты.
func (s *Storage) MarkVerified(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.MarkVerified"
	if !validID(id) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	query := `UPDATE users
			  SET verified_at = COALESCE(verified_at, now()), updated_at = now()
			  WHERE id = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}
