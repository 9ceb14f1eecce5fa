// Package storage реализует хранилище учётных записей на основе PostgreSQL.
// Доступ к базе идёт через database/sql с драйвером pgx.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	// ErrUserNotFound возвращается, если строка пользователя не найдена.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists возвращается при нарушении ограничения уникальности.
	ErrUserExists = errors.New("user already exists")
)

// Storage инкапсулирует пул соединений с PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New открывает пул соединений и проверяет доступность базы.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Ping проверяет соединение с базой.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// mapError переводит ошибки драйвера в ошибки пакета.
func mapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%s: %w: %s", op, ErrUserExists, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}
