// Package cache реализует кэш пользователей поверх redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/user-accounts/internal/config"
	"github.com/magabrotheeeer/user-accounts/internal/models"
)

const userKeyPrefix = "user:"

// Cache хранит JSON-представления пользователей с ограниченным временем жизни.
type Cache struct {
	Db  *redis.Client
	ttl time.Duration
}

// userEntry сериализует пользователя вместе с хэшем пароля,
// который в models.User скрыт от JSON.
type userEntry struct {
	models.User
	PasswordHash string `json:"passwordHash"`
}

// InitServer подключается к redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db, ttl: cfg.UserTTL}, nil
}

// GetUser возвращает пользователя из кэша. found=false при промахе.
func (c *Cache) GetUser(ctx context.Context, id string) (*models.User, bool, error) {
	const op = "cache.GetUser"
	val, err := c.Db.Get(ctx, userKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	var entry userEntry
	if err = json.Unmarshal(val, &entry); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	u := entry.User
	u.PasswordHash = entry.PasswordHash
	return &u, true, nil
}

// SetUser кладёт пользователя в кэш.
func (c *Cache) SetUser(ctx context.Context, u *models.User) error {
	const op = "cache.SetUser"
	data, err := json.Marshal(userEntry{User: *u, PasswordHash: u.PasswordHash})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = c.Db.Set(ctx, userKeyPrefix+u.ID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// InvalidateUser удаляет пользователя из кэша.
func (c *Cache) InvalidateUser(ctx context.Context, id string) error {
	const op = "cache.InvalidateUser"
	if err := c.Db.Del(ctx, userKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает клиент redis.
func (c *Cache) Close() error {
	return c.Db.Close()
}
