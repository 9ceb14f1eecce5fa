// Package config предоставляет структуры и функции для парсинга и загрузки конфига сервиса учётных записей.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Окружения запуска сервиса.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	HTTPServer              `yaml:"http_server"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP     string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":3000"`
	TimeoutHTTP     time.Duration `yaml:"timeouthttp" env:"HTTP_TIMEOUT" env-default:"5s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает кэширование пользователей.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB"`
	MaxRetries   int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env:"REDIS_TIMEOUT" env-default:"3s"`
	UserTTL      time.Duration `yaml:"user_ttl" env:"REDIS_USER_TTL" env-default:"5m"`
}

// RabbitMQ структура для настройки публикации событий регистрации.
// Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange   string        `yaml:"exchange" env:"RABBITMQ_EXCHANGE" env-default:"users"`
	Retries    int           `yaml:"retries" env:"RABBITMQ_RETRIES" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"RABBITMQ_RETRY_DELAY" env-default:"2s"`
}

// Load читает конфиг из файла по указанному пути.
// Значения из переменных окружения перекрывают значения из файла.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// CacheEnabled сообщает, настроено ли подключение к redis.
func (c *Config) CacheEnabled() bool {
	return c.AddressRedis != ""
}

// EventsEnabled сообщает, настроена ли публикация событий в RabbitMQ.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQ.URL != ""
}
