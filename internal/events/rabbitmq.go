// Package events публикует события учётных записей в RabbitMQ.
//
// Сервис только сообщает о регистрации; подтверждение почты и прочие реакции
// выполняются внешними потребителями очереди.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/user-accounts/internal/config"
)

// RoutingKeyUserRegistered задаёт ключ маршрутизации события регистрации.
const RoutingKeyUserRegistered = "user.registered"

// UserRegistered описывает тело события регистрации.
type UserRegistered struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

// channel описывает часть *amqp.Channel, нужную издателю.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher публикует события в exchange. Публикации сериализуются мьютексом:
// один amqp.Channel нельзя использовать из нескольких горутин одновременно.
type Publisher struct {
	mu       sync.Mutex
	ch       channel
	conn     *amqp.Connection
	exchange string
}

// Connect подключается к RabbitMQ с повторами.
func Connect(url string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "events.Connect"
	var conn *amqp.Connection
	var err error

	attempts := max(retries, 1)
	for i := range attempts {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return nil, fmt.Errorf("%s: %w", op, err)
}

// NewPublisher подключается к брокеру и объявляет topic-exchange для событий.
func NewPublisher(cfg config.RabbitMQ) (*Publisher, error) {
	const op = "events.NewPublisher"

	conn, err := Connect(cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p := newPublisher(ch, cfg.Exchange)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

// PublishUserRegistered публикует событие регистрации пользователя.
func (p *Publisher) PublishUserRegistered(ctx context.Context, event UserRegistered) error {
	const op = "events.PublishUserRegistered"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.Publish(
		p.exchange,
		RoutingKeyUserRegistered,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.RegisteredAt,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает канал и соединение.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
