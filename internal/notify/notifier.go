package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"go.uber.org/zap"
)

// Notifier delivers notifications somewhere
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// NotifierFunc adapts a function into a Notifier
type NotifierFunc func(ctx context.Context, n domain.Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n domain.Notification) error { return f(ctx, n) }

// LogNotifier writes notifications to a zap logger
type LogNotifier struct {
	Logger *zap.Logger
}

func (l LogNotifier) Notify(_ context.Context, n domain.Notification) error {
	fields := []zap.Field{
		zap.String("id", n.ID),
		zap.String("type", string(n.Type)),
		zap.String("priority", string(n.Priority)),
		zap.String("message", n.Message),
	}
	if n.DueDate != nil {
		fields = append(fields, zap.Time("due", *n.DueDate))
	}
	l.Logger.Info(n.Title, fields...)
	return nil
}

// publisher is the part of *amqp091.Channel the notifier needs
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// AMQPNotifier publishes notifications as JSON to a direct exchange, routed
// to a durable queue of the same name as the routing key.
type AMQPNotifier struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	pub      publisher
	exchange string
	queue    string
}

// NewAMQPNotifier dials url and declares the exchange, queue and binding
func NewAMQPNotifier(url, exchange, queue string) (*AMQPNotifier, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	n := &AMQPNotifier{conn: conn, channel: ch, pub: ch, exchange: exchange, queue: queue}
	if err := n.declare(); err != nil {
		n.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	return n, nil
}

func (a *AMQPNotifier) declare() error {
	if err := a.channel.ExchangeDeclare(a.exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := a.channel.QueueDeclare(a.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := a.channel.QueueBind(a.queue, a.queue, a.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

func (a *AMQPNotifier) Notify(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = a.pub.PublishWithContext(ctx, a.exchange, a.queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    n.ID,
		Type:         string(n.Type),
		Timestamp:    n.CreatedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// Close releases the channel and connection
func (a *AMQPNotifier) Close() error {
	if a.channel != nil {
		a.channel.Close()
	}
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}
