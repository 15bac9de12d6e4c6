package events

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/SscSPs/pocket_wallet/internal/core/ports"
	"github.com/rabbitmq/amqp091-go"
)

// RabbitMQPublisher publishes events to a durable topic exchange, using the event type
// (e.g. "transfer.completed") as routing key.
type RabbitMQPublisher struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

var _ ports.EventPublisher = (*RabbitMQPublisher)(nil)

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "\"'")
	if !strings.HasSuffix(clean, "/") {
		clean += "/"
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewRabbitMQPublisher dials the broker and declares the exchange once.
func NewRabbitMQPublisher(amqpURL string, exchange string) (*RabbitMQPublisher, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.Dial(cleanURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &RabbitMQPublisher{conn: conn, channel: channel, exchange: exchange}, nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, event domain.WalletEvent) error {
	body, err := marshalEvent(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(ctx,
		p.exchange,         // exchange
		string(event.Type), // routing key
		false,              // mandatory
		false,              // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    event.EventID,
			Timestamp:    event.OccurredAt,
			Type:         string(event.Type),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish event to exchange %s: %w", p.exchange, err)
	}
	return nil
}

// Close gracefully closes the channel and connection.
func (p *RabbitMQPublisher) Close() error {
	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
