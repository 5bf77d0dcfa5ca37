package mq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harari-inventory/apiserver/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQClient publishes to one fanout exchange per channel so every
// subscriber sees every event. With durable queues enabled, subscribers
// share a queue named after the channel; otherwise each gets a private
// queue that disappears with it.
type RabbitMQClient struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	durable  bool
	prefetch int

	mu       sync.Mutex
	declared map[string]struct{}
}

// NewRabbitMQClient dials cfg.URL and opens a channel.
func NewRabbitMQClient(cfg config.RabbitMQConfig) (*RabbitMQClient, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("rabbitmq url is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	return &RabbitMQClient{
		conn:     conn,
		ch:       ch,
		durable:  cfg.QueueDurable,
		prefetch: cfg.PrefetchCount,
		declared: make(map[string]struct{}),
	}, nil
}

func (r *RabbitMQClient) exchange(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.declared[name]; ok {
		return nil
	}
	if err := r.ch.ExchangeDeclare(name, amqp.ExchangeFanout, r.durable, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", name, err)
	}
	r.declared[name] = struct{}{}
	return nil
}

// Publish sends data to the channel's exchange. The event_id attribute,
// when present, becomes the message id.
func (r *RabbitMQClient) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if strings.TrimSpace(channel) == "" {
		return "", errors.New("rabbitmq channel is required")
	}
	if err := r.exchange(channel); err != nil {
		return "", err
	}

	id := attrs["event_id"]
	if id == "" {
		id = uuid.NewString()
	}
	headers := make(amqp.Table, len(attrs))
	for k, v := range attrs {
		headers[k] = v
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		MessageId:    id,
		Type:         attrs["event"],
		Timestamp:    time.Now().UTC(),
		Headers:      headers,
		Body:         data,
	}
	if r.durable {
		msg.DeliveryMode = amqp.Persistent
	}
	if err := r.ch.PublishWithContext(ctx, channel, "", false, false, msg); err != nil {
		return "", fmt.Errorf("publish to %s: %w", channel, err)
	}
	return id, nil
}

// Subscribe binds a queue to the channel's exchange and feeds deliveries to
// handler until ctx is done. A handler error requeues the delivery.
func (r *RabbitMQClient) Subscribe(ctx context.Context, channel string, handler Handler) error {
	if strings.TrimSpace(channel) == "" {
		return errors.New("rabbitmq channel is required")
	}
	if err := r.exchange(channel); err != nil {
		return err
	}

	var (
		queue amqp.Queue
		err   error
	)
	if r.durable {
		queue, err = r.ch.QueueDeclare(channel, true, false, false, false, nil)
	} else {
		queue, err = r.ch.QueueDeclare("", false, true, true, false, nil)
	}
	if err != nil {
		return fmt.Errorf("declare queue for %s: %w", channel, err)
	}
	if err := r.ch.QueueBind(queue.Name, "", channel, false, nil); err != nil {
		return fmt.Errorf("bind %s to %s: %w", queue.Name, channel, err)
	}
	if r.prefetch > 0 {
		if err := r.ch.Qos(r.prefetch, 0, false); err != nil {
			return fmt.Errorf("set prefetch: %w", err)
		}
	}

	tag := "inventory-" + uuid.NewString()
	deliveries, err := r.ch.ConsumeWithContext(ctx, queue.Name, tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", queue.Name, err)
	}

	for {
		select {
		case <-ctx.Done():
			_ = r.ch.Cancel(tag, false)
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errors.New("rabbitmq deliveries closed")
			}
			err := handler(ctx, Message{
				ID:         d.MessageId,
				Data:       d.Body,
				Attributes: headersToAttributes(d.Headers),
			})
			if err != nil {
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (r *RabbitMQClient) Close() error {
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

func headersToAttributes(headers amqp.Table) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	attrs := make(map[string]string, len(headers))
	for k, v := range headers {
		switch typed := v.(type) {
		case string:
			attrs[k] = typed
		case []byte:
			attrs[k] = string(typed)
		default:
			attrs[k] = fmt.Sprint(v)
		}
	}
	return attrs
}
