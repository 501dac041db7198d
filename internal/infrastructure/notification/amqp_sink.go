package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	domain "tourbook/internal/domain/notification"
)

// DefaultQueue is the durable queue notifications are published to.
const DefaultQueue = "tourbook.notifications"

// amqpPublisher is the subset of *amqp.Channel used by the sink.
type amqpPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPSink publishes messages as persistent JSON to a RabbitMQ queue.
type AMQPSink struct {
	queue   string
	channel amqpPublisher
	closers []func() error
}

// DialAMQPSink connects to the broker and declares the durable queue.
func DialAMQPSink(url, queue string) (*AMQPSink, error) {
	if queue == "" {
		queue = DefaultQueue
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	s := newAMQPSink(queue, ch)
	s.closers = []func() error{ch.Close, conn.Close}
	return s, nil
}

func newAMQPSink(queue string, ch amqpPublisher) *AMQPSink {
	return &AMQPSink{queue: queue, channel: ch}
}

// Name implements domain.Sink.
func (s *AMQPSink) Name() string { return "amqp" }

// Send implements domain.Sink.
func (s *AMQPSink) Send(ctx context.Context, msg domain.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(msg.Kind),
		Body:         body,
	}

	// default exchange, routing key = queue name
	if err := s.channel.PublishWithContext(ctx, "", s.queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

// Close closes the channel and connection.
func (s *AMQPSink) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
