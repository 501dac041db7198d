package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	domain "tourbook/internal/domain/notification"
)

// DefaultChannel is the pub/sub channel notifications are published to.
const DefaultChannel = "tourbook:notifications"

// redisPublisher is the subset of *redis.Client used by the sink.
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisSink publishes messages as JSON on a Redis channel.
type RedisSink struct {
	client  redisPublisher
	channel string
}

// NewRedisSink creates a Redis sink over client.
func NewRedisSink(client redisPublisher, channel string) *RedisSink {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisSink{client: client, channel: channel}
}

// Name implements domain.Sink.
func (s *RedisSink) Name() string { return "redis" }

// Send implements domain.Sink.
func (s *RedisSink) Send(ctx context.Context, msg domain.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := s.client.Publish(ctx, s.channel, body).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}
