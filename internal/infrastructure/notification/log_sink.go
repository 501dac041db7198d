// Package notification implements the delivery sinks of the notification dispatcher.
package notification

import (
	"context"

	domain "tourbook/internal/domain/notification"
	"tourbook/pkg/logger"
)

// LogSink writes each message as a structured log line.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a log sink.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log.WithComponent("notifications")}
}

// Name implements domain.Sink.
func (s *LogSink) Name() string { return "log" }

// Send implements domain.Sink.
func (s *LogSink) Send(ctx context.Context, msg domain.Message) error {
	kv := make([]any, 0, 2+2*len(msg.Fields))
	kv = append(kv, "kind", string(msg.Kind))
	for k, v := range msg.Fields {
		kv = append(kv, k, v)
	}
	s.log.WithContext(ctx).Infow(msg.Text, kv...)
	return nil
}
