// Package notification fans out system messages to an ordered list of sinks.
package notification

import (
	"context"
	"time"
)

// Kind classifies a message.
type Kind string

const (
	// KindCapacityReached is emitted when a package's reservations reach its capacity.
	KindCapacityReached Kind = "capacity_reached"
	// KindOperation records a performed system operation.
	KindOperation Kind = "operation"
)

// Message is a single notification delivered to every sink.
type Message struct {
	Kind   Kind           `json:"kind"`
	Text   string         `json:"text"`
	Time   time.Time      `json:"time"`
	Fields map[string]any `json:"fields,omitempty"`
}

// NewMessage creates a message stamped with the current UTC time.
func NewMessage(kind Kind, text string) Message {
	return Message{Kind: kind, Text: text, Time: time.Now().UTC()}
}

// With returns a copy of m with an extra field.
func (m Message) With(key string, value any) Message {
	fields := make(map[string]any, len(m.Fields)+1)
	for k, v := range m.Fields {
		fields[k] = v
	}
	fields[key] = value
	m.Fields = fields
	return m
}

// Sink is a delivery target for messages.
type Sink interface {
	// Name identifies the sink in logs and results.
	Name() string
	// Send delivers msg. Errors are reported to the dispatcher, never to the producer.
	Send(ctx context.Context, msg Message) error
}

// Notifier is the producer-facing side of the dispatcher.
type Notifier interface {
	Notify(ctx context.Context, msg Message)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, msg Message)

// Notify calls f(ctx, msg).
func (f NotifierFunc) Notify(ctx context.Context, msg Message) { f(ctx, msg) }

// Discard drops every message.
var Discard Notifier = NotifierFunc(func(context.Context, Message) {})
