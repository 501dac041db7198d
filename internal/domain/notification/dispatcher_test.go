package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"tourbook/pkg/logger"
)

type funcSink struct {
	name string
	send func(ctx context.Context, msg Message) error
}

func (s funcSink) Name() string { return s.name }

func (s funcSink) Send(ctx context.Context, msg Message) error { return s.send(ctx, msg) }

func TestDispatcher_DeliversInOrderAndIsolatesFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	var order []string
	record := func(name string, err error) Sink {
		return funcSink{name: name, send: func(ctx context.Context, msg Message) error {
			order = append(order, name)
			return err
		}}
	}
	panicking := funcSink{name: "panicky", send: func(context.Context, Message) error {
		order = append(order, "panicky")
		panic("boom")
	}}

	d := NewDispatcher(logger.NewFromZap(zap.New(core)),
		record("log", nil),
		record("file", errors.New("disk full")),
		panicking,
		record("metrics", nil),
	)

	results := d.Dispatch(context.Background(), NewMessage(KindOperation, "operation performed: test"))

	assert.Equal(t, []string{"log", "file", "panicky", "metrics"}, order)
	assert.Equal(t, []string{"log", "file", "panicky", "metrics"}, d.Sinks())
	require.Len(t, results, 4)
	assert.NoError(t, results[0].Err)
	assert.EqualError(t, results[1].Err, "disk full")
	assert.ErrorContains(t, results[2].Err, "sink panic: boom")
	assert.NoError(t, results[3].Err)

	failures := logs.FilterMessage("notification sink failed").All()
	require.Len(t, failures, 2)
	assert.Equal(t, "file", failures[0].ContextMap()["sink"])
	assert.Equal(t, "panicky", failures[1].ContextMap()["sink"])
}

func TestDispatcher_NoSinks(t *testing.T) {
	d := NewDispatcher(logger.Nop())

	assert.Empty(t, d.Dispatch(context.Background(), NewMessage(KindOperation, "noop")))
	assert.NotPanics(t, func() { d.Notify(context.Background(), NewMessage(KindOperation, "noop")) })
}

func TestMessage_WithCopiesFields(t *testing.T) {
	base := NewMessage(KindCapacityReached, "full").With("a", 1)
	extended := base.With("b", 2)

	assert.Equal(t, map[string]any{"a": 1}, base.Fields)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, extended.Fields)
}

func TestDispatcher_SinkDeadline(t *testing.T) {
	var deadlines []bool
	blocking := funcSink{name: "broker", send: func(ctx context.Context, msg Message) error {
		_, ok := ctx.Deadline()
		deadlines = append(deadlines, ok)
		<-ctx.Done()
		return ctx.Err()
	}}
	next := funcSink{name: "log", send: func(ctx context.Context, msg Message) error {
		_, ok := ctx.Deadline()
		deadlines = append(deadlines, ok)
		return nil
	}}

	d := NewDispatcher(logger.Nop(), blocking, next).WithTimeout(20 * time.Millisecond)

	start := time.Now()
	results := d.Dispatch(context.Background(), NewMessage(KindCapacityReached, "full"))

	assert.Less(t, time.Since(start), 2*time.Second)
	require.Len(t, results, 2)
	assert.ErrorIs(t, results[0].Err, context.DeadlineExceeded)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, []bool{true, true}, deadlines)
}

func TestDispatcher_NoDeadlineWhenDisabled(t *testing.T) {
	var hasDeadline bool
	sink := funcSink{name: "log", send: func(ctx context.Context, msg Message) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	}}

	NewDispatcher(logger.Nop(), sink).WithTimeout(0).Dispatch(context.Background(), NewMessage(KindOperation, "x"))

	assert.False(t, hasDeadline)
}
