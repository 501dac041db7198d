package notification

import (
	"context"
	"fmt"
	"time"

	"tourbook/pkg/logger"
)

// DefaultSinkTimeout bounds a single sink delivery.
const DefaultSinkTimeout = 3 * time.Second

// Result is the outcome of delivering one message to one sink.
type Result struct {
	Sink string
	Err  error
}

// Dispatcher delivers each message to its sinks in registration order.
// A failing or panicking sink never affects the other sinks or the caller.
type Dispatcher struct {
	sinks   []Sink
	log     *logger.Logger
	timeout time.Duration
}

// NewDispatcher creates a dispatcher over the given sinks.
func NewDispatcher(log *logger.Logger, sinks ...Sink) *Dispatcher {
	if log == nil {
		log = logger.Default()
	}
	return &Dispatcher{
		sinks:   sinks,
		log:     log.WithComponent("notification"),
		timeout: DefaultSinkTimeout,
	}
}

// WithTimeout sets the per-sink delivery deadline. Zero or less disables it.
func (d *Dispatcher) WithTimeout(timeout time.Duration) *Dispatcher {
	d.timeout = timeout
	return d
}

// Sinks returns the sink names in delivery order.
func (d *Dispatcher) Sinks() []string {
	names := make([]string, 0, len(d.sinks))
	for _, s := range d.sinks {
		names = append(names, s.Name())
	}
	return names
}

// Dispatch sends msg to every sink and returns one result per sink.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) []Result {
	results := make([]Result, 0, len(d.sinks))
	for _, s := range d.sinks {
		err := d.send(ctx, s, msg)
		if err != nil {
			d.log.WithContext(ctx).Warnw("notification sink failed",
				"sink", s.Name(), "kind", string(msg.Kind), "error", err)
		}
		results = append(results, Result{Sink: s.Name(), Err: err})
	}
	return results
}

// Notify implements Notifier.
func (d *Dispatcher) Notify(ctx context.Context, msg Message) {
	d.Dispatch(ctx, msg)
}

func (d *Dispatcher) send(ctx context.Context, s Sink, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panic: %v", r)
		}
	}()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	return s.Send(ctx, msg)
}
