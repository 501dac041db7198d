package notification

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	domain "tourbook/internal/domain/notification"
)

// MetricsSink counts messages by kind.
type MetricsSink struct {
	total *prometheus.CounterVec
}

// NewMetricsSink registers tourbook_notifications_total on reg.
func NewMetricsSink(reg prometheus.Registerer) (*MetricsSink, error) {
	total := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourbook_notifications_total",
			Help: "Total number of notifications dispatched, by kind",
		},
		[]string{"kind"},
	)
	if err := reg.Register(total); err != nil {
		return nil, err
	}
	return &MetricsSink{total: total}, nil
}

// Name implements domain.Sink.
func (s *MetricsSink) Name() string { return "metrics" }

// Send implements domain.Sink.
func (s *MetricsSink) Send(ctx context.Context, msg domain.Message) error {
	s.total.WithLabelValues(string(msg.Kind)).Inc()
	return nil
}
