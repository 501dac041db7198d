package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"tourbook/internal/config"
	"tourbook/internal/domain/notification"
	notifysink "tourbook/internal/infrastructure/notification"
	"tourbook/internal/infrastructure/storage/postgres"
	"tourbook/pkg/logger"
)

// buildSinks assembles the ordered sink list: log, file, metrics, the audit
// log when set, then the optional broker sinks. The returned func releases
// broker connections.
func buildSinks(
	ctx context.Context,
	cfg config.NotificationConfig,
	log *logger.Logger,
	reg prometheus.Registerer,
	auditLog *postgres.AuditLog,
) ([]notification.Sink, func(), error) {
	var closers []func() error
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warnw("failed to close notification sink", "error", err)
			}
		}
	}

	metricsSink, err := notifysink.NewMetricsSink(reg)
	if err != nil {
		return nil, closeAll, fmt.Errorf("metrics sink: %w", err)
	}

	fileSink := notifysink.NewFileSink(cfg.FileLogPath)
	log.Infow("notification file sink", "path", fileSink.Path())

	sinks := []notification.Sink{
		notifysink.NewLogSink(log),
		fileSink,
		metricsSink,
	}
	if auditLog != nil {
		sinks = append(sinks, auditLog)
	}

	if cfg.AMQPURL != "" {
		amqpSink, err := notifysink.DialAMQPSink(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			// Broker sinks are optional; the server runs without them
			log.Warnw("rabbitmq sink disabled", "error", err)
		} else {
			sinks = append(sinks, amqpSink)
			closers = append(closers, amqpSink.Close)
		}
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = client.Close()
			log.Warnw("redis sink disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			sinks = append(sinks, notifysink.NewRedisSink(client, cfg.RedisChannel))
			closers = append(closers, client.Close)
		}
	}

	return sinks, closeAll, nil
}
