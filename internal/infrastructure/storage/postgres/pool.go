// Package postgres provides PostgreSQL infrastructure components.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"tourbook/pkg/logger"
)

// PoolConfig holds connection pool settings.
type PoolConfig struct {
	DSN string
	// ApplicationName is reported in pg_stat_activity
	ApplicationName   string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

// DefaultPoolConfig returns the server defaults for dsn.
func DefaultPoolConfig(dsn string) PoolConfig {
	return PoolConfig{
		DSN:               dsn,
		ApplicationName:   "tourbook",
		MaxConns:          10,
		MinConns:          1,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   30 * time.Minute,
		HealthCheckPeriod: time.Minute,
	}
}

// pgxConfig checks the bounds and builds the pgxpool configuration.
func (c PoolConfig) pgxConfig() (*pgxpool.Config, error) {
	if c.MaxConns < 1 {
		return nil, fmt.Errorf("pool max conns must be positive, got %d", c.MaxConns)
	}
	if c.MinConns < 0 || c.MinConns > c.MaxConns {
		return nil, fmt.Errorf("pool min conns %d outside [0, %d]", c.MinConns, c.MaxConns)
	}

	pc, err := pgxpool.ParseConfig(c.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pc.MaxConns = c.MaxConns
	pc.MinConns = c.MinConns
	pc.MaxConnLifetime = c.MaxConnLifetime
	pc.MaxConnIdleTime = c.MaxConnIdleTime
	pc.HealthCheckPeriod = c.HealthCheckPeriod
	if c.ApplicationName != "" {
		pc.ConnConfig.RuntimeParams["application_name"] = c.ApplicationName
	}
	return pc, nil
}

// Pool wraps pgxpool.Pool.
type Pool struct {
	*pgxpool.Pool
}

// NewPool connects and verifies the database is reachable.
func NewPool(ctx context.Context, cfg PoolConfig) (*Pool, error) {
	pc, err := cfg.pgxConfig()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Pool{Pool: pool}, nil
}

// Close closes all connections in the pool.
func (p *Pool) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}

// Ping backs the readiness endpoint.
func (p *Pool) Ping(ctx context.Context) error {
	if p == nil || p.Pool == nil {
		return errors.New("database pool is not initialized")
	}
	return p.Pool.Ping(ctx)
}

// RegisterPoolMetrics exposes the connection counts of pool on reg as
// tourbook_db_pool_connections{state} and tourbook_db_pool_acquires_total.
func RegisterPoolMetrics(reg prometheus.Registerer, pool *pgxpool.Pool) error {
	states := []struct {
		name  string
		value func(*pgxpool.Stat) int32
	}{
		{"total", (*pgxpool.Stat).TotalConns},
		{"acquired", (*pgxpool.Stat).AcquiredConns},
		{"idle", (*pgxpool.Stat).IdleConns},
		{"max", (*pgxpool.Stat).MaxConns},
	}
	for _, s := range states {
		gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "tourbook_db_pool_connections",
			Help:        "Database pool connections by state",
			ConstLabels: prometheus.Labels{"state": s.name},
		}, func() float64 { return float64(s.value(pool.Stat())) })
		if err := reg.Register(gauge); err != nil {
			return fmt.Errorf("register pool %s gauge: %w", s.name, err)
		}
	}

	acquires := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "tourbook_db_pool_acquires_total",
		Help: "Connections acquired from the database pool",
	}, func() float64 { return float64(pool.Stat().AcquireCount()) })
	if err := reg.Register(acquires); err != nil {
		return fmt.Errorf("register pool acquires counter: %w", err)
	}
	return nil
}

// LogPoolStats logs the current connection counts.
func LogPoolStats(ctx context.Context, pool *pgxpool.Pool) {
	stat := pool.Stat()
	logger.Info(ctx, "database pool ready",
		"total", stat.TotalConns(),
		"idle", stat.IdleConns(),
		"max", stat.MaxConns(),
		"acquire_duration", stat.AcquireDuration(),
	)
}
