// Package main is the entry point for the tourbook API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"tourbook/internal/config"
	"tourbook/internal/domain/auth"
	"tourbook/internal/domain/notification"
	v1 "tourbook/internal/infrastructure/http/v1"
	"tourbook/internal/infrastructure/http/v1/middleware"
	"tourbook/internal/infrastructure/notestore"
	"tourbook/internal/infrastructure/storage/postgres"
	"tourbook/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.Development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	log.Infow("starting tourbook server", "env", cfg.App.Env)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.MaxConns = int32(cfg.Database.MaxConns)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, txManager); err != nil {
			log.Fatalw("failed to apply migrations", "error", err)
		}
		log.Info("database schema is up to date")
	}
	postgres.LogPoolStats(logger.WithLogger(ctx, log), pool.Pool)

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := postgres.RegisterPoolMetrics(registry, pool.Pool); err != nil {
		log.Fatalw("failed to register pool metrics", "error", err)
	}
	httpMetrics, err := middleware.NewHTTPMetrics(registry, "tourbook")
	if err != nil {
		log.Fatalw("failed to register http metrics", "error", err)
	}

	// --- Notifications ---
	var auditLog *postgres.AuditLog
	if cfg.Notifications.AuditLog {
		auditLog, err = postgres.NewAuditLog(txManager)
		if err != nil {
			log.Fatalw("failed to initialize audit log", "error", err)
		}
		defer auditLog.Close()
	}

	sinks, closeSinks, err := buildSinks(ctx, cfg.Notifications, log, registry, auditLog)
	if err != nil {
		log.Fatalw("failed to initialize notification sinks", "error", err)
	}
	defer closeSinks()

	dispatcher := notification.NewDispatcher(log, sinks...).WithTimeout(cfg.Notifications.SinkTimeout)
	log.Infow("notification dispatcher initialized", "sinks", dispatcher.Sinks())

	// --- Auth ---
	authService, err := newAuthService(cfg.Auth, log)
	if err != nil {
		log.Fatalw("failed to initialize auth", "error", err)
	}

	// --- Router ---
	routerCfg := v1.RouterConfig{
		Logger:          log,
		Pool:            pool,
		Repositories:    v1.PostgresRepositories(txManager),
		TxManager:       txManager,
		Notifier:        dispatcher,
		AuthService:     authService,
		NotesStore:      notestore.NewFileStore(cfg.Notes.Dir),
		CookieSecure:    cfg.Auth.CookieSecure,
		HTTPMetrics:     httpMetrics,
		MetricsGatherer: registry,
	}
	if auditLog != nil {
		routerCfg.AuditHistory = auditLog
	}
	router := v1.NewRouter(routerCfg)

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// newAuthService builds the admin auth service. A plain ADMIN_PASSWORD is
// hashed here; config only accepts it in development.
func newAuthService(cfg config.AuthConfig, log *logger.Logger) (*auth.Service, error) {
	hash := cfg.AdminPasswordHash
	if hash == "" {
		var err error
		hash, err = auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		log.Warn("using plain ADMIN_PASSWORD, set ADMIN_PASSWORD_HASH outside development")
	}

	svcCfg := auth.DefaultServiceConfig(cfg.AdminUsername, hash)
	svcCfg.SessionTTL = cfg.SessionTTL
	svcCfg.RememberTTL = cfg.RememberTTL

	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(cfg.JWTSecret))
	return auth.NewService(svcCfg, jwtService), nil
}
