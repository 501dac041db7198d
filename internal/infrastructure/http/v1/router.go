// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appctx "tourbook/internal/core/context"
	"tourbook/internal/core/tx"
	"tourbook/internal/domain/audit"
	"tourbook/internal/domain/auth"
	"tourbook/internal/domain/capacity"
	"tourbook/internal/domain/catalogs/city"
	"tourbook/internal/domain/catalogs/country"
	"tourbook/internal/domain/catalogs/customer"
	"tourbook/internal/domain/catalogs/tourpackage"
	"tourbook/internal/domain/documents/reservation"
	"tourbook/internal/domain/notes"
	"tourbook/internal/domain/notification"
	"tourbook/internal/domain/pricing"
	"tourbook/internal/infrastructure/http/v1/handlers"
	"tourbook/internal/infrastructure/http/v1/middleware"
	"tourbook/internal/infrastructure/storage/postgres"
	"tourbook/internal/infrastructure/storage/postgres/catalog_repo"
	"tourbook/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Pool backs /health/ready
	Pool handlers.Pinger

	// Repositories persist the entities
	Repositories Repositories

	// TxManager runs service writes; nil runs them without a transaction
	TxManager tx.Manager

	// Notifier receives capacity and operation messages (usually a notification.Dispatcher)
	Notifier notification.Notifier

	// AuthService validates admin credentials and sessions
	AuthService *auth.Service

	// NotesStore persists notes
	NotesStore notes.Store

	// AuditHistory serves /:id/history routes when set
	AuditHistory audit.History

	// CookieSecure marks the session cookie Secure
	CookieSecure bool

	// HTTPMetrics enables request metrics when set
	HTTPMetrics *middleware.HTTPMetrics

	// MetricsGatherer is served on /metrics when set
	MetricsGatherer prometheus.Gatherer
}

// Repositories groups the entity repositories used by the services.
type Repositories struct {
	Customers    customer.Repository
	Countries    country.Repository
	Cities       city.Repository
	Packages     tourpackage.Repository
	Reservations reservation.Repository
}

// PostgresRepositories builds the PostgreSQL repositories over txm.
func PostgresRepositories(txm *postgres.TxManager) Repositories {
	return Repositories{
		Customers:    catalog_repo.NewCustomerRepo(txm),
		Countries:    catalog_repo.NewCountryRepo(txm),
		Cities:       catalog_repo.NewCityRepo(txm),
		Packages:     catalog_repo.NewTourPackageRepo(txm),
		Reservations: catalog_repo.NewReservationRepo(txm),
	}
}

// services groups the domain services shared by route groups.
type services struct {
	customers    *customer.Service
	countries    *country.Service
	cities       *city.Service
	packages     *tourpackage.Service
	reservations *reservation.Service
	pricing      *pricing.Service
	notes        *notes.Service
	history      *audit.HistoryService
}

// newServices wires repositories and services. Cross-entity checks go through
// small interfaces, so the wiring order below is the dependency order.
func newServices(cfg RouterConfig) *services {
	journal := audit.NewJournal(cfg.Notifier)

	repos := cfg.Repositories
	cityRepo := repos.Cities
	reservationRepo := repos.Reservations

	s := &services{}
	s.customers = customer.NewService(repos.Customers, cfg.TxManager, journal)
	s.countries = country.NewService(repos.Countries, cityRepo, cfg.TxManager, journal)
	s.cities = city.NewService(cityRepo, s.countries, cfg.TxManager, journal)
	s.packages = tourpackage.NewService(repos.Packages, s.cities, reservationRepo, cfg.TxManager, journal)

	checker := capacity.NewChecker(s.packages, reservationRepo, cfg.Notifier)
	s.reservations = reservation.NewService(reservationRepo, s.customers, s.packages, checker, cfg.TxManager, journal)

	s.pricing = pricing.NewService(journal)
	if cfg.NotesStore != nil {
		s.notes = notes.NewService(cfg.NotesStore, journal)
	}
	if cfg.AuditHistory != nil {
		s.history = audit.NewHistoryService(cfg.AuditHistory)
	}
	return s
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	if cfg.HTTPMetrics != nil {
		router.Use(middleware.Metrics(cfg.HTTPMetrics))
	}
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	if cfg.MetricsGatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.MetricsGatherer, promhttp.HandlerOpts{})))
	}

	svc := newServices(cfg)

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		// Everything else requires an admin session
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.AuthService))
		protected.Use(middleware.RequireRole(appctx.RoleAdmin))

		registerCatalogRoutes(protected, svc)
		registerReservationRoutes(protected, svc)
		registerToolRoutes(protected, svc)
		registerNoteRoutes(protected, svc)
		registerHistoryRoutes(protected, svc)
	}

	return router
}

func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService, cfg.CookieSecure)

	authGroup := rg.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)

	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.AuthService))
	protectedAuth.GET("/me", authHandler.Me)
}

func registerCatalogRoutes(rg *gin.RouterGroup, svc *services) {
	baseHandler := handlers.NewBaseHandler()

	RegisterCatalogRoutes(rg.Group("/customers"), handlers.NewCustomerHandler(baseHandler, svc.customers))
	RegisterCatalogRoutes(rg.Group("/countries"), handlers.NewCountryHandler(baseHandler, svc.countries))

	// Cities
	{
		handler := handlers.NewCityHandler(baseHandler, svc.cities)
		group := rg.Group("/cities")
		RegisterCatalogRoutes(group, handler)
		group.GET("/:id/details", handler.Details)
	}

	// Tour packages
	{
		handler := handlers.NewPackageHandler(baseHandler, svc.packages)
		group := rg.Group("/packages")
		RegisterCatalogRoutes(group, handler)
		group.GET("/:id/destinations", handler.ListDestinations)
		group.PUT("/:id/destinations/:cityId", handler.AddDestination)
		group.DELETE("/:id/destinations/:cityId", handler.RemoveDestination)
	}
}

func registerReservationRoutes(rg *gin.RouterGroup, svc *services) {
	handler := handlers.NewReservationHandler(handlers.NewBaseHandler(), svc.reservations)
	RegisterCatalogRoutes(rg.Group("/reservations"), handler)
}

func registerToolRoutes(rg *gin.RouterGroup, svc *services) {
	handler := handlers.NewToolsHandler(handlers.NewBaseHandler(), svc.pricing)
	tools := rg.Group("/tools")
	tools.POST("/discount", handler.Discount)
	tools.POST("/total-value", handler.TotalValue)
}

func registerNoteRoutes(rg *gin.RouterGroup, svc *services) {
	if svc.notes == nil {
		return
	}
	handler := handlers.NewNotesHandler(handlers.NewBaseHandler(), svc.notes)
	group := rg.Group("/notes")
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:name", handler.Read)
}

// registerHistoryRoutes exposes the audit trail of each tracked entity under
// its own resource.
func registerHistoryRoutes(rg *gin.RouterGroup, svc *services) {
	if svc.history == nil {
		return
	}
	handler := handlers.NewAuditHandler(handlers.NewBaseHandler(), svc.history)
	for path, entityType := range map[string]string{
		"/customers":    "customer",
		"/countries":    "country",
		"/cities":       "city",
		"/packages":     "tour package",
		"/reservations": "reservation",
	} {
		rg.GET(path+"/:id/history", handler.EntityHistory(entityType))
	}
}
