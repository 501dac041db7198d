package v1

import (
	"github.com/gin-gonic/gin"
)

// CatalogRouteHandler defines the interface for entity handlers.
// All entity handlers must implement these methods.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for an entity.
//
// Usage:
//
//	handler := handlers.NewCountryHandler(baseHandler, countryService)
//	RegisterCatalogRoutes(rg.Group("/countries"), handler)
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
}
