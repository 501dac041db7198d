package handlers

import (
	"github.com/gin-gonic/gin"

	"tourbook/internal/domain/catalogs/city"
	"tourbook/internal/domain/catalogs/tourpackage"
	"tourbook/internal/infrastructure/http/v1/dto"
)

// PackageHandler handles tour package HTTP requests, including destinations.
type PackageHandler struct {
	*CatalogHandler[*tourpackage.TourPackage, dto.PackageRequest, dto.PackageRequest]
	service *tourpackage.Service
}

// NewPackageHandler creates a new tour package handler.
func NewPackageHandler(base *BaseHandler, service *tourpackage.Service) *PackageHandler {
	config := CatalogHandlerConfig[*tourpackage.TourPackage, dto.PackageRequest, dto.PackageRequest]{
		Service: service,
		MapCreateDTO: func(req *dto.PackageRequest) *tourpackage.TourPackage {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req *dto.PackageRequest, existing *tourpackage.TourPackage) *tourpackage.TourPackage {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *tourpackage.TourPackage) any {
			return dto.FromPackage(entity)
		},
	}

	return &PackageHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// ListDestinations handles GET /packages/:id/destinations.
func (h *PackageHandler) ListDestinations(c *gin.Context) {
	packageID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	cities, err := h.service.ListDestinations(c.Request.Context(), packageID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": dto.MapSlice(cities, func(ct *city.City) *dto.CityResponse {
		return dto.FromCity(ct)
	})})
}

// AddDestination handles PUT /packages/:id/destinations/:cityId.
func (h *PackageHandler) AddDestination(c *gin.Context) {
	packageID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	cityID, ok := h.ParseID(c, "cityId")
	if !ok {
		return
	}

	if err := h.service.AddDestination(c.Request.Context(), packageID, cityID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// RemoveDestination handles DELETE /packages/:id/destinations/:cityId.
func (h *PackageHandler) RemoveDestination(c *gin.Context) {
	packageID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	cityID, ok := h.ParseID(c, "cityId")
	if !ok {
		return
	}

	if err := h.service.RemoveDestination(c.Request.Context(), packageID, cityID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
