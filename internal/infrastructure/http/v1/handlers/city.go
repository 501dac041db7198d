package handlers

import (
	"github.com/gin-gonic/gin"

	"tourbook/internal/domain/catalogs/city"
	"tourbook/internal/infrastructure/http/v1/dto"
)

// CityHandler handles city HTTP requests.
type CityHandler struct {
	*CatalogHandler[*city.City, dto.CityRequest, dto.CityRequest]
	service *city.Service
}

// NewCityHandler creates a new city handler.
func NewCityHandler(base *BaseHandler, service *city.Service) *CityHandler {
	config := CatalogHandlerConfig[*city.City, dto.CityRequest, dto.CityRequest]{
		Service: service,
		MapCreateDTO: func(req *dto.CityRequest) *city.City {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req *dto.CityRequest, existing *city.City) *city.City {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *city.City) any {
			return dto.FromCity(entity)
		},
		QueryFilters: map[string]string{"countryId": "country_id"},
	}

	return &CityHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// Details handles GET /cities/:id/details.
func (h *CityHandler) Details(c *gin.Context) {
	cityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	details, err := h.service.Details(c.Request.Context(), cityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCityDetails(details))
}
