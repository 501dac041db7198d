package handlers

import (
	"tourbook/internal/domain/catalogs/country"
	"tourbook/internal/infrastructure/http/v1/dto"
)

// CountryHandler handles country HTTP requests.
type CountryHandler struct {
	*CatalogHandler[*country.Country, dto.CountryRequest, dto.CountryRequest]
}

// NewCountryHandler creates a new country handler.
func NewCountryHandler(base *BaseHandler, service *country.Service) *CountryHandler {
	config := CatalogHandlerConfig[*country.Country, dto.CountryRequest, dto.CountryRequest]{
		Service: service,
		MapCreateDTO: func(req *dto.CountryRequest) *country.Country {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req *dto.CountryRequest, existing *country.Country) *country.Country {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *country.Country) any {
			return dto.FromCountry(entity)
		},
	}

	return &CountryHandler{
		CatalogHandler: NewCatalogHandler(base, config),
	}
}
