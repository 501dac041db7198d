package dto

import (
	"tourbook/internal/core/id"
	"tourbook/internal/domain/catalogs/country"
)

// CountryRequest is the request body for creating and updating a country.
type CountryRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// ToEntity converts DTO to domain entity.
func (r *CountryRequest) ToEntity() *country.Country {
	return country.NewCountry(r.Name, r.Code)
}

// ApplyTo applies update DTO to existing entity.
func (r *CountryRequest) ApplyTo(c *country.Country) {
	c.Name = r.Name
	c.Code = r.Code
}

// CountryResponse is the response body for a country.
type CountryResponse struct {
	ID   id.ID  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// FromCountry creates response DTO from domain entity.
func FromCountry(c *country.Country) *CountryResponse {
	return &CountryResponse{ID: c.ID, Name: c.Name, Code: c.Code}
}
