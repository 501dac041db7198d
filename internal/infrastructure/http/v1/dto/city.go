package dto

import (
	"tourbook/internal/core/id"
	"tourbook/internal/core/types"
	"tourbook/internal/domain/catalogs/city"
)

// CityRequest is the request body for creating and updating a city.
type CityRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CountryID   id.ID   `json:"countryId"`
}

// ToEntity converts DTO to domain entity.
func (r *CityRequest) ToEntity() *city.City {
	c := city.NewCity(r.Name, r.CountryID)
	c.Description = r.Description
	return c
}

// ApplyTo applies update DTO to existing entity.
func (r *CityRequest) ApplyTo(c *city.City) {
	c.Name = r.Name
	c.Description = r.Description
	c.CountryID = r.CountryID
}

// CityResponse is the response body for a city.
type CityResponse struct {
	ID          id.ID   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	CountryID   id.ID   `json:"countryId"`
}

// FromCity creates response DTO from domain entity.
func FromCity(c *city.City) *CityResponse {
	return &CityResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CountryID:   c.CountryID,
	}
}

// PackageRefResponse is a short view of a package visiting a city.
type PackageRefResponse struct {
	ID        id.ID       `json:"id"`
	Title     string      `json:"title"`
	StartDate types.Date  `json:"startDate"`
	EndDate   types.Date  `json:"endDate"`
	Price     types.Money `json:"price"`
}

// CityDetailsResponse is a city with its country and visiting packages.
type CityDetailsResponse struct {
	City     *CityResponse        `json:"city"`
	Country  *CountryResponse     `json:"country"`
	Packages []PackageRefResponse `json:"packages"`
}

// FromCityDetails creates response DTO from the domain view.
func FromCityDetails(d *city.Details) *CityDetailsResponse {
	resp := &CityDetailsResponse{
		City: FromCity(d.City),
		Packages: MapSlice(d.Packages, func(p city.PackageRef) PackageRefResponse {
			return PackageRefResponse{
				ID:        p.ID,
				Title:     p.Title,
				StartDate: types.NewDate(p.StartDate),
				EndDate:   types.NewDate(p.EndDate),
				Price:     p.Price,
			}
		}),
	}
	if d.Country != nil {
		resp.Country = FromCountry(d.Country)
	}
	return resp
}
