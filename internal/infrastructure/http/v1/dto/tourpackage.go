package dto

import (
	"tourbook/internal/core/id"
	"tourbook/internal/core/types"
	"tourbook/internal/domain/catalogs/tourpackage"
)

// PackageRequest is the request body for creating and updating a tour package.
// On update an absent destinations list leaves the destinations unchanged.
type PackageRequest struct {
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	StartDate    types.Date  `json:"startDate"`
	EndDate      types.Date  `json:"endDate"`
	MaxCapacity  int         `json:"maxCapacity"`
	Price        types.Money `json:"price"`
	Destinations []id.ID     `json:"destinations"`
}

// ToEntity converts DTO to domain entity.
func (r *PackageRequest) ToEntity() *tourpackage.TourPackage {
	p := &tourpackage.TourPackage{}
	r.ApplyTo(p)
	if p.Destinations == nil {
		p.Destinations = []id.ID{}
	}
	return p
}

// ApplyTo applies update DTO to existing entity.
func (r *PackageRequest) ApplyTo(p *tourpackage.TourPackage) {
	p.Title = r.Title
	p.Description = r.Description
	p.StartDate = r.StartDate.Time
	p.EndDate = r.EndDate.Time
	p.MaxCapacity = r.MaxCapacity
	p.Price = r.Price
	p.Destinations = r.Destinations
}

// PackageResponse is the response body for a tour package.
type PackageResponse struct {
	ID           id.ID       `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	StartDate    types.Date  `json:"startDate"`
	EndDate      types.Date  `json:"endDate"`
	Days         int         `json:"days"`
	MaxCapacity  int         `json:"maxCapacity"`
	Price        types.Money `json:"price"`
	Destinations []id.ID     `json:"destinations"`
}

// FromPackage creates response DTO from domain entity.
func FromPackage(p *tourpackage.TourPackage) *PackageResponse {
	dest := p.Destinations
	if dest == nil {
		dest = []id.ID{}
	}
	return &PackageResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		StartDate:    types.NewDate(p.StartDate),
		EndDate:      types.NewDate(p.EndDate),
		Days:         p.Days(),
		MaxCapacity:  p.MaxCapacity,
		Price:        p.Price,
		Destinations: dest,
	}
}
