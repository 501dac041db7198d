// Package city provides the City catalog: destinations that tour packages visit.
package city

import (
	"context"
	"strings"
	"time"

	"tourbook/internal/core/entity"
	"tourbook/internal/core/id"
	"tourbook/internal/core/types"
	"tourbook/internal/domain/catalogs/country"
)

// City belongs to exactly one Country and may be a destination of many packages.
type City struct {
	entity.BaseEntity

	Name string `db:"name" json:"name"`

	// Description is optional, at most 500 characters
	Description *string `db:"description" json:"description,omitempty"`

	CountryID id.ID `db:"country_id" json:"countryId"`
}

// NewCity creates a City in the given country.
func NewCity(name string, countryID id.ID) *City {
	return &City{Name: name, CountryID: countryID}
}

// Normalize trims fields; a blank description is cleared.
func (c *City) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	if c.Description != nil {
		d := strings.TrimSpace(*c.Description)
		if d == "" {
			c.Description = nil
		} else {
			c.Description = &d
		}
	}
}

// Validate implements entity.Validatable interface.
func (c *City) Validate(ctx context.Context) error {
	if err := entity.RequireLength("name", c.Name, 3, 100); err != nil {
		return err
	}
	if c.Description != nil {
		if err := entity.MaxLength("description", *c.Description, 500); err != nil {
			return err
		}
	}
	return entity.RequireRef("countryId", c.CountryID)
}

// PackageRef is a short view of a tour package visiting a city.
type PackageRef struct {
	ID        id.ID       `db:"id" json:"id"`
	Title     string      `db:"title" json:"title"`
	StartDate time.Time   `db:"start_date" json:"startDate"`
	EndDate   time.Time   `db:"end_date" json:"endDate"`
	Price     types.Money `db:"price" json:"price"`
}

// Details is a city together with its country and the packages that visit it.
type Details struct {
	City     *City            `json:"city"`
	Country  *country.Country `json:"country"`
	Packages []PackageRef     `json:"packages"`
}
