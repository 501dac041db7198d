// Package tourpackage provides the TourPackage catalog: sellable trips with a
// date range, a capacity, a price and a set of destination cities.
package tourpackage

import (
	"context"
	"strings"
	"time"

	"tourbook/internal/core/apperror"
	"tourbook/internal/core/entity"
	"tourbook/internal/core/id"
	"tourbook/internal/core/types"
)

// TourPackage is a trip offered for reservation.
type TourPackage struct {
	entity.BaseEntity

	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	StartDate   time.Time `db:"start_date" json:"startDate"`
	EndDate     time.Time `db:"end_date" json:"endDate"`

	// MaxCapacity is advisory: reaching it triggers a notification, never a rejection
	MaxCapacity int `db:"max_capacity" json:"maxCapacity"`

	Price types.Money `db:"price" json:"price"`

	// Destinations are city ids, stored in package_destinations.
	// nil on update means "leave destinations unchanged".
	Destinations []id.ID `db:"-" json:"destinations"`
}

// Normalize trims text fields and removes duplicate destinations.
func (p *TourPackage) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	if p.Destinations != nil {
		seen := make(map[id.ID]struct{}, len(p.Destinations))
		uniq := make([]id.ID, 0, len(p.Destinations))
		for _, d := range p.Destinations {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			uniq = append(uniq, d)
		}
		p.Destinations = uniq
	}
}

// Validate implements entity.Validatable interface.
func (p *TourPackage) Validate(ctx context.Context) error {
	if err := entity.RequireLength("title", p.Title, 5, 200); err != nil {
		return err
	}
	if err := entity.RequireLength("description", p.Description, 10, 1000); err != nil {
		return err
	}
	if p.StartDate.IsZero() {
		return apperror.NewFieldValidation("startDate", "startDate is required")
	}
	if p.EndDate.IsZero() {
		return apperror.NewFieldValidation("endDate", "endDate is required")
	}
	if p.EndDate.Before(p.StartDate) {
		return apperror.NewFieldValidation("endDate", "endDate must not be before startDate")
	}
	if err := entity.RequireRange("maxCapacity", p.MaxCapacity, 1, 100); err != nil {
		return err
	}
	if err := entity.RequirePositive("price", p.Price); err != nil {
		return err
	}
	for _, d := range p.Destinations {
		if d <= 0 {
			return apperror.NewFieldValidation("destinations", "destinations must contain valid city ids")
		}
	}
	return nil
}

// Days returns the inclusive length of the trip in days.
func (p *TourPackage) Days() int {
	return int(p.EndDate.Sub(p.StartDate).Hours()/24) + 1
}
