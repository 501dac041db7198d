// Package reservation provides the Reservation document: a customer booking
// a tour package for a date.
package reservation

import (
	"context"
	"strings"
	"time"

	"tourbook/internal/core/apperror"
	"tourbook/internal/core/entity"
	"tourbook/internal/core/id"
	"tourbook/internal/core/types"
)

// Reservation books Participants seats of a package for a customer.
// (CustomerID, PackageID, ReservationDate) is unique among live reservations.
type Reservation struct {
	entity.BaseEntity

	CustomerID      id.ID       `db:"customer_id" json:"customerId"`
	PackageID       id.ID       `db:"package_id" json:"packageId"`
	ReservationDate time.Time   `db:"reservation_date" json:"reservationDate"`
	Participants    int         `db:"participants" json:"participants"`
	TotalValue      types.Money `db:"total_value" json:"totalValue"`

	// Notes is optional, at most 500 characters
	Notes *string `db:"notes" json:"notes,omitempty"`
}

// Normalize trims notes and truncates the date to a calendar day.
func (r *Reservation) Normalize() {
	if !r.ReservationDate.IsZero() {
		r.ReservationDate = types.NewDate(r.ReservationDate).Time
	}
	if r.Notes != nil {
		n := strings.TrimSpace(*r.Notes)
		if n == "" {
			r.Notes = nil
		} else {
			r.Notes = &n
		}
	}
}

// Validate implements entity.Validatable interface.
func (r *Reservation) Validate(ctx context.Context) error {
	if err := entity.RequireRef("customerId", r.CustomerID); err != nil {
		return err
	}
	if err := entity.RequireRef("packageId", r.PackageID); err != nil {
		return err
	}
	if r.ReservationDate.IsZero() {
		return apperror.NewFieldValidation("reservationDate", "reservationDate is required")
	}
	if err := entity.RequireRange("participants", r.Participants, 1, 10); err != nil {
		return err
	}
	if err := entity.RequirePositive("totalValue", r.TotalValue); err != nil {
		return err
	}
	if r.Notes != nil {
		if err := entity.MaxLength("notes", *r.Notes, 500); err != nil {
			return err
		}
	}
	return nil
}
