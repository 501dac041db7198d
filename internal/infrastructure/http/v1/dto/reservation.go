package dto

import (
	"tourbook/internal/core/id"
	"tourbook/internal/core/types"
	"tourbook/internal/domain/documents/reservation"
)

// ReservationRequest is the request body for creating and updating a reservation.
// An omitted totalValue on create is computed from the package price.
type ReservationRequest struct {
	CustomerID      id.ID        `json:"customerId"`
	PackageID       id.ID        `json:"packageId"`
	ReservationDate types.Date   `json:"reservationDate"`
	Participants    int          `json:"participants"`
	TotalValue      *types.Money `json:"totalValue"`
	Notes           *string      `json:"notes"`
}

// ToEntity converts DTO to domain entity.
func (r *ReservationRequest) ToEntity() *reservation.Reservation {
	res := &reservation.Reservation{}
	r.ApplyTo(res)
	return res
}

// ApplyTo applies update DTO to existing entity. An omitted totalValue keeps the stored one.
func (r *ReservationRequest) ApplyTo(res *reservation.Reservation) {
	res.CustomerID = r.CustomerID
	res.PackageID = r.PackageID
	res.ReservationDate = r.ReservationDate.Time
	res.Participants = r.Participants
	if r.TotalValue != nil {
		res.TotalValue = *r.TotalValue
	}
	res.Notes = r.Notes
}

// ReservationResponse is the response body for a reservation.
type ReservationResponse struct {
	ID              id.ID       `json:"id"`
	CustomerID      id.ID       `json:"customerId"`
	PackageID       id.ID       `json:"packageId"`
	ReservationDate types.Date  `json:"reservationDate"`
	Participants    int         `json:"participants"`
	TotalValue      types.Money `json:"totalValue"`
	Notes           *string     `json:"notes,omitempty"`
}

// FromReservation creates response DTO from domain entity.
func FromReservation(r *reservation.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:              r.ID,
		CustomerID:      r.CustomerID,
		PackageID:       r.PackageID,
		ReservationDate: types.NewDate(r.ReservationDate),
		Participants:    r.Participants,
		TotalValue:      r.TotalValue,
		Notes:           r.Notes,
	}
}
