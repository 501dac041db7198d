package handlers

import (
	"tourbook/internal/domain/documents/reservation"
	"tourbook/internal/infrastructure/http/v1/dto"
)

// ReservationHandler handles reservation HTTP requests.
type ReservationHandler struct {
	*CatalogHandler[*reservation.Reservation, dto.ReservationRequest, dto.ReservationRequest]
}

// NewReservationHandler creates a new reservation handler.
func NewReservationHandler(base *BaseHandler, service *reservation.Service) *ReservationHandler {
	config := CatalogHandlerConfig[*reservation.Reservation, dto.ReservationRequest, dto.ReservationRequest]{
		Service: service,
		MapCreateDTO: func(req *dto.ReservationRequest) *reservation.Reservation {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req *dto.ReservationRequest, existing *reservation.Reservation) *reservation.Reservation {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *reservation.Reservation) any {
			return dto.FromReservation(entity)
		},
		QueryFilters: map[string]string{
			"customerId": "customer_id",
			"packageId":  "package_id",
		},
	}

	return &ReservationHandler{
		CatalogHandler: NewCatalogHandler(base, config),
	}
}
