package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"tourbook/internal/core/id"
	"tourbook/internal/domain/capacity"
	"tourbook/internal/domain/catalogs/tourpackage"
	"tourbook/internal/domain/documents/reservation"
	"tourbook/internal/infrastructure/storage/postgres"
)

// Compile-time interface checks
var (
	_ reservation.Repository            = (*ReservationRepo)(nil)
	_ capacity.ReservationCounter       = (*ReservationRepo)(nil)
	_ tourpackage.ReservationReferences = (*ReservationRepo)(nil)
)

// ReservationRepo implements reservation.Repository.
type ReservationRepo struct {
	*BaseCatalogRepo[*reservation.Reservation]
}

// NewReservationRepo creates a new reservation repository.
func NewReservationRepo(txm *postgres.TxManager) *ReservationRepo {
	return &ReservationRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			TableConfig{Name: "reservations", Entity: "reservation", SearchColumn: "notes", DefaultOrder: "reservation_date"},
			postgres.ExtractDBColumns[reservation.Reservation](),
			func() *reservation.Reservation { return &reservation.Reservation{} },
		),
	}
}

// CountActiveByPackage counts live reservations of a package.
func (r *ReservationRepo) CountActiveByPackage(ctx context.Context, packageID id.ID) (int, error) {
	return r.CountWhere(ctx, squirrel.Eq{"package_id": packageID})
}

// ExistsByPackage reports whether a live reservation references the package.
func (r *ReservationRepo) ExistsByPackage(ctx context.Context, packageID id.ID) (bool, error) {
	return r.ExistsWhere(ctx, squirrel.Eq{"package_id": packageID})
}
