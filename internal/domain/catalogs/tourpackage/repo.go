package tourpackage

import (
	"context"

	"tourbook/internal/core/id"
	"tourbook/internal/domain"
	"tourbook/internal/domain/catalogs/city"
)

// Repository defines the interface for TourPackage persistence.
// Create and Update also write the destination set when it is not nil;
// GetByID loads it.
type Repository interface {
	domain.CatalogRepository[*TourPackage]

	// AddDestination links a city; linking twice is a no-op.
	AddDestination(ctx context.Context, packageID, cityID id.ID) error

	// RemoveDestination unlinks a city and reports whether a link existed.
	RemoveDestination(ctx context.Context, packageID, cityID id.ID) (bool, error)

	// ListDestinations returns the live cities of the package.
	ListDestinations(ctx context.Context, packageID id.ID) ([]*city.City, error)

	// RemoveAllDestinations deletes every join row of the package.
	RemoveAllDestinations(ctx context.Context, packageID id.ID) error
}

// CityChecker reports live cities.
type CityChecker interface {
	Exists(ctx context.Context, cityID id.ID) (bool, error)
}

// ReservationReferences reports live reservations of a package.
type ReservationReferences interface {
	ExistsByPackage(ctx context.Context, packageID id.ID) (bool, error)
}
