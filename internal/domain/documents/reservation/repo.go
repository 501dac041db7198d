package reservation

import (
	"context"

	"tourbook/internal/core/id"
	"tourbook/internal/domain"
	"tourbook/internal/domain/capacity"
	"tourbook/internal/domain/catalogs/customer"
	"tourbook/internal/domain/catalogs/tourpackage"
)

// Repository defines the interface for Reservation persistence.
type Repository interface {
	domain.CatalogRepository[*Reservation]

	// CountActiveByPackage counts live reservations of a package.
	CountActiveByPackage(ctx context.Context, packageID id.ID) (int, error)

	// ExistsByPackage reports whether a live reservation references the package.
	ExistsByPackage(ctx context.Context, packageID id.ID) (bool, error)
}

// CustomerReader loads live customers.
type CustomerReader interface {
	GetForShare(ctx context.Context, customerID id.ID) (*customer.Customer, error)
}

// PackageReader loads live packages. GetForShare keeps the package from
// being deleted until the transaction ends.
type PackageReader interface {
	GetByID(ctx context.Context, packageID id.ID) (*tourpackage.TourPackage, error)
	GetForShare(ctx context.Context, packageID id.ID) (*tourpackage.TourPackage, error)
}

// CapacityChecker runs the advisory capacity check for a package.
type CapacityChecker interface {
	Check(ctx context.Context, packageID id.ID) (*capacity.Reached, error)
}
