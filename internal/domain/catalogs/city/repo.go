package city

import (
	"context"

	"tourbook/internal/core/id"
	"tourbook/internal/domain"
	"tourbook/internal/domain/catalogs/country"
)

// Repository defines the interface for City persistence.
type Repository interface {
	domain.CatalogRepository[*City]

	// ExistsByCountry reports whether a live city references the country.
	ExistsByCountry(ctx context.Context, countryID id.ID) (bool, error)

	// PackagesVisiting lists live packages that have the city as destination.
	PackagesVisiting(ctx context.Context, cityID id.ID) ([]PackageRef, error)

	// RemoveFromPackages deletes the join rows of the city.
	RemoveFromPackages(ctx context.Context, cityID id.ID) error
}

// CountryReader loads countries for reference checks and details.
type CountryReader interface {
	GetByID(ctx context.Context, countryID id.ID) (*country.Country, error)

	// GetForShare keeps the country from being deleted until the transaction ends
	GetForShare(ctx context.Context, countryID id.ID) (*country.Country, error)
}
