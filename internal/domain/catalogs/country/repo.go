package country

import (
	"context"

	"tourbook/internal/core/id"
	"tourbook/internal/domain"
)

// Repository defines the interface for Country persistence.
type Repository interface {
	domain.CatalogRepository[*Country]
}

// CityReferences reports live cities of a country.
type CityReferences interface {
	ExistsByCountry(ctx context.Context, countryID id.ID) (bool, error)
}
