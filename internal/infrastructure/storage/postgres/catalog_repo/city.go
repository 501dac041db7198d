package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tourbook/internal/core/id"
	"tourbook/internal/domain/catalogs/city"
	"tourbook/internal/domain/catalogs/country"
	"tourbook/internal/infrastructure/storage/postgres"
)

const destinationsTable = "package_destinations"

// Compile-time interface checks
var (
	_ city.Repository        = (*CityRepo)(nil)
	_ country.CityReferences = (*CityRepo)(nil)
)

// CityRepo implements city.Repository.
type CityRepo struct {
	*BaseCatalogRepo[*city.City]
}

// NewCityRepo creates a new city repository.
func NewCityRepo(txm *postgres.TxManager) *CityRepo {
	return &CityRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			TableConfig{Name: "cities", Entity: "city", SearchColumn: "name", DefaultOrder: "name"},
			postgres.ExtractDBColumns[city.City](),
			func() *city.City { return &city.City{} },
		),
	}
}

// ExistsByCountry reports whether a live city references the country.
func (r *CityRepo) ExistsByCountry(ctx context.Context, countryID id.ID) (bool, error) {
	return r.ExistsWhere(ctx, squirrel.Eq{"country_id": countryID})
}

func (r *CityRepo) packagesVisitingQuery(cityID id.ID) squirrel.SelectBuilder {
	return r.Builder().
		Select("p.id", "p.title", "p.start_date", "p.end_date", "p.price").
		From("tour_packages p").
		Join(destinationsTable + " d ON d.package_id = p.id").
		Where(squirrel.Eq{"d.city_id": cityID}).
		Where(notDeleted("p")).
		OrderBy("p.start_date ASC", "p.id ASC")
}

// PackagesVisiting lists live packages that have the city as destination.
func (r *CityRepo) PackagesVisiting(ctx context.Context, cityID id.ID) ([]city.PackageRef, error) {
	sql, args, err := r.packagesVisitingQuery(cityID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var refs []city.PackageRef
	if err := pgxscan.Select(ctx, r.Querier(ctx), &refs, sql, args...); err != nil {
		return nil, fmt.Errorf("packages visiting city %d: %w", cityID, err)
	}
	return refs, nil
}

// RemoveFromPackages deletes the join rows of the city. This is the only
// physical delete besides RemoveAllDestinations.
func (r *CityRepo) RemoveFromPackages(ctx context.Context, cityID id.ID) error {
	sql, args, err := r.Builder().
		Delete(destinationsTable).
		Where(squirrel.Eq{"city_id": cityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete destinations of city %d: %w", cityID, err)
	}
	return nil
}
