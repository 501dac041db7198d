package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tourbook/internal/core/id"
	"tourbook/internal/domain/catalogs/city"
	"tourbook/internal/domain/catalogs/tourpackage"
	"tourbook/internal/infrastructure/storage/postgres"
)

// Compile-time interface check
var _ tourpackage.Repository = (*TourPackageRepo)(nil)

// TourPackageRepo implements tourpackage.Repository.
// The destination set lives in package_destinations.
type TourPackageRepo struct {
	*BaseCatalogRepo[*tourpackage.TourPackage]
}

// NewTourPackageRepo creates a new tour package repository.
func NewTourPackageRepo(txm *postgres.TxManager) *TourPackageRepo {
	return &TourPackageRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			TableConfig{Name: "tour_packages", Entity: "tour package", SearchColumn: "title", DefaultOrder: "start_date"},
			postgres.ExtractDBColumns[tourpackage.TourPackage](),
			func() *tourpackage.TourPackage { return &tourpackage.TourPackage{} },
		),
	}
}

// Create inserts the package and its destinations.
func (r *TourPackageRepo) Create(ctx context.Context, p *tourpackage.TourPackage) (id.ID, error) {
	newID, err := r.BaseCatalogRepo.Create(ctx, p)
	if err != nil {
		return 0, err
	}
	for _, cityID := range p.Destinations {
		if err := r.AddDestination(ctx, newID, cityID); err != nil {
			return 0, err
		}
	}
	return newID, nil
}

// Update writes the package; a non-nil destination set replaces the stored one.
func (r *TourPackageRepo) Update(ctx context.Context, p *tourpackage.TourPackage) error {
	if err := r.BaseCatalogRepo.Update(ctx, p); err != nil {
		return err
	}
	if p.Destinations == nil {
		return nil
	}
	if err := r.RemoveAllDestinations(ctx, p.ID); err != nil {
		return err
	}
	for _, cityID := range p.Destinations {
		if err := r.AddDestination(ctx, p.ID, cityID); err != nil {
			return err
		}
	}
	return nil
}

// GetByID loads a live package with its destination ids.
func (r *TourPackageRepo) GetByID(ctx context.Context, packageID id.ID) (*tourpackage.TourPackage, error) {
	p, err := r.BaseCatalogRepo.GetByID(ctx, packageID)
	if err != nil {
		return p, err
	}
	ids, err := r.destinationIDs(ctx, packageID)
	if err != nil {
		return p, err
	}
	p.Destinations = ids
	return p, nil
}

func (r *TourPackageRepo) addDestinationQuery(packageID, cityID id.ID) squirrel.InsertBuilder {
	return r.Builder().
		Insert(destinationsTable).
		Columns("package_id", "city_id").
		Values(packageID, cityID).
		Suffix("ON CONFLICT (package_id, city_id) DO NOTHING")
}

// AddDestination links a city; linking twice is a no-op.
func (r *TourPackageRepo) AddDestination(ctx context.Context, packageID, cityID id.ID) error {
	sql, args, err := r.addDestinationQuery(packageID, cityID).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return r.translate(err)
	}
	return nil
}

// RemoveDestination unlinks a city and reports whether a link existed.
func (r *TourPackageRepo) RemoveDestination(ctx context.Context, packageID, cityID id.ID) (bool, error) {
	sql, args, err := r.Builder().
		Delete(destinationsTable).
		Where(squirrel.Eq{"package_id": packageID, "city_id": cityID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete: %w", err)
	}
	tag, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("delete destination: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RemoveAllDestinations deletes every join row of the package.
func (r *TourPackageRepo) RemoveAllDestinations(ctx context.Context, packageID id.ID) error {
	sql, args, err := r.Builder().
		Delete(destinationsTable).
		Where(squirrel.Eq{"package_id": packageID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete destinations of package %d: %w", packageID, err)
	}
	return nil
}

func (r *TourPackageRepo) destinationsQuery(packageID id.ID) squirrel.SelectBuilder {
	return r.Builder().
		Select("c.id", "c.is_deleted", "c.deleted_at", "c.name", "c.description", "c.country_id").
		From("cities c").
		Join(destinationsTable + " d ON d.city_id = c.id").
		Where(squirrel.Eq{"d.package_id": packageID}).
		Where(notDeleted("c")).
		OrderBy("c.name ASC", "c.id ASC")
}

// ListDestinations returns the live cities of the package.
func (r *TourPackageRepo) ListDestinations(ctx context.Context, packageID id.ID) ([]*city.City, error) {
	sql, args, err := r.destinationsQuery(packageID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	cities := []*city.City{}
	if err := pgxscan.Select(ctx, r.Querier(ctx), &cities, sql, args...); err != nil {
		return nil, fmt.Errorf("list destinations: %w", err)
	}
	return cities, nil
}

func (r *TourPackageRepo) destinationIDs(ctx context.Context, packageID id.ID) ([]id.ID, error) {
	sql, args, err := r.Builder().
		Select("c.id").
		From("cities c").
		Join(destinationsTable + " d ON d.city_id = c.id").
		Where(squirrel.Eq{"d.package_id": packageID}).
		Where(notDeleted("c")).
		OrderBy("c.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	ids := []id.ID{}
	if err := pgxscan.Select(ctx, r.Querier(ctx), &ids, sql, args...); err != nil {
		return nil, fmt.Errorf("destination ids: %w", err)
	}
	return ids, nil
}
