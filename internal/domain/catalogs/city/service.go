package city

import (
	"context"
	"fmt"

	"tourbook/internal/core/apperror"
	"tourbook/internal/core/id"
	"tourbook/internal/core/tx"
	"tourbook/internal/domain"
	"tourbook/internal/domain/audit"
)

// Service provides business logic for the City catalog.
type Service struct {
	*domain.CatalogService[*City]
	repo      Repository
	countries CountryReader
}

// NewService creates a new City service.
func NewService(repo Repository, countries CountryReader, txm tx.Manager, journal *audit.Journal) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*City]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "city",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		countries:      countries,
	}

	base.Hooks().OnBeforeCreate(svc.ensureCountry)
	base.Hooks().OnBeforeUpdate(svc.ensureCountry)
	base.Hooks().OnBeforeDelete(svc.detachPackages)
	if journal != nil {
		audit.Track(journal, base.Hooks(), "city", func(c *City) string { return "'" + c.Name + "'" })
	}

	return svc
}

// ensureCountry checks that the referenced country is live and locks it, so
// a concurrent country delete either waits for this write or is seen here.
func (s *Service) ensureCountry(ctx context.Context, c *City) error {
	if _, err := s.countries.GetForShare(ctx, c.CountryID); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewFieldValidation("countryId", "country does not exist").
				WithDetail("countryId", c.CountryID)
		}
		return fmt.Errorf("load country %d: %w", c.CountryID, err)
	}
	return nil
}

// detachPackages removes the city from every package's destinations.
func (s *Service) detachPackages(ctx context.Context, c *City) error {
	if err := s.repo.RemoveFromPackages(ctx, c.ID); err != nil {
		return fmt.Errorf("remove destinations of city %d: %w", c.ID, err)
	}
	return nil
}

// Details returns the city with its country and the packages visiting it.
func (s *Service) Details(ctx context.Context, cityID id.ID) (*Details, error) {
	c, err := s.GetByID(ctx, cityID)
	if err != nil {
		return nil, err
	}

	d := &Details{City: c, Packages: []PackageRef{}}

	co, err := s.countries.GetByID(ctx, c.CountryID)
	switch {
	case err == nil:
		d.Country = co
	case !apperror.IsNotFound(err):
		return nil, fmt.Errorf("load country %d: %w", c.CountryID, err)
	}

	pkgs, err := s.repo.PackagesVisiting(ctx, cityID)
	if err != nil {
		return nil, fmt.Errorf("list packages of city %d: %w", cityID, err)
	}
	if pkgs != nil {
		d.Packages = pkgs
	}
	return d, nil
}
