package tourpackage

import (
	"context"
	"fmt"

	"tourbook/internal/core/apperror"
	"tourbook/internal/core/id"
	"tourbook/internal/core/tx"
	"tourbook/internal/domain"
	"tourbook/internal/domain/audit"
	"tourbook/internal/domain/catalogs/city"
)

// Service provides business logic for the TourPackage catalog.
type Service struct {
	*domain.CatalogService[*TourPackage]
	repo         Repository
	cities       CityChecker
	reservations ReservationReferences
	txManager    tx.Manager
	journal      *audit.Journal
}

// NewService creates a new TourPackage service.
func NewService(
	repo Repository,
	cities CityChecker,
	reservations ReservationReferences,
	txm tx.Manager,
	journal *audit.Journal,
) *Service {
	if txm == nil {
		txm = tx.Passthrough
	}
	if journal == nil {
		journal = audit.NewJournal(nil)
	}

	base := domain.NewCatalogService(domain.CatalogServiceConfig[*TourPackage]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "tour package",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		cities:         cities,
		reservations:   reservations,
		txManager:      txm,
		journal:        journal,
	}

	base.Hooks().OnBeforeCreate(svc.ensureDestinations)
	base.Hooks().OnBeforeUpdate(svc.ensureDestinations)
	base.Hooks().OnBeforeDelete(svc.ensureNoReservations)
	base.Hooks().OnBeforeDelete(svc.detachDestinations)
	audit.Track(journal, base.Hooks(), "tour package", func(p *TourPackage) string { return "'" + p.Title + "'" })

	return svc
}

// ensureDestinations checks that every destination city is live.
func (s *Service) ensureDestinations(ctx context.Context, p *TourPackage) error {
	for _, cityID := range p.Destinations {
		ok, err := s.cities.Exists(ctx, cityID)
		if err != nil {
			return fmt.Errorf("check city %d: %w", cityID, err)
		}
		if !ok {
			return apperror.NewFieldValidation("destinations", "destination city does not exist").
				WithDetail("cityId", cityID)
		}
	}
	return nil
}

// ensureNoReservations refuses to delete a package that still has live reservations.
func (s *Service) ensureNoReservations(ctx context.Context, p *TourPackage) error {
	has, err := s.reservations.ExistsByPackage(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("check reservations of package %d: %w", p.ID, err)
	}
	if has {
		return apperror.NewReferential("tour package", p.ID, "reservations")
	}
	return nil
}

// detachDestinations removes the join rows; the cities stay.
func (s *Service) detachDestinations(ctx context.Context, p *TourPackage) error {
	if err := s.repo.RemoveAllDestinations(ctx, p.ID); err != nil {
		return fmt.Errorf("remove destinations of package %d: %w", p.ID, err)
	}
	return nil
}

// AddDestination links a live city to a live package.
func (s *Service) AddDestination(ctx context.Context, packageID, cityID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.GetByID(ctx, packageID); err != nil {
			return err
		}
		ok, err := s.cities.Exists(ctx, cityID)
		if err != nil {
			return fmt.Errorf("check city %d: %w", cityID, err)
		}
		if !ok {
			return apperror.NewNotFound("city", cityID)
		}
		return s.repo.AddDestination(ctx, packageID, cityID)
	})
	if err != nil {
		return err
	}
	s.journal.Record(ctx, "added city %d to tour package %d", cityID, packageID)
	return nil
}

// RemoveDestination unlinks a city from a package.
func (s *Service) RemoveDestination(ctx context.Context, packageID, cityID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.GetByID(ctx, packageID); err != nil {
			return err
		}
		removed, err := s.repo.RemoveDestination(ctx, packageID, cityID)
		if err != nil {
			return err
		}
		if !removed {
			return apperror.NewNotFound("destination", cityID).WithDetail("packageId", packageID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.journal.Record(ctx, "removed city %d from tour package %d", cityID, packageID)
	return nil
}

// ListDestinations returns the live cities of a live package.
func (s *Service) ListDestinations(ctx context.Context, packageID id.ID) ([]*city.City, error) {
	if _, err := s.GetByID(ctx, packageID); err != nil {
		return nil, err
	}
	cities, err := s.repo.ListDestinations(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("list destinations of package %d: %w", packageID, err)
	}
	return cities, nil
}
