package country

import (
	"context"
	"fmt"

	"tourbook/internal/core/apperror"
	"tourbook/internal/core/tx"
	"tourbook/internal/domain"
	"tourbook/internal/domain/audit"
)

// Service provides business logic for the Country catalog.
type Service struct {
	*domain.CatalogService[*Country]
	repo   Repository
	cities CityReferences
}

// NewService creates a new Country service.
func NewService(repo Repository, cities CityReferences, txm tx.Manager, journal *audit.Journal) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Country]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "country",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		cities:         cities,
	}

	base.Hooks().OnBeforeDelete(svc.ensureNoCities)
	if journal != nil {
		audit.Track(journal, base.Hooks(), "country", func(c *Country) string { return "'" + c.Name + "'" })
	}

	return svc
}

// ensureNoCities refuses to delete a country that still has live cities.
func (s *Service) ensureNoCities(ctx context.Context, c *Country) error {
	has, err := s.cities.ExistsByCountry(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("check cities of country %d: %w", c.ID, err)
	}
	if has {
		return apperror.NewReferential("country", c.ID, "cities")
	}
	return nil
}
