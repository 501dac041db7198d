package customer

import (
	"context"
	"time"

	"tourbook/internal/core/tx"
	"tourbook/internal/domain"
	"tourbook/internal/domain/audit"
)

// Service provides business logic for the Customer catalog.
// Deleting a customer is unrestricted: existing reservations keep pointing at the
// soft-deleted row.
type Service struct {
	*domain.CatalogService[*Customer]
	repo Repository
}

// NewService creates a new Customer service.
func NewService(repo Repository, txm tx.Manager, journal *audit.Journal) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "customer",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	if journal != nil {
		audit.Track(journal, base.Hooks(), "customer", func(c *Customer) string { return "'" + c.Name + "'" })
	}

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, c *Customer) error {
	if c.RegisteredAt.IsZero() {
		c.RegisteredAt = time.Now().UTC()
	}
	return nil
}
