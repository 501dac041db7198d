package reservation

import (
	"context"
	"fmt"

	"tourbook/internal/core/apperror"
	"tourbook/internal/core/tx"
	"tourbook/internal/domain"
	"tourbook/internal/domain/audit"
	"tourbook/internal/domain/pricing"
	"tourbook/pkg/logger"
)

// Service provides business logic for reservations.
type Service struct {
	*domain.CatalogService[*Reservation]
	repo      Repository
	customers CustomerReader
	packages  PackageReader
	capacity  CapacityChecker
}

// NewService creates a new Reservation service. A nil capacity checker
// disables capacity notifications.
func NewService(
	repo Repository,
	customers CustomerReader,
	packages PackageReader,
	capacity CapacityChecker,
	txm tx.Manager,
	journal *audit.Journal,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Reservation]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "reservation",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		customers:      customers,
		packages:       packages,
		capacity:       capacity,
	}

	base.Hooks().OnBeforeCreate(svc.ensureReferences)
	base.Hooks().OnBeforeUpdate(svc.ensureReferences)
	base.Hooks().OnAfterCreate(svc.checkCapacity)
	audit.Track(journal, base.Hooks(), "reservation", func(r *Reservation) string {
		return fmt.Sprintf("for customer %d on package %d", r.CustomerID, r.PackageID)
	})

	return svc
}

// Create fills the total value from the package price when it is omitted and
// stores the reservation. The capacity check runs after commit.
func (s *Service) Create(ctx context.Context, r *Reservation) error {
	if r.TotalValue.IsZero() && r.PackageID > 0 && r.Participants > 0 {
		pkg, err := s.packages.GetByID(ctx, r.PackageID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return packageMissing(r)
			}
			return fmt.Errorf("load package %d: %w", r.PackageID, err)
		}
		r.TotalValue = pricing.ReservationTotal(pkg.Price, r.Participants)
	}
	return s.CatalogService.Create(ctx, r)
}

// ensureReferences checks that the customer and package are live and locks
// both rows for the rest of the write, so a package delete cannot slip in
// between the check and the insert.
func (s *Service) ensureReferences(ctx context.Context, r *Reservation) error {
	if _, err := s.customers.GetForShare(ctx, r.CustomerID); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewFieldValidation("customerId", "customer does not exist").
				WithDetail("customerId", r.CustomerID)
		}
		return fmt.Errorf("load customer %d: %w", r.CustomerID, err)
	}
	if _, err := s.packages.GetForShare(ctx, r.PackageID); err != nil {
		if apperror.IsNotFound(err) {
			return packageMissing(r)
		}
		return fmt.Errorf("load package %d: %w", r.PackageID, err)
	}
	return nil
}

// checkCapacity is the "reservation created" hook. Its failures never reach the caller.
func (s *Service) checkCapacity(ctx context.Context, r *Reservation) error {
	if s.capacity == nil {
		return nil
	}
	if _, err := s.capacity.Check(ctx, r.PackageID); err != nil {
		logger.Warn(ctx, "capacity check failed", "packageId", r.PackageID, "reservationId", r.ID, "error", err)
	}
	return nil
}

func packageMissing(r *Reservation) error {
	return apperror.NewFieldValidation("packageId", "tour package does not exist").
		WithDetail("packageId", r.PackageID)
}
