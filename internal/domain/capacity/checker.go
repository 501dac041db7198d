// Package capacity emits advisory notifications when a tour package's live
// reservations reach its capacity. It never rejects a reservation.
package capacity

import (
	"context"
	"fmt"

	"tourbook/internal/core/id"
	"tourbook/internal/domain/catalogs/tourpackage"
	"tourbook/internal/domain/notification"
)

// ReservationCounter counts live reservations of a package.
type ReservationCounter interface {
	CountActiveByPackage(ctx context.Context, packageID id.ID) (int, error)
}

// PackageReader loads a live package.
type PackageReader interface {
	GetByID(ctx context.Context, packageID id.ID) (*tourpackage.TourPackage, error)
}

// Reached describes a package whose reservations reached its capacity.
type Reached struct {
	PackageID           id.ID
	Title               string
	MaxCapacity         int
	CurrentReservations int
}

// Message renders the notification.
func (r Reached) Message() notification.Message {
	text := fmt.Sprintf("capacity reached for package '%s' (id %d): capacity %d, current reservations %d",
		r.Title, r.PackageID, r.MaxCapacity, r.CurrentReservations)
	return notification.NewMessage(notification.KindCapacityReached, text).
		With("packageId", r.PackageID).
		With("title", r.Title).
		With("maxCapacity", r.MaxCapacity).
		With("currentReservations", r.CurrentReservations)
}

// Checker compares a package's live reservations with its capacity.
type Checker struct {
	packages PackageReader
	counter  ReservationCounter
	notifier notification.Notifier
}

// NewChecker creates a capacity checker.
func NewChecker(packages PackageReader, counter ReservationCounter, notifier notification.Notifier) *Checker {
	if notifier == nil {
		notifier = notification.Discard
	}
	return &Checker{packages: packages, counter: counter, notifier: notifier}
}

// Check notifies when count >= capacity and returns what was reported.
// A nil result means capacity was not reached.
func (c *Checker) Check(ctx context.Context, packageID id.ID) (*Reached, error) {
	pkg, err := c.packages.GetByID(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("load package %d: %w", packageID, err)
	}
	count, err := c.counter.CountActiveByPackage(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("count reservations of package %d: %w", packageID, err)
	}
	if count < pkg.MaxCapacity {
		return nil, nil
	}

	r := &Reached{
		PackageID:           pkg.ID,
		Title:               pkg.Title,
		MaxCapacity:         pkg.MaxCapacity,
		CurrentReservations: count,
	}
	c.notifier.Notify(ctx, r.Message())
	return r, nil
}
