package tourpackage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourbook/internal/core/apperror"
	"tourbook/internal/core/id"
	"tourbook/internal/core/types"
	"tourbook/internal/domain/audit"
	"tourbook/internal/domain/catalogs/city"
	"tourbook/internal/domain/catalogs/country"
	"tourbook/internal/domain/catalogs/tourpackage"
	"tourbook/internal/domain/documents/reservation"
	"tourbook/internal/domain/notification"
	"tourbook/internal/infrastructure/storage/memory"
)

type fixture struct {
	store    *memory.Store
	cities   *city.Service
	packages *tourpackage.Service
	messages []notification.Message
	cityIDs  []id.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: memory.NewStore()}
	journal := audit.NewJournal(notification.NotifierFunc(func(_ context.Context, m notification.Message) {
		f.messages = append(f.messages, m)
	}))

	countries := country.NewService(f.store.Countries, f.store.Cities, nil, nil)
	f.cities = city.NewService(f.store.Cities, countries, nil, nil)
	f.packages = tourpackage.NewService(f.store.Packages, f.cities, f.store.Reservations, nil, journal)

	c := country.NewCountry("Portugal", "PT")
	require.NoError(t, countries.Create(ctx, c))
	for _, name := range []string{"Lisbon", "Porto", "Faro"} {
		ct := city.NewCity(name, c.ID)
		require.NoError(t, f.cities.Create(ctx, ct))
		f.cityIDs = append(f.cityIDs, ct.ID)
	}
	return f
}

func newPackage(destinations ...id.ID) *tourpackage.TourPackage {
	start := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	return &tourpackage.TourPackage{
		Title:        "Atlantic Coast",
		Description:  "A week along the Portuguese coast",
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 6),
		MaxCapacity:  12,
		Price:        types.MustMoney("1200"),
		Destinations: destinations,
	}
}

func TestTourPackage_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *tourpackage.TourPackage)
		field  string
	}{
		{"short title", func(p *tourpackage.TourPackage) { p.Title = "Trip" }, "title"},
		{"short description", func(p *tourpackage.TourPackage) { p.Description = "Too short" }, "description"},
		{"end before start", func(p *tourpackage.TourPackage) { p.EndDate = p.StartDate.AddDate(0, 0, -1) }, "endDate"},
		{"zero capacity", func(p *tourpackage.TourPackage) { p.MaxCapacity = 0 }, "maxCapacity"},
		{"capacity over 100", func(p *tourpackage.TourPackage) { p.MaxCapacity = 101 }, "maxCapacity"},
		{"zero price", func(p *tourpackage.TourPackage) { p.Price = types.MustMoney("0") }, "price"},
		{"invalid destination", func(p *tourpackage.TourPackage) { p.Destinations = []id.ID{0} }, "destinations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPackage()
			tt.mutate(p)

			appErr, ok := apperror.AsAppError(p.Validate(context.Background()))
			require.True(t, ok)
			assert.Equal(t, tt.field, appErr.Field())
		})
	}

	sameDay := newPackage()
	sameDay.EndDate = sameDay.StartDate
	assert.NoError(t, sameDay.Validate(context.Background()))
	assert.Equal(t, 1, sameDay.Days())
}

func TestService_CreateWithDestinations(t *testing.T) {
	f := newFixture(t)
	p := newPackage(f.cityIDs[0], f.cityIDs[1], f.cityIDs[0])

	require.NoError(t, f.packages.Create(context.Background(), p))

	got, err := f.packages.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, []id.ID{f.cityIDs[0], f.cityIDs[1]}, got.Destinations)
	assert.Equal(t, 7, got.Days())

	require.NotEmpty(t, f.messages)
	assert.Equal(t, notification.KindOperation, f.messages[len(f.messages)-1].Kind)
	assert.Contains(t, f.messages[len(f.messages)-1].Text, "created tour package 'Atlantic Coast'")
}

func TestService_CreateRejectsMissingDestination(t *testing.T) {
	f := newFixture(t)

	err := f.packages.Create(context.Background(), newPackage(f.cityIDs[0], 404))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "destinations", appErr.Field())
}

func TestService_UpdateDestinations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := newPackage(f.cityIDs[0])
	require.NoError(t, f.packages.Create(ctx, p))

	p.Destinations = nil
	p.Title = "Atlantic Coast Deluxe"
	require.NoError(t, f.packages.Update(ctx, p))
	assert.Equal(t, []id.ID{f.cityIDs[0]}, f.store.Links(p.ID), "nil keeps the stored set")

	p.Destinations = []id.ID{f.cityIDs[2]}
	require.NoError(t, f.packages.Update(ctx, p))
	assert.Equal(t, []id.ID{f.cityIDs[2]}, f.store.Links(p.ID))

	p.Destinations = []id.ID{}
	require.NoError(t, f.packages.Update(ctx, p))
	assert.Empty(t, f.store.Links(p.ID))
}

func TestService_DeleteRemovesJoinRowsButNotCities(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := newPackage(f.cityIDs...)
	require.NoError(t, f.packages.Create(ctx, p))

	require.NoError(t, f.packages.Delete(ctx, p.ID))

	assert.Empty(t, f.store.Links(p.ID))
	for _, cityID := range f.cityIDs {
		_, err := f.cities.GetByID(ctx, cityID)
		assert.NoError(t, err)
	}
	_, err := f.packages.GetByID(ctx, p.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_DeleteRestrictedByLiveReservation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := newPackage(f.cityIDs[0])
	require.NoError(t, f.packages.Create(ctx, p))

	r := &reservation.Reservation{
		CustomerID:      1,
		PackageID:       p.ID,
		ReservationDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Participants:    1,
		TotalValue:      types.MustMoney("1200"),
	}
	reservationID, err := f.store.Reservations.Create(ctx, r)
	require.NoError(t, err)

	err = f.packages.Delete(ctx, p.ID)
	assert.True(t, apperror.IsReferential(err))
	assert.Equal(t, []id.ID{f.cityIDs[0]}, f.store.Links(p.ID), "refused delete keeps destinations")

	require.NoError(t, f.store.Reservations.SoftDelete(ctx, reservationID))
	assert.NoError(t, f.packages.Delete(ctx, p.ID))
}

func TestService_AddAndRemoveDestination(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := newPackage()
	require.NoError(t, f.packages.Create(ctx, p))

	require.NoError(t, f.packages.AddDestination(ctx, p.ID, f.cityIDs[1]))
	require.NoError(t, f.packages.AddDestination(ctx, p.ID, f.cityIDs[1]))

	cities, err := f.packages.ListDestinations(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "Porto", cities[0].Name)

	assert.True(t, apperror.IsNotFound(f.packages.AddDestination(ctx, p.ID, 999)))
	assert.True(t, apperror.IsNotFound(f.packages.AddDestination(ctx, 999, f.cityIDs[1])))

	require.NoError(t, f.packages.RemoveDestination(ctx, p.ID, f.cityIDs[1]))
	assert.True(t, apperror.IsNotFound(f.packages.RemoveDestination(ctx, p.ID, f.cityIDs[1])))

	cities, err = f.packages.ListDestinations(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, cities)

	assert.Contains(t, f.messages[len(f.messages)-1].Text,
		"operation performed: removed city")
}
