package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourbook/internal/core/apperror"
	"tourbook/internal/core/types"
	"tourbook/internal/domain"
	"tourbook/internal/domain/catalogs/city"
	"tourbook/internal/domain/catalogs/country"
	"tourbook/internal/domain/catalogs/customer"
	"tourbook/internal/domain/catalogs/tourpackage"
	"tourbook/internal/domain/documents/reservation"
)

func TestTable_SoftDeletedRowsAreInvisible(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	countryID, err := s.Countries.Create(ctx, country.NewCountry("Brazil", "BR"))
	require.NoError(t, err)
	require.NoError(t, s.Countries.SoftDelete(ctx, countryID))

	_, err = s.Countries.GetByID(ctx, countryID)
	assert.True(t, apperror.IsNotFound(err))

	ok, err := s.Countries.Exists(ctx, countryID)
	require.NoError(t, err)
	assert.False(t, ok)

	res, err := s.Countries.List(ctx, domain.DefaultListFilter())
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Zero(t, res.TotalCount)

	assert.True(t, apperror.IsNotFound(s.Countries.Update(ctx, &country.Country{Name: "Brasil", Code: "BR"})))
	assert.True(t, apperror.IsNotFound(s.Countries.SoftDelete(ctx, countryID)))
	assert.True(t, s.Countries.IsDeleted(countryID))
}

func TestTable_UniqueAmongLiveRows(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	first := customer.NewCustomer("Ana Souza", "ana@example.com", "+55 11 99999-0000", "12345678901")
	firstID, err := s.Customers.Create(ctx, first)
	require.NoError(t, err)

	_, err = s.Customers.Create(ctx, customer.NewCustomer("Ana Lima", "ana@example.com", "+55 11 98888-0000", "99999999999"))
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
	assert.Equal(t, "email", appErr.Field())

	require.NoError(t, s.Customers.SoftDelete(ctx, firstID))
	_, err = s.Customers.Create(ctx, customer.NewCustomer("Ana Lima", "ana@example.com", "+55 11 98888-0000", "12345678901"))
	assert.NoError(t, err)
}

func TestTable_StoredRowsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	c := country.NewCountry("Chile", "CL")
	countryID, err := s.Countries.Create(ctx, c)
	require.NoError(t, err)
	c.Name = "changed"

	got, err := s.Countries.GetByID(ctx, countryID)
	require.NoError(t, err)
	assert.Equal(t, "Chile", got.Name)

	got.Name = "also changed"
	again, err := s.Countries.GetByID(ctx, countryID)
	require.NoError(t, err)
	assert.Equal(t, "Chile", again.Name)
}

func TestTable_ListPagingSearchAndFilters(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	for _, name := range []string{"Argentina", "Brazil", "Aruba"} {
		_, err := s.Countries.Create(ctx, country.NewCountry(name, name[:2]))
		require.NoError(t, err)
	}

	res, err := s.Countries.List(ctx, domain.ListFilter{Search: "ar", Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.TotalCount)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Argentina", res.Items[0].Name)

	res, err = s.Countries.List(ctx, domain.ListFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.TotalCount)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Aruba", res.Items[0].Name)

	f := domain.DefaultListFilter()
	f.Where("code", "Br")
	res, err = s.Countries.List(ctx, f)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Brazil", res.Items[0].Name)

	f = domain.DefaultListFilter()
	f.Where("population", 1)
	_, err = s.Countries.List(ctx, f)
	assert.True(t, apperror.IsValidation(err))
}

func seedPackage(t *testing.T, s *Store, cityIDs ...int64) int64 {
	t.Helper()
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	p := &tourpackage.TourPackage{
		Title:        "Andes Explorer",
		Description:  "Two weeks across the Andes",
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 13),
		MaxCapacity:  10,
		Price:        types.MustMoney("1500.00"),
		Destinations: cityIDs,
	}
	packageID, err := s.Packages.Create(context.Background(), p)
	require.NoError(t, err)
	return packageID
}

func TestPackages_DestinationsFollowLiveCities(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	countryID, err := s.Countries.Create(ctx, country.NewCountry("Peru", "PE"))
	require.NoError(t, err)
	cusco, err := s.Cities.Create(ctx, city.NewCity("Cusco", countryID))
	require.NoError(t, err)
	lima, err := s.Cities.Create(ctx, city.NewCity("Lima", countryID))
	require.NoError(t, err)

	packageID := seedPackage(t, s, lima, cusco)

	p, err := s.Packages.GetByID(ctx, packageID)
	require.NoError(t, err)
	assert.Equal(t, []int64{cusco, lima}, p.Destinations)

	require.NoError(t, s.Packages.AddDestination(ctx, packageID, lima))
	assert.Len(t, s.Links(packageID), 2)

	require.NoError(t, s.Cities.SoftDelete(ctx, lima))
	cities, err := s.Packages.ListDestinations(ctx, packageID)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "Cusco", cities[0].Name)

	removed, err := s.Packages.RemoveDestination(ctx, packageID, cusco)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = s.Packages.RemoveDestination(ctx, packageID, cusco)
	require.NoError(t, err)
	assert.False(t, removed)

	err = s.Packages.AddDestination(ctx, packageID, 999)
	assert.True(t, apperror.IsValidation(err))
}

func TestCities_PackagesVisiting(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	countryID, err := s.Countries.Create(ctx, country.NewCountry("Peru", "PE"))
	require.NoError(t, err)
	cusco, err := s.Cities.Create(ctx, city.NewCity("Cusco", countryID))
	require.NoError(t, err)
	packageID := seedPackage(t, s, cusco)

	refs, err := s.Cities.PackagesVisiting(ctx, cusco)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, packageID, refs[0].ID)
	assert.Equal(t, "Andes Explorer", refs[0].Title)

	require.NoError(t, s.Cities.RemoveFromPackages(ctx, cusco))
	assert.Empty(t, s.Links(packageID))

	has, err := s.Cities.ExistsByCountry(ctx, countryID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestReservations_UniqueTripleAndCounts(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	newReservation := func() *reservation.Reservation {
		return &reservation.Reservation{
			CustomerID:      1,
			PackageID:       7,
			ReservationDate: day,
			Participants:    2,
			TotalValue:      types.MustMoney("100"),
		}
	}

	firstID, err := s.Reservations.Create(ctx, newReservation())
	require.NoError(t, err)

	_, err = s.Reservations.Create(ctx, newReservation())
	assert.True(t, apperror.IsConflict(err))

	n, err := s.Reservations.CountActiveByPackage(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.Reservations.SoftDelete(ctx, firstID))
	has, err := s.Reservations.ExistsByPackage(ctx, 7)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = s.Reservations.Create(ctx, newReservation())
	assert.NoError(t, err)
}
