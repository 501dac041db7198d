package reservation_test

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
	"tourbook/internal/domain/capacity"
	"tourbook/internal/domain/catalogs/city"
	"tourbook/internal/domain/catalogs/country"
	"tourbook/internal/domain/catalogs/customer"
	"tourbook/internal/domain/catalogs/tourpackage"
	"tourbook/internal/domain/documents/reservation"
	"tourbook/internal/domain/notification"
	"tourbook/internal/infrastructure/storage/memory"
)

type fixture struct {
	store        *memory.Store
	customers    *customer.Service
	packages     *tourpackage.Service
	reservations *reservation.Service
	notified     []notification.Message
}

func newFixture() *fixture {
	f := &fixture{store: memory.NewStore()}
	notifier := notification.NotifierFunc(func(_ context.Context, m notification.Message) {
		f.notified = append(f.notified, m)
	})
	journal := audit.NewJournal(notifier)

	countries := country.NewService(f.store.Countries, f.store.Cities, nil, journal)
	cities := city.NewService(f.store.Cities, countries, nil, journal)
	f.customers = customer.NewService(f.store.Customers, nil, journal)
	f.packages = tourpackage.NewService(f.store.Packages, cities, f.store.Reservations, nil, journal)
	checker := capacity.NewChecker(f.packages, f.store.Reservations, notifier)
	f.reservations = reservation.NewService(f.store.Reservations, f.customers, f.packages, checker, nil, journal)
	return f
}

func (f *fixture) customer(t *testing.T, email, taxID string) id.ID {
	t.Helper()
	c := customer.NewCustomer("Maria Silva", email, "+55 21 98765-4321", taxID)
	require.NoError(t, f.customers.Create(context.Background(), c))
	return c.ID
}

func (f *fixture) tourPackage(t *testing.T, capacity int) id.ID {
	t.Helper()
	start := time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC)
	p := &tourpackage.TourPackage{
		Title:        "Patagonia Trek",
		Description:  "Glaciers and mountains of the far south",
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 9),
		MaxCapacity:  capacity,
		Price:        types.MustMoney("2500.00"),
		Destinations: []id.ID{},
	}
	require.NoError(t, f.packages.Create(context.Background(), p))
	return p.ID
}

func (f *fixture) capacityMessages() []notification.Message {
	var out []notification.Message
	for _, m := range f.notified {
		if m.Kind == notification.KindCapacityReached {
			out = append(out, m)
		}
	}
	return out
}

func day(d int) time.Time {
	return time.Date(2026, 11, d, 15, 30, 0, 0, time.UTC)
}

func TestService_CreateFillsTotalFromPackagePrice(t *testing.T) {
	f := newFixture()
	r := &reservation.Reservation{
		CustomerID:      f.customer(t, "maria@example.com", "12345678901"),
		PackageID:       f.tourPackage(t, 10),
		ReservationDate: day(1),
		Participants:    3,
	}

	require.NoError(t, f.reservations.Create(context.Background(), r))

	got, err := f.reservations.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, "7500.00", got.TotalValue.StringFixed(types.MoneyScale))
	assert.Equal(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), got.ReservationDate)
}

func TestService_CreateKeepsExplicitTotal(t *testing.T) {
	f := newFixture()
	r := &reservation.Reservation{
		CustomerID:      f.customer(t, "maria@example.com", "12345678901"),
		PackageID:       f.tourPackage(t, 10),
		ReservationDate: day(1),
		Participants:    3,
		TotalValue:      types.MustMoney("6000"),
	}

	require.NoError(t, f.reservations.Create(context.Background(), r))
	assert.True(t, r.TotalValue.Equal(types.MustMoney("6000")))
}

func TestService_CreateRequiresLiveReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	customerID := f.customer(t, "maria@example.com", "12345678901")
	packageID := f.tourPackage(t, 10)

	err := f.reservations.Create(ctx, &reservation.Reservation{
		CustomerID: 999, PackageID: packageID, ReservationDate: day(1), Participants: 1,
	})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "customerId", appErr.Field())

	err = f.reservations.Create(ctx, &reservation.Reservation{
		CustomerID: customerID, PackageID: 999, ReservationDate: day(1), Participants: 1,
	})
	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "packageId", appErr.Field())
}

func TestService_CreateValidatesParticipants(t *testing.T) {
	f := newFixture()

	err := f.reservations.Create(context.Background(), &reservation.Reservation{
		CustomerID:      f.customer(t, "maria@example.com", "12345678901"),
		PackageID:       f.tourPackage(t, 10),
		ReservationDate: day(1),
		Participants:    11,
	})

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "participants", appErr.Field())
}

func TestService_DuplicateTripleIsConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	customerID := f.customer(t, "maria@example.com", "12345678901")
	packageID := f.tourPackage(t, 10)

	first := &reservation.Reservation{CustomerID: customerID, PackageID: packageID, ReservationDate: day(5), Participants: 1}
	require.NoError(t, f.reservations.Create(ctx, first))

	err := f.reservations.Create(ctx, &reservation.Reservation{
		CustomerID: customerID, PackageID: packageID, ReservationDate: day(5), Participants: 2,
	})
	assert.True(t, apperror.IsConflict(err))

	require.NoError(t, f.reservations.Create(ctx, &reservation.Reservation{
		CustomerID: customerID, PackageID: packageID, ReservationDate: day(6), Participants: 2,
	}))

	require.NoError(t, f.reservations.Delete(ctx, first.ID))
	assert.NoError(t, f.reservations.Create(ctx, &reservation.Reservation{
		CustomerID: customerID, PackageID: packageID, ReservationDate: day(5), Participants: 2,
	}))
}

func TestService_CapacityNotificationIsAdvisory(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	packageID := f.tourPackage(t, 2)
	customers := []id.ID{
		f.customer(t, "a@example.com", "11111111111"),
		f.customer(t, "b@example.com", "22222222222"),
		f.customer(t, "c@example.com", "33333333333"),
	}

	book := func(customerID id.ID) {
		t.Helper()
		require.NoError(t, f.reservations.Create(ctx, &reservation.Reservation{
			CustomerID: customerID, PackageID: packageID, ReservationDate: day(10), Participants: 1,
		}))
	}

	book(customers[0])
	assert.Empty(t, f.capacityMessages())

	book(customers[1])
	msgs := f.capacityMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, 2, msgs[0].Fields["currentReservations"])
	assert.Equal(t, 2, msgs[0].Fields["maxCapacity"])
	assert.Equal(t,
		"capacity reached for package 'Patagonia Trek' (id 1): capacity 2, current reservations 2",
		msgs[0].Text)

	book(customers[2])
	msgs = f.capacityMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, 3, msgs[1].Fields["currentReservations"])

	n, err := f.store.Reservations.CountActiveByPackage(ctx, packageID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestService_CustomerDeleteIsUnrestricted(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	customerID := f.customer(t, "maria@example.com", "12345678901")
	r := &reservation.Reservation{CustomerID: customerID, PackageID: f.tourPackage(t, 10), ReservationDate: day(2), Participants: 1}
	require.NoError(t, f.reservations.Create(ctx, r))

	require.NoError(t, f.customers.Delete(ctx, customerID))

	got, err := f.reservations.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, customerID, got.CustomerID)
}

func TestService_UpdateRechecksReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	customerID := f.customer(t, "maria@example.com", "12345678901")
	r := &reservation.Reservation{CustomerID: customerID, PackageID: f.tourPackage(t, 10), ReservationDate: day(2), Participants: 1}
	require.NoError(t, f.reservations.Create(ctx, r))
	require.NoError(t, f.customers.Delete(ctx, customerID))

	r.Participants = 4
	err := f.reservations.Update(ctx, r)

	assert.True(t, apperror.IsValidation(err))
}

func TestService_UpdateOntoExistingTripleIsConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	customerID := f.customer(t, "maria@example.com", "12345678901")
	packageID := f.tourPackage(t, 10)

	first := &reservation.Reservation{CustomerID: customerID, PackageID: packageID, ReservationDate: day(5), Participants: 1}
	second := &reservation.Reservation{CustomerID: customerID, PackageID: packageID, ReservationDate: day(6), Participants: 2}
	require.NoError(t, f.reservations.Create(ctx, first))
	require.NoError(t, f.reservations.Create(ctx, second))

	edit, err := f.reservations.GetByID(ctx, second.ID)
	require.NoError(t, err)
	edit.ReservationDate = day(5)
	err = f.reservations.Update(ctx, edit)
	require.True(t, apperror.IsConflict(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "reservationDate", appErr.Field())

	stored, err := f.reservations.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 11, 6, 0, 0, 0, 0, time.UTC), stored.ReservationDate)

	require.NoError(t, f.reservations.Delete(ctx, first.ID))
	stored.ReservationDate = day(5)
	assert.NoError(t, f.reservations.Update(ctx, stored))
}

type txMarker struct{}

// markingTx runs fn with a context that reports it is inside a transaction.
type markingTx struct{}

func (markingTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, txMarker{}, true))
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txMarker{}).(bool)
	return v
}

type sharedCustomers struct {
	*customer.Service
	inTx []bool
}

func (s *sharedCustomers) GetForShare(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	s.inTx = append(s.inTx, inTx(ctx))
	return s.Service.GetForShare(ctx, customerID)
}

type sharedPackages struct {
	*tourpackage.Service
	inTx []bool
}

func (s *sharedPackages) GetForShare(ctx context.Context, packageID id.ID) (*tourpackage.TourPackage, error) {
	s.inTx = append(s.inTx, inTx(ctx))
	return s.Service.GetForShare(ctx, packageID)
}

func TestService_ReferencesLockedDuringWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	customers := &sharedCustomers{Service: f.customers}
	packages := &sharedPackages{Service: f.packages}
	svc := reservation.NewService(f.store.Reservations, customers, packages, nil, markingTx{}, nil)

	r := &reservation.Reservation{
		CustomerID:      f.customer(t, "maria@example.com", "12345678901"),
		PackageID:       f.tourPackage(t, 10),
		ReservationDate: day(3),
		Participants:    2,
	}
	require.NoError(t, svc.Create(ctx, r))
	r.Participants = 3
	require.NoError(t, svc.Update(ctx, r))

	assert.Equal(t, []bool{true, true}, customers.inTx)
	assert.Equal(t, []bool{true, true}, packages.inTx)

	// a package deleted before the write is seen by the locking read
	other := f.tourPackage(t, 10)
	require.NoError(t, f.packages.Delete(ctx, other))
	err := svc.Create(ctx, &reservation.Reservation{
		CustomerID: r.CustomerID, PackageID: other, ReservationDate: day(3), Participants: 1, TotalValue: types.MustMoney("100"),
	})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "packageId", appErr.Field())
}
