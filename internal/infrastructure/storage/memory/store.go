package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"tourbook/internal/core/apperror"
	"tourbook/internal/core/id"
	"tourbook/internal/domain/catalogs/city"
	"tourbook/internal/domain/catalogs/country"
	"tourbook/internal/domain/catalogs/customer"
	"tourbook/internal/domain/catalogs/tourpackage"
	"tourbook/internal/domain/documents/reservation"
)

// Compile-time interface checks
var (
	_ customer.Repository    = (*CustomerRepo)(nil)
	_ country.Repository     = (*CountryRepo)(nil)
	_ city.Repository        = (*CityRepo)(nil)
	_ tourpackage.Repository = (*TourPackageRepo)(nil)
	_ reservation.Repository = (*ReservationRepo)(nil)
)

type link struct {
	packageID id.ID
	cityID    id.ID
}

// Store holds every table plus the package_destinations join set.
type Store struct {
	Customers    *CustomerRepo
	Countries    *CountryRepo
	Cities       *CityRepo
	Packages     *TourPackageRepo
	Reservations *ReservationRepo

	mu    sync.RWMutex
	links map[link]struct{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{links: make(map[link]struct{})}

	s.Customers = &CustomerRepo{
		Table: NewTable("customer", func(c *customer.Customer) *customer.Customer { cp := *c; return &cp }).
			Unique("email", func(c *customer.Customer) string { return c.Email }).
			Unique("taxId", func(c *customer.Customer) string { return c.TaxID }).
			Search(func(c *customer.Customer) string { return c.Name }).
			Column("email", func(c *customer.Customer) any { return c.Email }),
	}
	s.Countries = &CountryRepo{
		Table: NewTable("country", func(c *country.Country) *country.Country { cp := *c; return &cp }).
			Search(func(c *country.Country) string { return c.Name }).
			Column("code", func(c *country.Country) any { return c.Code }),
	}
	s.Cities = &CityRepo{
		Table: NewTable("city", cloneCity).
			Search(func(c *city.City) string { return c.Name }).
			Column("country_id", func(c *city.City) any { return c.CountryID }),
		store: s,
	}
	s.Packages = &TourPackageRepo{
		Table: NewTable("tour package", clonePackage).
			Search(func(p *tourpackage.TourPackage) string { return p.Title }),
		store: s,
	}
	s.Reservations = &ReservationRepo{
		Table: NewTable("reservation", func(r *reservation.Reservation) *reservation.Reservation { cp := *r; return &cp }).
			Unique("reservationDate", func(r *reservation.Reservation) string {
				return fmt.Sprintf("%d/%d/%s", r.CustomerID, r.PackageID, r.ReservationDate.Format("2006-01-02"))
			}).
			Column("customer_id", func(r *reservation.Reservation) any { return r.CustomerID }).
			Column("package_id", func(r *reservation.Reservation) any { return r.PackageID }),
	}
	return s
}

func cloneCity(c *city.City) *city.City {
	cp := *c
	return &cp
}

func clonePackage(p *tourpackage.TourPackage) *tourpackage.TourPackage {
	cp := *p
	if p.Destinations != nil {
		cp.Destinations = append([]id.ID{}, p.Destinations...)
	}
	return &cp
}

// Links returns the raw join rows of a package, including links to deleted cities.
func (s *Store) Links(packageID id.ID) []id.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []id.ID
	for l := range s.links {
		if l.packageID == packageID {
			out = append(out, l.cityID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *Store) removeLinks(match func(link) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for l := range s.links {
		if match(l) {
			delete(s.links, l)
		}
	}
}

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	*Table[*customer.Customer]
}

// CountryRepo implements country.Repository.
type CountryRepo struct {
	*Table[*country.Country]
}

// CityRepo implements city.Repository.
type CityRepo struct {
	*Table[*city.City]
	store *Store
}

// ExistsByCountry reports whether a live city references the country.
func (r *CityRepo) ExistsByCountry(ctx context.Context, countryID id.ID) (bool, error) {
	return len(r.Where(func(c *city.City) bool { return c.CountryID == countryID })) > 0, nil
}

// PackagesVisiting lists live packages that have the city as destination,
// ordered by start date.
func (r *CityRepo) PackagesVisiting(ctx context.Context, cityID id.ID) ([]city.PackageRef, error) {
	r.store.mu.RLock()
	visiting := make(map[id.ID]bool)
	for l := range r.store.links {
		if l.cityID == cityID {
			visiting[l.packageID] = true
		}
	}
	r.store.mu.RUnlock()

	pkgs := r.store.Packages.Where(func(p *tourpackage.TourPackage) bool { return visiting[p.ID] })
	sort.SliceStable(pkgs, func(i, j int) bool { return pkgs[i].StartDate.Before(pkgs[j].StartDate) })

	refs := make([]city.PackageRef, 0, len(pkgs))
	for _, p := range pkgs {
		refs = append(refs, city.PackageRef{
			ID:        p.ID,
			Title:     p.Title,
			StartDate: p.StartDate,
			EndDate:   p.EndDate,
			Price:     p.Price,
		})
	}
	return refs, nil
}

// RemoveFromPackages deletes the join rows of the city.
func (r *CityRepo) RemoveFromPackages(ctx context.Context, cityID id.ID) error {
	r.store.removeLinks(func(l link) bool { return l.cityID == cityID })
	return nil
}

// TourPackageRepo implements tourpackage.Repository.
type TourPackageRepo struct {
	*Table[*tourpackage.TourPackage]
	store *Store
}

// Create inserts the package and its destinations.
func (r *TourPackageRepo) Create(ctx context.Context, p *tourpackage.TourPackage) (id.ID, error) {
	newID, err := r.Table.Create(ctx, p)
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
	if err := r.Table.Update(ctx, p); err != nil {
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

// GetByID loads a live package with the ids of its live destinations.
func (r *TourPackageRepo) GetByID(ctx context.Context, packageID id.ID) (*tourpackage.TourPackage, error) {
	p, err := r.Table.GetByID(ctx, packageID)
	if err != nil {
		return p, err
	}
	cities, _ := r.ListDestinations(ctx, packageID)
	p.Destinations = make([]id.ID, 0, len(cities))
	for _, c := range cities {
		p.Destinations = append(p.Destinations, c.ID)
	}
	sort.Slice(p.Destinations, func(i, j int) bool { return p.Destinations[i] < p.Destinations[j] })
	return p, nil
}

// GetForUpdate is GetByID.
func (r *TourPackageRepo) GetForUpdate(ctx context.Context, packageID id.ID) (*tourpackage.TourPackage, error) {
	return r.GetByID(ctx, packageID)
}

// GetForShare is GetByID.
func (r *TourPackageRepo) GetForShare(ctx context.Context, packageID id.ID) (*tourpackage.TourPackage, error) {
	return r.GetByID(ctx, packageID)
}

// AddDestination links a city; linking twice is a no-op. Both sides must
// exist, like the foreign keys of package_destinations.
func (r *TourPackageRepo) AddDestination(ctx context.Context, packageID, cityID id.ID) error {
	if ok, _ := r.Exists(ctx, packageID); !ok {
		return apperror.NewFieldValidation("packageId", "referenced record does not exist")
	}
	if ok, _ := r.store.Cities.Exists(ctx, cityID); !ok {
		return apperror.NewFieldValidation("destinations", "referenced record does not exist").
			WithDetail("cityId", cityID)
	}
	r.store.mu.Lock()
	r.store.links[link{packageID: packageID, cityID: cityID}] = struct{}{}
	r.store.mu.Unlock()
	return nil
}

// RemoveDestination unlinks a city and reports whether a link existed.
func (r *TourPackageRepo) RemoveDestination(ctx context.Context, packageID, cityID id.ID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	l := link{packageID: packageID, cityID: cityID}
	if _, ok := r.store.links[l]; !ok {
		return false, nil
	}
	delete(r.store.links, l)
	return true, nil
}

// ListDestinations returns the live cities of the package ordered by name.
func (r *TourPackageRepo) ListDestinations(ctx context.Context, packageID id.ID) ([]*city.City, error) {
	r.store.mu.RLock()
	linked := make(map[id.ID]bool)
	for l := range r.store.links {
		if l.packageID == packageID {
			linked[l.cityID] = true
		}
	}
	r.store.mu.RUnlock()

	cities := r.store.Cities.Where(func(c *city.City) bool { return linked[c.ID] })
	sort.SliceStable(cities, func(i, j int) bool {
		return strings.Compare(cities[i].Name, cities[j].Name) < 0
	})
	return cities, nil
}

// RemoveAllDestinations deletes every join row of the package.
func (r *TourPackageRepo) RemoveAllDestinations(ctx context.Context, packageID id.ID) error {
	r.store.removeLinks(func(l link) bool { return l.packageID == packageID })
	return nil
}

// ReservationRepo implements reservation.Repository.
type ReservationRepo struct {
	*Table[*reservation.Reservation]
}

// CountActiveByPackage counts live reservations of a package.
func (r *ReservationRepo) CountActiveByPackage(ctx context.Context, packageID id.ID) (int, error) {
	return len(r.Where(func(res *reservation.Reservation) bool { return res.PackageID == packageID })), nil
}

// ExistsByPackage reports whether a live reservation references the package.
func (r *ReservationRepo) ExistsByPackage(ctx context.Context, packageID id.ID) (bool, error) {
	n, err := r.CountActiveByPackage(ctx, packageID)
	return n > 0, err
}
