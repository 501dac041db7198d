package catalog_repo

import (
	"tourbook/internal/domain/catalogs/country"
	"tourbook/internal/infrastructure/storage/postgres"
)

// Compile-time interface check
var _ country.Repository = (*CountryRepo)(nil)

// CountryRepo implements country.Repository.
type CountryRepo struct {
	*BaseCatalogRepo[*country.Country]
}

// NewCountryRepo creates a new country repository.
func NewCountryRepo(txm *postgres.TxManager) *CountryRepo {
	return &CountryRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			TableConfig{Name: "countries", Entity: "country", SearchColumn: "name", DefaultOrder: "name"},
			postgres.ExtractDBColumns[country.Country](),
			func() *country.Country { return &country.Country{} },
		),
	}
}
