package catalog_repo

import (
	"tourbook/internal/domain/catalogs/customer"
	"tourbook/internal/infrastructure/storage/postgres"
)

// Compile-time interface check
var _ customer.Repository = (*CustomerRepo)(nil)

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	*BaseCatalogRepo[*customer.Customer]
}

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(txm *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			TableConfig{
				Name:         "customers",
				Entity:       "customer",
				SearchColumn: "name",
				DefaultOrder: "name",
				Immutable:    []string{"registered_at"},
			},
			postgres.ExtractDBColumns[customer.Customer](),
			func() *customer.Customer { return &customer.Customer{} },
		),
	}
}
