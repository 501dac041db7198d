package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"tourbook/internal/core/apperror"
)

// PostgreSQL SQLSTATE codes handled by TranslateError.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
	CodeNotNullViolation    = "23502"
	CodeStringTooLong       = "22001"
)

// constraintFields maps constraint and index names from the schema to the
// API field they protect.
var constraintFields = map[string]string{
	"ux_customers_email":                    "email",
	"ux_customers_tax_id":                   "taxId",
	"ux_reservations_customer_package_date": "reservationDate",
	"fk_cities_country":                     "countryId",
	"fk_reservations_customer":              "customerId",
	"fk_reservations_package":               "packageId",
	"fk_package_destinations_package":       "packageId",
	"fk_package_destinations_city":          "cityId",
	"ck_tour_packages_dates":                "endDate",
	"ck_tour_packages_capacity":             "maxCapacity",
	"ck_tour_packages_price":                "price",
	"ck_reservations_participants":          "participants",
	"ck_reservations_total_value":           "totalValue",
}

// ConstraintField returns the API field of a constraint, or "" if unknown.
func ConstraintField(constraint string) string {
	return constraintFields[constraint]
}

// TranslateError converts driver errors into AppErrors:
// unique violations become Conflict naming the field, foreign-key, check,
// not-null and too-long violations become Validation. Other errors are wrapped unchanged.
func TranslateError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	field := ConstraintField(pgErr.ConstraintName)
	switch pgErr.Code {
	case CodeUniqueViolation:
		if field == "" {
			field = pgErr.ConstraintName
		}
		return apperror.NewDuplicate(entity, field, nil).WithCause(err)
	case CodeForeignKeyViolation:
		if field == "" {
			field = pgErr.ConstraintName
		}
		return apperror.NewFieldValidation(field, "referenced record does not exist").WithCause(err)
	case CodeCheckViolation:
		return apperror.NewFieldValidation(field, fmt.Sprintf("%s violates constraint %s", entity, pgErr.ConstraintName)).WithCause(err)
	case CodeNotNullViolation:
		return apperror.NewFieldValidation(pgErr.ColumnName, fmt.Sprintf("%s is required", pgErr.ColumnName)).WithCause(err)
	case CodeStringTooLong:
		// PostgreSQL does not report the column for 22001
		return apperror.NewValidation(fmt.Sprintf("%s: value too long", entity)).
			WithDetail("entity", entity).
			WithCause(err)
	}
	return fmt.Errorf("%s: %w", entity, err)
}
