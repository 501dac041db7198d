// Package customer provides the Customer catalog: people who book tour packages.
package customer

import (
	"context"
	"strings"
	"time"

	"tourbook/internal/core/apperror"
	"tourbook/internal/core/entity"
)

// Column widths of the customers table.
const (
	MaxEmailLength = 100
	MaxPhoneLength = 20
)

// Customer is a registered client. Email and TaxID are unique among live customers.
type Customer struct {
	entity.BaseEntity

	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
	Phone string `db:"phone" json:"phone"`

	// TaxID is the national taxpayer number (11 to 14 characters)
	TaxID string `db:"tax_id" json:"taxId"`

	// RegisteredAt defaults to the creation time and is never updated
	RegisteredAt time.Time `db:"registered_at" json:"registeredAt"`
}

// NewCustomer creates a Customer with required fields.
func NewCustomer(name, email, phone, taxID string) *Customer {
	return &Customer{
		Name:  name,
		Email: email,
		Phone: phone,
		TaxID: taxID,
	}
}

// Normalize trims surrounding whitespace and lower-cases the email.
func (c *Customer) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.TaxID = strings.TrimSpace(c.TaxID)
}

// Validate implements entity.Validatable interface.
func (c *Customer) Validate(ctx context.Context) error {
	if err := entity.RequireLength("name", c.Name, 3, 100); err != nil {
		return err
	}
	if err := entity.RequireEmail("email", c.Email); err != nil {
		return err
	}
	if err := entity.MaxLength("email", c.Email, MaxEmailLength); err != nil {
		return err
	}
	if err := entity.RequirePhone("phone", c.Phone); err != nil {
		return err
	}
	if err := entity.MaxLength("phone", c.Phone, MaxPhoneLength); err != nil {
		return err
	}
	if c.TaxID == "" {
		return apperror.NewFieldValidation("taxId", "taxId is required")
	}
	if n := len(c.TaxID); n < 11 || n > 14 {
		return apperror.NewFieldValidation("taxId", "taxId must be between 11 and 14 characters")
	}
	return nil
}
