// Package country provides the Country catalog.
package country

import (
	"context"
	"strings"

	"tourbook/internal/core/entity"
)

// Country is a destination country. Cities reference it.
type Country struct {
	entity.BaseEntity

	Name string `db:"name" json:"name"`

	// Code is the ISO-style short code, 2 or 3 characters
	Code string `db:"code" json:"code"`
}

// NewCountry creates a Country.
func NewCountry(name, code string) *Country {
	return &Country{Name: name, Code: code}
}

// Normalize trims fields and upper-cases the code.
func (c *Country) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
}

// Validate implements entity.Validatable interface.
func (c *Country) Validate(ctx context.Context) error {
	if err := entity.RequireLength("name", c.Name, 3, 100); err != nil {
		return err
	}
	return entity.RequireLength("code", c.Code, 2, 3)
}
