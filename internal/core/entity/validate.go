package entity

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"tourbook/internal/core/apperror"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()\-]{7,20}$`)

// RequireLength checks that the trimmed value has between min and max runes.
func RequireLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	if n == 0 && min > 0 {
		return apperror.NewFieldValidation(field, fmt.Sprintf("%s is required", field))
	}
	if n < min || n > max {
		return apperror.NewFieldValidation(field,
			fmt.Sprintf("%s must be between %d and %d characters", field, min, max))
	}
	return nil
}

// MaxLength checks an optional value.
func MaxLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return apperror.NewFieldValidation(field,
			fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return nil
}

// RequireEmail checks that value is a bare, well-formed address.
func RequireEmail(field, value string) error {
	if value == "" {
		return apperror.NewFieldValidation(field, fmt.Sprintf("%s is required", field))
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || !strings.Contains(value[strings.LastIndex(value, "@"):], ".") {
		return apperror.NewFieldValidation(field, fmt.Sprintf("%s is not a valid email address", field))
	}
	return nil
}

// RequirePhone checks digits with optional +, spaces, dashes and parentheses.
func RequirePhone(field, value string) error {
	if value == "" {
		return apperror.NewFieldValidation(field, fmt.Sprintf("%s is required", field))
	}
	if !phonePattern.MatchString(value) {
		return apperror.NewFieldValidation(field, fmt.Sprintf("%s is not a valid phone number", field))
	}
	return nil
}

// RequireRange checks min <= value <= max.
func RequireRange(field string, value, min, max int) error {
	if value < min || value > max {
		return apperror.NewFieldValidation(field,
			fmt.Sprintf("%s must be between %d and %d", field, min, max))
	}
	return nil
}

// RequirePositive checks value > 0.
func RequirePositive(field string, value decimal.Decimal) error {
	if !value.IsPositive() {
		return apperror.NewFieldValidation(field, fmt.Sprintf("%s must be greater than zero", field))
	}
	return nil
}

// RequireRef checks that a reference id is set.
func RequireRef(field string, value int64) error {
	if value <= 0 {
		return apperror.NewFieldValidation(field, fmt.Sprintf("%s is required", field))
	}
	return nil
}
