// Package pricing implements the price tools offered to administrators:
// discounts, multi-day totals and reservation totals.
package pricing

import (
	"github.com/shopspring/decimal"

	"tourbook/internal/core/apperror"
	"tourbook/internal/core/types"
)

const (
	// DefaultDiscountPercent is applied when the caller omits a percentage.
	DefaultDiscountPercent = 10

	MinDays = 1
	MaxDays = 30
)

var hundred = decimal.NewFromInt(100)

// Discount is the result of ApplyDiscount.
type Discount struct {
	Original types.Money `json:"original"`
	Percent  types.Money `json:"percent"`
	Final    types.Money `json:"final"`
	Saving   types.Money `json:"saving"`
}

// ApplyDiscount returns price * (1 - percent/100). A nil percent uses
// DefaultDiscountPercent.
func ApplyDiscount(price types.Money, percent *types.Money) (Discount, error) {
	if !price.IsPositive() {
		return Discount{}, apperror.NewFieldValidation("price", "price must be greater than zero")
	}
	pct := decimal.NewFromInt(DefaultDiscountPercent)
	if percent != nil {
		pct = *percent
	}
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return Discount{}, apperror.NewFieldValidation("percent", "percent must be between 0 and 100")
	}

	final := types.RoundMoney(price.Mul(decimal.NewFromInt(1).Sub(pct.Div(hundred))))
	return Discount{
		Original: price,
		Percent:  pct,
		Final:    final,
		Saving:   price.Sub(final),
	}, nil
}

// TotalValue returns days * dailyRate for a stay of 1 to 30 days.
func TotalValue(days int, dailyRate types.Money) (types.Money, error) {
	if days < MinDays || days > MaxDays {
		return decimal.Zero, apperror.NewFieldValidation("days", "days must be between 1 and 30")
	}
	if !dailyRate.IsPositive() {
		return decimal.Zero, apperror.NewFieldValidation("dailyRate", "dailyRate must be greater than zero")
	}
	return types.RoundMoney(dailyRate.Mul(decimal.NewFromInt(int64(days)))), nil
}

// ReservationTotal is the default total of a reservation: participants * package price.
func ReservationTotal(price types.Money, participants int) types.Money {
	return types.RoundMoney(price.Mul(decimal.NewFromInt(int64(participants))))
}
