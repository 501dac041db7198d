package pricing

import (
	"context"

	"tourbook/internal/core/types"
	"tourbook/internal/domain/audit"
)

// Service exposes the calculators and records each calculation in the journal.
type Service struct {
	journal *audit.Journal
}

// NewService creates a pricing service. A nil journal records nothing.
func NewService(journal *audit.Journal) *Service {
	return &Service{journal: journal}
}

// Discount applies a percentage discount to price.
func (s *Service) Discount(ctx context.Context, price types.Money, percent *types.Money) (Discount, error) {
	d, err := ApplyDiscount(price, percent)
	if err != nil {
		return Discount{}, err
	}
	s.journal.Record(ctx, "discount of %s%% applied to %s: %s", d.Percent.String(), d.Original.StringFixed(types.MoneyScale), d.Final.StringFixed(types.MoneyScale))
	return d, nil
}

// Total multiplies a daily rate by a number of days.
func (s *Service) Total(ctx context.Context, days int, dailyRate types.Money) (types.Money, error) {
	total, err := TotalValue(days, dailyRate)
	if err != nil {
		return types.Money{}, err
	}
	s.journal.Record(ctx, "total value for %d days at %s: %s", days, dailyRate.StringFixed(types.MoneyScale), total.StringFixed(types.MoneyScale))
	return total, nil
}
