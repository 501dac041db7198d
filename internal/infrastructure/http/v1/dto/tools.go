package dto

import (
	"tourbook/internal/core/types"
)

// DiscountRequest asks for a discounted price. An omitted percent uses the default.
type DiscountRequest struct {
	Price   types.Money  `json:"price"`
	Percent *types.Money `json:"percent"`
}

// TotalValueRequest asks for days * dailyRate.
type TotalValueRequest struct {
	Days      int         `json:"days"`
	DailyRate types.Money `json:"dailyRate"`
}

// TotalValueResponse is the result of a total-value calculation.
type TotalValueResponse struct {
	Days      int         `json:"days"`
	DailyRate types.Money `json:"dailyRate"`
	Total     types.Money `json:"total"`
}
