// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"tourbook/internal/domain"
)

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// NewListResponse maps a domain page to its response form.
func NewListResponse[E any, T any](result domain.ListResult[E], mapFn func(E) T) ListResponse[T] {
	items := make([]T, len(result.Items))
	for i, item := range result.Items {
		items[i] = mapFn(item)
	}
	return ListResponse[T]{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	}
}

// MapSlice maps every element; a nil input yields an empty slice.
func MapSlice[E any, T any](in []E, mapFn func(E) T) []T {
	out := make([]T, len(in))
	for i, item := range in {
		out[i] = mapFn(item)
	}
	return out
}

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
