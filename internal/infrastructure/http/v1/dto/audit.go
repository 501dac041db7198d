package dto

import (
	"tourbook/internal/domain/audit"
)

// AuditHistoryResponse lists journal entries of one entity, newest first.
type AuditHistoryResponse struct {
	Items []audit.Entry `json:"items"`
}
