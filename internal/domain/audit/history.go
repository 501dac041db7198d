package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appctx "tourbook/internal/core/context"
	"tourbook/internal/core/id"
	"tourbook/internal/domain/notification"
)

// History page bounds.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// Entry is one persisted journal message.
type Entry struct {
	ID         id.ID           `json:"id"`
	Kind       string          `json:"kind"`
	Action     string          `json:"action,omitempty"`
	EntityType string          `json:"entityType,omitempty"`
	EntityID   *id.ID          `json:"entityId,omitempty"`
	Username   string          `json:"username,omitempty"`
	Message    string          `json:"message"`
	Fields     json.RawMessage `json:"fields,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// NewEntry builds the stored form of msg. The acting user comes from ctx.
func NewEntry(ctx context.Context, msg notification.Message) (Entry, error) {
	entry := Entry{
		Kind:      string(msg.Kind),
		Username:  appctx.GetUsername(ctx),
		Message:   msg.Text,
		CreatedAt: msg.Time,
	}
	if action, ok := msg.Fields[FieldAction].(string); ok {
		entry.Action = action
	}
	if entityType, ok := msg.Fields[FieldEntity].(string); ok {
		entry.EntityType = entityType
	}
	if entityID, ok := msg.Fields[FieldEntityID].(id.ID); ok {
		entry.EntityID = &entityID
	}
	if len(msg.Fields) > 0 {
		fields, err := json.Marshal(msg.Fields)
		if err != nil {
			return entry, fmt.Errorf("encode %s fields: %w", msg.Kind, err)
		}
		entry.Fields = fields
	}
	return entry, nil
}

// History reads persisted entries of one entity, newest first.
type History interface {
	EntityHistory(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error)
}

// HistoryService serves entity histories with bounded page sizes.
type HistoryService struct {
	history History
}

// NewHistoryService creates a history service.
func NewHistoryService(h History) *HistoryService {
	return &HistoryService{history: h}
}

// ForEntity returns up to limit entries. A non-positive limit means
// DefaultHistoryLimit; larger limits are capped at MaxHistoryLimit.
func (s *HistoryService) ForEntity(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	entries, err := s.history.EntityHistory(ctx, entityType, entityID, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}
