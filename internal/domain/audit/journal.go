// Package audit records performed operations as notifications.
package audit

import (
	"context"
	"fmt"

	"tourbook/internal/core/entity"
	"tourbook/internal/domain"
	"tourbook/internal/domain/notification"
)

// Message fields attached by Track.
const (
	FieldEntity   = "entity"
	FieldEntityID = "entityId"
	FieldAction   = "action"
	FieldState    = "state"
)

// Journal turns operations into KindOperation messages.
type Journal struct {
	notifier notification.Notifier
}

// NewJournal creates a journal. A nil notifier discards records.
func NewJournal(n notification.Notifier) *Journal {
	if n == nil {
		n = notification.Discard
	}
	return &Journal{notifier: n}
}

// Record emits "operation performed: <text>". A nil journal records nothing.
func (j *Journal) Record(ctx context.Context, format string, args ...any) {
	if j == nil {
		return
	}
	j.notifier.Notify(ctx, operation(fmt.Sprintf(format, args...)))
}

func operation(text string) notification.Message {
	return notification.NewMessage(notification.KindOperation, "operation performed: "+text)
}

// Track registers after-create, after-update and after-delete hooks that record
// the operation. describe renders the entity for the message. Each message
// carries the entity name, id, action and the entity itself as fields.
func Track[T entity.Entity](j *Journal, hooks *domain.HookRegistry[T], entityName string, describe func(T) string) {
	record := func(action, verb string) domain.Hook[T] {
		return func(ctx context.Context, e T) error {
			if j == nil {
				return nil
			}
			msg := operation(fmt.Sprintf("%s %s %s (id %d)", verb, entityName, describe(e), e.GetID())).
				With(FieldEntity, entityName).
				With(FieldEntityID, e.GetID()).
				With(FieldAction, action).
				With(FieldState, e)
			j.notifier.Notify(ctx, msg)
			return nil
		}
	}
	hooks.OnAfterCreate(record("create", "created"))
	hooks.OnAfterUpdate(record("update", "updated"))
	hooks.OnAfterDelete(record("delete", "deleted"))
}
