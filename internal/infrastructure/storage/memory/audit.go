package memory

import (
	"context"
	"sync"

	"tourbook/internal/core/id"
	"tourbook/internal/domain/audit"
	"tourbook/internal/domain/notification"
)

var (
	_ notification.Sink = (*AuditLog)(nil)
	_ audit.History     = (*AuditLog)(nil)
)

// AuditLog keeps journal messages in memory.
type AuditLog struct {
	mu      sync.RWMutex
	entries []audit.Entry
}

// NewAuditLog creates an empty audit log.
func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

// Name implements notification.Sink.
func (l *AuditLog) Name() string { return "audit_log" }

// Send implements notification.Sink.
func (l *AuditLog) Send(ctx context.Context, msg notification.Message) error {
	entry, err := audit.NewEntry(ctx, msg)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	entry.ID = id.ID(len(l.entries) + 1)
	l.entries = append(l.entries, entry)
	return nil
}

// EntityHistory implements audit.History.
func (l *AuditLog) EntityHistory(_ context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []audit.Entry
	for i := len(l.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := l.entries[i]
		if e.EntityType == entityType && e.EntityID != nil && *e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}
