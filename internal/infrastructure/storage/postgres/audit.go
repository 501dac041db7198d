package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"tourbook/internal/core/id"
	"tourbook/internal/domain/audit"
	"tourbook/internal/domain/notification"
)

// CompressionAlgo names the codec of a stored payload.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the payload size in bytes above which fields are
// stored zstd-compressed.
const DefaultCompressThreshold = 10 * 1024

const auditTable = "audit_log"

var auditColumns = []string{
	"id", "kind", "action", "entity_type", "entity_id", "username", "message",
	"payload", "payload_compressed", "compression_algo", "created_at",
}

var (
	_ notification.Sink = (*AuditLog)(nil)
	_ audit.History     = (*AuditLog)(nil)
)

type auditRow struct {
	ID                id.ID           `db:"id"`
	Kind              string          `db:"kind"`
	Action            string          `db:"action"`
	EntityType        string          `db:"entity_type"`
	EntityID          *id.ID          `db:"entity_id"`
	Username          string          `db:"username"`
	Message           string          `db:"message"`
	Payload           []byte          `db:"payload"`
	PayloadCompressed []byte          `db:"payload_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// AuditLog stores journal messages in audit_log and reads entity histories back.
type AuditLog struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewAuditLog creates an audit log writing through txManager.
func NewAuditLog(txManager *TxManager) (*AuditLog, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditLog{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: DefaultCompressThreshold,
	}, nil
}

// WithCompressThreshold overrides the compression threshold.
func (l *AuditLog) WithCompressThreshold(bytes int) *AuditLog {
	l.compressThreshold = bytes
	return l
}

// Close releases the codecs.
func (l *AuditLog) Close() error {
	l.decoder.Close()
	return l.encoder.Close()
}

// Name implements notification.Sink.
func (l *AuditLog) Name() string { return "audit_log" }

// Send implements notification.Sink.
func (l *AuditLog) Send(ctx context.Context, msg notification.Message) error {
	entry, err := audit.NewEntry(ctx, msg)
	if err != nil {
		return err
	}
	return l.Log(ctx, entry)
}

// Log inserts entry.
func (l *AuditLog) Log(ctx context.Context, entry audit.Entry) error {
	sql, args, err := l.insertQuery(entry).ToSql()
	if err != nil {
		return fmt.Errorf("build audit insert: %w", err)
	}
	if _, err := l.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// EntityHistory implements audit.History.
func (l *AuditLog) EntityHistory(ctx context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error) {
	sql, args, err := historyQuery(entityType, entityID, limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit history query: %w", err)
	}

	var rows []auditRow
	err = l.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		return pgxscan.Select(ctx, l.txManager.GetQuerier(ctx), &rows, sql, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("select audit history: %w", err)
	}

	entries := make([]audit.Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := l.unpack(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (l *AuditLog) insertQuery(entry audit.Entry) squirrel.InsertBuilder {
	row := l.pack(entry)
	return squirrel.Insert(auditTable).
		Columns(auditColumns[1:]...).
		Values(
			row.Kind, row.Action, row.EntityType, row.EntityID, row.Username, row.Message,
			row.Payload, row.PayloadCompressed, row.CompressionAlgo, row.CreatedAt,
		).
		PlaceholderFormat(squirrel.Dollar)
}

func historyQuery(entityType string, entityID id.ID, limit int) squirrel.SelectBuilder {
	return squirrel.Select(auditColumns...).
		From(auditTable).
		Where(squirrel.Eq{"entity_type": entityType}).
		Where(squirrel.Eq{"entity_id": entityID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)
}

// pack compresses fields larger than the threshold.
func (l *AuditLog) pack(entry audit.Entry) auditRow {
	row := auditRow{
		Kind:            entry.Kind,
		Action:          entry.Action,
		EntityType:      entry.EntityType,
		EntityID:        entry.EntityID,
		Username:        entry.Username,
		Message:         entry.Message,
		CompressionAlgo: CompressionNone,
		CreatedAt:       entry.CreatedAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	switch {
	case len(entry.Fields) > l.compressThreshold:
		row.PayloadCompressed = l.encoder.EncodeAll(entry.Fields, nil)
		row.CompressionAlgo = CompressionZstd
	case len(entry.Fields) > 0:
		row.Payload = entry.Fields
	}
	return row
}

func (l *AuditLog) unpack(row auditRow) (audit.Entry, error) {
	entry := audit.Entry{
		ID:         row.ID,
		Kind:       row.Kind,
		Action:     row.Action,
		EntityType: row.EntityType,
		EntityID:   row.EntityID,
		Username:   row.Username,
		Message:    row.Message,
		CreatedAt:  row.CreatedAt,
	}

	switch row.CompressionAlgo {
	case CompressionNone, "":
		if len(row.Payload) > 0 {
			entry.Fields = row.Payload
		}
	case CompressionZstd:
		fields, err := l.decoder.DecodeAll(row.PayloadCompressed, nil)
		if err != nil {
			return entry, fmt.Errorf("decompress audit entry %d: %w", row.ID, err)
		}
		entry.Fields = fields
	default:
		return entry, fmt.Errorf("audit entry %d: unsupported compression %q", row.ID, row.CompressionAlgo)
	}
	return entry, nil
}
