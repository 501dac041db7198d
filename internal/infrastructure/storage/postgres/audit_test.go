package postgres

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourbook/internal/core/id"
	"tourbook/internal/domain/audit"
)

func newTestAuditLog(t *testing.T) *AuditLog {
	t.Helper()
	l, err := NewAuditLog(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func largeFields(t *testing.T, n int) json.RawMessage {
	t.Helper()
	notes := make([]string, n)
	for i := range notes {
		notes[i] = fmt.Sprintf("traveller %d confirmed the itinerary", i)
	}
	out, err := json.Marshal(map[string]any{"notes": notes})
	require.NoError(t, err)
	return out
}

func TestAuditLog_SmallPayloadStoredAsJSON(t *testing.T) {
	l := newTestAuditLog(t)
	fields := json.RawMessage(`{"entity":"customer","entityId":4}`)

	row := l.pack(audit.Entry{Kind: "operation", Fields: fields})

	assert.Equal(t, CompressionNone, row.CompressionAlgo)
	assert.Equal(t, []byte(fields), row.Payload)
	assert.Nil(t, row.PayloadCompressed)
	assert.False(t, row.CreatedAt.IsZero())
}

func TestAuditLog_LargePayloadCompressed(t *testing.T) {
	l := newTestAuditLog(t)
	fields := largeFields(t, 1000)
	require.Greater(t, len(fields), DefaultCompressThreshold)

	row := l.pack(audit.Entry{Kind: "operation", Fields: fields})

	assert.Equal(t, CompressionZstd, row.CompressionAlgo)
	assert.Nil(t, row.Payload)
	assert.Less(t, len(row.PayloadCompressed), len(fields))

	entry, err := l.unpack(row)
	require.NoError(t, err)
	assert.JSONEq(t, string(fields), string(entry.Fields))
}

func TestAuditLog_CompressThresholdOverride(t *testing.T) {
	l := newTestAuditLog(t).WithCompressThreshold(8)

	row := l.pack(audit.Entry{Fields: json.RawMessage(`{"action":"update"}`)})
	assert.Equal(t, CompressionZstd, row.CompressionAlgo)

	row = l.pack(audit.Entry{Fields: json.RawMessage(`{}`)})
	assert.Equal(t, CompressionNone, row.CompressionAlgo)
}

func TestAuditLog_NoFields(t *testing.T) {
	l := newTestAuditLog(t)

	row := l.pack(audit.Entry{Kind: "operation", Message: "operation performed: note saved"})
	assert.Nil(t, row.Payload)
	assert.Nil(t, row.PayloadCompressed)

	entry, err := l.unpack(row)
	require.NoError(t, err)
	assert.Nil(t, entry.Fields)
	assert.Equal(t, "operation performed: note saved", entry.Message)
}

func TestAuditLog_UnpackRejectsUnknownCodec(t *testing.T) {
	l := newTestAuditLog(t)

	_, err := l.unpack(auditRow{ID: 9, CompressionAlgo: "lz4"})
	assert.ErrorContains(t, err, `audit entry 9: unsupported compression "lz4"`)

	_, err = l.unpack(auditRow{ID: 10, CompressionAlgo: CompressionZstd, PayloadCompressed: []byte("not zstd")})
	assert.ErrorContains(t, err, "decompress audit entry 10")
}

func TestAuditLog_InsertQuery(t *testing.T) {
	l := newTestAuditLog(t)
	entityID := id.ID(4)

	sql, args, err := l.insertQuery(audit.Entry{
		Kind:       "operation",
		Action:     "create",
		EntityType: "customer",
		EntityID:   &entityID,
		Username:   "admin",
		Message:    "operation performed: created customer 'Ana' (id 4)",
		Fields:     json.RawMessage(`{"entityId":4}`),
	}).ToSql()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sql, "INSERT INTO audit_log ("))
	assert.NotContains(t, sql, "id,kind")
	assert.Contains(t, sql, "$10")
	require.Len(t, args, 10)
	assert.Equal(t, "create", args[1])
	assert.Equal(t, &entityID, args[3])
	assert.Equal(t, []byte(`{"entityId":4}`), args[6])
	assert.Nil(t, args[7])
	assert.Equal(t, CompressionNone, args[8])
}

func TestHistoryQuery(t *testing.T) {
	sql, args, err := historyQuery("customer", 4, 20).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT "+strings.Join(auditColumns, ", ")+" FROM audit_log"+
			" WHERE entity_type = $1 AND entity_id = $2 ORDER BY created_at DESC, id DESC LIMIT 20",
		sql)
	assert.Equal(t, []any{"customer", int64(4)}, args)
}
