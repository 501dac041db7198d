package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-07-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC), d.Time)

	d, err = ParseDate("2026-07-15T22:10:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2026-07-15", d.String())

	_, err = ParseDate("15/07/2026")
	assert.Error(t, err)
}

func TestDate_JSON(t *testing.T) {
	var payload struct {
		Start Date  `json:"start"`
		End   *Date `json:"end"`
		Empty Date  `json:"empty"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2026-01-31","end":null,"empty":""}`), &payload))

	assert.Equal(t, "2026-01-31", payload.Start.String())
	assert.Nil(t, payload.End)
	assert.True(t, payload.Empty.IsZero())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2026-01-31","end":null,"empty":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"start":"tomorrow"}`), &payload))
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, "10.13", RoundMoney(MustMoney("10.125")).StringFixed(MoneyScale))
	assert.Panics(t, func() { MustMoney("ten") })
}
