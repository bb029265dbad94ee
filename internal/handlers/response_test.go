package handlers

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountTextAcceptsStringsAndNumbers(t *testing.T) {
	var req struct {
		A amountText  `json:"a"`
		B amountText  `json:"b"`
		C *amountText `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"12.50","b":100.25,"c":null}`), &req))
	assert.Equal(t, amountText("12.50"), req.A)
	assert.Equal(t, amountText("100.25"), req.B)
	assert.Nil(t, req.C.ptr())
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDate("2026-03-15T10:00:00+03:00")
	require.NoError(t, err)
	assert.Equal(t, 7, d.Hour())

	d, err = parseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = parseDate("15.03.2026")
	assert.ErrorIs(t, err, errBadDate)
}
