package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePositive(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"plain digits", "100", "100", nil},
		{"decimal", "12.50", "12.5", nil},
		{"surrounding spaces", "  42 ", "42", nil},
		{"empty", "", "", ErrInvalidAmount},
		{"blank", "   ", "", ErrInvalidAmount},
		{"letters", "12abc", "", ErrInvalidAmount},
		{"words", "hundred", "", ErrInvalidAmount},
		{"exponent", "1e3", "", ErrInvalidAmount},
		{"upper exponent", "1E2", "", ErrInvalidAmount},
		{"negative exponent", "5e-1", "", ErrInvalidAmount},
		{"huge exponent", "1e900000000", "", ErrInvalidAmount},
		{"inner space", "1 000", "", ErrInvalidAmount},
		{"bare point", "5.", "", ErrInvalidAmount},
		{"leading point", ".5", "", ErrInvalidAmount},
		{"too many digits", "1234567890123456789", "", ErrInvalidAmount},
		{"too many decimals", "1.123456789", "", ErrInvalidAmount},
		{"longest accepted", "123456789012345678.12345678", "123456789012345678.12345678", nil},
		{"explicit plus", "+7", "7", nil},
		{"zero", "0", "", ErrNonPositiveAmount},
		{"negative", "-5", "", ErrNonPositiveAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePositive(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, Format(got))
		})
	}
}

func TestParseDeltaAcceptsSignedValues(t *testing.T) {
	d, err := ParseDelta("-700")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.NewFromInt(-700)))

	_, err = ParseDelta("7OO")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseDelta("-1e900000000")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestParseStoredRejectsGarbage(t *testing.T) {
	_, err := ParseStored("not-a-balance")
	assert.ErrorIs(t, err, ErrCorruptAmount)

	_, err = ParseStored("1e5")
	assert.ErrorIs(t, err, ErrCorruptAmount)

	d, err := ParseStored("500")
	require.NoError(t, err)
	assert.Equal(t, "500", Format(d))
}

func TestFormatHasNoFloatDrift(t *testing.T) {
	a, _ := ParsePositive("0.1")
	b, _ := ParsePositive("0.2")
	assert.Equal(t, "0.3", Format(a.Add(b)))
}
