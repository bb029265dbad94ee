// Package money parses and formats the textual amounts that travel through
// the API and sit in the database.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount     = errors.New("amount is not a number")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrCorruptAmount     = errors.New("stored amount is not a number")
)

// Zero is the balance of a freshly opened account.
var Zero = decimal.Zero

// Limits on the digits an amount may carry on each side of the point.
// Stored values are sums of accepted amounts and get more room.
const (
	maxIntegerDigits       = 18
	maxFractionDigits      = 8
	maxStoredIntegerDigits = 38
)

// ParseDelta parses a signed amount. Direction is decided by the caller, so
// negative values are accepted as they are.
func ParseDelta(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if !plainNumber(s, maxIntegerDigits) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	return d, nil
}

// ParsePositive parses an amount that has to be strictly greater than zero,
// as required when a transaction, budget or goal is created.
func ParsePositive(text string) (decimal.Decimal, error) {
	d, err := ParseDelta(text)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNonPositiveAmount, Format(d))
	}
	return d, nil
}

// ParseStored parses a value read back from storage. Anything unparsable is
// reported instead of being treated as zero.
func ParseStored(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if !plainNumber(s, maxStoredIntegerDigits) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrCorruptAmount, text)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrCorruptAmount, text)
	}
	return d, nil
}

// Format renders d in its shortest exact form: "600", "-200", "12.5".
func Format(d decimal.Decimal) string {
	return d.String()
}

// plainNumber reports whether s is an optionally signed run of at most
// maxInt digits with an optional fractional part. Exponents, spaces and
// anything else are rejected.
func plainNumber(s string, maxInt int) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	intPart, fracPart, hasPoint := strings.Cut(s, ".")
	if len(intPart) == 0 || len(intPart) > maxInt || !allDigits(intPart) {
		return false
	}
	if hasPoint && (len(fracPart) == 0 || len(fracPart) > maxFractionDigits || !allDigits(fracPart)) {
		return false
	}
	return true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
