package util

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a user-entered amount is not a
// well-formed non-negative decimal number.
var ErrInvalidAmount = errors.New("invalid amount")

// ToBaseUnits converts a human-readable amount to base units of a ledger
// with the given number of decimals, e.g. "1.5" with 9 decimals ->
// 1500000000. The amount is parsed exactly; fractional base units below
// the ledger precision are truncated toward zero, never rounded up.
func ToBaseUnits(amount string, decimals int) (*big.Int, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("decimals must be non-negative, got %d", decimals)
	}

	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, amount)
	}

	return d.Shift(int32(decimals)).Truncate(0).BigInt(), nil
}

// FromBaseUnits converts base units back to a human-readable amount,
// e.g. 1500000000 with 9 decimals -> "1.5". Trailing fractional zeros
// are trimmed.
func FromBaseUnits(units *big.Int, decimals int) string {
	if units == nil {
		return "0"
	}

	s := decimal.NewFromBigInt(units, -int32(decimals)).String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
