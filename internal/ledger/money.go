package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// minorDigits is the number of decimal places in one currency unit.
const minorDigits = 2

// MaxAmount bounds every amount the ledger accepts: 10 trillion in major
// units. Any sum of up to 9000 such amounts still fits in an int64.
const MaxAmount Amount = 1_000_000_000_000_000

// Decimals with an exponent outside this window are rejected before rounding.
const (
	minExponent = -20
	maxExponent = 18
)

// maxQuoted caps how much of a rejected input is echoed in an error.
const maxQuoted = 32

// Amount is a currency amount in integer minor units (cents).
// All ledger arithmetic happens on Amount; decimals only appear at the
// presentation boundary.
type Amount int64

// ParseAmount parses a decimal string such as "12.34" or "12,34".
// Values with more than two fractional digits are rounded half away from zero.
func ParseAmount(s string) (Amount, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, fmt.Errorf("invalid amount: empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		if len(s) > maxQuoted {
			return 0, fmt.Errorf("invalid amount %q...", s[:maxQuoted])
		}
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return AmountFromDecimal(d)
}

// AmountFromDecimal converts a decimal to minor units, rounding to two places.
// Magnitudes above MaxAmount are rejected.
func AmountFromDecimal(d decimal.Decimal) (Amount, error) {
	if exp := d.Exponent(); exp < minExponent || exp > maxExponent {
		return 0, fmt.Errorf("amount out of range: exponent %d", exp)
	}
	bi := d.Round(minorDigits).Shift(minorDigits).BigInt()
	if !bi.IsInt64() {
		return 0, fmt.Errorf("amount out of range: more than %s", MaxAmount)
	}
	a := Amount(bi.Int64())
	if a > MaxAmount || a < -MaxAmount {
		return 0, fmt.Errorf("amount out of range: more than %s", MaxAmount)
	}
	return a, nil
}

// addAmount is overflow-checked addition.
func addAmount(a, b Amount) (Amount, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

// Decimal returns the amount as a decimal in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -minorDigits)
}

// String formats the amount with exactly two decimals, e.g. "42.00".
func (a Amount) String() string {
	return a.Decimal().StringFixed(minorDigits)
}

// PerPersonShare is the canonical price-per-person rule: the largest share an
// equal split of total over headcount assigns, i.e. total/headcount rounded up
// to the next minor unit. Returns 0 for a non-positive headcount.
func PerPersonShare(total Amount, headcount int) Amount {
	if headcount <= 0 {
		return 0
	}
	n := Amount(headcount)
	share := total / n
	if total%n > 0 {
		share++
	}
	return share
}
