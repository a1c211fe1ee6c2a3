package ledger

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in minor units (cents).
type Money int64

var ErrMalformedAmount = errors.New("malformed amount")

// String renders the amount with exactly two decimals, e.g. "12.50".
func (m Money) String() string {
	sign := ""
	v := int64(m)

	if v < 0 {
		sign = "-"
		if v == math.MinInt64 {
			return "-92233720368547758.08"
		}

		v = -v
	}

	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON writes the amount as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// ParseMoney converts a decimal string with up to 2 fractional digits into
// cents. Sign is preserved; positivity is the ledger's concern.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrMalformedAmount)
	}

	neg := false

	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		neg = true
		s = s[1:]
	}

	intPart, frac, hasFrac := strings.Cut(s, ".")
	if intPart == "" && (!hasFrac || frac == "") {
		return 0, fmt.Errorf("%w: no digits", ErrMalformedAmount)
	}

	if intPart == "" {
		intPart = "0"
	}

	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: supports up to 2 decimals", ErrMalformedAmount)
	}

	if strings.ContainsAny(intPart+frac, "+-eE") {
		return 0, fmt.Errorf("%w: unexpected character", ErrMalformedAmount)
	}

	frac += strings.Repeat("0", 2-len(frac))

	ip, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: integer part: %w", ErrMalformedAmount, err)
	}

	fp, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: fractional part: %w", ErrMalformedAmount, err)
	}

	if ip > (math.MaxInt64-fp)/100 {
		return 0, fmt.Errorf("%w: out of range", ErrMalformedAmount)
	}

	total := ip*100 + fp
	if neg {
		total = -total
	}

	return Money(total), nil
}
