package normalize

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CleanAmount parses a raw amount cell into a decimal, tolerating the junk
// real exports carry: currency symbols, thousands separators, accounting
// parentheses for negatives, and trailing CR/DR markers (CR = credit =
// positive, DR = debit = negative).
func CleanAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, nil
	}

	sign := decimal.NewFromInt(1)

	upper := strings.ToUpper(s)
	if strings.HasSuffix(upper, "CR") {
		s = strings.TrimSpace(s[:len(s)-2])
	} else if strings.HasSuffix(upper, "DR") {
		s = strings.TrimSpace(s[:len(s)-2])
		sign = sign.Neg()
	}

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
		sign = sign.Neg()
	}

	s = strings.Map(func(r rune) rune {
		switch r {
		case '$', ',', ' ':
			return -1
		}
		return r
	}, s)

	if s == "" {
		return decimal.Zero, fmt.Errorf("parsing amount %q: no digits", raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	return d.Mul(sign), nil
}
