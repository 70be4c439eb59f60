package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("payment amount must not be negative")
	ErrInvalidCurrency = errors.New("currency must be a three letter ISO 4217 code")
)

// zeroDecimal lists currencies the payment processor charges in whole units.
var zeroDecimal = map[string]struct{}{
	"bif": {}, "clp": {}, "djf": {}, "gnf": {}, "jpy": {}, "kmf": {}, "krw": {}, "mga": {},
	"pyg": {}, "rwf": {}, "ugx": {}, "vnd": {}, "vuv": {}, "xaf": {}, "xof": {}, "xpf": {},
}

// NormalizeCurrency lower-cases and validates an ISO 4217 code.
func NormalizeCurrency(currency string) (string, error) {
	c := strings.ToLower(strings.TrimSpace(currency))
	if len(c) != 3 {
		return "", ErrInvalidCurrency
	}
	for _, r := range c {
		if r < 'a' || r > 'z' {
			return "", ErrInvalidCurrency
		}
	}
	return c, nil
}

// ToMinorUnits converts an amount to the integer smallest currency unit, rounding half up.
func ToMinorUnits(amount decimal.Decimal, currency string) (int64, error) {
	if amount.IsNegative() {
		return 0, ErrInvalidAmount
	}
	c, err := NormalizeCurrency(currency)
	if err != nil {
		return 0, err
	}
	if _, ok := zeroDecimal[c]; ok {
		return amount.Round(0).IntPart(), nil
	}
	return amount.Round(2).Shift(2).IntPart(), nil
}
