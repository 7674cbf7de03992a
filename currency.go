package savings

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is one of the two supported currency codes.
type Currency string

const (
	USD Currency = "USD"
	INR Currency = "INR"
)

// ParseCurrency parses a string into a supported Currency. The code is case
// insensitive.
func ParseCurrency(s string) (Currency, error) {
	switch Currency(strings.ToUpper(s)) {
	case USD:
		return USD, nil
	case INR:
		return INR, nil
	default:
		return "", fmt.Errorf("unsupported currency %q (supported: %s, %s)", s, USD, INR)
	}
}

// ValidateCurrency returns an error if the currency is not exactly one of the
// supported codes. Unlike ParseCurrency there is no case folding: stored and
// computed values carry canonical codes only.
func ValidateCurrency(c Currency) error {
	if c != USD && c != INR {
		return fmt.Errorf("unsupported currency %q (supported: %s, %s)", c, USD, INR)
	}
	return nil
}

// Rate returns the conversion factor from one currency to another.
// It returns 1 when both currencies are equal, and fails fast on an
// unsupported pair instead of silently picking a wrong factor.
func Rate(from, to Currency, rates ExchangeRates) (decimal.Decimal, error) {
	if err := ValidateCurrency(from); err != nil {
		return decimal.Decimal{}, err
	}
	if err := ValidateCurrency(to); err != nil {
		return decimal.Decimal{}, err
	}
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	if from == USD && to == INR {
		return rates.USDINR, nil
	}
	return rates.INRUSD, nil
}

// Convert converts a monetary value into the 'to' currency using the given
// rates. When the currencies already match the value is returned unchanged,
// with no floating-point drift introduced.
func Convert(m Money, to Currency, rates ExchangeRates) (Money, error) {
	if m.Currency() == to {
		if err := ValidateCurrency(to); err != nil {
			return Money{}, err
		}
		return m, nil
	}
	factor, err := Rate(m.Currency(), to, rates)
	if err != nil {
		return Money{}, err
	}
	return M(m.Amount().Mul(factor), to), nil
}
