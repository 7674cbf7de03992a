package savings

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// fallbackUSDINR is the hardcoded rate used when no remote rate was ever
// fetched and nothing usable is cached: 1 USD = 86.49 INR.
const fallbackUSDINR = "86.49"

// rateFreshness is the window during which a fetched rate pair is considered
// current and not worth re-fetching.
const rateFreshness = 15 * time.Minute

// ExchangeRates is the current USD/INR conversion factor pair plus its fetch
// timestamp. A record is always replaced wholesale, never partially updated,
// and the two factors are reciprocal by construction.
type ExchangeRates struct {
	USDINR      decimal.Decimal
	INRUSD      decimal.Decimal
	LastUpdated time.Time
}

// NewExchangeRates builds a reciprocal-consistent rate record from the
// USD to INR factor.
func NewExchangeRates(usdinr decimal.Decimal, at time.Time) ExchangeRates {
	return ExchangeRates{
		USDINR:      usdinr,
		INRUSD:      decimal.NewFromInt(1).Div(usdinr),
		LastUpdated: at,
	}
}

// FallbackRates returns the documented hardcoded rate record. Its timestamp
// is zero: the fallback is usable but never fresh, so a persisted copy can
// never pass for a fetched rate and suppress the next remote fetch.
func FallbackRates() ExchangeRates {
	return NewExchangeRates(decimal.RequireFromString(fallbackUSDINR), time.Time{})
}

// Valid reports whether both factors are present and positive.
func (r ExchangeRates) Valid() bool {
	return r.USDINR.IsPositive() && r.INRUSD.IsPositive()
}

// Fresh reports whether the record was fetched within the given window.
func (r ExchangeRates) Fresh(window time.Duration) bool {
	return !r.LastUpdated.IsZero() && time.Since(r.LastUpdated) < window
}

// jrates is the object read from storage using the json parser, in the key
// names the historical storage format uses.
type jrates struct {
	USDINR      decimal.Decimal `json:"USD_INR"`
	INRUSD      decimal.Decimal `json:"INR_USD"`
	LastUpdated string          `json:"lastUpdated"`
}

func (r ExchangeRates) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("USD_INR", r.USDINR)
	w.Append("INR_USD", r.INRUSD)
	w.Append("lastUpdated", r.LastUpdated.Format(time.RFC3339))
	return w.MarshalJSON()
}

func (r *ExchangeRates) UnmarshalJSON(data []byte) error {
	var j jrates
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	updated, err := time.Parse(time.RFC3339, j.LastUpdated)
	if err != nil {
		return fmt.Errorf("invalid lastUpdated %q: %w", j.LastUpdated, err)
	}
	r.USDINR = j.USDINR
	r.INRUSD = j.INRUSD
	r.LastUpdated = updated
	return nil
}
