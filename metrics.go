package savings

// Pure goal-scoped metrics, computed from a saved amount and a target.
// They never mutate state and are safe to call with any ledger snapshot.

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Progress returns the percentage of the target reached by the saved amount,
// clamped to [0, 100]. A non-positive target yields 0.
func Progress(saved, target Money) Percent {
	if !target.IsPositive() {
		return 0
	}
	ratio := saved.Amount().Div(target.Amount()).Mul(hundred)
	p := Percent(ratio.InexactFloat64())
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Remaining returns the amount still to save, floored at zero.
func Remaining(target, saved Money) Money {
	rest := target.Sub(saved)
	if rest.IsNegative() {
		return M(decimal.Zero, target.Currency())
	}
	return rest
}

// IsComplete reports whether the saved amount reached the target.
func IsComplete(saved, target Money) bool {
	return saved.GreaterThanOrEqual(target)
}
