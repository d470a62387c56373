package calculator

import (
	"fmt"

	"SMACrossover/internal/model"
)

// PeriodReturns returns the fractional change of each close versus the prior one.
// The first entry is 0 since there is no prior period. A zero prior close is an
// error rather than an Inf/NaN.
func PeriodReturns(closes []float64) ([]float64, error) {
	out := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 {
			return nil, fmt.Errorf("period return at index %d: %w", i, model.ErrDivisionByZero)
		}
		out[i] = (closes[i] - prev) / prev
	}
	return out, nil
}

// StrategyReturns multiplies each period return by the position held over it.
func StrategyReturns(position []int, returns []float64) ([]float64, error) {
	if len(position) != len(returns) {
		return nil, fmt.Errorf("strategy returns: %d positions vs %d returns: %w", len(position), len(returns), model.ErrMisaligned)
	}
	out := make([]float64, len(returns))
	for i, r := range returns {
		out[i] = float64(position[i]) * r
	}
	return out, nil
}

// Cumulative compounds returns: out[i] = prod_{k<=i}(1 + returns[k]).
func Cumulative(returns []float64) []float64 {
	out := make([]float64, len(returns))
	acc := 1.0
	for i, r := range returns {
		acc *= 1 + r
		out[i] = acc
	}
	return out
}
