package model

import (
	"encoding/json"
	"time"
)

// OptionalFloat is a value that may be undefined, e.g. during a rolling-window warm-up.
type OptionalFloat struct {
	Value float64
	Valid bool
}

// Some returns a defined OptionalFloat.
func Some(v float64) OptionalFloat { return OptionalFloat{Value: v, Valid: true} }

// MarshalJSON encodes undefined values as null.
func (o OptionalFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// IndicatorRow is one timestamp of the derived frame.
type IndicatorRow struct {
	Time              time.Time     `json:"time"`
	Close             float64       `json:"close"`
	SMAShort          OptionalFloat `json:"sma_short"`
	SMALong           OptionalFloat `json:"sma_long"`
	RawSignal         bool          `json:"raw_signal"`
	Position          int           `json:"position"`
	PeriodReturn      float64       `json:"period_return"`
	StrategyReturn    float64       `json:"strategy_return"`
	CumReturn         float64       `json:"cum_return"`
	CumStrategyReturn float64       `json:"cum_strategy_return"`
}

// Frame is aligned 1:1 with the Series it was derived from.
type Frame []IndicatorRow

// CumReturns returns the buy-and-hold curve.
func (f Frame) CumReturns() []float64 {
	out := make([]float64, len(f))
	for i, r := range f {
		out[i] = r.CumReturn
	}
	return out
}

// CumStrategyReturns returns the strategy curve.
func (f Frame) CumStrategyReturns() []float64 {
	out := make([]float64, len(f))
	for i, r := range f {
		out[i] = r.CumStrategyReturn
	}
	return out
}
