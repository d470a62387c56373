package model

import (
	"fmt"
	"time"
)

// Default engine parameters.
const (
	DefaultShortWindow    = 5
	DefaultLongWindow     = 20
	DefaultPeriodsPerYear = 365

	// MaxPeriodsPerYear is one period per minute.
	MaxPeriodsPerYear = 365 * 24 * 60
)

// Params fixes the engine for one run.
type Params struct {
	ShortWindow    int `json:"short_window" yaml:"short_window"`
	LongWindow     int `json:"long_window" yaml:"long_window"`
	PeriodsPerYear int `json:"periods_per_year" yaml:"periods_per_year"`
}

// DefaultParams returns the 5/20/365 configuration.
func DefaultParams() Params {
	return Params{
		ShortWindow:    DefaultShortWindow,
		LongWindow:     DefaultLongWindow,
		PeriodsPerYear: DefaultPeriodsPerYear,
	}
}

// Validate checks window ordering and positivity.
func (p Params) Validate() error {
	if p.ShortWindow < 1 {
		return fmt.Errorf("%w: short_window must be >= 1, got %d", ErrInvalidParams, p.ShortWindow)
	}
	if p.LongWindow < p.ShortWindow {
		return fmt.Errorf("%w: long_window (%d) must be >= short_window (%d)", ErrInvalidParams, p.LongWindow, p.ShortWindow)
	}
	if p.PeriodsPerYear < 1 || p.PeriodsPerYear > MaxPeriodsPerYear {
		return fmt.Errorf("%w: periods_per_year must be in [1, %d], got %d", ErrInvalidParams, MaxPeriodsPerYear, p.PeriodsPerYear)
	}
	return nil
}

// Summary holds the scalar performance metrics of a run.
type Summary struct {
	TotalReturn             float64 `json:"total_return"`
	AnnualizedReturn        float64 `json:"annualized_return"`
	BuyHoldTotalReturn      float64 `json:"buy_hold_total_return"`
	BuyHoldAnnualizedReturn float64 `json:"buy_hold_annualized_return"`
	MaxDrawdown             float64 `json:"max_drawdown"`
	BuyHoldMaxDrawdown      float64 `json:"buy_hold_max_drawdown"`
	Exposure                float64 `json:"exposure"` // 0.0 ~ 1.0
	Trades                  int     `json:"trades"`
	ElapsedDays             int     `json:"elapsed_days"`
}

// BacktestResult is the complete output of one engine run.
type BacktestResult struct {
	Symbol  string    `json:"symbol"`
	Params  Params    `json:"params"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Frame   Frame     `json:"frame,omitempty"`
	Summary Summary   `json:"summary"`
}
