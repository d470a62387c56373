package api

import (
	"time"

	"SMACrossover/internal/model"
	"SMACrossover/internal/recorder"
)

// BacktestRequest overrides the configured engine parameters. All fields are optional.
type BacktestRequest struct {
	ShortWindow    *int `json:"short_window"`
	LongWindow     *int `json:"long_window"`
	PeriodsPerYear *int `json:"periods_per_year"`
	IncludeFrame   bool `json:"include_frame"`
}

// apply overlays the request onto base.
func (r BacktestRequest) apply(base model.Params) model.Params {
	if r.ShortWindow != nil {
		base.ShortWindow = *r.ShortWindow
	}
	if r.LongWindow != nil {
		base.LongWindow = *r.LongWindow
	}
	if r.PeriodsPerYear != nil {
		base.PeriodsPerYear = *r.PeriodsPerYear
	}
	return base
}

// BacktestResponse wraps a completed run.
type BacktestResponse struct {
	Status string                `json:"status"`
	Result *model.BacktestResult `json:"result"`
}

// RunsResponse lists recorded runs, newest first.
type RunsResponse struct {
	Runs []recorder.RunSummary `json:"runs"`
}

// CurvesResponse is the chart data of one recorded run: the buy-and-hold and
// strategy cumulative curves, aligned with Times.
type CurvesResponse struct {
	RunID             int64       `json:"run_id"`
	Times             []time.Time `json:"times"`
	CumReturn         []float64   `json:"cum_return"`
	CumStrategyReturn []float64   `json:"cum_strategy_return"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
