package recorder

import (
	"context"
	"time"

	"SMACrossover/internal/model"
)

// RunSummary is one row of the backtest_runs table.
type RunSummary struct {
	ID         int64         `json:"id"`
	RecordedAt time.Time     `json:"recorded_at"`
	Symbol     string        `json:"symbol"`
	Start      time.Time     `json:"start"`
	End        time.Time     `json:"end"`
	Rows       int           `json:"rows"`
	Params     model.Params  `json:"params"`
	Summary    model.Summary `json:"summary"`
}

// Recorder persists backtest runs for later analysis.
type Recorder interface {
	RecordRun(ctx context.Context, res *model.BacktestResult) (int64, error)
	// ListRuns returns the most recent runs first.
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
	// LoadFrame returns the stored frame of a run, or an empty frame if the
	// run is unknown.
	LoadFrame(ctx context.Context, runID int64) (model.Frame, error)
	Close() error
}
