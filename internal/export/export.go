package export

import "SMACrossover/internal/model"

// Exporter writes a backtest result somewhere outside the process.
type Exporter interface {
	Export(res *model.BacktestResult) error
	Name() string
}
