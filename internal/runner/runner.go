package runner

import (
	"context"
	"fmt"
	"log"

	"SMACrossover/internal/collector"
	"SMACrossover/internal/export"
	"SMACrossover/internal/model"
	"SMACrossover/internal/recorder"
	"SMACrossover/internal/strategy"
)

// Runner wires one collect → compute → record → export pass.
type Runner struct {
	Collector *collector.Collector
	Engine    *strategy.Engine
	Recorder  recorder.Recorder
	Exporters []export.Exporter
}

// New creates a runner. A nil recorder is replaced by a no-op one.
func New(c *collector.Collector, e *strategy.Engine, rec recorder.Recorder, exporters ...export.Exporter) *Runner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Runner{Collector: c, Engine: e, Recorder: rec, Exporters: exporters}
}

// WithParams returns a copy of the runner that uses different engine parameters.
func (r *Runner) WithParams(params model.Params) (*Runner, error) {
	engine, err := strategy.NewEngine(params)
	if err != nil {
		return nil, err
	}
	cp := *r
	cp.Engine = engine
	return &cp, nil
}

// Run executes a full backtest pass. Recording failures are logged only;
// export failures are returned.
func (r *Runner) Run(ctx context.Context) (*model.BacktestResult, error) {
	series, err := r.Collector.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}

	res, err := r.Engine.Run(series)
	if err != nil {
		return nil, fmt.Errorf("run engine: %w", err)
	}
	log.Printf("[INFO] backtest %s %d/%d: strategy=%.4f buy_hold=%.4f trades=%d",
		res.Symbol, res.Params.ShortWindow, res.Params.LongWindow,
		res.Summary.TotalReturn, res.Summary.BuyHoldTotalReturn, res.Summary.Trades)

	if id, err := r.Recorder.RecordRun(ctx, res); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	} else if id > 0 {
		log.Printf("[INFO] recorded run #%d", id)
	}

	for _, e := range r.Exporters {
		if err := e.Export(res); err != nil {
			return res, fmt.Errorf("export %s: %w", e.Name(), err)
		}
	}
	return res, nil
}
