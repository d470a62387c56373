package runner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"SMACrossover/internal/collector"
	"SMACrossover/internal/export"
	"SMACrossover/internal/model"
	"SMACrossover/internal/recorder"
	"SMACrossover/internal/strategy"
)

type failingRecorder struct{}

func (failingRecorder) RecordRun(context.Context, *model.BacktestResult) (int64, error) {
	return 0, errors.New("disk full")
}

func (failingRecorder) ListRuns(context.Context, int) ([]recorder.RunSummary, error) { return nil, nil }
func (failingRecorder) LoadFrame(context.Context, int64) (model.Frame, error)        { return nil, nil }
func (failingRecorder) Close() error                                                 { return nil }

type failingExporter struct{}

func (failingExporter) Name() string                       { return "broken" }
func (failingExporter) Export(*model.BacktestResult) error { return errors.New("boom") }

func newRunner(t *testing.T, days int, rec recorder.Recorder, exporters ...export.Exporter) *Runner {
	t.Helper()
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	c := collector.NewCollector(collector.NewSimulatedFetcher(7, 100, start), "SIM", days)
	e, err := strategy.NewEngine(model.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	return New(c, e, rec, exporters...)
}

func TestRunner_Run(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "frame.csv")
	r := newRunner(t, 120, nil, export.NewCSVExporter(csvPath))

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Frame) != 120 {
		t.Fatalf("frame len = %d, want 120", len(res.Frame))
	}
	if res.Symbol != "SIM" || res.Params != model.DefaultParams() {
		t.Errorf("unexpected result header: %s %+v", res.Symbol, res.Params)
	}
	if res.Summary.ElapsedDays != 119 {
		t.Errorf("ElapsedDays = %d, want 119", res.Summary.ElapsedDays)
	}
}

func TestRunner_RecorderFailureIsNotFatal(t *testing.T) {
	r := newRunner(t, 60, failingRecorder{})
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("recorder failure should not fail the run: %v", err)
	}
}

func TestRunner_ExporterFailure(t *testing.T) {
	r := newRunner(t, 60, nil, failingExporter{})
	res, err := r.Run(context.Background())
	if err == nil {
		t.Fatal("expected export error")
	}
	if res == nil {
		t.Error("result should still be returned alongside an export error")
	}
}

func TestRunner_InsufficientData(t *testing.T) {
	r := newRunner(t, 10, nil)
	_, err := r.Run(context.Background())
	if !errors.Is(err, model.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}

func TestRunner_WithParams(t *testing.T) {
	r := newRunner(t, 60, nil)

	alt, err := r.WithParams(model.Params{ShortWindow: 3, LongWindow: 10, PeriodsPerYear: 252})
	if err != nil {
		t.Fatalf("WithParams: %v", err)
	}
	if alt == r || alt.Engine == r.Engine {
		t.Fatal("WithParams should return an independent copy")
	}
	if r.Engine.Params != model.DefaultParams() {
		t.Error("original runner params changed")
	}
	res, err := alt.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Params.LongWindow != 10 {
		t.Errorf("LongWindow = %d, want 10", res.Params.LongWindow)
	}

	if _, err := r.WithParams(model.Params{ShortWindow: 5, LongWindow: 2, PeriodsPerYear: 365}); !errors.Is(err, model.ErrInvalidParams) {
		t.Errorf("err = %v, want ErrInvalidParams", err)
	}
}

func TestRunner_RecordsToSQLite(t *testing.T) {
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer rec.Close()

	r := newRunner(t, 40, rec)
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	runs, err := rec.ListRuns(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Rows != 40 {
		t.Errorf("runs = %+v", runs)
	}
}
