package recorder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"SMACrossover/internal/model"
)

func sampleResult() *model.BacktestResult {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	frame := model.Frame{
		{Time: t0, Close: 100, CumReturn: 1, CumStrategyReturn: 1},
		{Time: t0.AddDate(0, 0, 1), Close: 102, SMAShort: model.Some(101), PeriodReturn: 0.02, CumReturn: 1.02, CumStrategyReturn: 1},
		{Time: t0.AddDate(0, 0, 2), Close: 104, SMAShort: model.Some(103), SMALong: model.Some(102), RawSignal: true, Position: 0, PeriodReturn: 0.0196, CumReturn: 1.04, CumStrategyReturn: 1},
	}
	return &model.BacktestResult{
		Symbol: "TEST",
		Params: model.Params{ShortWindow: 2, LongWindow: 3, PeriodsPerYear: 365},
		Start:  t0,
		End:    t0.AddDate(0, 0, 2),
		Frame:  frame,
		Summary: model.Summary{
			BuyHoldTotalReturn: 0.04,
			ElapsedDays:        2,
		},
	}
}

func openTemp(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r := openTemp(t)
	ctx := context.Background()
	res := sampleResult()

	id, err := r.RecordRun(ctx, res)
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive run id, got %d", id)
	}

	runs, err := r.ListRuns(ctx, 5)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.Symbol != "TEST" || got.Rows != 3 || got.Params != res.Params {
		t.Errorf("unexpected run summary: %+v", got)
	}
	if !got.Start.Equal(res.Start) || !got.End.Equal(res.End) {
		t.Errorf("range = %v..%v, want %v..%v", got.Start, got.End, res.Start, res.End)
	}
	if got.Summary != res.Summary {
		t.Errorf("Summary = %+v, want %+v", got.Summary, res.Summary)
	}

	frame, err := r.LoadFrame(ctx, id)
	if err != nil {
		t.Fatalf("LoadFrame: %v", err)
	}
	if len(frame) != len(res.Frame) {
		t.Fatalf("frame len = %d, want %d", len(frame), len(res.Frame))
	}
	if frame[0].SMAShort.Valid || frame[0].SMALong.Valid {
		t.Error("undefined SMA values should come back undefined")
	}
	if frame[1].SMALong.Valid {
		t.Error("row 1 long SMA should be undefined")
	}
	if !frame[2].SMALong.Valid || frame[2].SMALong.Value != 102 {
		t.Errorf("row 2 long SMA = %+v, want 102", frame[2].SMALong)
	}
	if !frame[2].RawSignal {
		t.Error("row 2 raw signal should be true")
	}

	missing, err := r.LoadFrame(ctx, id+100)
	if err != nil || len(missing) != 0 {
		t.Errorf("unknown run: frame=%v err=%v", missing, err)
	}
}

func TestSQLiteRecorder_ListNewestFirst(t *testing.T) {
	r := openTemp(t)
	ctx := context.Background()

	for _, sym := range []string{"A", "B", "C"} {
		res := sampleResult()
		res.Symbol = sym
		if _, err := r.RecordRun(ctx, res); err != nil {
			t.Fatalf("RecordRun %s: %v", sym, err)
		}
	}

	runs, err := r.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Symbol != "C" || runs[1].Symbol != "B" {
		t.Errorf("order = %s,%s, want C,B", runs[0].Symbol, runs[1].Symbol)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	if _, err := r.RecordRun(context.Background(), sampleResult()); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	runs, err := r.ListRuns(context.Background(), 10)
	if err != nil || len(runs) != 0 {
		t.Fatalf("ListRuns = %v, %v", runs, err)
	}
	if frame, err := r.LoadFrame(context.Background(), 1); err != nil || len(frame) != 0 {
		t.Fatalf("LoadFrame = %v, %v", frame, err)
	}
}
