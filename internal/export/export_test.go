package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"

	"SMACrossover/internal/model"
)

func sampleResult() *model.BacktestResult {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &model.BacktestResult{
		Symbol: "SPX",
		Start:  t0,
		End:    t0.AddDate(0, 0, 1),
		Frame: model.Frame{
			{Time: t0, Close: 100, CumReturn: 1, CumStrategyReturn: 1},
			{Time: t0.AddDate(0, 0, 1), Close: 110, SMAShort: model.Some(105), SMALong: model.Some(105),
				Position: 1, PeriodReturn: 0.1, StrategyReturn: 0.1, CumReturn: 1.1, CumStrategyReturn: 1.1},
		},
	}
}

func TestCSVExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "frame.csv")
	e := NewCSVExporter(path)
	if err := e.Export(sampleResult()); err != nil {
		t.Fatalf("Export: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	lines, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0][3] != "sma_short" || lines[0][10] != "cum_strategy_return" {
		t.Errorf("unexpected header: %v", lines[0])
	}
	if lines[1][3] != "" || lines[1][4] != "" {
		t.Errorf("undefined SMA should be empty, got %q %q", lines[1][3], lines[1][4])
	}
	if lines[2][3] != "105" || lines[2][6] != "1" || lines[2][10] != "1.1" {
		t.Errorf("unexpected row: %v", lines[2])
	}
	if lines[1][1] != "2024-03-01T00:00:00Z" {
		t.Errorf("time = %q", lines[1][1])
	}
}

func TestParquetExporter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.parquet")
	res := sampleResult()
	if err := NewParquetExporter(path).Export(res); err != nil {
		t.Fatalf("Export: %v", err)
	}

	rows, err := parquet.ReadFile[FrameRecord](path)
	if err != nil {
		t.Fatalf("read parquet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].SMAShort != nil || rows[0].SMALong != nil {
		t.Error("row 0 SMA values should be null")
	}
	if rows[1].SMALong == nil || *rows[1].SMALong != 105 {
		t.Errorf("row 1 long SMA = %v", rows[1].SMALong)
	}
	if rows[1].Timestamp != res.Frame[1].Time.UnixMilli() || rows[1].Position != 1 || rows[1].Symbol != "SPX" {
		t.Errorf("row 1 = %+v", rows[1])
	}
}

func TestToRecords_NullSMA(t *testing.T) {
	recs := ToRecords("X", sampleResult().Frame)
	if recs[0].SMAShort != nil {
		t.Error("expected nil pointer for undefined SMA")
	}
	if recs[1].SMAShort == nil || *recs[1].SMAShort != 105 {
		t.Error("expected 105 for defined SMA")
	}
}
