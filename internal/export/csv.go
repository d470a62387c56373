package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"SMACrossover/internal/model"
)

var csvHeader = []string{
	"index",
	"time_utc",
	"close",
	"sma_short",
	"sma_long",
	"raw_signal",
	"position",
	"period_return",
	"strategy_return",
	"cum_return",
	"cum_strategy_return",
}

// CSVExporter writes the indicator frame as chart data.
type CSVExporter struct {
	Path string
}

func NewCSVExporter(path string) *CSVExporter {
	return &CSVExporter{Path: path}
}

func (e *CSVExporter) Name() string { return "csv" }

func (e *CSVExporter) Export(res *model.BacktestResult) error {
	if err := os.MkdirAll(filepath.Dir(e.Path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.Create(e.Path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	if err := WriteFrameCSV(f, res.Frame); err != nil {
		return fmt.Errorf("write csv %s: %w", e.Path, err)
	}
	return f.Close()
}

// WriteFrameCSV writes a header plus one line per frame row.
// Undefined moving averages become empty cells.
func WriteFrameCSV(out io.Writer, frame model.Frame) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for i, r := range frame {
		row := []string{
			strconv.Itoa(i),
			fmtTime(r.Time),
			fmtFloat(r.Close),
			fmtOptional(r.SMAShort),
			fmtOptional(r.SMALong),
			strconv.FormatBool(r.RawSignal),
			strconv.Itoa(r.Position),
			fmtFloat(r.PeriodReturn),
			fmtFloat(r.StrategyReturn),
			fmtFloat(r.CumReturn),
			fmtFloat(r.CumStrategyReturn),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func fmtOptional(o model.OptionalFloat) string {
	if !o.Valid {
		return ""
	}
	return fmtFloat(o.Value)
}
