package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"SMACrossover/internal/model"
)

// FrameRecord is the Parquet schema for one indicator frame row.
type FrameRecord struct {
	Symbol            string   `parquet:"symbol"`
	Timestamp         int64    `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Close             float64  `parquet:"close"`
	SMAShort          *float64 `parquet:"sma_short,optional"`
	SMALong           *float64 `parquet:"sma_long,optional"`
	RawSignal         bool     `parquet:"raw_signal"`
	Position          int32    `parquet:"position"`
	PeriodReturn      float64  `parquet:"period_return"`
	StrategyReturn    float64  `parquet:"strategy_return"`
	CumReturn         float64  `parquet:"cum_return"`
	CumStrategyReturn float64  `parquet:"cum_strategy_return"`
}

// ParquetExporter writes the indicator frame to a single Parquet file.
type ParquetExporter struct {
	Path string
}

func NewParquetExporter(path string) *ParquetExporter {
	return &ParquetExporter{Path: path}
}

func (e *ParquetExporter) Name() string { return "parquet" }

func (e *ParquetExporter) Export(res *model.BacktestResult) error {
	records := ToRecords(res.Symbol, res.Frame)
	if err := writeParquetFile(e.Path, records); err != nil {
		return fmt.Errorf("write parquet %s: %w", e.Path, err)
	}
	return nil
}

// ToRecords converts a frame into its on-disk schema.
func ToRecords(symbol string, frame model.Frame) []FrameRecord {
	out := make([]FrameRecord, len(frame))
	for i, r := range frame {
		out[i] = FrameRecord{
			Symbol:            symbol,
			Timestamp:         r.Time.UnixMilli(),
			Close:             r.Close,
			SMAShort:          optionalPtr(r.SMAShort),
			SMALong:           optionalPtr(r.SMALong),
			RawSignal:         r.RawSignal,
			Position:          int32(r.Position),
			PeriodReturn:      r.PeriodReturn,
			StrategyReturn:    r.StrategyReturn,
			CumReturn:         r.CumReturn,
			CumStrategyReturn: r.CumStrategyReturn,
		}
	}
	return out
}

func optionalPtr(o model.OptionalFloat) *float64 {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}
