package app

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"SMACrossover/internal/collector"
	"SMACrossover/internal/config"
	"SMACrossover/internal/export"
	"SMACrossover/internal/recorder"
	"SMACrossover/internal/runner"
	"SMACrossover/internal/strategy"
)

// NewFetcher picks the data source named by data_source.provider.
func NewFetcher(cfg *config.Config) (collector.Fetcher, error) {
	ds := cfg.DataSource
	switch ds.Provider {
	case config.ProviderSimulated:
		start, err := cfg.StartTime()
		if err != nil {
			return nil, err
		}
		return collector.NewSimulatedFetcher(ds.Seed, ds.BasePrice, start), nil
	case config.ProviderYahoo:
		f := collector.NewYahooFetcher(cfg.Proxy)
		if ds.BaseURL != "" {
			f.BaseURL = ds.BaseURL
		}
		return f, nil
	case config.ProviderVsTrader:
		return collector.NewVsTraderFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy), nil
	case config.ProviderAlpaca:
		return collector.NewAlpacaFetcher(ds.APIKey, ds.APISecret, ds.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", ds.Provider)
	}
}

// NewRecorder opens the SQLite recorder when a path is configured. An open
// failure degrades to the no-op recorder.
func NewRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
		log.Printf("[WARN] create database dir: %v", err)
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

// NewExporters returns one exporter per configured output path.
func NewExporters(cfg *config.Config) []export.Exporter {
	var out []export.Exporter
	if cfg.Export.CSVPath != "" {
		out = append(out, export.NewCSVExporter(cfg.Export.CSVPath))
	}
	if cfg.Export.ParquetPath != "" {
		out = append(out, export.NewParquetExporter(cfg.Export.ParquetPath))
	}
	return out
}

// NewRunner wires fetcher, engine, recorder and exporters from config.
func NewRunner(cfg *config.Config, rec recorder.Recorder) (*runner.Runner, error) {
	fetcher, err := NewFetcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("init fetcher: %w", err)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	engine, err := strategy.NewEngine(cfg.Strategy)
	if err != nil {
		return nil, fmt.Errorf("init engine: %w", err)
	}

	col := collector.NewCollector(fetcher, cfg.DataSource.Symbol, cfg.DataSource.Days)
	return runner.New(col, engine, rec, NewExporters(cfg)...), nil
}
