package recorder

import (
	"context"

	"SMACrossover/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ context.Context, _ *model.BacktestResult) (int64, error) {
	return 0, nil
}

func (n *NoopRecorder) ListRuns(_ context.Context, _ int) ([]RunSummary, error) { return nil, nil }

func (n *NoopRecorder) LoadFrame(_ context.Context, _ int64) (model.Frame, error) { return nil, nil }

func (n *NoopRecorder) Close() error { return nil }
