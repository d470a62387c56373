package collector

import (
	"context"
	"math/rand"
	"time"

	"SMACrossover/internal/model"
)

// SimulatedFetcher generates a seeded Gaussian random walk, one bar per calendar day.
// The same seed always yields the same bars.
type SimulatedFetcher struct {
	Seed      int64
	BasePrice float64
	Start     time.Time
}

// NewSimulatedFetcher creates a SimulatedFetcher. A zero start defaults to 2023-01-01 UTC.
func NewSimulatedFetcher(seed int64, basePrice float64, start time.Time) *SimulatedFetcher {
	if start.IsZero() {
		start = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if basePrice == 0 {
		basePrice = 100
	}
	return &SimulatedFetcher{Seed: seed, BasePrice: basePrice, Start: start}
}

func (f *SimulatedFetcher) Name() string { return "simulated" }

func (f *SimulatedFetcher) FetchDailyBars(ctx context.Context, _ string, days int) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(f.Seed))
	bars := make([]model.OHLCV, days)
	walk := 0.0
	for i := 0; i < days; i++ {
		walk += rng.NormFloat64()
		p := f.BasePrice + walk
		bars[i] = model.OHLCV{
			Time:   f.Start.AddDate(0, 0, i),
			Open:   p,
			High:   p,
			Low:    p,
			Close:  p,
			Volume: 0,
		}
	}
	return bars, nil
}
