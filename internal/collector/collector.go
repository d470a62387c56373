package collector

import (
	"context"
	"fmt"
	"log"
	"sort"

	"SMACrossover/internal/model"
)

// Collector fetches daily bars for one symbol and turns them into a Series.
type Collector struct {
	Fetcher Fetcher
	Symbol  string
	Days    int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol string, days int) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol, Days: days}
}

// Collect fetches bars and builds an ordered Series. Bars sharing a timestamp
// with an earlier bar are dropped. A close <= 0 fails the collection.
func (c *Collector) Collect(ctx context.Context) (model.Series, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, c.Symbol, c.Days)
	if err != nil {
		return model.Series{}, fmt.Errorf("fetch daily bars: %w", err)
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	deduped := bars[:0:0]
	for _, b := range bars {
		if n := len(deduped); n > 0 && !b.Time.After(deduped[n-1].Time) {
			log.Printf("[WARN] %s: dropping duplicate bar at %s", c.Fetcher.Name(), b.Time.Format("2006-01-02"))
			continue
		}
		if b.Close <= 0 {
			return model.Series{}, fmt.Errorf("%s bar at %s has close %v: %w",
				c.Fetcher.Name(), b.Time.Format("2006-01-02"), b.Close, model.ErrNonPositivePrice)
		}
		deduped = append(deduped, b)
	}

	series, err := model.SeriesFromBars(c.Symbol, deduped)
	if err != nil {
		return model.Series{}, fmt.Errorf("build series: %w", err)
	}
	log.Printf("[INFO] collected %d bars for %s from %s", series.Len(), c.Symbol, c.Fetcher.Name())
	return series, nil
}
