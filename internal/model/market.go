package model

import "time"

// OHLCV represents a single candlestick bar as returned by a data source.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PricePoint is one close price at one timestamp.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Close float64   `json:"close"`
}

// Series is an ordered, immutable price series for a single symbol.
type Series struct {
	symbol string
	points []PricePoint
}

// NewSeries copies points into a Series. Timestamps must be strictly increasing.
func NewSeries(symbol string, points []PricePoint) (Series, error) {
	for i := 1; i < len(points); i++ {
		if !points[i].Time.After(points[i-1].Time) {
			return Series{}, ErrUnorderedSeries
		}
	}
	cp := make([]PricePoint, len(points))
	copy(cp, points)
	return Series{symbol: symbol, points: cp}, nil
}

// SeriesFromBars builds a Series from the close of each bar.
func SeriesFromBars(symbol string, bars []OHLCV) (Series, error) {
	points := make([]PricePoint, len(bars))
	for i, b := range bars {
		points[i] = PricePoint{Time: b.Time, Close: b.Close}
	}
	return NewSeries(symbol, points)
}

func (s Series) Symbol() string { return s.symbol }

func (s Series) Len() int { return len(s.points) }

// At returns the i-th point.
func (s Series) At(i int) PricePoint { return s.points[i] }

// Points returns a copy of the underlying points.
func (s Series) Points() []PricePoint {
	cp := make([]PricePoint, len(s.points))
	copy(cp, s.points)
	return cp
}

// Closes returns the close prices in order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s.points))
	for i, p := range s.points {
		closes[i] = p.Close
	}
	return closes
}

// First and Last panic on an empty series, like slice indexing.
func (s Series) First() PricePoint { return s.points[0] }
func (s Series) Last() PricePoint  { return s.points[len(s.points)-1] }
