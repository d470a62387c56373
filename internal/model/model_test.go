package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestNewSeries_RejectsUnordered(t *testing.T) {
	t0 := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := NewSeries("X", []PricePoint{{Time: t0, Close: 1}, {Time: t0, Close: 2}})
	if !errors.Is(err, ErrUnorderedSeries) {
		t.Errorf("duplicate timestamp: expected ErrUnorderedSeries, got %v", err)
	}
	_, err = NewSeries("X", []PricePoint{{Time: t0.AddDate(0, 0, 1), Close: 1}, {Time: t0, Close: 2}})
	if !errors.Is(err, ErrUnorderedSeries) {
		t.Errorf("descending timestamps: expected ErrUnorderedSeries, got %v", err)
	}
}

func TestNewSeries_CopiesInput(t *testing.T) {
	t0 := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	points := []PricePoint{{Time: t0, Close: 1}, {Time: t0.AddDate(0, 0, 1), Close: 2}}
	s, err := NewSeries("X", points)
	if err != nil {
		t.Fatal(err)
	}
	points[0].Close = 99
	if s.At(0).Close != 1 {
		t.Error("series should not alias caller's slice")
	}
	out := s.Points()
	out[1].Close = 99
	if s.At(1).Close != 2 {
		t.Error("Points() should return a copy")
	}
}

func TestOptionalFloat_JSON(t *testing.T) {
	b, err := json.Marshal([]OptionalFloat{{}, Some(1.5)})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "[null,1.5]" {
		t.Errorf("got %s, want [null,1.5]", b)
	}
}

func TestFrameCurves(t *testing.T) {
	f := Frame{
		{CumReturn: 1, CumStrategyReturn: 1},
		{CumReturn: 1.1, CumStrategyReturn: 1},
		{CumReturn: 1.05, CumStrategyReturn: 0.95},
	}
	hold, strat := f.CumReturns(), f.CumStrategyReturns()
	wantHold := []float64{1, 1.1, 1.05}
	wantStrat := []float64{1, 1, 0.95}
	for i := range f {
		if hold[i] != wantHold[i] || strat[i] != wantStrat[i] {
			t.Errorf("row %d: hold=%v strat=%v, want %v %v", i, hold[i], strat[i], wantHold[i], wantStrat[i])
		}
	}
}

func TestParamsValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Errorf("default params invalid: %v", err)
	}
	invalid := []Params{
		{ShortWindow: 3, LongWindow: 2, PeriodsPerYear: 365},
		{ShortWindow: 0, LongWindow: 2, PeriodsPerYear: 365},
		{ShortWindow: 1, LongWindow: 2, PeriodsPerYear: 0},
		{ShortWindow: 1, LongWindow: 2, PeriodsPerYear: MaxPeriodsPerYear + 1},
	}
	for _, p := range invalid {
		if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("%+v: expected ErrInvalidParams, got %v", p, err)
		}
	}
	if err := (Params{ShortWindow: 1, LongWindow: 1, PeriodsPerYear: MaxPeriodsPerYear}).Validate(); err != nil {
		t.Errorf("max periods per year should be accepted: %v", err)
	}
}
