package strategy

import (
	"fmt"
	"math"
	"time"

	"SMACrossover/internal/calculator"
	"SMACrossover/internal/model"
)

// Engine runs the SMA crossover backtest for fixed parameters.
type Engine struct {
	Params model.Params
}

// NewEngine validates params and returns an Engine.
func NewEngine(params model.Params) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Engine{Params: params}, nil
}

// Summarize returns the total return of a cumulative curve and its annualized
// equivalent over the calendar span [start, end].
func Summarize(cum []float64, start, end time.Time, periodsPerYear int) (total, annualized float64, err error) {
	if len(cum) == 0 {
		return 0, 0, model.ErrInsufficientData
	}
	total = cum[len(cum)-1] - 1
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return 0, 0, fmt.Errorf("total return: %w", model.ErrNonFiniteResult)
	}
	annualized, err = calculator.Annualize(total, calculator.ElapsedDays(start, end), periodsPerYear)
	if err != nil {
		return 0, 0, fmt.Errorf("annualize %s..%s: %w", start.Format("2006-01-02"), end.Format("2006-01-02"), err)
	}
	return total, annualized, nil
}

// Run computes the indicator frame and summary metrics for series.
func (e *Engine) Run(series model.Series) (*model.BacktestResult, error) {
	p := e.Params
	if series.Len() < p.LongWindow || series.Len() == 0 {
		return nil, fmt.Errorf("series has %d points, long window needs %d: %w", series.Len(), p.LongWindow, model.ErrInsufficientData)
	}

	closes := series.Closes()

	// Step a: moving averages
	short, err := calculator.MovingAverage(closes, p.ShortWindow)
	if err != nil {
		return nil, fmt.Errorf("short moving average: %w", err)
	}
	long, err := calculator.MovingAverage(closes, p.LongWindow)
	if err != nil {
		return nil, fmt.Errorf("long moving average: %w", err)
	}

	// Step b: signal and lagged position
	signal, err := GenerateSignal(short, long)
	if err != nil {
		return nil, err
	}
	position := DerivePosition(signal)

	// Step c: returns
	returns, err := calculator.PeriodReturns(closes)
	if err != nil {
		return nil, err
	}
	stratReturns, err := calculator.StrategyReturns(position, returns)
	if err != nil {
		return nil, err
	}
	cum := calculator.Cumulative(returns)
	cumStrat := calculator.Cumulative(stratReturns)

	// Step d: summary
	start, end := series.First().Time, series.Last().Time
	total, annualized, err := Summarize(cumStrat, start, end, p.PeriodsPerYear)
	if err != nil {
		return nil, err
	}
	bhTotal, bhAnnualized, err := Summarize(cum, start, end, p.PeriodsPerYear)
	if err != nil {
		return nil, err
	}

	frame := make(model.Frame, series.Len())
	for i := range frame {
		pt := series.At(i)
		frame[i] = model.IndicatorRow{
			Time:              pt.Time,
			Close:             pt.Close,
			SMAShort:          short[i],
			SMALong:           long[i],
			RawSignal:         signal[i],
			Position:          position[i],
			PeriodReturn:      returns[i],
			StrategyReturn:    stratReturns[i],
			CumReturn:         cum[i],
			CumStrategyReturn: cumStrat[i],
		}
	}

	return &model.BacktestResult{
		Symbol: series.Symbol(),
		Params: p,
		Start:  start,
		End:    end,
		Frame:  frame,
		Summary: model.Summary{
			TotalReturn:             total,
			AnnualizedReturn:        annualized,
			BuyHoldTotalReturn:      bhTotal,
			BuyHoldAnnualizedReturn: bhAnnualized,
			MaxDrawdown:             calculator.MaxDrawdown(cumStrat),
			BuyHoldMaxDrawdown:      calculator.MaxDrawdown(cum),
			Exposure:                calculator.Exposure(position),
			Trades:                  calculator.CountEntries(position),
			ElapsedDays:             calculator.ElapsedDays(start, end),
		},
	}, nil
}
