package strategy

import (
	"fmt"

	"SMACrossover/internal/model"
)

// GenerateSignal marks each index where the short average is strictly above
// the long one. Equal averages and warm-up gaps resolve to flat (false).
func GenerateSignal(short, long []model.OptionalFloat) ([]bool, error) {
	if len(short) != len(long) {
		return nil, fmt.Errorf("generate signal: %d short vs %d long: %w", len(short), len(long), model.ErrMisaligned)
	}
	signal := make([]bool, len(short))
	for i := range short {
		signal[i] = short[i].Valid && long[i].Valid && short[i].Value > long[i].Value
	}
	return signal, nil
}

// DerivePosition lags the signal by one period: a signal seen at the close of
// day i is only tradable over day i+1. Position 0 is always flat.
func DerivePosition(signal []bool) []int {
	position := make([]int, len(signal))
	for i := 1; i < len(signal); i++ {
		if signal[i-1] {
			position[i] = 1
		}
	}
	return position
}
