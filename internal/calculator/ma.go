package calculator

import "SMACrossover/internal/model"

// MovingAverage returns the rolling simple mean of prices, aligned to the input.
// The first window-1 entries are undefined. If window exceeds len(prices),
// every entry is undefined.
func MovingAverage(prices []float64, window int) ([]model.OptionalFloat, error) {
	if window <= 0 {
		return nil, model.ErrInvalidWindow
	}
	out := make([]model.OptionalFloat, len(prices))
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= window {
			sum -= prices[i-window]
		}
		if i >= window-1 {
			out[i] = model.Some(sum / float64(window))
		}
	}
	return out, nil
}
