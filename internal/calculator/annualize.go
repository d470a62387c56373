package calculator

import (
	"math"
	"time"

	"SMACrossover/internal/model"
)

// ElapsedDays returns the number of calendar days between the dates of start
// and end, both read in start's location. Bars stamped at local midnight
// across a DST change still count whole days.
func ElapsedDays(start, end time.Time) int {
	end = end.In(start.Location())
	y1, m1, d1 := start.Date()
	y2, m2, d2 := end.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// Annualize rescales a total return over elapsedDays to a periodsPerYear horizon.
func Annualize(totalReturn float64, elapsedDays, periodsPerYear int) (float64, error) {
	if elapsedDays <= 0 {
		return 0, model.ErrDegenerateRange
	}
	ann := math.Pow(1+totalReturn, float64(periodsPerYear)/float64(elapsedDays)) - 1
	if math.IsInf(ann, 0) || math.IsNaN(ann) {
		return 0, model.ErrNonFiniteResult
	}
	return ann, nil
}
