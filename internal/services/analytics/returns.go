package analytics

import "math"

// SeriesPoint is a single observation of portfolio value over time.
type SeriesPoint struct {
	Value float64 `json:"value"`
}

// CumulativeReturn computes the fractional return from the first to the last
// point of a value series. It returns NaN for series shorter than 2 points or
// with a zero endpoint: the computation was attempted but is mathematically
// undefined, which is distinct from the nil "not computable" results of the
// analytical engines.
func CumulativeReturn(series []SeriesPoint) float64 {
	if len(series) < 2 {
		return math.NaN()
	}
	first := series[0].Value
	last := series[len(series)-1].Value
	if first == 0 || last == 0 {
		return math.NaN()
	}
	return last/first - 1
}
