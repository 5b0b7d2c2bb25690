package forecasts

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	movingAverageWindow = 7
	trendWindow         = 14
)

// bandForecast is the shared output contract of both forecasting arms.
type bandForecast struct {
	values []float64
	lower  []float64
	upper  []float64
}

// movingAverageForecast smooths the series with a trailing moving
// average, fits a linear trend over the recent window, and projects it
// forward from the last smoothed value. Confidence half-widths grow
// with the square root of the step distance.
func movingAverageForecast(values []float64, horizon int) bandForecast {
	n := len(values)

	window := movingAverageWindow
	if n < window {
		window = maxInt(3, n/2)
	}

	lastSmoothed := trailingMean(values, window)
	slope := recentSlope(values, minInt(trendWindow, n))

	// Band width comes from the raw, unsmoothed series.
	stddev := 0.0
	if n > 1 {
		stddev = stat.StdDev(values, nil)
	}

	out := bandForecast{
		values: make([]float64, horizon),
		lower:  make([]float64, horizon),
		upper:  make([]float64, horizon),
	}

	for k := 1; k <= horizon; k++ {
		value := math.Max(0, lastSmoothed+slope*float64(k))
		halfWidth := stddev * math.Sqrt(float64(k))

		out.values[k-1] = value
		out.lower[k-1] = math.Max(0, value-halfWidth)
		out.upper[k-1] = value + halfWidth
	}

	return out
}

// trailingMean returns the mean of the last window values.
func trailingMean(values []float64, window int) float64 {
	if window > len(values) {
		window = len(values)
	}

	return stat.Mean(values[len(values)-window:], nil)
}

// recentSlope fits ordinary least squares over the last window values
// with the day index as the single feature.
func recentSlope(values []float64, window int) float64 {
	recent := values[len(values)-window:]
	if len(recent) < 2 {
		return 0
	}

	xs := make([]float64, len(recent))
	for i := range recent {
		xs[i] = float64(i)
	}

	_, slope := stat.LinearRegression(xs, recent, nil, false)
	if math.IsNaN(slope) {
		return 0
	}

	return slope
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}
