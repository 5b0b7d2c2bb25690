// Package trend classifies a daily series as increasing, decreasing or
// flat. The series is first decomposed with STL to strip weekly
// seasonality, then the trend component is tested with the Mann-Kendall
// test and cross-checked against the regression slope angle.
package trend

import (
	"math"

	"github.com/chewxy/stl"
	"gonum.org/v1/gonum/stat"

	"github.com/Sarishc/Heliox-AI-sub000/config"
)

type Indicator string

const (
	Increasing Indicator = "increasing"
	Decreasing Indicator = "decreasing"
	None       Indicator = "none"
)

const (
	alpha = 0.05
	ppf   = 1.959963984540054 // norm.ppf(1 - alpha/2)

	// weeklyPeriodicity is the seasonality window for daily data.
	weeklyPeriodicity = 7
)

// Classify returns the trend indicator for a daily series.
func Classify(series []float64, settings config.TrendSettings) Indicator {
	// Expect at least 3 data points to detect any trend.
	if len(series) < 3 {
		return None
	}

	min, max := sliceMinMax(series)

	// A spread below the threshold is noise, not a trend.
	switch {
	case math.IsNaN(min) || math.IsNaN(max):
		return None
	case sign(min) == 1 && sign(max) == 1 && (max/min-1) < settings.Threshold:
		return None
	case sign(min) == -1 && sign(max) == -1 && (min/max-1) < settings.Threshold:
		return None
	case sign(min) == 0 && sign(max) == 0:
		return None
	}

	periodicity := weeklyPeriodicity
	if len(series) < periodicity {
		periodicity = len(series)
	}

	// Decompose mutates its input, so hand it a scratch copy and keep
	// the caller's series untouched for the fallback and slope check.
	work := make([]float64, len(series))
	copy(work, series)

	res := stl.Decompose(work, periodicity, len(series)-1, stl.Additive(), stl.WithRobustIter(2), stl.WithIter(2))
	trendLine := res.Trend

	indicator := None
	if hasNaN(trendLine) {
		indicator = mannKendall(series)
	} else {
		indicator = mannKendall(trendLine)
	}

	// Require the regression slope to agree and clear the angle floor.
	if indicator != None {
		slope := slopeDegrees(series)

		switch {
		case math.Abs(slope) < settings.SlopeDegrees:
			indicator = None
		case slope < 0 && indicator == Increasing:
			indicator = None
		case slope > 0 && indicator == Decreasing:
			indicator = None
		}
	}

	return indicator
}

// mannKendall runs the Mann-Kendall trend test.
// Pseudocode see https://up-rs-esp.github.io/mkt/
func mannKendall(arr []float64) Indicator {
	n := len(arr)

	// S counts positive minus negative pairwise differences. Positive S
	// means later observations tend to exceed earlier ones.
	s := 0.0

	for k := 0; k < n-1; k++ {
		for j := k + 1; j < n; j++ {
			s += sign(arr[j] - arr[k])
		}
	}

	counts := countUniqueValues(arr)
	g := len(counts)

	var varS, z float64

	if g == n {
		// No ties.
		varS = float64(n*(n-1)*(2*n+5)) / 18
	} else {
		tieSum := 0
		for _, tp := range counts {
			tieSum += tp * (tp - 1) * (2*tp + 5)
		}

		varS = float64(n*(n-1)*(2*n+5)+tieSum) / 18
	}

	switch {
	case s > 0:
		z = (s - 1) / math.Sqrt(varS)
	case s < 0:
		z = (s + 1) / math.Sqrt(varS)
	}

	if math.Abs(z) <= ppf {
		return None
	}

	if z < 0 {
		return Decreasing
	}

	return Increasing
}

// slopeDegrees fits an unweighted OLS line and returns the slope angle.
func slopeDegrees(series []float64) float64 {
	xs := make([]float64, len(series))
	for i := range series {
		xs[i] = float64(i)
	}

	_, slope := stat.LinearRegression(xs, series, nil, false)

	return math.Atan(slope) * (180.0 / math.Pi)
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	} else if x == 0 {
		return 0
	}

	return 1
}

func countUniqueValues(arr []float64) map[float64]int {
	dict := make(map[float64]int)
	for _, v := range arr {
		dict[v]++
	}

	return dict
}

func sliceMinMax(arr []float64) (float64, float64) {
	min, max := arr[0], arr[0]

	for _, v := range arr {
		if v > max {
			max = v
		}

		if v < min {
			min = v
		}
	}

	return min, max
}

func hasNaN(arr []float64) bool {
	for _, v := range arr {
		if math.IsNaN(v) {
			return true
		}
	}

	return false
}
