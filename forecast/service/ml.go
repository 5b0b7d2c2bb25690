package forecasts

import (
	"math"

	"github.com/pkg/errors"
)

const minTrainingRows = 10

var errTooFewTrainingRows = errors.New("ml forecast: too few training rows")

// mlForecast trains a gradient-boosted tree regressor on lag and
// day-of-week features and predicts recursively, feeding each
// prediction back in as a lag for the next step. Any failure is
// returned so the caller can fall back to the baseline arm.
func mlForecast(values []float64, horizon int) (bandForecast, error) {
	n := len(values)

	lags := []int{1, 2, 3, 7, 14}
	if n <= 14 {
		lags = []int{1, 2, 3}
	}

	maxLag := lags[len(lags)-1]

	features := make([][]float64, 0, n-maxLag)
	targets := make([]float64, 0, n-maxLag)

	for i := maxLag; i < n; i++ {
		row := make([]float64, 0, len(lags)+1)
		for _, lag := range lags {
			row = append(row, values[i-lag])
		}

		// Day-of-week proxy from the series position.
		row = append(row, float64(i%7))

		features = append(features, row)
		targets = append(targets, values[i])
	}

	if len(features) < minTrainingRows {
		return bandForecast{}, errTooFewTrainingRows
	}

	// Hold out the most recent rows for early stopping and band width.
	holdout := maxInt(3, len(features)/5)
	split := len(features) - holdout

	model, err := trainGBRT(features[:split], targets[:split], features[split:], targets[split:], defaultGBRTParams())
	if err != nil {
		return bandForecast{}, err
	}

	out := bandForecast{
		values: make([]float64, horizon),
		lower:  make([]float64, horizon),
		upper:  make([]float64, horizon),
	}

	// Recent history plus predictions as they are produced.
	recent := make([]float64, maxLag)
	copy(recent, values[n-maxLag:])

	for k := 1; k <= horizon; k++ {
		row := make([]float64, 0, len(lags)+1)
		for _, lag := range lags {
			row = append(row, recent[len(recent)-lag])
		}

		row = append(row, float64((n+k-1)%7))

		prediction := math.Max(0, model.predict(row))
		recent = append(recent, prediction)

		halfWidth := model.holdoutRMSE * math.Sqrt(float64(k))

		out.values[k-1] = prediction
		out.lower[k-1] = math.Max(0, prediction-halfWidth)
		out.upper[k-1] = prediction + halfWidth
	}

	return out, nil
}
