package domain

import (
	"encoding/json"
	"time"

	"github.com/Sarishc/Heliox-AI-sub000/times"
)

// Kind selects which daily aggregate a forecast covers.
type Kind string

const (
	KindUsage Kind = "usage"
	KindSpend Kind = "spend"
)

// Method identifies which forecasting arm produced a result.
type Method string

const (
	MethodBaseline Method = "baseline"
	MethodML       Method = "ml"
)

// Query describes one forecast request. Empty Provider/GPUType mean "all".
type Query struct {
	Kind        Kind   `json:"kind"`
	Provider    string `json:"provider,omitempty"`
	GPUType     string `json:"gpu_type,omitempty"`
	HorizonDays int    `json:"horizon_days,omitempty"`
}

// SeriesPoint is one daily aggregate supplied by the series loader.
type SeriesPoint struct {
	Date  time.Time
	Value float64
}

type seriesPointJSON struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

func (p SeriesPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(seriesPointJSON{
		Date:  p.Date.Format(times.YearMonthDayLayout),
		Value: p.Value,
	})
}

func (p *SeriesPoint) UnmarshalJSON(data []byte) error {
	var raw seriesPointJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	date, err := time.Parse(times.YearMonthDayLayout, raw.Date)
	if err != nil {
		return err
	}

	p.Date = date
	p.Value = raw.Value

	return nil
}

// ForecastPoint is a predicted value with its 95% confidence band.
// LowerBound is clamped at zero.
type ForecastPoint struct {
	Date       time.Time
	Value      float64
	LowerBound float64
	UpperBound float64
}

type forecastPointJSON struct {
	Date       string  `json:"date"`
	Value      float64 `json:"value"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
}

func (p ForecastPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(forecastPointJSON{
		Date:       p.Date.Format(times.YearMonthDayLayout),
		Value:      p.Value,
		LowerBound: p.LowerBound,
		UpperBound: p.UpperBound,
	})
}

func (p *ForecastPoint) UnmarshalJSON(data []byte) error {
	var raw forecastPointJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	date, err := time.Parse(times.YearMonthDayLayout, raw.Date)
	if err != nil {
		return err
	}

	p.Date = date
	p.Value = raw.Value
	p.LowerBound = raw.LowerBound
	p.UpperBound = raw.UpperBound

	return nil
}

// Metadata carries context about how a forecast was produced.
type Metadata struct {
	HistoricalDataPoints int    `json:"historical_data_points"`
	ForecastGeneratedAt  string `json:"forecast_generated_at"`
	Trend                string `json:"trend,omitempty"`
}

// ForecastResult is the full answer to a forecast query. When there is
// not enough history the arrays are empty and Error explains why; that
// is a renderable outcome, not a fault.
type ForecastResult struct {
	Provider    string          `json:"provider,omitempty"`
	GPUType     string          `json:"gpu_type,omitempty"`
	HorizonDays int             `json:"horizon_days"`
	Method      Method          `json:"forecast_method,omitempty"`
	Historical  []SeriesPoint   `json:"historical"`
	Forecast    []ForecastPoint `json:"forecast"`
	Metadata    *Metadata       `json:"metadata,omitempty"`
	Error       string          `json:"error,omitempty"`
}
