package demo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sarishc/Heliox-AI-sub000/config"
	forecastdomain "github.com/Sarishc/Heliox-AI-sub000/forecast/domain"
	forecasts "github.com/Sarishc/Heliox-AI-sub000/forecast/service"
	"github.com/Sarishc/Heliox-AI-sub000/logger"
	recdomain "github.com/Sarishc/Heliox-AI-sub000/recommendations/domain"
	recommendations "github.com/Sarishc/Heliox-AI-sub000/recommendations/service"
)

var anchor = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func TestDatasetDeterminism(t *testing.T) {
	first := NewDataset(anchor)
	second := NewDataset(anchor)

	assert.Equal(t, first.costs, second.costs)
	assert.Equal(t, first.usage, second.usage)
	assert.Equal(t, first.jobs, second.jobs)
}

func TestDatasetSeriesShape(t *testing.T) {
	dataset := NewDataset(anchor)

	series, err := dataset.GetDailySeries(context.Background(), &forecastdomain.Query{Kind: forecastdomain.KindSpend})
	require.NoError(t, err)

	require.Len(t, series, datasetDays)

	for i := 1; i < len(series); i++ {
		assert.Equal(t, series[i-1].Date.AddDate(0, 0, 1), series[i].Date)
		assert.Greater(t, series[i].Value, 0.0)
	}
}

func TestDatasetSeriesFilters(t *testing.T) {
	dataset := NewDataset(anchor)

	// The idle pair has cost but no usage at all.
	usage, err := dataset.GetDailySeries(context.Background(), &forecastdomain.Query{
		Kind:     forecastdomain.KindUsage,
		Provider: "aws",
		GPUType:  "a100",
	})
	require.NoError(t, err)
	assert.Empty(t, usage)

	spend, err := dataset.GetDailySeries(context.Background(), &forecastdomain.Query{
		Kind:     forecastdomain.KindSpend,
		Provider: "aws",
		GPUType:  "a100",
	})
	require.NoError(t, err)
	assert.Len(t, spend, datasetDays)
}

func TestDatasetSupportsMLForecast(t *testing.T) {
	dataset := NewDataset(anchor)

	svc := forecasts.NewService(logger.FromContext, dataset, nil, config.Default())

	result, err := svc.Forecast(context.Background(), &forecastdomain.Query{Kind: forecastdomain.KindSpend, HorizonDays: 7})
	require.NoError(t, err)

	assert.Empty(t, result.Error)
	assert.Equal(t, forecastdomain.MethodML, result.Method)
	assert.Len(t, result.Forecast, 7)
}

func TestDatasetTriggersEveryRule(t *testing.T) {
	dataset := NewDataset(anchor)

	svc := recommendations.NewService(logger.FromContext, dataset, config.Default())

	start, end := dataset.Window()

	response, err := svc.GenerateRecommendations(context.Background(), &recdomain.Filters{StartDate: start, EndDate: end})
	require.NoError(t, err)

	assert.Greater(t, response.Summary.ByType[recdomain.TypeIdleGPU], 0)
	assert.Greater(t, response.Summary.ByType[recdomain.TypeLongRunningJob], 0)
	assert.Greater(t, response.Summary.ByType[recdomain.TypeOffHoursUsage], 0)
}
