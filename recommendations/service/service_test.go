package recommendations

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Sarishc/Heliox-AI-sub000/config"
	"github.com/Sarishc/Heliox-AI-sub000/logger"
	"github.com/Sarishc/Heliox-AI-sub000/recommendations/domain"
	"github.com/Sarishc/Heliox-AI-sub000/recommendations/service/mocks"
)

var testNow = time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

// windowStart is a Monday; the 14-day window ends on a Sunday.
var (
	windowStart = time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC)
)

func newTestService(reader *mocks.DataReader) *Service {
	svc := NewService(logger.FromContext, reader, config.Default())
	svc.now = func() time.Time { return testNow }

	return svc
}

func testFilters() *domain.Filters {
	return &domain.Filters{StartDate: windowStart, EndDate: windowEnd}
}

// fourteenDayCosts spreads the given total across the window's 14 days
// for one (provider, gpu_type) pair.
func fourteenDayCosts(provider, gpuType string) []domain.CostRecord {
	records := make([]domain.CostRecord, 14)

	for i := 0; i < 13; i++ {
		records[i] = domain.CostRecord{
			Date:     windowStart.AddDate(0, 0, i),
			Provider: provider,
			GPUType:  gpuType,
			Amount:   decimal.RequireFromString("1295.75"),
		}
	}

	records[13] = domain.CostRecord{
		Date:     windowStart.AddDate(0, 0, 13),
		Provider: provider,
		GPUType:  gpuType,
		Amount:   decimal.RequireFromString("1295.74"),
	}

	return records
}

func TestGenerateRecommendationsIdleScenario(t *testing.T) {
	// 14 days of cost totalling $18,140.49 for one pair and no usage
	// records at all: exactly one fully-idle finding.
	reader := &mocks.DataReader{}
	reader.On("GetJobRecords", mock.Anything, windowStart, windowEnd).Return([]domain.JobRecord{}, nil)
	reader.On("GetCostRecords", mock.Anything, windowStart, windowEnd).Return(fourteenDayCosts("aws", "a100"), nil)
	reader.On("GetUsageRecords", mock.Anything, windowStart, windowEnd).Return([]domain.UsageRecord{}, nil)

	response, err := newTestService(reader).GenerateRecommendations(context.Background(), testFilters())
	require.NoError(t, err)

	require.Len(t, response.Recommendations, 1)

	rec := response.Recommendations[0]
	assert.Equal(t, domain.TypeIdleGPU, rec.Type)
	assert.Equal(t, domain.SeverityHigh, rec.Severity)
	assert.Equal(t, "1176.00", rec.EstimatedSavings.StringFixed(2))
	assert.Equal(t, "1176.00", response.TotalEstimatedSavings.StringFixed(2))

	require.NotNil(t, rec.Evidence.TotalCostUSD)
	assert.Equal(t, "18140.49", rec.Evidence.TotalCostUSD.StringFixed(2))
	require.NotNil(t, rec.Evidence.ExpectedUsageHours)
	assert.Equal(t, "336", rec.Evidence.ExpectedUsageHours.String())
	require.NotNil(t, rec.Evidence.WastePercentage)
	assert.Equal(t, "100", rec.Evidence.WastePercentage.String())

	assert.Equal(t, 1, response.Summary.Total)
	assert.Equal(t, 1, response.Summary.BySeverity[domain.SeverityHigh])
	assert.Equal(t, 1, response.Summary.ByType[domain.TypeIdleGPU])
	assert.Equal(t, domain.DateRange{StartDate: "2026-08-03", EndDate: "2026-08-16"}, response.DateRange)
}

func TestGenerateRecommendationsIdempotence(t *testing.T) {
	end := windowStart.Add(80 * time.Hour)

	jobs := []domain.JobRecord{
		{
			ID:        "job-1",
			Team:      "nlp",
			ModelName: "bert-finetune",
			GPUType:   "a100",
			Provider:  "aws",
			StartTime: windowStart.Add(10 * time.Hour),
			EndTime:   &end,
			Status:    "completed",
		},
	}

	reader := &mocks.DataReader{}
	reader.On("GetJobRecords", mock.Anything, windowStart, windowEnd).Return(jobs, nil)
	reader.On("GetCostRecords", mock.Anything, windowStart, windowEnd).Return(fourteenDayCosts("gcp", "h100"), nil)
	reader.On("GetUsageRecords", mock.Anything, windowStart, windowEnd).Return([]domain.UsageRecord{}, nil)

	svc := newTestService(reader)

	first, err := svc.GenerateRecommendations(context.Background(), testFilters())
	require.NoError(t, err)

	second, err := svc.GenerateRecommendations(context.Background(), testFilters())
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// IDs are derived from the finding, not generated per call.
	require.NotEmpty(t, first.Recommendations)
	for i := range first.Recommendations {
		assert.Equal(t, first.Recommendations[i].ID, second.Recommendations[i].ID)
	}
}

func TestGenerateRecommendationsReaderError(t *testing.T) {
	reader := &mocks.DataReader{}
	reader.On("GetJobRecords", mock.Anything, windowStart, windowEnd).Return(nil, errors.New("backend down"))

	_, err := newTestService(reader).GenerateRecommendations(context.Background(), testFilters())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading job records")
}

func TestGenerateRecommendationsOrdering(t *testing.T) {
	// One finding per rule; the response must come back ordered by
	// savings descending regardless of rule evaluation order.
	endLong := windowStart.Add(100 * time.Hour)

	jobs := []domain.JobRecord{
		{ID: "job-long", Team: "cv", ModelName: "resnet", GPUType: "v100", Provider: "gcp",
			StartTime: windowStart, EndTime: &endLong, Status: "completed"},
	}

	for i := 0; i < 3; i++ {
		start := windowStart.AddDate(0, 0, i).Add(10 * time.Hour)
		end := start.Add(2 * time.Hour)
		jobs = append(jobs, domain.JobRecord{
			ID: "job-bh-" + string(rune('a'+i)), Team: "nlp", ModelName: "gpt-eval",
			GPUType: "a100", Provider: "aws", StartTime: start, EndTime: &end, Status: "completed",
		})
	}

	reader := &mocks.DataReader{}
	reader.On("GetJobRecords", mock.Anything, windowStart, windowEnd).Return(jobs, nil)
	reader.On("GetCostRecords", mock.Anything, windowStart, windowEnd).Return(fourteenDayCosts("aws", "a100"), nil)
	reader.On("GetUsageRecords", mock.Anything, windowStart, windowEnd).Return([]domain.UsageRecord{}, nil)

	response, err := newTestService(reader).GenerateRecommendations(context.Background(), testFilters())
	require.NoError(t, err)

	require.Len(t, response.Recommendations, 3)

	for i := 1; i < len(response.Recommendations); i++ {
		previous := response.Recommendations[i-1].EstimatedSavings
		current := response.Recommendations[i].EstimatedSavings
		assert.True(t, previous.GreaterThanOrEqual(current))
	}
}
