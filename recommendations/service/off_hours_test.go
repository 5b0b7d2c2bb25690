package recommendations

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sarishc/Heliox-AI-sub000/recommendations/domain"
	"github.com/Sarishc/Heliox-AI-sub000/recommendations/service/mocks"
)

// businessHoursJob starts at the given clock time on the window's
// opening Monday plus dayOffset, and runs for two hours.
func businessHoursJob(team string, dayOffset, hour, minute int) domain.JobRecord {
	start := windowStart.AddDate(0, 0, dayOffset).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	end := start.Add(2 * time.Hour)

	return domain.JobRecord{
		ID:        fmt.Sprintf("job-%s-%d-%d", team, dayOffset, hour),
		Team:      team,
		ModelName: "nightly-eval",
		GPUType:   "v100",
		Provider:  "gcp",
		StartTime: start,
		EndTime:   &end,
		Status:    "completed",
	}
}

func TestDetectOffHoursUsageMinimumJobCount(t *testing.T) {
	svc := newTestService(&mocks.DataReader{})

	t.Run("two qualifying jobs do not trigger", func(t *testing.T) {
		jobs := []domain.JobRecord{
			businessHoursJob("cv", 0, 10, 0),
			businessHoursJob("cv", 1, 11, 0),
		}

		assert.Empty(t, svc.detectOffHoursUsage(jobs, testFilters()))
	})

	t.Run("three qualifying jobs trigger at low", func(t *testing.T) {
		jobs := []domain.JobRecord{
			businessHoursJob("cv", 0, 10, 0),
			businessHoursJob("cv", 1, 11, 0),
			businessHoursJob("cv", 2, 14, 0),
		}

		recs := svc.detectOffHoursUsage(jobs, testFilters())
		require.Len(t, recs, 1)

		assert.Equal(t, domain.SeverityLow, recs[0].Severity)
		assert.Equal(t, 3, recs[0].Evidence.BusinessHoursJobCount)

		// 3 jobs x 2h at $3.50/hour with a 10% off-peak discount.
		assert.Equal(t, "2.10", recs[0].EstimatedSavings.StringFixed(2))
	})
}

func TestDetectOffHoursUsageClockWindow(t *testing.T) {
	svc := newTestService(&mocks.DataReader{})

	tests := []struct {
		name      string
		extra     domain.JobRecord
		wantCount int
	}{
		{name: "8:59 start is before the window", extra: businessHoursJob("cv", 3, 8, 59), wantCount: 0},
		{name: "9:00 start is inside the window", extra: businessHoursJob("cv", 3, 9, 0), wantCount: 1},
		{name: "17:59 start is inside the window", extra: businessHoursJob("cv", 3, 17, 59), wantCount: 1},
		{name: "18:00 start is past the window", extra: businessHoursJob("cv", 3, 18, 0), wantCount: 0},
		{name: "saturday start never qualifies", extra: businessHoursJob("cv", 5, 10, 0), wantCount: 0},
	}

	base := []domain.JobRecord{
		businessHoursJob("cv", 0, 10, 0),
		businessHoursJob("cv", 1, 11, 0),
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := append(append([]domain.JobRecord{}, base...), tt.extra)

			recs := svc.detectOffHoursUsage(jobs, testFilters())
			assert.Len(t, recs, tt.wantCount)
		})
	}
}

func TestDetectOffHoursUsagePerTeam(t *testing.T) {
	svc := newTestService(&mocks.DataReader{})

	jobs := []domain.JobRecord{
		businessHoursJob("nlp", 0, 10, 0),
		businessHoursJob("nlp", 1, 10, 0),
		businessHoursJob("nlp", 2, 10, 0),
		businessHoursJob("infra", 0, 11, 0),
		businessHoursJob("infra", 1, 11, 0),
		businessHoursJob("infra", 2, 11, 0),
		businessHoursJob("cv", 0, 12, 0),
	}

	recs := svc.detectOffHoursUsage(jobs, testFilters())
	require.Len(t, recs, 2)

	// Teams come back in name order.
	assert.Equal(t, "infra", recs[0].Evidence.TeamName)
	assert.Equal(t, "nlp", recs[1].Evidence.TeamName)
}

func TestDetectOffHoursUsageOpenEndedJobCountsButAddsNoRuntime(t *testing.T) {
	svc := newTestService(&mocks.DataReader{})

	open := businessHoursJob("cv", 2, 14, 0)
	open.EndTime = nil

	jobs := []domain.JobRecord{
		businessHoursJob("cv", 0, 10, 0),
		businessHoursJob("cv", 1, 11, 0),
		open,
	}

	recs := svc.detectOffHoursUsage(jobs, testFilters())
	require.Len(t, recs, 1)

	assert.Equal(t, 3, recs[0].Evidence.BusinessHoursJobCount)
	require.NotNil(t, recs[0].Evidence.TotalRuntimeHours)
	assert.Equal(t, "4.00", recs[0].Evidence.TotalRuntimeHours.StringFixed(2))
	assert.Equal(t, "1.40", recs[0].EstimatedSavings.StringFixed(2))
}
