package recommendations

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sarishc/Heliox-AI-sub000/recommendations/domain"
)

func rec(recType domain.Type, severity domain.Severity, savings string) domain.Recommendation {
	return domain.Recommendation{
		ID:               string(recType) + "-" + string(severity) + "-" + savings,
		Type:             recType,
		Severity:         severity,
		EstimatedSavings: decimal.RequireFromString(savings),
	}
}

func TestAggregateMinSeverityFilter(t *testing.T) {
	recs := []domain.Recommendation{
		rec(domain.TypeIdleGPU, domain.SeverityHigh, "1176.00"),
		rec(domain.TypeLongRunningJob, domain.SeverityMedium, "50.40"),
		rec(domain.TypeOffHoursUsage, domain.SeverityLow, "2.10"),
		rec(domain.TypeIdleGPU, domain.SeverityHigh, "300.00"),
	}

	filters := testFilters()
	filters.MinSeverity = domain.SeverityHigh

	response := Aggregate(recs, filters)

	require.Len(t, response.Recommendations, 2)

	for _, r := range response.Recommendations {
		assert.Equal(t, domain.SeverityHigh, r.Severity)
	}

	// Total savings covers exactly the filtered subset.
	assert.Equal(t, "1476.00", response.TotalEstimatedSavings.StringFixed(2))
	assert.Equal(t, 2, response.Summary.Total)
	assert.Equal(t, 2, response.Summary.BySeverity[domain.SeverityHigh])
	assert.Zero(t, response.Summary.BySeverity[domain.SeverityLow])
}

func TestAggregateMinSavingsFilter(t *testing.T) {
	recs := []domain.Recommendation{
		rec(domain.TypeIdleGPU, domain.SeverityHigh, "1176.00"),
		rec(domain.TypeLongRunningJob, domain.SeverityLow, "16.81"),
		rec(domain.TypeOffHoursUsage, domain.SeverityLow, "2.10"),
	}

	filters := testFilters()
	minSavings := decimal.RequireFromString("16.81")
	filters.MinSavings = &minSavings

	response := Aggregate(recs, filters)

	// The filter is inclusive at the boundary.
	require.Len(t, response.Recommendations, 2)
	assert.Equal(t, "1192.81", response.TotalEstimatedSavings.StringFixed(2))
}

func TestAggregateTypeFilter(t *testing.T) {
	recs := []domain.Recommendation{
		rec(domain.TypeIdleGPU, domain.SeverityHigh, "1176.00"),
		rec(domain.TypeLongRunningJob, domain.SeverityMedium, "50.40"),
		rec(domain.TypeOffHoursUsage, domain.SeverityLow, "2.10"),
	}

	filters := testFilters()
	filters.Types = []domain.Type{domain.TypeLongRunningJob, domain.TypeOffHoursUsage}

	response := Aggregate(recs, filters)

	require.Len(t, response.Recommendations, 2)
	assert.Equal(t, domain.TypeLongRunningJob, response.Recommendations[0].Type)
	assert.Equal(t, domain.TypeOffHoursUsage, response.Recommendations[1].Type)
}

func TestAggregateOrdering(t *testing.T) {
	recs := []domain.Recommendation{
		rec(domain.TypeOffHoursUsage, domain.SeverityLow, "50.00"),
		rec(domain.TypeLongRunningJob, domain.SeverityHigh, "50.00"),
		rec(domain.TypeIdleGPU, domain.SeverityHigh, "50.00"),
		rec(domain.TypeIdleGPU, domain.SeverityMedium, "500.00"),
	}

	response := Aggregate(recs, testFilters())

	require.Len(t, response.Recommendations, 4)

	// Savings first, then severity, then type name.
	assert.Equal(t, "500.00", response.Recommendations[0].EstimatedSavings.StringFixed(2))
	assert.Equal(t, domain.TypeIdleGPU, response.Recommendations[1].Type)
	assert.Equal(t, domain.TypeLongRunningJob, response.Recommendations[2].Type)
	assert.Equal(t, domain.TypeOffHoursUsage, response.Recommendations[3].Type)
}

func TestAggregateEmptyInput(t *testing.T) {
	response := Aggregate(nil, testFilters())

	assert.Empty(t, response.Recommendations)
	assert.Equal(t, 0, response.Summary.Total)
	assert.True(t, response.TotalEstimatedSavings.IsZero())
	assert.Equal(t, domain.DateRange{StartDate: "2026-08-03", EndDate: "2026-08-16"}, response.DateRange)
}

func TestAggregateSummaryCounts(t *testing.T) {
	recs := []domain.Recommendation{
		rec(domain.TypeIdleGPU, domain.SeverityHigh, "100.00"),
		rec(domain.TypeIdleGPU, domain.SeverityLow, "10.00"),
		rec(domain.TypeLongRunningJob, domain.SeverityMedium, "20.00"),
	}

	response := Aggregate(recs, testFilters())

	assert.Equal(t, 3, response.Summary.Total)
	assert.Equal(t, map[domain.Severity]int{
		domain.SeverityHigh:   1,
		domain.SeverityMedium: 1,
		domain.SeverityLow:    1,
	}, response.Summary.BySeverity)
	assert.Equal(t, map[domain.Type]int{
		domain.TypeIdleGPU:        2,
		domain.TypeLongRunningJob: 1,
	}, response.Summary.ByType)
	assert.Equal(t, "130.00", response.Summary.TotalEstimatedSavings.StringFixed(2))
}
