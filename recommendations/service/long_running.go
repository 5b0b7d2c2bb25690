package recommendations

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Sarishc/Heliox-AI-sub000/recommendations/domain"
	"github.com/Sarishc/Heliox-AI-sub000/times"
)

// detectLongRunningJobs flags jobs whose runtime strictly exceeds the
// long-running threshold. Jobs without a known end time are skipped;
// their runtime is not yet knowable.
func (s *Service) detectLongRunningJobs(jobs []domain.JobRecord, filters *domain.Filters) []domain.Recommendation {
	window := windowOf(filters)

	var recs []domain.Recommendation

	for _, job := range jobs {
		if job.EndTime == nil {
			continue
		}

		runtimeHours := times.HoursBetween(job.StartTime, *job.EndTime)
		if runtimeHours <= s.assumptions.LongRunningThresholdHours {
			continue
		}

		savings := s.estimator.LongRunningSavings(decimal.NewFromFloat(runtimeHours))

		recs = append(recs, domain.Recommendation{
			ID:       s.recommendationID(string(domain.TypeLongRunningJob), job.ID, window.StartDate, window.EndDate),
			Type:     domain.TypeLongRunningJob,
			Severity: s.runtimeSeverity(runtimeHours),
			Title:    fmt.Sprintf("Long-running job: %s (%s)", job.ModelName, job.Team),
			Description: fmt.Sprintf(
				"Job %s ran for %.1f hours, exceeding the %.0fh threshold. "+
					"Consider optimizing the training code or right-sizing the GPU instance. "+
					"A %s%% runtime reduction could save approximately $%s.",
				job.ID, runtimeHours, s.assumptions.LongRunningThresholdHours,
				s.assumptions.OptimizationPotential.Mul(decimal.NewFromInt(100)).StringFixed(0),
				savings.StringFixed(2)),
			EstimatedSavings: savings,
			Evidence: domain.Evidence{
				DateRange:       &window,
				JobID:           job.ID,
				JobRuntimeHours: decPtr(decimal.NewFromFloat(runtimeHours).Round(2)),
				JobStartTime:    timePtr(job.StartTime),
				JobEndTime:      timePtr(*job.EndTime),
				GPUType:         job.GPUType,
				Provider:        job.Provider,
				TeamName:        job.Team,
				ModelName:       job.ModelName,
			},
			CreatedAt: s.now().UTC(),
		})
	}

	return recs
}

func (s *Service) runtimeSeverity(runtimeHours float64) domain.Severity {
	switch {
	case runtimeHours >= s.assumptions.LongRunningHighHours:
		return domain.SeverityHigh
	case runtimeHours >= s.assumptions.LongRunningMediumHours:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}
