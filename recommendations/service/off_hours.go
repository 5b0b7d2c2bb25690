package recommendations

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/Sarishc/Heliox-AI-sub000/recommendations/domain"
	"github.com/Sarishc/Heliox-AI-sub000/times"
)

// detectOffHoursUsage groups jobs that started inside the weekday
// business-hours window by team and suggests off-peak scheduling once a
// team accumulates enough of them. Always advisory, never urgent.
func (s *Service) detectOffHoursUsage(jobs []domain.JobRecord, filters *domain.Filters) []domain.Recommendation {
	byTeam := make(map[string][]domain.JobRecord)

	for _, job := range jobs {
		if !times.IsWeekday(job.StartTime) {
			continue
		}

		if !times.WithinClockWindow(job.StartTime, s.assumptions.BusinessHoursStart, s.assumptions.BusinessHoursEnd) {
			continue
		}

		byTeam[job.Team] = append(byTeam[job.Team], job)
	}

	teams := maps.Keys(byTeam)
	slices.Sort(teams)

	window := windowOf(filters)

	var recs []domain.Recommendation

	for _, team := range teams {
		grouped := byTeam[team]
		if len(grouped) < s.assumptions.MinBusinessHoursJobs {
			continue
		}

		totalRuntime := decimal.Zero

		for _, job := range grouped {
			if job.EndTime == nil {
				continue
			}

			totalRuntime = totalRuntime.Add(decimal.NewFromFloat(times.HoursBetween(job.StartTime, *job.EndTime)))
		}

		savings := s.estimator.OffPeakSavings(totalRuntime)

		recs = append(recs, domain.Recommendation{
			ID:       s.recommendationID(string(domain.TypeOffHoursUsage), team, window.StartDate, window.EndDate),
			Type:     domain.TypeOffHoursUsage,
			Severity: domain.SeverityLow,
			Title:    fmt.Sprintf("Consider off-peak scheduling for %s", team),
			Description: fmt.Sprintf(
				"Team '%s' ran %d jobs during business hours (%dam-%dpm weekdays). "+
					"Scheduling non-urgent training jobs during off-peak hours could save "+
					"approximately $%s through off-peak pricing.",
				team, len(grouped), s.assumptions.BusinessHoursStart,
				s.assumptions.BusinessHoursEnd-12, savings.StringFixed(2)),
			EstimatedSavings: savings,
			Evidence: domain.Evidence{
				DateRange:             &window,
				TeamName:              team,
				BusinessHoursJobCount: len(grouped),
				TotalRuntimeHours:     decPtr(totalRuntime.Round(2)),
			},
			CreatedAt: s.now().UTC(),
		})
	}

	return recs
}
