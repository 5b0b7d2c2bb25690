package recommendations

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/Sarishc/Heliox-AI-sub000/recommendations/domain"
)

// Aggregate applies the optional post-hoc filters, normalizes ordering
// and derives the summary. The summary is computed over the filtered
// list, so total savings always match what the caller can see.
func Aggregate(recs []domain.Recommendation, filters *domain.Filters) *domain.Response {
	filtered := applyFilters(recs, filters)
	sortRecommendations(filtered)

	summary := summarize(filtered)

	return &domain.Response{
		Recommendations:       filtered,
		Summary:               summary,
		DateRange:             windowOf(filters),
		TotalEstimatedSavings: summary.TotalEstimatedSavings,
	}
}

func applyFilters(recs []domain.Recommendation, filters *domain.Filters) []domain.Recommendation {
	filtered := make([]domain.Recommendation, 0, len(recs))

	for _, rec := range recs {
		if filters.MinSeverity != "" && rec.Severity.Rank() < filters.MinSeverity.Rank() {
			continue
		}

		if filters.MinSavings != nil && rec.EstimatedSavings.LessThan(*filters.MinSavings) {
			continue
		}

		if len(filters.Types) > 0 && !slices.Contains(filters.Types, rec.Type) {
			continue
		}

		filtered = append(filtered, rec)
	}

	return filtered
}

// sortRecommendations orders by savings descending, then severity
// descending, then type name, so identical inputs render identically.
func sortRecommendations(recs []domain.Recommendation) {
	slices.SortStableFunc(recs, func(a, b domain.Recommendation) int {
		if c := b.EstimatedSavings.Cmp(a.EstimatedSavings); c != 0 {
			return c
		}

		if a.Severity.Rank() != b.Severity.Rank() {
			return b.Severity.Rank() - a.Severity.Rank()
		}

		return strings.Compare(string(a.Type), string(b.Type))
	})
}

func summarize(recs []domain.Recommendation) domain.Summary {
	summary := domain.Summary{
		Total:      len(recs),
		BySeverity: make(map[domain.Severity]int),
		ByType:     make(map[domain.Type]int),
	}

	for _, rec := range recs {
		summary.BySeverity[rec.Severity]++
		summary.ByType[rec.Type]++
		summary.TotalEstimatedSavings = summary.TotalEstimatedSavings.Add(rec.EstimatedSavings)
	}

	return summary
}
