package recommendations

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/Sarishc/Heliox-AI-sub000/recommendations/domain"
	"github.com/Sarishc/Heliox-AI-sub000/times"
)

type gpuPair struct {
	provider string
	gpuType  string
}

// detectIdleGPU compares paid-for capacity against consumed GPU-hours
// per (provider, gpu_type) pair. A pair with no usage records counts as
// fully idle; absent telemetry means the hours were wasted, not unknown.
func (s *Service) detectIdleGPU(costs []domain.CostRecord, usage []domain.UsageRecord, filters *domain.Filters) []domain.Recommendation {
	days := times.DaysInRange(filters.StartDate, filters.EndDate)
	if days == 0 {
		return nil
	}

	expectedHours := decimal.NewFromInt(int64(days) * 24)

	totalCost := make(map[gpuPair]decimal.Decimal)
	actualHours := make(map[gpuPair]decimal.Decimal)

	for _, record := range costs {
		pair := gpuPair{provider: record.Provider, gpuType: record.GPUType}
		totalCost[pair] = totalCost[pair].Add(record.Amount)
	}

	for _, record := range usage {
		pair := gpuPair{provider: record.Provider, gpuType: record.GPUType}
		actualHours[pair] = actualHours[pair].Add(record.Amount)
	}

	pairs := make([]gpuPair, 0, len(totalCost))

	seen := make(map[gpuPair]bool)
	for pair := range totalCost {
		pairs = append(pairs, pair)
		seen[pair] = true
	}

	for pair := range actualHours {
		if !seen[pair] {
			pairs = append(pairs, pair)
		}
	}

	slices.SortFunc(pairs, func(a, b gpuPair) int {
		if a.provider != b.provider {
			return strings.Compare(a.provider, b.provider)
		}

		return strings.Compare(a.gpuType, b.gpuType)
	})

	window := windowOf(filters)

	var recs []domain.Recommendation

	for _, pair := range pairs {
		actual := actualHours[pair]

		wasted := expectedHours.Sub(actual)
		if wasted.IsNegative() {
			continue
		}

		wasteFraction := wasted.Div(expectedHours)
		if wasteFraction.LessThan(s.assumptions.IdleWasteTrigger) {
			continue
		}

		wastePct := wasteFraction.Mul(decimal.NewFromInt(100)).Round(2)
		savings := s.estimator.IdleSavings(wasted)

		recs = append(recs, domain.Recommendation{
			ID:       s.recommendationID(string(domain.TypeIdleGPU), pair.provider, pair.gpuType, window.StartDate, window.EndDate),
			Type:     domain.TypeIdleGPU,
			Severity: s.idleSeverity(wasteFraction),
			Title: fmt.Sprintf("Idle %s GPUs on %s",
				strings.ToUpper(pair.gpuType), strings.ToUpper(pair.provider)),
			Description: fmt.Sprintf(
				"Detected %s%% idle GPU capacity on %s %s instances. "+
					"You're paying for %s hours but only using %s hours. "+
					"Consider scaling down or right-sizing your GPU allocation.",
				wastePct.StringFixed(1), strings.ToUpper(pair.provider),
				strings.ToUpper(pair.gpuType), expectedHours.StringFixed(0), actual.StringFixed(0)),
			EstimatedSavings: savings,
			Evidence: domain.Evidence{
				DateRange:          &window,
				TotalCostUSD:       decPtr(totalCost[pair]),
				ExpectedUsageHours: decPtr(expectedHours),
				ActualUsageHours:   decPtr(actual),
				WastePercentage:    decPtr(wastePct),
				GPUType:            pair.gpuType,
				Provider:           pair.provider,
			},
			CreatedAt: s.now().UTC(),
		})
	}

	return recs
}

func (s *Service) idleSeverity(wasteFraction decimal.Decimal) domain.Severity {
	switch {
	case wasteFraction.GreaterThanOrEqual(s.assumptions.IdleWasteHigh):
		return domain.SeverityHigh
	case wasteFraction.GreaterThanOrEqual(s.assumptions.IdleWasteMedium):
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}
