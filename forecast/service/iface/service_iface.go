//go:generate mockery --name Service --output ../mocks --outpkg mocks --case=underscore
//go:generate mockery --name SeriesReader --output ../mocks --outpkg mocks --case=underscore
package iface

import (
	"context"

	"github.com/Sarishc/Heliox-AI-sub000/forecast/domain"
)

type Service interface {
	Forecast(ctx context.Context, query *domain.Query) (*domain.ForecastResult, error)
}

// SeriesReader supplies ordered daily aggregates for a forecast query.
// Implementations own all filtering and deduplication; the engine only
// assumes ascending dates with at most one point per day.
type SeriesReader interface {
	GetDailySeries(ctx context.Context, query *domain.Query) ([]domain.SeriesPoint, error)
}
