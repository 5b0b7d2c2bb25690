//go:generate mockery --name Service --output ../mocks --outpkg mocks --case=underscore
//go:generate mockery --name DataReader --output ../mocks --outpkg mocks --case=underscore
package iface

import (
	"context"
	"time"

	"github.com/Sarishc/Heliox-AI-sub000/recommendations/domain"
)

type Service interface {
	GenerateRecommendations(ctx context.Context, filters *domain.Filters) (*domain.Response, error)
}

// DataReader supplies the job, cost and usage records for an analysis
// window. Implementations hand back already-filtered, already-deduplicated
// collections; the engine never issues its own queries.
type DataReader interface {
	GetJobRecords(ctx context.Context, start, end time.Time) ([]domain.JobRecord, error)
	GetCostRecords(ctx context.Context, start, end time.Time) ([]domain.CostRecord, error)
	GetUsageRecords(ctx context.Context, start, end time.Time) ([]domain.UsageRecord, error)
}
