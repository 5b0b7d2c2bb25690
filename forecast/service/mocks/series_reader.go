package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Sarishc/Heliox-AI-sub000/forecast/domain"
)

type SeriesReader struct {
	mock.Mock
}

func (m *SeriesReader) GetDailySeries(ctx context.Context, query *domain.Query) ([]domain.SeriesPoint, error) {
	args := m.Called(ctx, query)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.SeriesPoint), args.Error(1)
}
