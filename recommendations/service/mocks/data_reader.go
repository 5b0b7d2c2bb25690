package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Sarishc/Heliox-AI-sub000/recommendations/domain"
)

type DataReader struct {
	mock.Mock
}

func (m *DataReader) GetJobRecords(ctx context.Context, start, end time.Time) ([]domain.JobRecord, error) {
	args := m.Called(ctx, start, end)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.JobRecord), args.Error(1)
}

func (m *DataReader) GetCostRecords(ctx context.Context, start, end time.Time) ([]domain.CostRecord, error) {
	args := m.Called(ctx, start, end)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.CostRecord), args.Error(1)
}

func (m *DataReader) GetUsageRecords(ctx context.Context, start, end time.Time) ([]domain.UsageRecord, error) {
	args := m.Called(ctx, start, end)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.UsageRecord), args.Error(1)
}
