package forecasts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/Sarishc/Heliox-AI-sub000/config"
	"github.com/Sarishc/Heliox-AI-sub000/forecast/cache"
	"github.com/Sarishc/Heliox-AI-sub000/forecast/domain"
	"github.com/Sarishc/Heliox-AI-sub000/forecast/service/iface"
	"github.com/Sarishc/Heliox-AI-sub000/logger"
	"github.com/Sarishc/Heliox-AI-sub000/times"
	"github.com/Sarishc/Heliox-AI-sub000/trend"
)

type Service struct {
	loggerProvider logger.Provider
	reader         iface.SeriesReader
	cache          cache.Facade
	settings       config.ForecastSettings
	trendSettings  config.TrendSettings
	now            func() time.Time
}

// NewService builds the forecast engine. cacheFacade may be nil; the
// engine then recomputes on every call.
func NewService(loggerProvider logger.Provider, reader iface.SeriesReader, cacheFacade cache.Facade, cfg *config.Config) *Service {
	return &Service{
		loggerProvider: loggerProvider,
		reader:         reader,
		cache:          cacheFacade,
		settings:       cfg.Forecast,
		trendSettings:  cfg.Trend,
		now:            time.Now,
	}
}

// Forecast produces point estimates with confidence bands for the next
// horizon days. Below 30 historical points it uses the moving-average
// baseline; from 30 points it attempts the tree-ensemble regressor and
// silently falls back to the baseline on any model failure. Once the
// 7-point minimum is met a forecast is always produced.
func (s *Service) Forecast(ctx context.Context, query *domain.Query) (*domain.ForecastResult, error) {
	l := s.loggerProvider(ctx)

	horizon := s.clampHorizon(query.HorizonDays)

	cacheKey := cache.Key(string(query.Kind), query.Provider, query.GPUType, horizon)
	if cached, ok := s.cachedResult(ctx, cacheKey); ok {
		return cached, nil
	}

	l.Infof("generating %s forecast: provider=%q gpu_type=%q horizon=%d", query.Kind, query.Provider, query.GPUType, horizon)

	series, err := s.reader.GetDailySeries(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "loading historical series")
	}

	result := &domain.ForecastResult{
		Provider:    query.Provider,
		GPUType:     query.GPUType,
		HorizonDays: horizon,
		Historical:  []domain.SeriesPoint{},
		Forecast:    []domain.ForecastPoint{},
	}

	if len(series) < s.settings.MinDataPoints {
		l.Warningf("insufficient data for forecast: %d days", len(series))

		result.Error = fmt.Sprintf(
			"Insufficient historical data. Need at least %d days, found %d.",
			s.settings.MinDataPoints, len(series),
		)

		return result, nil
	}

	filled := fillDailyGaps(series)

	values := make([]float64, len(filled))
	for i, point := range filled {
		values[i] = point.Value
	}

	method := domain.MethodBaseline

	var bands bandForecast

	if len(values) >= s.settings.MinDataPointsForML {
		mlBands, mlErr := mlForecast(values, horizon)
		if mlErr != nil {
			l.Warningf("ml forecast failed, falling back to baseline: %v", mlErr)
			bands = movingAverageForecast(values, horizon)
		} else {
			method = domain.MethodML
			bands = mlBands
		}
	} else {
		bands = movingAverageForecast(values, horizon)
	}

	lastDate := filled[len(filled)-1].Date

	forecast := make([]domain.ForecastPoint, horizon)
	for k := 0; k < horizon; k++ {
		forecast[k] = domain.ForecastPoint{
			Date:       lastDate.AddDate(0, 0, k+1),
			Value:      bands.values[k],
			LowerBound: bands.lower[k],
			UpperBound: bands.upper[k],
		}
	}

	result.Method = method
	result.Historical = filled
	result.Forecast = forecast
	result.Metadata = &domain.Metadata{
		HistoricalDataPoints: len(filled),
		ForecastGeneratedAt:  s.now().UTC().Format(times.YearMonthDayLayout),
		Trend:                string(trend.Classify(values, s.trendSettings)),
	}

	s.cacheResult(ctx, cacheKey, result)

	return result, nil
}

func (s *Service) clampHorizon(horizon int) int {
	if horizon == 0 {
		horizon = s.settings.DefaultHorizonDays
	}

	if horizon < 1 {
		return 1
	}

	if horizon > s.settings.MaxHorizonDays {
		return s.settings.MaxHorizonDays
	}

	return horizon
}

func (s *Service) cachedResult(ctx context.Context, key string) (*domain.ForecastResult, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}

	var result domain.ForecastResult
	if err := json.Unmarshal(raw, &result); err != nil {
		s.loggerProvider(ctx).Warningf("discarding malformed cache entry %s: %v", key, err)
		return nil, false
	}

	s.loggerProvider(ctx).Infof("cache hit for forecast: %s", key)

	return &result, true
}

func (s *Service) cacheResult(ctx context.Context, key string, result *domain.ForecastResult) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		s.loggerProvider(ctx).Warningf("not caching forecast %s: %v", key, err)
		return
	}

	s.cache.Set(ctx, key, raw, s.settings.CacheTTL)
}

// fillDailyGaps forward-fills missing calendar days so every model sees
// a contiguous daily series. A gap means no aggregate was recorded for
// that day; the last known value is the best stand-in.
func fillDailyGaps(series []domain.SeriesPoint) []domain.SeriesPoint {
	if len(series) == 0 {
		return series
	}

	filled := make([]domain.SeriesPoint, 0, len(series))

	byDay := make(map[time.Time]float64, len(series))
	for _, point := range series {
		byDay[times.Day(point.Date)] = point.Value
	}

	lastValue := 0.0

	times.EachDay(series[0].Date, series[len(series)-1].Date, func(day time.Time) {
		if value, ok := byDay[day]; ok {
			lastValue = value
		}

		filled = append(filled, domain.SeriesPoint{Date: day, Value: lastValue})
	})

	return filled
}
