// Package config carries the tunable assumptions behind the analytics
// engines. Every constant that feeds a savings or forecast calculation
// lives here so the numbers are visible in one place.
package config

import (
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	redisAddrEnv  = "HELIOX_REDIS_ADDR"
	configPathEnv = "HELIOX_CONFIG_PATH"
)

// Assumptions are the fixed cost-model inputs used by the recommendation
// rules. There is deliberately no per-GPU-type or per-provider pricing;
// a single blended hourly rate keeps every savings figure reproducible
// from its evidence.
type Assumptions struct {
	// HourlyGPUCost is the blended per-GPU-hour rate in USD.
	HourlyGPUCost decimal.Decimal

	// IdleWasteTrigger is the waste fraction at or above which the idle
	// GPU rule fires. IdleWasteMedium/IdleWasteHigh set the severity steps.
	IdleWasteTrigger decimal.Decimal
	IdleWasteMedium  decimal.Decimal
	IdleWasteHigh    decimal.Decimal

	// LongRunningThresholdHours is strict: a job must exceed it to fire.
	LongRunningThresholdHours float64
	LongRunningMediumHours    float64
	LongRunningHighHours      float64

	// OptimizationPotential is the assumed fraction of a long job's
	// runtime that tuning could recover.
	OptimizationPotential decimal.Decimal

	// OffPeakDiscount is the assumed discount for moving business-hours
	// jobs off peak.
	OffPeakDiscount decimal.Decimal

	// BusinessHoursStart/End bound the weekday clock window (hours,
	// start inclusive, end exclusive).
	BusinessHoursStart int
	BusinessHoursEnd   int

	// MinBusinessHoursJobs is the per-team job count needed before the
	// off-hours rule speaks up.
	MinBusinessHoursJobs int
}

// ForecastSettings bound the forecast engine.
type ForecastSettings struct {
	DefaultHorizonDays int
	MaxHorizonDays     int
	MinDataPoints      int
	MinDataPointsForML int
	CacheTTL           time.Duration
}

// TrendSettings tune the trend indicator attached to forecast metadata.
type TrendSettings struct {
	// SlopeDegrees is the minimum absolute regression slope angle for a
	// series to count as trending. Unit: degrees.
	SlopeDegrees float64
	// Threshold is the minimum relative spread between min and max
	// values. 0.1 means 10%.
	Threshold float64
}

// CacheSettings configure the optional forecast cache facade.
type CacheSettings struct {
	RedisAddr string
}

type Config struct {
	Assumptions Assumptions
	Forecast    ForecastSettings
	Trend       TrendSettings
	Cache       CacheSettings
}

// Default returns the production assumptions.
func Default() *Config {
	return &Config{
		Assumptions: Assumptions{
			HourlyGPUCost:             decimal.RequireFromString("3.50"),
			IdleWasteTrigger:          decimal.RequireFromString("0.30"),
			IdleWasteMedium:           decimal.RequireFromString("0.50"),
			IdleWasteHigh:             decimal.RequireFromString("0.70"),
			LongRunningThresholdHours: 24,
			LongRunningMediumHours:    48,
			LongRunningHighHours:      72,
			OptimizationPotential:     decimal.RequireFromString("0.20"),
			OffPeakDiscount:           decimal.RequireFromString("0.10"),
			BusinessHoursStart:        9,
			BusinessHoursEnd:          18,
			MinBusinessHoursJobs:      3,
		},
		Forecast: ForecastSettings{
			DefaultHorizonDays: 7,
			MaxHorizonDays:     30,
			MinDataPoints:      7,
			MinDataPointsForML: 30,
			CacheTTL:           time.Hour,
		},
		Trend: TrendSettings{
			SlopeDegrees: 22.5,
			Threshold:    0.1,
		},
		Cache: CacheSettings{
			RedisAddr: GetEnv(redisAddrEnv, ""),
		},
	}
}

// fileConfig is the YAML shape. Decimal fields arrive as strings so the
// file can express exact values.
type fileConfig struct {
	Assumptions struct {
		HourlyGPUCost             string  `yaml:"hourly_gpu_cost"`
		IdleWasteTrigger          string  `yaml:"idle_waste_trigger"`
		IdleWasteMedium           string  `yaml:"idle_waste_medium"`
		IdleWasteHigh             string  `yaml:"idle_waste_high"`
		LongRunningThresholdHours float64 `yaml:"long_running_threshold_hours"`
		LongRunningMediumHours    float64 `yaml:"long_running_medium_hours"`
		LongRunningHighHours      float64 `yaml:"long_running_high_hours"`
		OptimizationPotential     string  `yaml:"optimization_potential"`
		OffPeakDiscount           string  `yaml:"off_peak_discount"`
		BusinessHoursStart        *int    `yaml:"business_hours_start"`
		BusinessHoursEnd          *int    `yaml:"business_hours_end"`
		MinBusinessHoursJobs      *int    `yaml:"min_business_hours_jobs"`
	} `yaml:"assumptions"`
	Forecast struct {
		DefaultHorizonDays *int   `yaml:"default_horizon_days"`
		MaxHorizonDays     *int   `yaml:"max_horizon_days"`
		MinDataPoints      *int   `yaml:"min_data_points"`
		MinDataPointsForML *int   `yaml:"min_data_points_for_ml"`
		CacheTTL           string `yaml:"cache_ttl"`
	} `yaml:"forecast"`
	Trend struct {
		SlopeDegrees *float64 `yaml:"slope_degrees"`
		Threshold    *float64 `yaml:"threshold"`
	} `yaml:"trend"`
	Cache struct {
		RedisAddr string `yaml:"redis_addr"`
	} `yaml:"cache"`
}

// Load returns the defaults merged with the YAML file at path, if any.
// An empty path falls back to HELIOX_CONFIG_PATH, and no file at all is
// not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}

	if path == "" {
		return cfg, cfg.Validate()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %q", path)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %q", path)
	}

	if err := cfg.apply(&fc); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) apply(fc *fileConfig) error {
	var err error

	setDecimal := func(dst *decimal.Decimal, raw, field string) {
		if raw == "" {
			return
		}

		d, derr := decimal.NewFromString(raw)
		if derr != nil {
			err = multierror.Append(err, errors.Wrapf(derr, "invalid %s", field))
			return
		}

		*dst = d
	}

	a := &c.Assumptions
	setDecimal(&a.HourlyGPUCost, fc.Assumptions.HourlyGPUCost, "hourly_gpu_cost")
	setDecimal(&a.IdleWasteTrigger, fc.Assumptions.IdleWasteTrigger, "idle_waste_trigger")
	setDecimal(&a.IdleWasteMedium, fc.Assumptions.IdleWasteMedium, "idle_waste_medium")
	setDecimal(&a.IdleWasteHigh, fc.Assumptions.IdleWasteHigh, "idle_waste_high")
	setDecimal(&a.OptimizationPotential, fc.Assumptions.OptimizationPotential, "optimization_potential")
	setDecimal(&a.OffPeakDiscount, fc.Assumptions.OffPeakDiscount, "off_peak_discount")

	if fc.Assumptions.LongRunningThresholdHours > 0 {
		a.LongRunningThresholdHours = fc.Assumptions.LongRunningThresholdHours
	}

	if fc.Assumptions.LongRunningMediumHours > 0 {
		a.LongRunningMediumHours = fc.Assumptions.LongRunningMediumHours
	}

	if fc.Assumptions.LongRunningHighHours > 0 {
		a.LongRunningHighHours = fc.Assumptions.LongRunningHighHours
	}

	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}

	setInt(&a.BusinessHoursStart, fc.Assumptions.BusinessHoursStart)
	setInt(&a.BusinessHoursEnd, fc.Assumptions.BusinessHoursEnd)
	setInt(&a.MinBusinessHoursJobs, fc.Assumptions.MinBusinessHoursJobs)

	setInt(&c.Forecast.DefaultHorizonDays, fc.Forecast.DefaultHorizonDays)
	setInt(&c.Forecast.MaxHorizonDays, fc.Forecast.MaxHorizonDays)
	setInt(&c.Forecast.MinDataPoints, fc.Forecast.MinDataPoints)
	setInt(&c.Forecast.MinDataPointsForML, fc.Forecast.MinDataPointsForML)

	if fc.Forecast.CacheTTL != "" {
		ttl, perr := time.ParseDuration(fc.Forecast.CacheTTL)
		if perr != nil {
			err = multierror.Append(err, errors.Wrap(perr, "invalid cache_ttl"))
		} else {
			c.Forecast.CacheTTL = ttl
		}
	}

	if fc.Trend.SlopeDegrees != nil {
		c.Trend.SlopeDegrees = *fc.Trend.SlopeDegrees
	}

	if fc.Trend.Threshold != nil {
		c.Trend.Threshold = *fc.Trend.Threshold
	}

	if fc.Cache.RedisAddr != "" {
		c.Cache.RedisAddr = fc.Cache.RedisAddr
	}

	// Env always wins for the cache address.
	c.Cache.RedisAddr = GetEnv(redisAddrEnv, c.Cache.RedisAddr)

	return err
}

// Validate accumulates every violation instead of stopping at the first.
func (c *Config) Validate() error {
	var err error

	a := c.Assumptions

	if !a.HourlyGPUCost.IsPositive() {
		err = multierror.Append(err, errors.New("hourly_gpu_cost must be positive"))
	}

	one := decimal.NewFromInt(1)
	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"idle_waste_trigger", a.IdleWasteTrigger},
		{"idle_waste_medium", a.IdleWasteMedium},
		{"idle_waste_high", a.IdleWasteHigh},
		{"optimization_potential", a.OptimizationPotential},
		{"off_peak_discount", a.OffPeakDiscount},
	} {
		if f.value.IsNegative() || f.value.GreaterThan(one) {
			err = multierror.Append(err, errors.Errorf("%s must be within [0, 1]", f.name))
		}
	}

	if a.IdleWasteMedium.LessThan(a.IdleWasteTrigger) || a.IdleWasteHigh.LessThan(a.IdleWasteMedium) {
		err = multierror.Append(err, errors.New("idle waste severity steps must be non-decreasing"))
	}

	if a.LongRunningThresholdHours <= 0 ||
		a.LongRunningMediumHours < a.LongRunningThresholdHours ||
		a.LongRunningHighHours < a.LongRunningMediumHours {
		err = multierror.Append(err, errors.New("long running hour thresholds must be positive and non-decreasing"))
	}

	if a.BusinessHoursStart < 0 || a.BusinessHoursEnd > 24 || a.BusinessHoursStart >= a.BusinessHoursEnd {
		err = multierror.Append(err, errors.New("business hours window must satisfy 0 <= start < end <= 24"))
	}

	if a.MinBusinessHoursJobs < 1 {
		err = multierror.Append(err, errors.New("min_business_hours_jobs must be at least 1"))
	}

	f := c.Forecast
	if f.DefaultHorizonDays < 1 || f.MaxHorizonDays < f.DefaultHorizonDays {
		err = multierror.Append(err, errors.New("forecast horizon bounds are inconsistent"))
	}

	if f.MinDataPoints < 2 || f.MinDataPointsForML < f.MinDataPoints {
		err = multierror.Append(err, errors.New("forecast data point minimums are inconsistent"))
	}

	return err
}

// GetEnv returns the environment value for key, or fallback when unset.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}
