// Package demo generates a deterministic synthetic dataset for running
// the analytics engines without a real data source. The shapes are
// tuned so every recommendation rule fires and both forecast methods
// get exercised.
package demo

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	forecastdomain "github.com/Sarishc/Heliox-AI-sub000/forecast/domain"
	forecastiface "github.com/Sarishc/Heliox-AI-sub000/forecast/service/iface"
	recdomain "github.com/Sarishc/Heliox-AI-sub000/recommendations/domain"
	reciface "github.com/Sarishc/Heliox-AI-sub000/recommendations/service/iface"
	"github.com/Sarishc/Heliox-AI-sub000/times"
)

var (
	_ forecastiface.SeriesReader = (*Dataset)(nil)
	_ reciface.DataReader        = (*Dataset)(nil)
)

const (
	datasetDays = 45
	datasetSeed = 42
)

// pairSpec shapes one (provider, gpu_type) fleet. A zero usage rate
// makes the pair fully idle so the idle rule has a high-severity find.
type pairSpec struct {
	provider     string
	gpuType      string
	dailyCostUSD float64
	dailyUsageHr float64
}

var fleet = []pairSpec{
	{provider: "aws", gpuType: "a100", dailyCostUSD: 1250, dailyUsageHr: 0},
	{provider: "gcp", gpuType: "v100", dailyCostUSD: 640, dailyUsageHr: 20},
	{provider: "gcp", gpuType: "t4", dailyCostUSD: 180, dailyUsageHr: 11},
}

// Dataset is an in-memory data source implementing both the forecast
// series reader and the recommendation data reader.
type Dataset struct {
	start time.Time
	end   time.Time

	jobs  []recdomain.JobRecord
	costs []recdomain.CostRecord
	usage []recdomain.UsageRecord
}

// NewDataset builds the synthetic history ending the day before anchor.
// The same anchor always yields the same records.
func NewDataset(anchor time.Time) *Dataset {
	end := times.Day(anchor).AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -(datasetDays - 1))

	d := &Dataset{start: start, end: end}

	rng := rand.New(rand.NewSource(datasetSeed))
	d.generateSnapshots(rng)
	d.generateJobs(rng)

	return d
}

// Window returns the date range the dataset covers.
func (d *Dataset) Window() (time.Time, time.Time) {
	return d.start, d.end
}

func (d *Dataset) generateSnapshots(rng *rand.Rand) {
	for day := 0; day < datasetDays; day++ {
		date := d.start.AddDate(0, 0, day)

		for _, spec := range fleet {
			// Mild upward trend plus a weekly dip so the forecaster has
			// structure to find.
			weekly := 1.0
			if !times.IsWeekday(date) {
				weekly = 0.72
			}

			cost := spec.dailyCostUSD * (1 + 0.004*float64(day)) * weekly
			cost *= 1 + 0.05*(rng.Float64()-0.5)

			d.costs = append(d.costs, recdomain.CostRecord{
				Date:     date,
				Provider: spec.provider,
				GPUType:  spec.gpuType,
				Amount:   decimal.NewFromFloat(math.Round(cost*100) / 100),
			})

			if spec.dailyUsageHr == 0 {
				continue
			}

			hours := spec.dailyUsageHr * weekly
			hours *= 1 + 0.1*(rng.Float64()-0.5)
			hours = math.Min(24, math.Max(0, hours))

			d.usage = append(d.usage, recdomain.UsageRecord{
				Date:     date,
				Provider: spec.provider,
				GPUType:  spec.gpuType,
				Amount:   decimal.NewFromFloat(math.Round(hours*100) / 100),
			})
		}
	}
}

func (d *Dataset) generateJobs(rng *rand.Rand) {
	jobID := 0

	newJob := func(team, model, provider, gpuType string, start time.Time, runtime time.Duration) recdomain.JobRecord {
		jobID++

		job := recdomain.JobRecord{
			ID:        fmt.Sprintf("job-%04d", jobID),
			Team:      team,
			ModelName: model,
			GPUType:   gpuType,
			Provider:  provider,
			StartTime: start,
			Status:    "completed",
		}

		if runtime > 0 {
			end := start.Add(runtime)
			job.EndTime = &end
		} else {
			job.Status = "running"
		}

		return job
	}

	// The nlp team schedules everything inside business hours, which is
	// exactly what the off-hours rule looks for.
	for day := 0; day < datasetDays; day += 2 {
		start := d.start.AddDate(0, 0, day).Add(10 * time.Hour)
		if !times.IsWeekday(start) {
			continue
		}

		runtime := time.Duration(2+rng.Intn(4)) * time.Hour
		d.jobs = append(d.jobs, newJob("nlp", "bert-finetune", "gcp", "v100", start, runtime))
	}

	// The cv team runs overnight and never qualifies.
	for day := 1; day < datasetDays; day += 3 {
		start := d.start.AddDate(0, 0, day).Add(22 * time.Hour)
		runtime := time.Duration(5+rng.Intn(5)) * time.Hour
		d.jobs = append(d.jobs, newJob("cv", "diffusion-train", "gcp", "t4", start, runtime))
	}

	// Long-running infra jobs at each severity band.
	for i, hours := range []int{30, 50, 80} {
		start := d.start.AddDate(0, 0, 5+10*i).Add(3 * time.Hour)
		d.jobs = append(d.jobs, newJob("infra", "embedding-refresh", "aws", "a100", start, time.Duration(hours)*time.Hour))
	}

	// A couple of still-running jobs with no end time.
	for i := 0; i < 2; i++ {
		start := d.end.AddDate(0, 0, -i).Add(8 * time.Hour)
		d.jobs = append(d.jobs, newJob("infra", "embedding-refresh", "aws", "a100", start, 0))
	}
}

// GetDailySeries aggregates cost or usage snapshots into a daily series
// for the forecast engine, honoring the query's provider and GPU type
// filters.
func (d *Dataset) GetDailySeries(_ context.Context, query *forecastdomain.Query) ([]forecastdomain.SeriesPoint, error) {
	totals := make(map[time.Time]float64)

	add := func(date time.Time, provider, gpuType string, amount decimal.Decimal) {
		if query.Provider != "" && query.Provider != provider {
			return
		}

		if query.GPUType != "" && query.GPUType != gpuType {
			return
		}

		value, _ := amount.Float64()
		totals[times.Day(date)] += value
	}

	if query.Kind == forecastdomain.KindUsage {
		for _, record := range d.usage {
			add(record.Date, record.Provider, record.GPUType, record.Amount)
		}
	} else {
		for _, record := range d.costs {
			add(record.Date, record.Provider, record.GPUType, record.Amount)
		}
	}

	var series []forecastdomain.SeriesPoint

	times.EachDay(d.start, d.end, func(day time.Time) {
		if value, ok := totals[day]; ok {
			series = append(series, forecastdomain.SeriesPoint{Date: day, Value: value})
		}
	})

	return series, nil
}

func (d *Dataset) GetJobRecords(_ context.Context, start, end time.Time) ([]recdomain.JobRecord, error) {
	var out []recdomain.JobRecord

	for _, job := range d.jobs {
		if inWindow(job.StartTime, start, end) {
			out = append(out, job)
		}
	}

	return out, nil
}

func (d *Dataset) GetCostRecords(_ context.Context, start, end time.Time) ([]recdomain.CostRecord, error) {
	var out []recdomain.CostRecord

	for _, record := range d.costs {
		if inWindow(record.Date, start, end) {
			out = append(out, record)
		}
	}

	return out, nil
}

func (d *Dataset) GetUsageRecords(_ context.Context, start, end time.Time) ([]recdomain.UsageRecord, error) {
	var out []recdomain.UsageRecord

	for _, record := range d.usage {
		if inWindow(record.Date, start, end) {
			out = append(out, record)
		}
	}

	return out, nil
}

func inWindow(t, start, end time.Time) bool {
	day := times.Day(t)
	return !day.Before(times.Day(start)) && !day.After(times.Day(end))
}
