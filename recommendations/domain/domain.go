// Package domain holds the data contracts of the recommendation engine.
// Inputs arrive pre-filtered from a read-only data source; outputs are
// plain values the caller can serialize as-is.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank maps severities onto their total order. Unknown severities rank
// below low so they never survive a min-severity filter.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	default:
		return 0
	}
}

type Type string

const (
	TypeIdleGPU        Type = "idle_gpu"
	TypeLongRunningJob Type = "long_running_job"
	TypeOffHoursUsage  Type = "off_hours_usage"
)

// JobRecord is one training or inference job as reported upstream.
// EndTime is nil while the job is still running or was never closed out.
type JobRecord struct {
	ID        string     `json:"id"`
	Team      string     `json:"team"`
	ModelName string     `json:"model_name"`
	GPUType   string     `json:"gpu_type"`
	Provider  string     `json:"provider"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Status    string     `json:"status"`
}

// CostRecord is one day of spend for a (provider, gpu_type) pair.
type CostRecord struct {
	Date     time.Time       `json:"date"`
	Provider string          `json:"provider"`
	GPUType  string          `json:"gpu_type"`
	Amount   decimal.Decimal `json:"amount"`
}

// UsageRecord is one day of consumed GPU-hours for a (provider, gpu_type) pair.
type UsageRecord struct {
	Date     time.Time       `json:"date"`
	Provider string          `json:"provider"`
	GPUType  string          `json:"gpu_type"`
	Amount   decimal.Decimal `json:"amount"`
}

// DateRange echoes the analysis window in calendar-day form.
type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Evidence is the structured backing for one recommendation. Only the
// fields relevant to the producing rule are set; every savings figure
// must be recomputable from the populated fields alone.
type Evidence struct {
	DateRange *DateRange `json:"date_range,omitempty"`

	JobID           string           `json:"job_id,omitempty"`
	JobRuntimeHours *decimal.Decimal `json:"job_runtime_hours,omitempty"`
	JobStartTime    *time.Time       `json:"job_start_time,omitempty"`
	JobEndTime      *time.Time       `json:"job_end_time,omitempty"`

	TotalCostUSD       *decimal.Decimal `json:"total_cost_usd,omitempty"`
	ExpectedUsageHours *decimal.Decimal `json:"expected_usage_hours,omitempty"`
	ActualUsageHours   *decimal.Decimal `json:"actual_usage_hours,omitempty"`
	WastePercentage    *decimal.Decimal `json:"waste_percentage,omitempty"`

	GPUType   string `json:"gpu_type,omitempty"`
	Provider  string `json:"provider,omitempty"`
	TeamName  string `json:"team_name,omitempty"`
	ModelName string `json:"model_name,omitempty"`

	BusinessHoursJobCount int              `json:"business_hours_job_count,omitempty"`
	TotalRuntimeHours     *decimal.Decimal `json:"total_runtime_hours,omitempty"`
}

type Recommendation struct {
	ID               string          `json:"id"`
	Type             Type            `json:"type"`
	Severity         Severity        `json:"severity"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	EstimatedSavings decimal.Decimal `json:"estimated_savings_usd"`
	Evidence         Evidence        `json:"evidence"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Summary aggregates a filtered recommendation list.
type Summary struct {
	Total                 int              `json:"total"`
	BySeverity            map[Severity]int `json:"by_severity"`
	ByType                map[Type]int     `json:"by_type"`
	TotalEstimatedSavings decimal.Decimal  `json:"total_estimated_savings_usd"`
}

// Filters scope an evaluation run. StartDate/EndDate are required and
// the engine assumes StartDate <= EndDate; the optional fields narrow
// the returned list after the rules have run.
type Filters struct {
	StartDate time.Time
	EndDate   time.Time

	MinSeverity Severity
	MinSavings  *decimal.Decimal
	Types       []Type
}

type Response struct {
	Recommendations       []Recommendation `json:"recommendations"`
	Summary               Summary          `json:"summary"`
	DateRange             DateRange        `json:"date_range"`
	TotalEstimatedSavings decimal.Decimal  `json:"total_estimated_savings_usd"`
}
