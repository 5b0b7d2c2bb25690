// Package pricing turns wasted or shiftable GPU-hours into estimated
// dollar savings. All arithmetic is exact decimal so figures recomputed
// from recommendation evidence match to the cent.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Sarishc/Heliox-AI-sub000/config"
)

// savingsScale is the number of decimal places in reported USD amounts.
const savingsScale = 2

// Estimator converts GPU-hours into dollar savings under the configured
// cost-model assumptions.
type Estimator struct {
	assumptions config.Assumptions
}

func NewEstimator(assumptions config.Assumptions) *Estimator {
	return &Estimator{assumptions: assumptions}
}

// IdleSavings prices hours that were paid for but never used.
func (e *Estimator) IdleSavings(wastedHours decimal.Decimal) decimal.Decimal {
	return e.round(wastedHours.Mul(e.assumptions.HourlyGPUCost))
}

// LongRunningSavings prices the fraction of a long job's runtime the
// optimization-potential assumption says tuning could recover.
func (e *Estimator) LongRunningSavings(runtimeHours decimal.Decimal) decimal.Decimal {
	recoverable := runtimeHours.Mul(e.assumptions.OptimizationPotential)
	return e.round(recoverable.Mul(e.assumptions.HourlyGPUCost))
}

// OffPeakSavings prices the off-peak discount over the summed runtime of
// a team's business-hours jobs.
func (e *Estimator) OffPeakSavings(totalRuntimeHours decimal.Decimal) decimal.Decimal {
	discounted := totalRuntimeHours.Mul(e.assumptions.HourlyGPUCost)
	return e.round(discounted.Mul(e.assumptions.OffPeakDiscount))
}

// round clamps at zero and fixes the scale. Savings are never negative;
// a negative input means the caller fed in an impossible hour count.
func (e *Estimator) round(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero.Round(savingsScale)
	}

	return d.Round(savingsScale)
}
