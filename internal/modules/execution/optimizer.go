// Package execution computes multi-step execution schedules that balance
// market-impact cost against timing risk.
package execution

import (
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/costsim/internal/modules/impact"
)

// DefaultSteps is the number of child trades a parent order is split into
// when no explicit step count is configured.
const DefaultSteps = 10

// Schedule is the result of one optimizer call: a weighted partition of the
// parent order over the time horizon with per-step impact estimates.
// Weights sum to 1 and trade sizes sum to the total quantity, both within
// floating tolerance. An empty Schedule (nil slices, zero totals) signals a
// contained fault; ExpectedPrice then falls back to the input price.
type Schedule struct {
	Weights       []float64         `json:"schedule"`
	TradeSizes    []float64         `json:"trade_sizes"`
	Impacts       []impact.Estimate `json:"impacts"`
	TotalImpact   float64           `json:"total_impact"`
	ExpectedPrice float64           `json:"expected_price"`
	TimePerStep   float64           `json:"time_per_step"`
}

// Optimizer discretizes a parent order into an execution trajectory and
// prices it with the impact model. It holds no state between calls; each
// call is independently reproducible given identical inputs.
type Optimizer struct {
	model *impact.Model
	steps int
	log   zerolog.Logger
}

// NewOptimizer creates a schedule optimizer on top of the given impact
// model. A non-positive steps value falls back to DefaultSteps.
func NewOptimizer(model *impact.Model, steps int, log zerolog.Logger) *Optimizer {
	if steps <= 0 {
		steps = DefaultSteps
	}
	return &Optimizer{
		model: model,
		steps: steps,
		log:   log.With().Str("component", "execution_optimizer").Logger(),
	}
}

// Steps returns the number of child trades per schedule.
func (o *Optimizer) Steps() int {
	return o.steps
}

// Optimize computes the execution schedule for totalQuantity units over the
// targetTime horizon at the given market state.
//
// A risk-averse trader (RiskAversion > 0) gets an exponentially
// front-loaded trajectory: trading faster early reduces exposure to price
// uncertainty at the cost of higher instantaneous impact. A risk-neutral
// trader gets a linearly decaying profile, since there is no penalty for
// taking time. Snapshot parameters are held constant across steps; no
// intra-schedule price drift is modeled.
//
// Faults (non-positive targetTime, degenerate weights) are contained: the
// call logs the condition and returns an empty Schedule with ExpectedPrice
// falling back to the input price. It never panics, which matters because
// it may run repeatedly inside an interactive simulation loop where one bad
// tick must not abort the session. A zero totalQuantity is a valid
// degenerate case, not a fault: it yields all-zero trade sizes.
func (o *Optimizer) Optimize(totalQuantity, targetTime float64, snap impact.Snapshot) Schedule {
	fallback := Schedule{ExpectedPrice: snap.Price}

	if targetTime <= 0 || !finite(targetTime) {
		o.log.Error().
			Float64("target_time", targetTime).
			Float64("total_quantity", totalQuantity).
			Msg("Contained fault in schedule optimization: non-positive time horizon")
		return fallback
	}

	timePerStep := targetTime / float64(o.steps)
	weights := o.tradingTrajectory()

	sum := floats.Sum(weights)
	if sum <= 0 || !finite(sum) {
		o.log.Error().
			Float64("weight_sum", sum).
			Float64("risk_aversion", o.model.Coefficients().RiskAversion).
			Msg("Contained fault in schedule optimization: degenerate weight profile")
		return fallback
	}
	floats.Scale(1/sum, weights)

	tradeSizes := make([]float64, o.steps)
	for i, w := range weights {
		tradeSizes[i] = w * totalQuantity
	}

	// Steps are evaluated independently; the estimator contains its own
	// faults, so a bad snapshot degrades to zero per-step impacts.
	impacts := make([]impact.Estimate, o.steps)
	totalImpact := 0.0
	for i, size := range tradeSizes {
		impacts[i] = o.model.Estimate(size, snap)
		totalImpact += impacts[i].Total
	}

	if !finite(totalImpact) {
		o.log.Error().
			Float64("total_quantity", totalQuantity).
			Float64("price", snap.Price).
			Msg("Contained fault in schedule optimization: non-finite aggregate impact")
		return fallback
	}

	expectedPrice := snap.Price
	if totalQuantity > 0 {
		expectedPrice = snap.Price - totalImpact/totalQuantity
	}

	return Schedule{
		Weights:       weights,
		TradeSizes:    tradeSizes,
		Impacts:       impacts,
		TotalImpact:   totalImpact,
		ExpectedPrice: expectedPrice,
		TimePerStep:   timePerStep,
	}
}

// tradingTrajectory produces the unnormalized step weights. Exponential
// decay front-loads the schedule in proportion to risk aversion; a
// risk-neutral trader spreads the order evenly. The uniform profile is the
// riskAversion -> 0 limit of the exponential one, which keeps the first
// step's weight non-decreasing in risk aversion across the whole range.
func (o *Optimizer) tradingTrajectory() []float64 {
	riskAversion := o.model.Coefficients().RiskAversion
	n := float64(o.steps)

	weights := make([]float64, o.steps)
	for i := range weights {
		if riskAversion > 0 {
			weights[i] = math.Exp(-riskAversion * float64(i) / n)
		} else {
			weights[i] = 1
		}
	}
	return weights
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
