package execution

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/costsim/internal/modules/impact"
)

func newOptimizer(riskAversion float64) *Optimizer {
	model := impact.NewModel(impact.Coefficients{
		ImpactFactor:     0.1,
		VolatilityFactor: 0.05,
		RiskAversion:     riskAversion,
	}, zerolog.Nop())
	return NewOptimizer(model, DefaultSteps, zerolog.Nop())
}

func marketSnapshot() impact.Snapshot {
	return impact.Snapshot{Price: 50000, Volatility: 0.02, BookDepth: 100000}
}

func TestOptimizer_Optimize_SumInvariants(t *testing.T) {
	opt := newOptimizer(0.5)

	schedule := opt.Optimize(10000, 2.0, marketSnapshot())

	require.Len(t, schedule.Weights, DefaultSteps)
	require.Len(t, schedule.TradeSizes, DefaultSteps)
	require.Len(t, schedule.Impacts, DefaultSteps)

	assert.InDelta(t, 1.0, floats.Sum(schedule.Weights), 1e-9, "weights must sum to 1")
	assert.InDelta(t, 10000.0, floats.Sum(schedule.TradeSizes), 1e-6, "trade sizes must sum to the total quantity")
	assert.InDelta(t, 0.2, schedule.TimePerStep, 1e-9)
}

func TestOptimizer_Optimize_RiskNeutralIsUniform(t *testing.T) {
	opt := newOptimizer(0)

	schedule := opt.Optimize(10000, 2.0, marketSnapshot())

	require.Len(t, schedule.TradeSizes, DefaultSteps)
	assert.InDelta(t, 10000.0, floats.Sum(schedule.TradeSizes), 1e-6)
	for i, size := range schedule.TradeSizes {
		assert.InDelta(t, 1000.0, size, 1e-9, "step %d", i)
	}
}

func TestOptimizer_Optimize_RiskAverseFrontLoads(t *testing.T) {
	opt := newOptimizer(2.0)

	schedule := opt.Optimize(10000, 2.0, marketSnapshot())

	for i := 1; i < len(schedule.TradeSizes); i++ {
		assert.Less(t, schedule.TradeSizes[i], schedule.TradeSizes[i-1],
			"front-loaded schedule must strictly decrease at step %d", i)
	}
}

func TestOptimizer_Optimize_FirstWeightMonotoneInRiskAversion(t *testing.T) {
	previous := 0.0
	for _, riskAversion := range []float64{0, 0.1, 0.5, 1, 2, 5} {
		schedule := newOptimizer(riskAversion).Optimize(10000, 2.0, marketSnapshot())
		require.NotEmpty(t, schedule.Weights, "risk aversion %v", riskAversion)

		first := schedule.Weights[0]
		assert.GreaterOrEqual(t, first, previous,
			"first-step weight must be non-decreasing in risk aversion (at %v)", riskAversion)
		previous = first
	}
}

func TestOptimizer_Optimize_TotalImpactMatchesSteps(t *testing.T) {
	opt := newOptimizer(0.5)
	snap := marketSnapshot()

	schedule := opt.Optimize(10000, 2.0, snap)

	sum := 0.0
	for _, est := range schedule.Impacts {
		assert.Greater(t, est.Total, 0.0)
		sum += est.Total
	}
	assert.InDelta(t, sum, schedule.TotalImpact, 1e-9)
	assert.InDelta(t, snap.Price-schedule.TotalImpact/10000, schedule.ExpectedPrice, 1e-9)
	assert.Less(t, schedule.ExpectedPrice, snap.Price)
}

func TestOptimizer_Optimize_ZeroQuantityIsDegenerateNotFault(t *testing.T) {
	opt := newOptimizer(0.5)
	snap := marketSnapshot()

	schedule := opt.Optimize(0, 2.0, snap)

	require.Len(t, schedule.TradeSizes, DefaultSteps)
	for _, size := range schedule.TradeSizes {
		assert.Equal(t, 0.0, size)
	}
	assert.Equal(t, 0.0, schedule.TotalImpact)
	assert.Equal(t, snap.Price, schedule.ExpectedPrice, "price falls back unadjusted")
}

func TestOptimizer_Optimize_NonPositiveHorizonContained(t *testing.T) {
	var buf bytes.Buffer
	model := impact.NewModel(impact.Coefficients{ImpactFactor: 0.1, RiskAversion: 0.5}, zerolog.Nop())
	opt := NewOptimizer(model, DefaultSteps, zerolog.New(&buf))
	snap := marketSnapshot()

	schedule := opt.Optimize(10000, 0, snap)

	assert.Empty(t, schedule.Weights)
	assert.Empty(t, schedule.TradeSizes)
	assert.Empty(t, schedule.Impacts)
	assert.Equal(t, 0.0, schedule.TotalImpact)
	assert.Equal(t, 0.0, schedule.TimePerStep)
	assert.Equal(t, snap.Price, schedule.ExpectedPrice)
	assert.Contains(t, buf.String(), "Contained fault")
}

func TestOptimizer_Optimize_BadSnapshotDegradesToZeroImpacts(t *testing.T) {
	// A negative volatility poisons every per-step estimate; the estimator
	// contains each one and the schedule itself stays structurally valid.
	opt := newOptimizer(0.5)

	schedule := opt.Optimize(10000, 2.0, impact.Snapshot{Price: 50000, Volatility: -1, BookDepth: 100000})

	require.Len(t, schedule.Impacts, DefaultSteps)
	for _, est := range schedule.Impacts {
		assert.Equal(t, impact.Estimate{}, est)
	}
	assert.Equal(t, 0.0, schedule.TotalImpact)
	assert.InDelta(t, 10000.0, floats.Sum(schedule.TradeSizes), 1e-6)
}

func TestOptimizer_Optimize_Reproducible(t *testing.T) {
	opt := newOptimizer(1.0)
	snap := marketSnapshot()

	first := opt.Optimize(10000, 2.0, snap)
	second := opt.Optimize(10000, 2.0, snap)

	assert.Equal(t, first, second, "calls must be independently reproducible")
}

func TestNewOptimizer_StepsFallback(t *testing.T) {
	model := impact.NewModel(impact.Coefficients{}, zerolog.Nop())

	assert.Equal(t, DefaultSteps, NewOptimizer(model, 0, zerolog.Nop()).Steps())
	assert.Equal(t, DefaultSteps, NewOptimizer(model, -3, zerolog.Nop()).Steps())
	assert.Equal(t, 25, NewOptimizer(model, 25, zerolog.Nop()).Steps())
}
