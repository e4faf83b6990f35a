package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-12)
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{5}))
	assert.InDelta(t, 1.0, StdDev([]float64{1, 2, 3}), 1e-12)
}

func TestReturns(t *testing.T) {
	assert.Empty(t, Returns([]float64{100}))

	returns := Returns([]float64{100, 110, 99})
	assert.InDelta(t, 0.10, returns[0], 1e-12)
	assert.InDelta(t, -0.10, returns[1], 1e-12)

	// A zero price contributes a zero return instead of dividing by zero
	withZero := Returns([]float64{0, 50})
	assert.Equal(t, 0.0, withZero[0])
}

func TestRealizedVolatility(t *testing.T) {
	assert.Equal(t, 0.0, RealizedVolatility(nil))
	assert.Equal(t, 0.0, RealizedVolatility([]float64{100, 101}), "a single return carries no volatility")
	assert.Greater(t, RealizedVolatility([]float64{100, 102, 99, 103}), 0.0)
	assert.Equal(t, 0.0, RealizedVolatility([]float64{100, 100, 100}), "a flat series has zero volatility")
}
