// Package impact implements the Almgren-Chriss style market impact model.
//
// The model estimates the cost of executing a single trade against limited
// liquidity: a temporary impact that reverts after the trade completes and a
// permanent impact reflecting the lasting price-level shift. Both are scaled
// by three coefficients fixed at construction and never mutated afterwards,
// so a Model is safe for unsynchronized concurrent use.
package impact

import (
	"math"

	"github.com/rs/zerolog"
)

// permanentImpactScale fixes the permanent impact at a fraction of the
// temporary impact magnitude. Calibrated against the acceptance scenarios.
const permanentImpactScale = 0.1

// Coefficients holds the model calibration. All three are expected to be
// non-negative and are supplied externally (configuration), never derived
// by the model itself.
type Coefficients struct {
	// ImpactFactor scales the temporary impact of a trade.
	ImpactFactor float64 `json:"impact_factor"`
	// VolatilityFactor scales the permanent impact of a trade.
	VolatilityFactor float64 `json:"volatility_factor"`
	// RiskAversion controls trajectory urgency: higher values front-load
	// execution schedules and amplify cost estimates under volatility.
	RiskAversion float64 `json:"risk_aversion"`
}

// Snapshot is the point-in-time market state used for one estimate call.
// It is constructed by the caller and not retained by the model. No
// freshness or staleness assumption is made here.
type Snapshot struct {
	Price      float64 `json:"price"`
	Volatility float64 `json:"volatility"`
	BookDepth  float64 `json:"book_depth"`
}

// Estimate is the decomposed cost of a single trade. Temporary, Permanent
// and Total are in price units; Percentage is the total impact as a percent
// of the trade notional.
type Estimate struct {
	Temporary  float64 `json:"temporary_impact"`
	Permanent  float64 `json:"permanent_impact"`
	Total      float64 `json:"total_impact"`
	Percentage float64 `json:"impact_percentage"`
}

// Model estimates the market impact of individual trades.
type Model struct {
	coeffs Coefficients
	log    zerolog.Logger
}

// NewModel creates an impact model with the given coefficients.
func NewModel(coeffs Coefficients, log zerolog.Logger) *Model {
	return &Model{
		coeffs: coeffs,
		log:    log.With().Str("component", "impact_model").Logger(),
	}
}

// Coefficients returns the calibration the model was constructed with.
func (m *Model) Coefficients() Coefficients {
	return m.coeffs
}

// Estimate computes the market impact of trading quantity units at the
// given market state.
//
// The temporary impact follows a square-root law in volatility and grows
// linearly with order size relative to book depth; the permanent impact is
// linear in volatility via VolatilityFactor. Risk aversion amplifies the
// total under higher volatility.
//
// No precondition is enforced by rejection: degenerate inputs produce a
// best-effort or zeroed result. Any arithmetic fault (negative volatility
// under the square root, overflow) is contained — the call logs the fault
// and returns an all-zero Estimate rather than panicking, which makes it
// safe inside tight simulation loops over partially-invalid snapshots.
func (m *Model) Estimate(quantity float64, snap Snapshot) Estimate {
	// Normalize order size by available liquidity. A non-positive depth
	// falls back to the raw quantity so the magnitude stays usable.
	normalized := quantity
	if snap.BookDepth > 0 {
		normalized = quantity / snap.BookDepth
	}

	temporary := m.coeffs.ImpactFactor * normalized * snap.Price * math.Sqrt(snap.Volatility)
	permanent := m.coeffs.ImpactFactor * normalized * snap.Price * m.coeffs.VolatilityFactor * permanentImpactScale
	total := (temporary + permanent) * (1 + m.coeffs.RiskAversion*snap.Volatility)

	percentage := 0.0
	if notional := snap.Price * quantity; notional > 0 {
		percentage = total / notional * 100
	}

	est := Estimate{
		Temporary:  temporary,
		Permanent:  permanent,
		Total:      total,
		Percentage: percentage,
	}

	if !finite(est.Temporary) || !finite(est.Permanent) || !finite(est.Total) || !finite(est.Percentage) {
		m.log.Error().
			Float64("quantity", quantity).
			Float64("price", snap.Price).
			Float64("volatility", snap.Volatility).
			Float64("book_depth", snap.BookDepth).
			Msg("Contained arithmetic fault in impact estimate, returning zero result")
		return Estimate{}
	}

	return est
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
