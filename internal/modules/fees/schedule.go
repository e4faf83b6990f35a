// Package fees provides the exchange fee schedule used to price simulated
// orders. Rates are static configuration, keyed by fee tier and by whether
// the order adds (maker) or removes (taker) liquidity.
package fees

import (
	"fmt"
	"sort"
)

// Role describes which side of the liquidity ledger an order falls on.
type Role string

const (
	Maker Role = "maker"
	Taker Role = "taker"
)

// Rates holds the maker and taker fee rates for one tier, as decimals
// (0.001 = 10 bps).
type Rates struct {
	Maker float64 `json:"maker"`
	Taker float64 `json:"taker"`
}

// Schedule maps fee tiers to rates.
type Schedule struct {
	tiers map[string]Rates
}

// NewSchedule creates a fee schedule from the given tier table.
func NewSchedule(tiers map[string]Rates) *Schedule {
	copied := make(map[string]Rates, len(tiers))
	for tier, rates := range tiers {
		copied[tier] = rates
	}
	return &Schedule{tiers: copied}
}

// DefaultSchedule returns the OKX spot fee structure.
func DefaultSchedule() *Schedule {
	return NewSchedule(map[string]Rates{
		"Tier 1": {Maker: 0.0008, Taker: 0.0010},
		"Tier 2": {Maker: 0.0006, Taker: 0.0008},
		"Tier 3": {Maker: 0.0004, Taker: 0.0006},
		"Tier 4": {Maker: 0.0002, Taker: 0.0004},
		"Tier 5": {Maker: 0.0000, Taker: 0.0002},
	})
}

// Rates returns the rates for a tier.
func (s *Schedule) Rates(tier string) (Rates, error) {
	rates, ok := s.tiers[tier]
	if !ok {
		return Rates{}, fmt.Errorf("unknown fee tier %q", tier)
	}
	return rates, nil
}

// Cost returns the fee for executing notional value under the given tier
// and liquidity role. An unknown tier is a misconfiguration and is
// rejected, unlike the market degeneracies the models absorb.
func (s *Schedule) Cost(notional float64, tier string, role Role) (float64, error) {
	rates, err := s.Rates(tier)
	if err != nil {
		return 0, err
	}

	switch role {
	case Maker:
		return notional * rates.Maker, nil
	case Taker:
		return notional * rates.Taker, nil
	default:
		return 0, fmt.Errorf("unknown liquidity role %q", role)
	}
}

// Tiers returns the known tier names, sorted for stable presentation.
func (s *Schedule) Tiers() []string {
	names := make([]string, 0, len(s.tiers))
	for tier := range s.tiers {
		names = append(names, tier)
	}
	sort.Strings(names)
	return names
}
