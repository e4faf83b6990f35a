// Package book provides pure analytics over order-book snapshots.
//
// Maintaining a live book from exchange feeds is the job of an external
// collaborator; this package only computes derived quantities (mid price,
// spread, imbalance, depth, walk-the-book slippage) over a snapshot the
// caller supplies. Nothing here holds state or performs I/O.
package book

import (
	"sort"
)

// Side of a hypothetical market order.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Level is one price level of the book.
type Level struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// Snapshot is a caller-supplied point-in-time view of the book. Levels may
// arrive in any order; all analytics sort internally.
type Snapshot struct {
	Bids []Level `json:"bids"`
	Asks []Level `json:"asks"`
}

// BestBid returns the highest bid, or false when the bid side is empty.
func (s Snapshot) BestBid() (Level, bool) {
	return best(s.Bids, func(a, b float64) bool { return a > b })
}

// BestAsk returns the lowest ask, or false when the ask side is empty.
func (s Snapshot) BestAsk() (Level, bool) {
	return best(s.Asks, func(a, b float64) bool { return a < b })
}

func best(levels []Level, better func(a, b float64) bool) (Level, bool) {
	if len(levels) == 0 {
		return Level{}, false
	}
	top := levels[0]
	for _, l := range levels[1:] {
		if better(l.Price, top.Price) {
			top = l
		}
	}
	return top, true
}

// MidPrice returns the midpoint of the best bid and ask, or false when
// either side is empty.
func (s Snapshot) MidPrice() (float64, bool) {
	bid, okBid := s.BestBid()
	ask, okAsk := s.BestAsk()
	if !okBid || !okAsk {
		return 0, false
	}
	return (bid.Price + ask.Price) / 2, true
}

// Spread returns the best ask minus the best bid, or false when either side
// is empty.
func (s Snapshot) Spread() (float64, bool) {
	bid, okBid := s.BestBid()
	ask, okAsk := s.BestAsk()
	if !okBid || !okAsk {
		return 0, false
	}
	return ask.Price - bid.Price, true
}

// SpreadPercent returns the spread as a percentage of the mid price. A
// zero or missing mid yields 0.
func (s Snapshot) SpreadPercent() float64 {
	spread, ok := s.Spread()
	if !ok {
		return 0
	}
	mid, ok := s.MidPrice()
	if !ok || mid == 0 {
		return 0
	}
	return spread / mid * 100
}

// Imbalance returns bid volume over total volume, a value in [0, 1].
// An empty book is neutral (0.5).
func (s Snapshot) Imbalance() float64 {
	var bidVolume, askVolume float64
	for _, l := range s.Bids {
		bidVolume += l.Quantity
	}
	for _, l := range s.Asks {
		askVolume += l.Quantity
	}

	total := bidVolume + askVolume
	if total == 0 {
		return 0.5
	}
	return bidVolume / total
}

// Depth returns the bid and ask volume available within the top levels
// price levels of each side.
func (s Snapshot) Depth(levels int) (bidDepth, askDepth float64) {
	bids := sortedLevels(s.Bids, true)
	asks := sortedLevels(s.Asks, false)

	for i, l := range bids {
		if i >= levels {
			break
		}
		bidDepth += l.Quantity
	}
	for i, l := range asks {
		if i >= levels {
			break
		}
		askDepth += l.Quantity
	}
	return bidDepth, askDepth
}

// EstimateSlippage walks the book for a market order of the given quantity
// and returns the price deviation from the best quote, both in price units
// and as a percentage of the best quote. Buys walk up the asks, sells walk
// down the bids. When the book cannot fill the full quantity, ok is false:
// a partial fill has no meaningful effective price.
func (s Snapshot) EstimateSlippage(quantity float64, side Side) (amount, percent float64, ok bool) {
	if quantity <= 0 {
		return 0, 0, false
	}

	var levels []Level
	switch side {
	case Buy:
		levels = sortedLevels(s.Asks, false)
	case Sell:
		levels = sortedLevels(s.Bids, true)
	default:
		return 0, 0, false
	}
	if len(levels) == 0 {
		return 0, 0, false
	}

	remaining := quantity
	cost := 0.0
	for _, l := range levels {
		if remaining <= 0 {
			break
		}
		filled := l.Quantity
		if remaining < filled {
			filled = remaining
		}
		cost += filled * l.Price
		remaining -= filled
	}
	if remaining > 0 {
		return 0, 0, false
	}

	effective := cost / quantity
	bestQuote := levels[0].Price
	if side == Buy {
		amount = effective - bestQuote
	} else {
		amount = bestQuote - effective
	}
	if bestQuote == 0 {
		return amount, 0, true
	}
	return amount, amount / bestQuote * 100, true
}

// sortedLevels returns a copy of levels sorted best-first: descending for
// bids, ascending for asks.
func sortedLevels(levels []Level, descending bool) []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	sort.Slice(out, func(i, j int) bool {
		if descending {
			return out[i].Price > out[j].Price
		}
		return out[i].Price < out[j].Price
	})
	return out
}
