// Package simulation orchestrates a full trade-cost simulation: it resolves
// market inputs from the request (directly supplied values or a book
// snapshot), prices the order with the impact model, plans the execution
// schedule and adds exchange fees and walk-the-book slippage into a single
// report.
package simulation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/costsim/internal/modules/book"
	"github.com/costsim/internal/modules/execution"
	"github.com/costsim/internal/modules/fees"
	"github.com/costsim/internal/modules/impact"
	"github.com/costsim/pkg/formulas"
)

// depthLevels is how many price levels count towards book depth when the
// request supplies a snapshot instead of an explicit depth.
const depthLevels = 10

// Request describes one hypothetical order. Price, volatility and book
// depth may be omitted when they can be derived from Book or MidHistory.
type Request struct {
	Quantity   float64        `json:"quantity"`
	Side       book.Side      `json:"side"`
	Horizon    float64        `json:"horizon"` // execution horizon in hours
	Price      float64        `json:"price,omitempty"`
	Volatility *float64       `json:"volatility,omitempty"`
	BookDepth  float64        `json:"book_depth,omitempty"`
	FeeTier    string         `json:"fee_tier,omitempty"`
	Book       *book.Snapshot `json:"book,omitempty"`
	MidHistory []float64      `json:"mid_history,omitempty"`
}

// Slippage is the walk-the-book result, present only when the request
// carried a snapshot with enough liquidity.
type Slippage struct {
	Amount  float64 `json:"amount"`  // price deviation from the best quote, per unit
	Percent float64 `json:"percent"` // deviation as percent of the best quote
	Cost    float64 `json:"cost"`    // Amount * quantity
}

// Report is the result of one simulation run.
type Report struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	// Resolved inputs the models were actually called with.
	Quantity   float64   `json:"quantity"`
	Side       book.Side `json:"side"`
	Horizon    float64   `json:"horizon"`
	Price      float64   `json:"price"`
	Volatility float64   `json:"volatility"`
	BookDepth  float64   `json:"book_depth"`
	FeeTier    string    `json:"fee_tier"`

	Impact   impact.Estimate    `json:"impact"`
	Schedule execution.Schedule `json:"schedule"`
	FeeCost  float64            `json:"fee_cost"`
	Slippage *Slippage          `json:"slippage,omitempty"`

	// Book context, present when the request carried a snapshot.
	SpreadPercent *float64 `json:"spread_percent,omitempty"`
	Imbalance     *float64 `json:"imbalance,omitempty"`

	// TotalCost aggregates impact, fees and slippage cost.
	TotalCost float64 `json:"total_cost"`
}

// Service runs trade-cost simulations. It is stateless between calls.
type Service struct {
	model       *impact.Model
	optimizer   *execution.Optimizer
	feeSchedule *fees.Schedule
	defaultTier string
	log         zerolog.Logger
}

// NewService creates a simulation service.
func NewService(
	model *impact.Model,
	optimizer *execution.Optimizer,
	feeSchedule *fees.Schedule,
	defaultTier string,
	log zerolog.Logger,
) *Service {
	return &Service{
		model:       model,
		optimizer:   optimizer,
		feeSchedule: feeSchedule,
		defaultTier: defaultTier,
		log:         log.With().Str("component", "simulation").Logger(),
	}
}

// Run executes one simulation. Only structurally invalid requests fail
// (non-positive quantity, no resolvable price, unknown fee tier); market
// degeneracies are absorbed by the models and show up as zeroed impact
// components in the report.
func (s *Service) Run(req Request) (*Report, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be > 0, got %v", req.Quantity)
	}

	side := req.Side
	if side == "" {
		side = book.Buy
	}
	if side != book.Buy && side != book.Sell {
		return nil, fmt.Errorf("unknown side %q", side)
	}

	price, err := s.resolvePrice(req)
	if err != nil {
		return nil, err
	}
	volatility := s.resolveVolatility(req)
	depth := s.resolveDepth(req, side)

	tier := req.FeeTier
	if tier == "" {
		tier = s.defaultTier
	}
	// Simulated orders are market orders, so they take liquidity.
	feeCost, err := s.feeSchedule.Cost(price*req.Quantity, tier, fees.Taker)
	if err != nil {
		return nil, err
	}

	snap := impact.Snapshot{Price: price, Volatility: volatility, BookDepth: depth}
	estimate := s.model.Estimate(req.Quantity, snap)
	schedule := s.optimizer.Optimize(req.Quantity, req.Horizon, snap)

	report := &Report{
		ID:         uuid.New().String(),
		Timestamp:  time.Now().UTC(),
		Quantity:   req.Quantity,
		Side:       side,
		Horizon:    req.Horizon,
		Price:      price,
		Volatility: volatility,
		BookDepth:  depth,
		FeeTier:    tier,
		Impact:     estimate,
		Schedule:   schedule,
		FeeCost:    feeCost,
		TotalCost:  estimate.Total + feeCost,
	}

	if req.Book != nil {
		spreadPct := req.Book.SpreadPercent()
		imbalance := req.Book.Imbalance()
		report.SpreadPercent = &spreadPct
		report.Imbalance = &imbalance

		if amount, percent, ok := req.Book.EstimateSlippage(req.Quantity, side); ok {
			slip := &Slippage{Amount: amount, Percent: percent, Cost: amount * req.Quantity}
			report.Slippage = slip
			report.TotalCost += slip.Cost
		} else {
			s.log.Warn().
				Float64("quantity", req.Quantity).
				Str("side", string(side)).
				Msg("Book snapshot cannot fill simulated order, slippage omitted")
		}
	}

	s.log.Debug().
		Str("id", report.ID).
		Float64("total_cost", report.TotalCost).
		Msg("Simulation completed")

	return report, nil
}

// resolvePrice prefers an explicit price, then the snapshot mid price.
func (s *Service) resolvePrice(req Request) (float64, error) {
	if req.Price > 0 {
		return req.Price, nil
	}
	if req.Book != nil {
		if mid, ok := req.Book.MidPrice(); ok {
			return mid, nil
		}
	}
	return 0, fmt.Errorf("no price supplied and none derivable from book snapshot")
}

// resolveVolatility prefers an explicit value, then realized volatility
// from the supplied mid-price history. Absent both, zero volatility is
// passed through; the models treat it as a valid calm-market input.
func (s *Service) resolveVolatility(req Request) float64 {
	if req.Volatility != nil {
		return *req.Volatility
	}
	return formulas.RealizedVolatility(req.MidHistory)
}

// resolveDepth prefers an explicit depth, then the volume on the side of
// the book the order would consume.
func (s *Service) resolveDepth(req Request, side book.Side) float64 {
	if req.BookDepth > 0 {
		return req.BookDepth
	}
	if req.Book == nil {
		return 0
	}
	bidDepth, askDepth := req.Book.Depth(depthLevels)
	if side == book.Buy {
		return askDepth
	}
	return bidDepth
}
