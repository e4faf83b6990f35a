// Package handlers provides HTTP handlers for execution schedule optimization.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/costsim/internal/modules/execution"
	"github.com/costsim/internal/modules/impact"
)

// Handler handles schedule optimization HTTP requests
type Handler struct {
	optimizer *execution.Optimizer
	log       zerolog.Logger
}

// NewHandler creates a new execution handler
func NewHandler(optimizer *execution.Optimizer, log zerolog.Logger) *Handler {
	return &Handler{
		optimizer: optimizer,
		log:       log.With().Str("handler", "execution").Logger(),
	}
}

// RegisterRoutes registers all execution routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/execution", func(r chi.Router) {
		r.Post("/optimize", h.HandleOptimize)
	})
}

type optimizeRequest struct {
	TotalQuantity float64 `json:"total_quantity"`
	TargetTime    float64 `json:"target_time"`
	Price         float64 `json:"price"`
	Volatility    float64 `json:"volatility"`
	BookDepth     float64 `json:"book_depth"`
}

// HandleOptimize handles POST /api/execution/optimize
func (h *Handler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	schedule := h.optimizer.Optimize(req.TotalQuantity, req.TargetTime, impact.Snapshot{
		Price:      req.Price,
		Volatility: req.Volatility,
		BookDepth:  req.BookDepth,
	})

	h.writeJSON(w, http.StatusOK, schedule)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
