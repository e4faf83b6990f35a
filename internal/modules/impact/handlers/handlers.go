// Package handlers provides HTTP handlers for market impact estimation.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/costsim/internal/modules/impact"
)

// Handler handles impact estimation HTTP requests
type Handler struct {
	model *impact.Model
	log   zerolog.Logger
}

// NewHandler creates a new impact handler
func NewHandler(model *impact.Model, log zerolog.Logger) *Handler {
	return &Handler{
		model: model,
		log:   log.With().Str("handler", "impact").Logger(),
	}
}

// RegisterRoutes registers all impact routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/impact", func(r chi.Router) {
		r.Post("/estimate", h.HandleEstimate)
		r.Get("/coefficients", h.HandleCoefficients)
	})
}

type estimateRequest struct {
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
	Volatility float64 `json:"volatility"`
	BookDepth  float64 `json:"book_depth"`
}

// HandleEstimate handles POST /api/impact/estimate
func (h *Handler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	estimate := h.model.Estimate(req.Quantity, impact.Snapshot{
		Price:      req.Price,
		Volatility: req.Volatility,
		BookDepth:  req.BookDepth,
	})

	h.writeJSON(w, http.StatusOK, estimate)
}

// HandleCoefficients handles GET /api/impact/coefficients
func (h *Handler) HandleCoefficients(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.model.Coefficients())
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
