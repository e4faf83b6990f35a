// Package handlers provides HTTP handlers for the fee schedule.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/costsim/internal/modules/fees"
)

// Handler handles fee schedule HTTP requests
type Handler struct {
	schedule *fees.Schedule
	log      zerolog.Logger
}

// NewHandler creates a new fees handler
func NewHandler(schedule *fees.Schedule, log zerolog.Logger) *Handler {
	return &Handler{
		schedule: schedule,
		log:      log.With().Str("handler", "fees").Logger(),
	}
}

// RegisterRoutes registers all fee routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/fees", h.HandleGetSchedule)
}

// HandleGetSchedule handles GET /api/fees
func (h *Handler) HandleGetSchedule(w http.ResponseWriter, r *http.Request) {
	tiers := make(map[string]fees.Rates)
	for _, tier := range h.schedule.Tiers() {
		rates, err := h.schedule.Rates(tier)
		if err != nil {
			continue
		}
		tiers[tier] = rates
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(tiers); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
