// Package main is the entry point for the trade-cost simulator service.
// The service estimates the market impact of hypothetical orders and
// computes multi-step execution schedules balancing impact cost against
// timing risk, exposed over a small HTTP API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/costsim/internal/config"
	"github.com/costsim/internal/modules/execution"
	executionhandlers "github.com/costsim/internal/modules/execution/handlers"
	"github.com/costsim/internal/modules/fees"
	feeshandlers "github.com/costsim/internal/modules/fees/handlers"
	"github.com/costsim/internal/modules/impact"
	impacthandlers "github.com/costsim/internal/modules/impact/handlers"
	"github.com/costsim/internal/modules/simulation"
	simulationhandlers "github.com/costsim/internal/modules/simulation/handlers"
	"github.com/costsim/internal/server"
	"github.com/costsim/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	log.Info().
		Float64("impact_factor", cfg.Coefficients.ImpactFactor).
		Float64("volatility_factor", cfg.Coefficients.VolatilityFactor).
		Float64("risk_aversion", cfg.Coefficients.RiskAversion).
		Int("schedule_steps", cfg.ScheduleSteps).
		Msg("Starting trade-cost simulator")

	// Wire the models. The coefficient triple is fixed here for the
	// process lifetime and shared read-only by everything below.
	model := impact.NewModel(cfg.Coefficients, log)
	optimizer := execution.NewOptimizer(model, cfg.ScheduleSteps, log)
	feeSchedule := fees.DefaultSchedule()
	simService := simulation.NewService(model, optimizer, feeSchedule, cfg.DefaultFeeTier, log)

	srv := server.New(server.Config{
		Log:                log,
		Config:             cfg,
		ImpactHandlers:     impacthandlers.NewHandler(model, log),
		ExecutionHandlers:  executionhandlers.NewHandler(optimizer, log),
		SimulationHandlers: simulationhandlers.NewHandler(simService, log),
		FeesHandlers:       feeshandlers.NewHandler(feeSchedule, log),
	})

	// Start the server in a goroutine so we can wait for signals
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for shutdown signal or server failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		log.Error().Err(err).Msg("HTTP server stopped unexpectedly")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Simulator stopped")
}
