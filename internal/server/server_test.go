package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costsim/internal/config"
	"github.com/costsim/internal/modules/execution"
	executionhandlers "github.com/costsim/internal/modules/execution/handlers"
	"github.com/costsim/internal/modules/fees"
	feeshandlers "github.com/costsim/internal/modules/fees/handlers"
	"github.com/costsim/internal/modules/impact"
	impacthandlers "github.com/costsim/internal/modules/impact/handlers"
	"github.com/costsim/internal/modules/simulation"
	simulationhandlers "github.com/costsim/internal/modules/simulation/handlers"
)

func newTestServer() *Server {
	log := zerolog.Nop()
	cfg := &config.Config{
		Port:           0,
		DevMode:        true,
		Coefficients:   impact.Coefficients{ImpactFactor: 0.1, VolatilityFactor: 0.05, RiskAversion: 0.5},
		ScheduleSteps:  10,
		DefaultFeeTier: "Tier 1",
	}

	model := impact.NewModel(cfg.Coefficients, log)
	optimizer := execution.NewOptimizer(model, cfg.ScheduleSteps, log)
	feeSchedule := fees.DefaultSchedule()
	simService := simulation.NewService(model, optimizer, feeSchedule, cfg.DefaultFeeTier, log)

	return New(Config{
		Log:                log,
		Config:             cfg,
		ImpactHandlers:     impacthandlers.NewHandler(model, log),
		ExecutionHandlers:  executionhandlers.NewHandler(optimizer, log),
		SimulationHandlers: simulationhandlers.NewHandler(simService, log),
		FeesHandlers:       feeshandlers.NewHandler(feeSchedule, log),
	})
}

func TestServer_HealthEndpoint(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestServer_RoutesRegistered(t *testing.T) {
	srv := newTestServer()

	testCases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/api/impact/estimate", `{"quantity":1,"price":1,"volatility":0.01,"book_depth":10}`},
		{http.MethodGet, "/api/impact/coefficients", ""},
		{http.MethodPost, "/api/execution/optimize", `{"total_quantity":1,"target_time":1,"price":1,"volatility":0.01,"book_depth":10}`},
		{http.MethodPost, "/api/simulation", `{"quantity":1,"price":1,"horizon":1}`},
		{http.MethodGet, "/api/fees", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			var req *http.Request
			if tc.body != "" {
				req = httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			} else {
				req = httptest.NewRequest(tc.method, tc.path, nil)
			}
			rec := httptest.NewRecorder()
			srv.router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestServer_UnknownRoute(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
