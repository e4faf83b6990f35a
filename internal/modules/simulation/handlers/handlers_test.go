package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costsim/internal/modules/execution"
	"github.com/costsim/internal/modules/fees"
	"github.com/costsim/internal/modules/impact"
	"github.com/costsim/internal/modules/simulation"
)

func newRouter() *chi.Mux {
	model := impact.NewModel(impact.Coefficients{
		ImpactFactor:     0.1,
		VolatilityFactor: 0.05,
		RiskAversion:     0.5,
	}, zerolog.Nop())
	optimizer := execution.NewOptimizer(model, execution.DefaultSteps, zerolog.Nop())
	service := simulation.NewService(model, optimizer, fees.DefaultSchedule(), "Tier 1", zerolog.Nop())
	handler := NewHandler(service, zerolog.Nop())

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func TestHandleSimulate(t *testing.T) {
	router := newRouter()

	body := `{
		"quantity": 1000,
		"side": "buy",
		"horizon": 2.0,
		"price": 50000,
		"volatility": 0.02,
		"book_depth": 100000
	}`
	req := httptest.NewRequest(http.MethodPost, "/simulation", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var report simulation.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "Tier 1", report.FeeTier)
	assert.Greater(t, report.TotalCost, 0.0)
	assert.Len(t, report.Schedule.TradeSizes, execution.DefaultSteps)
}

func TestHandleSimulate_InvalidRequest(t *testing.T) {
	router := newRouter()

	body := `{"quantity": 0, "price": 50000, "horizon": 1}`
	req := httptest.NewRequest(http.MethodPost, "/simulation", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "quantity")
}

func TestHandleSimulate_MalformedBody(t *testing.T) {
	router := newRouter()

	req := httptest.NewRequest(http.MethodPost, "/simulation", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
