package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andig/evopt/core/milp"
	"github.com/andig/evopt/core/optimizer"
	"github.com/andig/evopt/infra/logger"
	"github.com/andig/evopt/infra/mqtt"
	"github.com/andig/evopt/infra/solver"
)

func testRouter(pub mqtt.Publisher) http.Handler {
	h := NewHandler(
		solver.New(solver.Config{}, nil),
		Defaults{EtaC: 0.95, EtaD: 0.95, BigM: 1e6},
		nil,
		pub,
		logger.NopLogger{},
	)
	return NewRouter(h)
}

func smallRequest() OptimizeRequest {
	return OptimizeRequest{
		Batteries: []optimizer.BatteryConfig{{
			ChargeFromGrid:  true,
			DischargeToGrid: true,
			SMax:            5000,
			CMax:            5000,
			DMax:            5000,
		}},
		TimeSeries: optimizer.TimeSeriesData{
			Dt: []int{3600, 3600},
			Gt: []float64{1000, 1000},
			Ft: []float64{0, 0},
			PN: []float64{0.30, 0.10},
			PE: []float64{0.05, 0.05},
		},
	}
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestOptimizeChargeSchedule(t *testing.T) {
	pub := mqtt.NewMockPublisher()
	router := testRouter(pub)

	w := postJSON(t, router, "/api/v1/optimize/charge-schedule", smallRequest())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp OptimizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, milp.StatusOptimal, resp.Status)
	require.NotNil(t, resp.ObjectiveValue)
	require.Len(t, resp.Batteries, 1)
	assert.Len(t, resp.GridImport, 2)
	assert.Len(t, resp.FlowDirection, 2)

	// Schedule published per battery plus grid flows.
	assert.Contains(t, pub.Messages, mqtt.ScheduleTopic(0))
	assert.Contains(t, pub.Messages, mqtt.GridTopic)
}

func TestOptimizeInvalidInstance(t *testing.T) {
	router := testRouter(nil)

	req := smallRequest()
	req.TimeSeries.Dt = []int{3600} // length mismatch
	w := postJSON(t, router, "/api/v1/optimize/charge-schedule", req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_INSTANCE", resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Message)
}

func TestOptimizeMalformedBody(t *testing.T) {
	router := testRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/optimize/charge-schedule", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func TestOptimizeExample(t *testing.T) {
	router := testRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/optimize/example", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var ex OptimizeRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ex))
	assert.Len(t, ex.TimeSeries.Dt, 24)
	assert.Len(t, ex.TimeSeries.PN, 24)
	require.Len(t, ex.Batteries, 2)
	assert.Greater(t, ex.Batteries[1].CMin, 0.0)
}

func TestHealth(t *testing.T) {
	router := testRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExampleRequestIsValid(t *testing.T) {
	ex := ExampleRequest()
	cfg := optimizer.Config{
		Strategy:   ex.Strategy,
		Batteries:  ex.Batteries,
		TimeSeries: ex.TimeSeries,
		Solver:     solver.New(solver.Config{}, nil),
	}
	cfg.SetDefaults()
	assert.NoError(t, cfg.Validate())
}
