// Package api exposes the optimizer as an HTTP service. The surface is three
// routes: a solve endpoint, a canned example request and a health probe.
package api

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/andig/evopt/core/logger"
	coremetrics "github.com/andig/evopt/core/metrics"
	"github.com/andig/evopt/core/milp"
	"github.com/andig/evopt/core/optimizer"
	"github.com/andig/evopt/infra/mqtt"
)

// Defaults are the model parameters applied to requests that do not override
// them.
type Defaults struct {
	EtaC float64
	EtaD float64
	BigM float64
}

// Handler serves the optimization API.
type Handler struct {
	solver    milp.Solver
	defaults  Defaults
	sink      coremetrics.Sink
	publisher mqtt.Publisher
	log       logger.Logger
}

// NewHandler creates a Handler. sink and publisher may be nil; solver and log
// are required.
func NewHandler(solver milp.Solver, defaults Defaults, sink coremetrics.Sink, publisher mqtt.Publisher, log logger.Logger) *Handler {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Handler{solver: solver, defaults: defaults, sink: sink, publisher: publisher, log: log}
}

// NewRouter builds the gin router with all routes registered.
func NewRouter(h *Handler) *gin.Engine {
	if os.Getenv("APP_ENV") != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		h.log.Errorf("panic: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"},
		})
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.POST("/optimize/charge-schedule", h.OptimizeChargeSchedule)
	v1.GET("/optimize/example", h.OptimizeExample)

	return router
}

// OptimizeChargeSchedule handles POST /api/v1/optimize/charge-schedule.
// Solver-reported non-optimal statuses are valid outcomes and returned with
// HTTP 200; only malformed instances and adapter failures map to errors.
func (h *Handler) OptimizeChargeSchedule(c *gin.Context) {
	requestID := uuid.NewString()

	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	cfg := optimizer.Config{
		Strategy:   req.Strategy,
		Batteries:  req.Batteries,
		TimeSeries: req.TimeSeries,
		EtaC:       req.EtaC,
		EtaD:       req.EtaD,
		BigM:       req.BigM,
		Solver:     h.solver,
		Logger:     h.log,
	}
	if cfg.EtaC == 0 {
		cfg.EtaC = h.defaults.EtaC
	}
	if cfg.EtaD == 0 {
		cfg.EtaD = h.defaults.EtaD
	}
	if cfg.BigM == 0 {
		cfg.BigM = h.defaults.BigM
	}

	opt, err := optimizer.New(cfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{Code: "INVALID_INSTANCE", Message: err.Error()},
		})
		return
	}

	start := time.Now()
	res, err := opt.Solve(c.Request.Context())
	if err != nil {
		h.log.Errorf("request %s: %v", requestID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "SOLVER_ERROR", Message: err.Error()},
		})
		return
	}
	duration := time.Since(start)

	h.record(requestID, req, res, duration)
	h.publish(res)

	c.JSON(http.StatusOK, OptimizeResponse{RequestID: requestID, Result: *res})
}

func (h *Handler) record(requestID string, req OptimizeRequest, res *optimizer.Result, duration time.Duration) {
	rec := coremetrics.SolveRecord{
		RequestID: requestID,
		Strategy:  req.Strategy.ChargingStrategy,
		Status:    string(res.Status),
		Horizon:   len(req.TimeSeries.Gt),
		Batteries: len(req.Batteries),
		Duration:  duration,
		SolvedAt:  time.Now(),
	}
	if res.ObjectiveValue != nil {
		rec.Objective = *res.ObjectiveValue
	}
	if err := h.sink.RecordSolve(rec); err != nil {
		h.log.Warnf("request %s: record solve: %v", requestID, err)
	}
}

// publish pushes an optimal schedule to MQTT, one message per battery plus the
// grid flows.
func (h *Handler) publish(res *optimizer.Result) {
	if h.publisher == nil || res.Status != milp.StatusOptimal {
		return
	}
	for i, bat := range res.Batteries {
		if err := h.publisher.Publish(mqtt.ScheduleTopic(i), bat); err != nil {
			h.log.Warnf("publish battery %d schedule: %v", i, err)
		}
	}
	grid := map[string]any{
		"grid_import":    res.GridImport,
		"grid_export":    res.GridExport,
		"flow_direction": res.FlowDirection,
	}
	if err := h.publisher.Publish(mqtt.GridTopic, grid); err != nil {
		h.log.Warnf("publish grid schedule: %v", err)
	}
}

// OptimizeExample handles GET /api/v1/optimize/example.
func (h *Handler) OptimizeExample(c *gin.Context) {
	c.JSON(http.StatusOK, ExampleRequest())
}
