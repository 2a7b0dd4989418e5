// Package app wires configuration, solver, metrics, MQTT and the HTTP API
// into a runnable service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/andig/evopt/api"
	"github.com/andig/evopt/config"
	coremetrics "github.com/andig/evopt/core/metrics"
	"github.com/andig/evopt/infra/logger"
	"github.com/andig/evopt/infra/metrics"
	"github.com/andig/evopt/infra/mqtt"
	"github.com/andig/evopt/infra/solver"
)

// Service hosts the optimization API.
type Service struct {
	cfg       *config.Config
	router    http.Handler
	publisher mqtt.Publisher
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	var publisher mqtt.Publisher
	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		publisher = pub
	}

	bb := solver.New(cfg.Solver.BranchConfig(), logger.New("solver"))
	handler := api.NewHandler(bb, api.Defaults{
		EtaC: cfg.Solver.EtaC,
		EtaD: cfg.Solver.EtaD,
		BigM: cfg.Solver.BigM,
	}, sink, publisher, logger.New("api"))

	return &Service{
		cfg:       cfg,
		router:    api.NewRouter(handler),
		publisher: publisher,
		log:       logg,
	}, nil
}

// Run serves the API until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: s.router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("server shutdown: %v", err)
		}
	}()

	s.log.Infof("listening on %s", s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.publisher != nil {
		return s.publisher.Close()
	}
	return nil
}
