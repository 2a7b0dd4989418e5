// Package metrics defines the observability contract for optimization runs.
// Concrete sinks live in infra/metrics.
package metrics

import "time"

// SolveRecord captures one optimization run.
type SolveRecord struct {
	RequestID string
	Strategy  string
	Status    string
	Objective float64
	Horizon   int
	Batteries int
	Duration  time.Duration
	SolvedAt  time.Time
}

// Sink records solve outcomes.
type Sink interface {
	RecordSolve(rec SolveRecord) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordSolve(SolveRecord) error { return nil }

// Config defines settings for metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusAddr    string `json:"prometheus_addr"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9090"
	}
}
