package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/andig/evopt/core/metrics"
)

func TestPromSink_RecordSolve(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSink(reg)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	rec := coremetrics.SolveRecord{
		Status:   "Optimal",
		Strategy: "charge_before_export",
		Duration: 200 * time.Millisecond,
	}
	if err := sink.RecordSolve(rec); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := sink.RecordSolve(rec); err != nil {
		t.Fatalf("record: %v", err)
	}

	got := testutil.ToFloat64(sink.solves.WithLabelValues("Optimal", "charge_before_export"))
	if got != 2 {
		t.Fatalf("expected 2 solves, got %v", got)
	}
}

func TestPromSink_AlreadyRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSink(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := NewPromSink(reg); err != nil {
		t.Fatalf("second register: %v", err)
	}
}
