package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusRecorderCounters(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.IncStageResult("generate", ResultSuccess)
	rec.IncStageResult("generate", ResultSuccess)
	rec.IncStageResult("manifest", ResultWarning)
	rec.IncRunOutcome("success")
	rec.IncPageOutcome("written")
	rec.IncConverterUse("native")
	rec.SetModulesDiscovered(12)
	rec.ObserveStageDuration("generate", 2*time.Second)
	rec.ObserveRunDuration(5 * time.Second)

	if got := testutil.ToFloat64(rec.stageResults.WithLabelValues("generate", "success")); got != 2 {
		t.Fatalf("stage results = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rec.runOutcome.WithLabelValues("success")); got != 1 {
		t.Fatalf("run outcome = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.converterUse.WithLabelValues("native")); got != 1 {
		t.Fatalf("converter use = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.modules); got != 12 {
		t.Fatalf("modules gauge = %v, want 12", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *PrometheusRecorder
	rec.IncStageResult("generate", ResultFatal)
	rec.ObserveRunDuration(time.Second)
	rec.IncPageOutcome("written")
	rec.SetModulesDiscovered(1)
}

func TestNoopRecorderImplementsInterface(t *testing.T) {
	var _ Recorder = NoopRecorder{}
	var _ Recorder = &PrometheusRecorder{}
}
