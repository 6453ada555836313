package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	stageDuration *prom.HistogramVec
	runDuration   prom.Histogram
	stageResults  *prom.CounterVec
	runOutcome    *prom.CounterVec
	pageOutcome   *prom.CounterVec
	converterUse  *prom.CounterVec
	modules       prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "apidocgen",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "apidocgen",
			Name:      "run_duration_seconds",
			Help:      "Total build run duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "apidocgen",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "apidocgen",
			Name:      "run_outcomes_total",
			Help:      "Run outcomes by final status",
		}, []string{"outcome"})
		pr.pageOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "apidocgen",
			Name:      "pages_total",
			Help:      "Page results by outcome",
		}, []string{"outcome"})
		pr.converterUse = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "apidocgen",
			Name:      "converter_pages_total",
			Help:      "Successful pages per converter",
		}, []string{"converter"})
		pr.modules = prom.NewGauge(prom.GaugeOpts{
			Namespace: "apidocgen",
			Name:      "modules_discovered",
			Help:      "Modules discovered in the last run",
		})
		reg.MustRegister(pr.stageDuration, pr.runDuration, pr.stageResults,
			pr.runOutcome, pr.pageOutcome, pr.converterUse, pr.modules)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncPageOutcome(outcome string) {
	if p == nil || p.pageOutcome == nil {
		return
	}
	p.pageOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncConverterUse(converter string) {
	if p == nil || p.converterUse == nil {
		return
	}
	p.converterUse.WithLabelValues(converter).Inc()
}

func (p *PrometheusRecorder) SetModulesDiscovered(n int) {
	if p == nil || p.modules == nil {
		return
	}
	p.modules.Set(float64(n))
}
