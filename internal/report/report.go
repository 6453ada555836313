// Package report collects the outcome of a build run and renders it for
// humans and machines.
package report

import (
	"encoding/json"
	"sort"
	"time"
)

// Outcome classifies what happened to one module during a run.
type Outcome string

const (
	OutcomeWritten   Outcome = "written"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// ModuleResult is the per-module record of a run.
type ModuleResult struct {
	Module    string        `json:"module"`
	Converter string        `json:"converter,omitempty"`
	Outcome   Outcome       `json:"outcome"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
}

// RunReport summarizes one build run.
type RunReport struct {
	RunID      string                   `json:"run_id"`
	StartedAt  time.Time                `json:"started_at"`
	FinishedAt time.Time                `json:"finished_at"`
	Results    []ModuleResult           `json:"results"`
	Removed    []string                 `json:"removed,omitempty"`
	Timings    map[string]time.Duration `json:"timings_ns,omitempty"`
}

// NewRunReport starts a report for the given run id.
func NewRunReport(runID string) *RunReport {
	return &RunReport{RunID: runID, StartedAt: time.Now()}
}

// Add records the result for one module.
func (r *RunReport) Add(result ModuleResult) {
	r.Results = append(r.Results, result)
}

// SetTiming records the wall-clock duration of one stage.
func (r *RunReport) SetTiming(stage string, d time.Duration) {
	if r.Timings == nil {
		r.Timings = make(map[string]time.Duration)
	}
	r.Timings[stage] = d
}

// Finish stamps the end time.
func (r *RunReport) Finish() {
	r.FinishedAt = time.Now()
}

// Duration is the wall-clock time of the run.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Count returns how many modules ended with the given outcome.
func (r *RunReport) Count(outcome Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// Failures returns the failed module results.
func (r *RunReport) Failures() []ModuleResult {
	var failed []ModuleResult
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			failed = append(failed, res)
		}
	}
	return failed
}

// ConverterCounts tallies successful pages per converter, sorted by name.
func (r *RunReport) ConverterCounts() []ConverterCount {
	counts := map[string]int{}
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed || res.Converter == "" {
			continue
		}
		counts[res.Converter]++
	}

	out := make([]ConverterCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, ConverterCount{Converter: name, Pages: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Converter < out[j].Converter })
	return out
}

// ConverterCount is a per-converter page tally.
type ConverterCount struct {
	Converter string `json:"converter"`
	Pages     int    `json:"pages"`
}

// JSON renders the report for machine consumers.
func (r *RunReport) JSON() ([]byte, error) {
	return json.Marshal(r)
}
