// Package pipeline orchestrates a documentation build as a sequence of
// stages: discover modules, prepare the engine workspace, generate pages,
// update the navigation manifest, and report.
package pipeline

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"git.home.luguber.info/inful/apidocgen/internal/metrics"
)

// Stage is a discrete unit of work in a build run.
type Stage func(ctx context.Context, bs *BuildState) error

// StageName is a strongly-typed identifier for a pipeline stage.
type StageName string

// Canonical stage names.
const (
	StageDiscover StageName = "discover"
	StagePrepare  StageName = "prepare"
	StageGenerate StageName = "generate"
	StageManifest StageName = "manifest"
	StageReport   StageName = "report"
)

// StageErrorKind classifies the outcome of a stage.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Run must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}
func newWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}
func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// Pipeline accumulates stage definitions in execution order.
type Pipeline struct {
	Defs []StageDef
}

// NewPipeline returns an empty pipeline.
func NewPipeline() *Pipeline { return &Pipeline{Defs: make([]StageDef, 0, 8)} }

// Add appends a stage and returns the pipeline for chaining.
func (p *Pipeline) Add(name StageName, fn Stage) *Pipeline {
	p.Defs = append(p.Defs, StageDef{Name: name, Fn: fn})
	return p
}

// Build returns the ordered stage definitions.
func (p *Pipeline) Build() []StageDef { return p.Defs }

// runStages executes stages in order, recording timings and stopping on the
// first fatal error. Warnings are recorded and execution continues.
func runStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.Name, ctx.Err())
			bs.Recorder.IncStageResult(string(st.Name), metrics.ResultCanceled)
			return se
		default:
		}

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)
		bs.Timings[st.Name] = dur
		bs.Recorder.ObserveStageDuration(string(st.Name), dur)

		if err == nil {
			bs.Recorder.IncStageResult(string(st.Name), metrics.ResultSuccess)
			continue
		}

		var se *StageError
		if !stdErrors.As(err, &se) {
			se = newFatalStageError(st.Name, err)
		}

		switch se.Kind {
		case StageErrorWarning:
			bs.Recorder.IncStageResult(string(st.Name), metrics.ResultWarning)
			bs.Warnings = append(bs.Warnings, se)
		case StageErrorCanceled:
			bs.Recorder.IncStageResult(string(st.Name), metrics.ResultCanceled)
			return se
		default:
			bs.Recorder.IncStageResult(string(st.Name), metrics.ResultFatal)
			return se
		}
	}
	return nil
}
