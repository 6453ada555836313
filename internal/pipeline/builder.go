package pipeline

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	"git.home.luguber.info/inful/apidocgen/internal/convert"
	"git.home.luguber.info/inful/apidocgen/internal/engine"
	"git.home.luguber.info/inful/apidocgen/internal/logfields"
	"git.home.luguber.info/inful/apidocgen/internal/metrics"
	"git.home.luguber.info/inful/apidocgen/internal/module"
	"git.home.luguber.info/inful/apidocgen/internal/nav"
	"git.home.luguber.info/inful/apidocgen/internal/page"
	"git.home.luguber.info/inful/apidocgen/internal/report"
	"git.home.luguber.info/inful/apidocgen/internal/state"
)

// Builder runs documentation builds for one configuration.
type Builder struct {
	cfg      *config.Config
	eng      engine.Engine
	store    *state.Store
	recorder metrics.Recorder
}

// NewBuilder returns a builder with a binary engine and no metrics.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		cfg:      cfg,
		eng:      engine.NewBinaryEngine(cfg.Engine),
		recorder: metrics.NoopRecorder{},
	}
}

// SetEngine overrides the doc engine. Returns the builder for chaining.
func (b *Builder) SetEngine(eng engine.Engine) *Builder {
	if eng != nil {
		b.eng = eng
	}
	return b
}

// SetStore injects the build state store (optional).
func (b *Builder) SetStore(store *state.Store) *Builder {
	b.store = store
	return b
}

// SetRecorder injects a metrics recorder (optional).
func (b *Builder) SetRecorder(r metrics.Recorder) *Builder {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	b.recorder = r
	return b
}

// Run executes a build and returns its report. The report is non-nil even
// when the run fails partway.
func (b *Builder) Run(ctx context.Context, opts Options) (*report.RunReport, error) {
	runID := uuid.NewString()
	slog.Info("starting build run", logfields.RunID(runID))

	rep := report.NewRunReport(runID)
	bs := newBuildState(b.cfg, opts, rep, b.recorder)
	bs.Engine = b.eng
	bs.Store = b.store
	bs.Writer = page.NewWriter(b.cfg.Output.Directory, b.cfg.Output.PageExtension)

	defer func() {
		if bs.Workspace != nil {
			if err := bs.Workspace.Close(); err != nil {
				slog.Warn("failed to remove engine workspace", logfields.Error(err))
			}
		}
	}()

	p := NewPipeline()
	if opts.ManifestOnly {
		p.Add(StageManifest, stageManifest)
	} else {
		p.Add(StageDiscover, stageDiscover).
			Add(StagePrepare, stagePrepare).
			Add(StageGenerate, stageGenerate)
		if !opts.SkipManifest {
			p.Add(StageManifest, stageManifest)
		}
	}
	p.Add(StageReport, stageReport)

	err := runStages(ctx, bs, p.Build())
	rep.Finish()

	b.recorder.ObserveRunDuration(rep.Duration())
	b.recorder.IncRunOutcome(runOutcome(bs, err))

	if err != nil {
		return rep, err
	}

	slog.Info("build run finished",
		logfields.RunID(runID),
		slog.Int("modules", len(rep.Results)),
		slog.Int("written", rep.Count(report.OutcomeWritten)),
		slog.Int("unchanged", rep.Count(report.OutcomeUnchanged)),
		slog.Int("skipped", rep.Count(report.OutcomeSkipped)),
		slog.Int("failed", rep.Count(report.OutcomeFailed)),
		logfields.DurationMS(float64(rep.Duration().Milliseconds())))
	return rep, nil
}

func runOutcome(bs *BuildState, err error) string {
	if err != nil {
		var se *StageError
		if stdErrors.As(err, &se) && se.Kind == StageErrorCanceled {
			return "canceled"
		}
		return "failed"
	}
	if len(bs.Warnings) > 0 || bs.Report.Count(report.OutcomeFailed) > 0 {
		return "warning"
	}
	return "success"
}

func stageDiscover(ctx context.Context, bs *BuildState) error {
	disc := module.NewDiscovery(bs.Cfg.Package)

	var (
		mods []module.Module
		err  error
	)
	switch {
	case bs.Options.ChangedOnly:
		mods, err = disc.ChangedInWorktree()
	case bs.Options.Since > 0:
		var all []module.Module
		all, err = disc.All()
		if err == nil {
			mods = module.ChangedSince(all, bs.Options.Since, time.Now())
		}
	default:
		mods, err = disc.All()
	}
	if err != nil {
		return newFatalStageError(StageDiscover, err)
	}

	bs.Modules = mods
	bs.Recorder.SetModulesDiscovered(len(mods))
	slog.Info("discovered modules", slog.Int("count", len(mods)))
	return nil
}

func stagePrepare(ctx context.Context, bs *BuildState) error {
	if len(bs.Modules) == 0 {
		return nil
	}

	packageRoot, err := filepath.Abs(bs.Cfg.Package.Root)
	if err != nil {
		return newFatalStageError(StagePrepare, err)
	}

	ws, err := engine.NewWorkspace(bs.Cfg.Engine, packageRoot)
	if err != nil {
		return newFatalStageError(StagePrepare, err)
	}
	bs.Workspace = ws
	bs.Chain = convert.NewChain(bs.Cfg.Engine, bs.Cfg.Convert, bs.Engine, ws)
	return nil
}

func stageGenerate(ctx context.Context, bs *BuildState) error {
	failed := 0
	for _, mod := range bs.Modules {
		select {
		case <-ctx.Done():
			return newCanceledStageError(StageGenerate, ctx.Err())
		default:
		}

		t0 := time.Now()
		result := generateModule(ctx, bs, mod)
		result.Duration = time.Since(t0)
		bs.Report.Add(result)
		bs.Recorder.IncPageOutcome(string(result.Outcome))

		if result.Outcome == report.OutcomeFailed {
			failed++
			continue
		}
		if result.Outcome == report.OutcomeSkipped {
			continue
		}
		bs.Recorder.IncConverterUse(result.Converter)
	}

	if bs.Options.Clean && !bs.Options.Incremental() {
		if err := removeStale(ctx, bs); err != nil {
			return newFatalStageError(StageGenerate, err)
		}
	}

	if failed > 0 {
		return newWarnStageError(StageGenerate, fmt.Errorf("%d of %d modules failed", failed, len(bs.Modules)))
	}
	return nil
}

func generateModule(ctx context.Context, bs *BuildState, mod module.Module) report.ModuleResult {
	result := report.ModuleResult{Module: mod.Name}

	converted, err := bs.Chain.Convert(ctx, mod)
	if err != nil {
		if stdErrors.Is(err, convert.ErrInsubstantial) {
			slog.Info("module skipped", logfields.Module(mod.Name), logfields.Error(err))
			result.Outcome = report.OutcomeSkipped
			result.Error = err.Error()
			return result
		}
		slog.Warn("module conversion failed", logfields.Module(mod.Name), logfields.Error(err))
		result.Outcome = report.OutcomeFailed
		result.Error = err.Error()
		return result
	}
	result.Converter = converted.Converter

	pg := page.New(mod.Name, mod.Name, converted.Markdown)
	outcome, err := bs.Writer.Write(pg)
	if err != nil {
		slog.Warn("page write failed", logfields.Module(mod.Name), logfields.Error(err))
		result.Outcome = report.OutcomeFailed
		result.Error = err.Error()
		return result
	}

	switch outcome {
	case page.OutcomeUnchanged:
		result.Outcome = report.OutcomeUnchanged
	default:
		result.Outcome = report.OutcomeWritten
	}

	if bs.Store != nil {
		rec := state.PageRecord{
			Module:      mod.Name,
			Fingerprint: pg.Fingerprint,
			Converter:   converted.Converter,
			RunID:       bs.Report.RunID,
			UpdatedAt:   time.Now(),
		}
		if err := bs.Store.UpsertPage(ctx, rec); err != nil {
			slog.Warn("failed to record page state", logfields.Module(mod.Name), logfields.Error(err))
		}
	}
	return result
}

func removeStale(ctx context.Context, bs *BuildState) error {
	keep := make(map[string]struct{}, len(bs.Modules))
	for _, mod := range bs.Modules {
		keep[mod.Name] = struct{}{}
	}

	removed, err := bs.Writer.RemoveStale(keep)
	if err != nil {
		return err
	}
	bs.Report.Removed = removed

	if bs.Store != nil {
		for _, name := range removed {
			if err := bs.Store.DeletePage(ctx, name); err != nil {
				slog.Warn("failed to drop page state", logfields.Module(name), logfields.Error(err))
			}
		}
	}
	return nil
}

func stageManifest(ctx context.Context, bs *BuildState) error {
	if bs.Cfg.Manifest.Path == "" {
		slog.Debug("no manifest configured, skipping")
		return nil
	}

	names, err := bs.Writer.List()
	if err != nil {
		return newFatalStageError(StageManifest, err)
	}

	navigation := nav.BuildNavigation(names, bs.Cfg.Package.Name, bs.Cfg.Manifest, bs.Cfg.Output.PathPrefix)
	manifest := nav.NewManifest(bs.Cfg.Manifest.Path, bs.Cfg.Manifest.Tab)
	if err := manifest.Update(navigation); err != nil {
		return newFatalStageError(StageManifest, err)
	}

	slog.Info("manifest updated",
		logfields.Path(bs.Cfg.Manifest.Path),
		slog.Int("pages", len(names)),
		slog.Int("entries", len(navigation)))
	return nil
}

func stageReport(ctx context.Context, bs *BuildState) error {
	bs.Report.Finish()

	for name, d := range bs.Timings {
		bs.Report.SetTiming(string(name), d)
	}

	if bs.Store != nil {
		status := "success"
		if bs.Report.Count(report.OutcomeFailed) > 0 || len(bs.Warnings) > 0 {
			status = "warning"
		}
		run := state.Run{
			ID:             bs.Report.RunID,
			StartedAt:      bs.Report.StartedAt,
			FinishedAt:     bs.Report.FinishedAt,
			Mode:           bs.Options.Mode(),
			Status:         status,
			ModulesTotal:   len(bs.Report.Results),
			PagesWritten:   bs.Report.Count(report.OutcomeWritten),
			PagesUnchanged: bs.Report.Count(report.OutcomeUnchanged),
			Failures:       bs.Report.Count(report.OutcomeFailed),
		}
		if err := bs.Store.RecordRun(ctx, run); err != nil {
			slog.Warn("failed to record run", logfields.Error(err))
		}
	}

	if !bs.Cfg.Output.WriteReport {
		return nil
	}
	dir := filepath.Dir(bs.Cfg.Output.Directory)
	path, err := bs.Report.WriteMarkdownFile(dir)
	if err != nil {
		return newWarnStageError(StageReport, err)
	}
	slog.Info("build report written", logfields.Path(path))
	return nil
}
