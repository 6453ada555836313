package pipeline

import (
	"time"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	"git.home.luguber.info/inful/apidocgen/internal/convert"
	"git.home.luguber.info/inful/apidocgen/internal/engine"
	"git.home.luguber.info/inful/apidocgen/internal/metrics"
	"git.home.luguber.info/inful/apidocgen/internal/module"
	"git.home.luguber.info/inful/apidocgen/internal/page"
	"git.home.luguber.info/inful/apidocgen/internal/report"
	"git.home.luguber.info/inful/apidocgen/internal/state"
)

// Options select what a run does.
type Options struct {
	// Clean removes pages for modules that no longer exist. Only honored
	// on full (non-incremental) runs.
	Clean bool
	// Since restricts generation to modules changed within the window.
	// Zero means a full run.
	Since time.Duration
	// ChangedOnly restricts generation to modules with uncommitted
	// changes in the git worktree.
	ChangedOnly bool
	// ManifestOnly skips generation and rebuilds the navigation manifest
	// from the pages already on disk.
	ManifestOnly bool
	// SkipManifest generates pages without touching the manifest.
	SkipManifest bool
}

// Incremental reports whether the run covers only a subset of modules.
func (o Options) Incremental() bool {
	return o.Since > 0 || o.ChangedOnly
}

// Mode names the run variant for logs and run history.
func (o Options) Mode() string {
	switch {
	case o.ManifestOnly:
		return "manifest-only"
	case o.ChangedOnly:
		return "changed-only"
	case o.Since > 0:
		return "incremental"
	default:
		return "full"
	}
}

// BuildState carries mutable state across stages.
type BuildState struct {
	Cfg     *config.Config
	Options Options

	Modules   []module.Module
	Workspace *engine.Workspace
	Engine    engine.Engine
	Chain     *convert.Chain
	Writer    *page.Writer

	Report   *report.RunReport
	Store    *state.Store
	Recorder metrics.Recorder

	Timings  map[StageName]time.Duration
	Warnings []*StageError
}

func newBuildState(cfg *config.Config, opts Options, rep *report.RunReport, rec metrics.Recorder) *BuildState {
	return &BuildState{
		Cfg:      cfg,
		Options:  opts,
		Report:   rep,
		Recorder: rec,
		Timings:  make(map[StageName]time.Duration),
	}
}
