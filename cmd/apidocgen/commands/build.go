package commands

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
	"git.home.luguber.info/inful/apidocgen/internal/pipeline"
	"git.home.luguber.info/inful/apidocgen/internal/report"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output       string `short:"o" help:"Content directory for generated pages (overrides config)"`
	Clean        bool   `help:"Remove pages for modules that no longer exist"`
	Incremental  bool   `short:"i" help:"Only rebuild modules changed within the --since window"`
	Since        string `help:"Change window for incremental builds" default:"24h"`
	ChangedOnly  bool   `name:"changed-only" help:"Only rebuild modules with uncommitted git changes"`
	ManifestOnly bool   `name:"manifest-only" help:"Skip generation, only rebuild the navigation manifest"`
	SkipManifest bool   `name:"skip-manifest" help:"Generate pages without updating the manifest"`
	Package      string `help:"Package name to document (overrides config)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	applyOutputOverride(cfg, b.Output)
	if b.Package != "" {
		cfg.Package.Name = b.Package
	}

	opts := pipeline.Options{
		Clean:        b.Clean || cfg.Output.Clean,
		ChangedOnly:  b.ChangedOnly,
		ManifestOnly: b.ManifestOnly,
		SkipManifest: b.SkipManifest,
	}
	if b.Incremental {
		window, err := time.ParseDuration(b.Since)
		if err != nil {
			return derrors.NewValidationError("invalid --since duration: " + b.Since)
		}
		opts.Since = window
	}

	builder, cleanup := newBuilder(cfg)
	defer cleanup()

	ctx, cancel := signalContext()
	defer cancel()

	rep, runErr := builder.Run(ctx, opts)
	if rep != nil {
		printBuildSummary(rep)
	}
	return runErr
}

func printBuildSummary(rep *report.RunReport) {
	fmt.Printf("Build %s: %d written, %d unchanged, %d skipped, %d failed in %s\n",
		rep.RunID,
		rep.Count(report.OutcomeWritten),
		rep.Count(report.OutcomeUnchanged),
		rep.Count(report.OutcomeSkipped),
		rep.Count(report.OutcomeFailed),
		rep.Duration().Round(10*time.Millisecond))
	for _, f := range rep.Failures() {
		fmt.Printf("  failed: %s: %s\n", f.Module, f.Error)
	}
	for _, name := range rep.Removed {
		fmt.Printf("  removed: %s\n", name)
	}
}
