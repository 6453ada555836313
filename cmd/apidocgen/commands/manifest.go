package commands

import (
	"fmt"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	"git.home.luguber.info/inful/apidocgen/internal/pipeline"
)

// ManifestCmd implements the 'manifest' command: it rebuilds the
// navigation manifest from the pages already in the content directory,
// without running the doc engine.
type ManifestCmd struct {
	Output string `short:"o" help:"Content directory holding the pages (overrides config)"`
}

func (m *ManifestCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	applyOutputOverride(cfg, m.Output)

	builder, cleanup := newBuilder(cfg)
	defer cleanup()

	ctx, cancel := signalContext()
	defer cancel()

	if _, err := builder.Run(ctx, pipeline.Options{ManifestOnly: true}); err != nil {
		return err
	}
	fmt.Printf("Manifest updated: %s\n", cfg.Manifest.Path)
	return nil
}
