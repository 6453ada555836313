package commands

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
	"git.home.luguber.info/inful/apidocgen/internal/nav"
)

// PruneCmd implements the 'prune' command: it parses a toolchain error log
// and removes the failing pages from the navigation manifest. A backup of
// the manifest is written next to it first.
type PruneCmd struct {
	ErrorLog string `arg:"" help:"Error log file to parse, or '-' for stdin"`
	DryRun   bool   `name:"dry-run" help:"Show what would be removed without touching the manifest"`
}

func (p *PruneCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if cfg.Manifest.Path == "" {
		return derrors.NewConfigError("manifest.path is required for prune")
	}

	log, err := p.readLog()
	if err != nil {
		return err
	}

	paths := nav.ParseErrorLog(log, cfg.Output.PageExtension)
	if len(paths) == 0 {
		fmt.Println("No failing pages found in error log")
		return nil
	}

	if p.DryRun {
		for _, path := range paths {
			fmt.Printf("would remove: %s\n", path)
		}
		return nil
	}

	manifest := nav.NewManifest(cfg.Manifest.Path, cfg.Manifest.Tab)
	removed, err := manifest.Prune(paths)
	if err != nil {
		return err
	}

	for _, path := range removed {
		fmt.Printf("removed: %s\n", path)
	}
	fmt.Printf("%d pages removed, backup at %s.backup\n", len(removed), cfg.Manifest.Path)
	return nil
}

func (p *PruneCmd) readLog() (string, error) {
	if p.ErrorLog == "-" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", derrors.WrapFileSystemError(err, "failed to read error log from stdin")
		}
		return string(content), nil
	}

	content, err := os.ReadFile(p.ErrorLog)
	if err != nil {
		return "", derrors.WrapFileSystemError(err, "failed to read error log")
	}
	return string(content), nil
}
