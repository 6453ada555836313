// Package commands defines the apidocgen CLI surface.
package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	"git.home.luguber.info/inful/apidocgen/internal/logfields"
	"git.home.luguber.info/inful/apidocgen/internal/pipeline"
	"git.home.luguber.info/inful/apidocgen/internal/state"
)

// Global holds state shared between subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"apidocgen.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Generate documentation pages and update the navigation manifest"`
	Discover DiscoverCmd `cmd:"" help:"List importable modules without building"`
	Manifest ManifestCmd `cmd:"" help:"Rebuild the navigation manifest from pages already on disk"`
	Prune    PruneCmd    `cmd:"" help:"Remove failing pages from the navigation manifest"`
	Doctor   DoctorCmd   `cmd:"" help:"Check that the documentation toolchain is available"`
	History  HistoryCmd  `cmd:"" help:"Show the recorded build history"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	Watch    WatchCmd    `cmd:"" help:"Watch the package tree and rebuild continuously"`
}

// AfterApply runs after flag parsing; sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// signalContext returns a context canceled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// openStore opens the build state store unless disabled. Failures are
// logged, not fatal: builds run fine without history.
func openStore(cfg *config.Config) *state.Store {
	if cfg.State.Disabled {
		return nil
	}
	store, err := state.Open(cfg.StateDBPath())
	if err != nil {
		slog.Warn("state store unavailable", logfields.Error(err))
		return nil
	}
	return store
}

// newBuilder assembles a pipeline builder with the state store attached.
func newBuilder(cfg *config.Config) (*pipeline.Builder, func()) {
	store := openStore(cfg)
	b := pipeline.NewBuilder(cfg).SetStore(store)
	cleanup := func() {
		if store != nil {
			if err := store.Close(); err != nil {
				slog.Warn("failed to close state store", logfields.Error(err))
			}
		}
	}
	return b, cleanup
}

// applyOutputOverride lets -o replace the configured content directory.
func applyOutputOverride(cfg *config.Config, output string) {
	if output != "" {
		cfg.Output.Directory = output
	}
}
