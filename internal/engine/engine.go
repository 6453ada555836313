// Package engine invokes the external documentation engine that extracts
// docstrings from the package under documentation.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
	"git.home.luguber.info/inful/apidocgen/internal/logfields"
	"git.home.luguber.info/inful/apidocgen/internal/module"
)

// Engine abstracts how a module's markup stub is turned into builder output.
// This allows swapping the external binary (BinaryEngine) with a stub for
// tests without changing pipeline orchestration.
type Engine interface {
	// Build runs the engine with the given builder and returns the path of
	// the produced output file for the module.
	Build(ctx context.Context, ws *Workspace, builder string, mod module.Module) (string, error)
}

// BinaryEngine invokes the engine binary present on PATH.
type BinaryEngine struct {
	cfg config.EngineConfig
}

// NewBinaryEngine creates an engine backed by the configured binary.
func NewBinaryEngine(cfg config.EngineConfig) *BinaryEngine {
	return &BinaryEngine{cfg: cfg}
}

// Build writes the module stub and runs the engine for the requested builder.
func (e *BinaryEngine) Build(ctx context.Context, ws *Workspace, builder string, mod module.Module) (string, error) {
	if _, err := exec.LookPath(e.cfg.Binary); err != nil {
		return "", derrors.WrapEngineError(err, "engine binary not found: "+e.cfg.Binary)
	}

	if err := ws.WriteStub(mod); err != nil {
		return "", err
	}

	outDir := filepath.Join(ws.BuildDir, builder)
	cmd := exec.CommandContext(ctx, e.cfg.Binary, e.buildArgs(builder, ws.SourceDir, outDir)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Invoking documentation engine",
		logfields.Module(mod.Name),
		slog.String("builder", builder),
		slog.String("binary", e.cfg.Binary))

	if err := cmd.Run(); err != nil {
		errStr := stderr.String()
		if errStr != "" {
			slog.Debug("Engine stderr", logfields.Module(mod.Name), slog.String("output", errStr))
			return "", derrors.WrapEngineError(fmt.Errorf("%w: %s", err, errStr), "engine build failed").
				WithContext("module", mod.Name).
				WithContext("builder", builder)
		}
		return "", derrors.WrapEngineError(err, "engine build failed").
			WithContext("module", mod.Name).
			WithContext("builder", builder)
	}

	outPath := ws.OutputPath(builder, mod.Name)
	if _, err := os.Stat(outPath); err != nil {
		return "", derrors.WrapEngineError(err, "engine produced no output for module").
			WithContext("module", mod.Name).
			WithContext("builder", builder)
	}
	return outPath, nil
}

// buildArgs assembles the engine command line for one builder run.
func (e *BinaryEngine) buildArgs(builder, srcDir, outDir string) []string {
	args := []string{"-b", builder}
	if e.cfg.QuietEnabled() {
		args = append(args, "-q")
	}
	args = append(args, e.cfg.ExtraArgs...)
	args = append(args, srcDir, outDir)
	return args
}

// StubEngine is a test double that writes canned content instead of running
// the external binary. Content maps builder -> module -> output.
type StubEngine struct {
	Content map[string]map[string]string
	Err     error
}

// Build implements Engine by materializing canned content in the workspace.
func (s *StubEngine) Build(_ context.Context, ws *Workspace, builder string, mod module.Module) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	byModule, ok := s.Content[builder]
	if !ok {
		return "", derrors.New(derrors.CategoryEngine, derrors.SeverityError,
			"builder not available: "+builder)
	}
	content, ok := byModule[mod.Name]
	if !ok {
		return "", derrors.New(derrors.CategoryEngine, derrors.SeverityError,
			"no content for module: "+mod.Name)
	}

	outPath := ws.OutputPath(builder, mod.Name)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return "", err
	}
	return outPath, nil
}
