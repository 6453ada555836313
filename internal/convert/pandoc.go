package convert

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"git.home.luguber.info/inful/apidocgen/internal/engine"
	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
	"git.home.luguber.info/inful/apidocgen/internal/module"
)

// PandocConverter builds the module with the engine's HTML builder and
// converts the result to markdown with the external pandoc binary.
type PandocConverter struct {
	Builder string // engine HTML builder name
	Binary  string // pandoc binary name
}

func (c *PandocConverter) Name() string { return ConverterPandoc }

func (c *PandocConverter) Convert(ctx context.Context, eng engine.Engine, ws *engine.Workspace, mod module.Module) (string, error) {
	if _, err := exec.LookPath(c.Binary); err != nil {
		return "", derrors.WrapConvertError(err, "pandoc binary not found")
	}

	htmlPath, err := eng.Build(ctx, ws, c.Builder, mod)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, c.Binary, "-f", "html", "-t", "markdown", "--wrap=none", htmlPath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			err = fmt.Errorf("%w: %s", err, stderr.String())
		}
		return "", derrors.WrapConvertError(err, "pandoc conversion failed").
			WithContext("module", mod.Name)
	}

	return CleanMarkdown(stdout.String()), nil
}
