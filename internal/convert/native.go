package convert

import (
	"context"
	"os"

	"git.home.luguber.info/inful/apidocgen/internal/engine"
	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
	"git.home.luguber.info/inful/apidocgen/internal/module"
)

// NativeConverter asks the engine for its markdown builder output directly.
// This is the preferred path; it only works when the engine has a markdown
// builder installed.
type NativeConverter struct {
	Builder string // engine markdown builder name
}

func (c *NativeConverter) Name() string { return ConverterNative }

func (c *NativeConverter) Convert(ctx context.Context, eng engine.Engine, ws *engine.Workspace, mod module.Module) (string, error) {
	outPath, err := eng.Build(ctx, ws, c.Builder, mod)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return "", derrors.WrapConvertError(err, "failed to read engine markdown output").
			WithContext("module", mod.Name)
	}

	return CleanMarkdown(string(data)), nil
}
