package convert

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/apidocgen/internal/engine"
	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
	"git.home.luguber.info/inful/apidocgen/internal/module"
)

// PlainConverter is the last resort: the bare text of the engine's HTML
// output with every tag stripped and no markdown structure preserved.
type PlainConverter struct {
	Builder string // engine HTML builder name
}

func (c *PlainConverter) Name() string { return ConverterPlain }

func (c *PlainConverter) Convert(ctx context.Context, eng engine.Engine, ws *engine.Workspace, mod module.Module) (string, error) {
	htmlPath, err := eng.Build(ctx, ws, c.Builder, mod)
	if err != nil {
		return "", err
	}

	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return "", derrors.WrapConvertError(err, "failed to open engine HTML output").
			WithContext("module", mod.Name)
	}
	defer func() {
		_ = file.Close()
	}()

	doc, err := html.Parse(file)
	if err != nil {
		return "", derrors.WrapConvertError(err, "failed to parse engine HTML output").
			WithContext("module", mod.Name)
	}

	body := findContentNode(doc)
	if body == nil {
		return "", derrors.New(derrors.CategoryConvert, derrors.SeverityWarning,
			"no body in engine HTML output").WithContext("module", mod.Name)
	}
	pruneChrome(body)

	return CleanMarkdown(rawText(body)), nil
}
