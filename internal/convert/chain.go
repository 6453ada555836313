package convert

import (
	"context"
	"errors"
	"log/slog"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	"git.home.luguber.info/inful/apidocgen/internal/engine"
	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
	"git.home.luguber.info/inful/apidocgen/internal/logfields"
	"git.home.luguber.info/inful/apidocgen/internal/module"
)

// ErrInsubstantial is returned by the chain when converters produced
// output but nothing cleared the substantiality threshold. Callers skip
// the module and continue.
var ErrInsubstantial = errors.New("no converter produced substantial content")

// Chain tries converters in order until one yields substantial markdown.
type Chain struct {
	converters []Converter
	eng        engine.Engine
	ws         *engine.Workspace
	minBlocks  int
}

// NewChain assembles the standard converter order from configuration.
func NewChain(engineCfg config.EngineConfig, convertCfg config.ConvertConfig, eng engine.Engine, ws *engine.Workspace) *Chain {
	converters := make([]Converter, 0, 4)
	if !convertCfg.DisableNative {
		converters = append(converters, &NativeConverter{Builder: engineCfg.MarkdownBuilder})
	}
	if !convertCfg.DisablePandoc {
		converters = append(converters, &PandocConverter{
			Builder: engineCfg.HTMLBuilder,
			Binary:  convertCfg.PandocBinary,
		})
	}
	if !convertCfg.DisableHTMLText {
		converters = append(converters, &HTMLTextConverter{Builder: engineCfg.HTMLBuilder})
	}
	if !convertCfg.DisablePlain {
		converters = append(converters, &PlainConverter{Builder: engineCfg.HTMLBuilder})
	}

	return &Chain{
		converters: converters,
		eng:        eng,
		ws:         ws,
		minBlocks:  convertCfg.MinBlocks,
	}
}

// NewChainWithConverters builds a chain with an explicit converter list (tests).
func NewChainWithConverters(eng engine.Engine, ws *engine.Workspace, minBlocks int, converters ...Converter) *Chain {
	return &Chain{converters: converters, eng: eng, ws: ws, minBlocks: minBlocks}
}

// Convert runs the fallback chain for one module. When every converter
// errors the chain reports a conversion failure; when at least one produced
// output but nothing cleared the substantiality threshold, the returned
// error wraps ErrInsubstantial so callers can skip the module.
func (c *Chain) Convert(ctx context.Context, mod module.Module) (Result, error) {
	var lastErr error
	produced := false

	for _, conv := range c.converters {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		markdown, err := conv.Convert(ctx, c.eng, c.ws, mod)
		if err != nil {
			slog.Debug("Converter failed, trying next",
				logfields.Module(mod.Name),
				logfields.Converter(conv.Name()),
				logfields.Error(err))
			lastErr = err
			continue
		}

		produced = true
		if !IsSubstantial(markdown, c.minBlocks) {
			slog.Debug("Converter output not substantial",
				logfields.Module(mod.Name),
				logfields.Converter(conv.Name()))
			continue
		}

		return Result{Markdown: markdown, Converter: conv.Name()}, nil
	}

	if produced {
		return Result{}, derrors.Wrap(ErrInsubstantial, derrors.CategoryConvert, derrors.SeverityWarning,
			"module skipped").WithContext("module", mod.Name)
	}
	return Result{}, derrors.Wrap(lastErr, derrors.CategoryConvert, derrors.SeverityError,
		"all converters failed").WithContext("module", mod.Name)
}
