// Package convert turns engine output into markdown through an ordered
// fallback chain: native markdown build, HTML converted with pandoc, HTML
// converted with the built-in extractor, and finally plain text. The first
// converter yielding substantial content wins.
package convert

import (
	"context"

	"git.home.luguber.info/inful/apidocgen/internal/engine"
	"git.home.luguber.info/inful/apidocgen/internal/module"
)

// Converter names, also used as metric labels.
const (
	ConverterNative   = "native"
	ConverterPandoc   = "pandoc"
	ConverterHTMLText = "htmltext"
	ConverterPlain    = "plain"
)

// Result is the outcome of a successful conversion.
type Result struct {
	Markdown  string // cleaned markdown body
	Converter string // name of the converter that produced it
}

// Converter produces markdown for one module from engine output.
type Converter interface {
	Name() string
	Convert(ctx context.Context, eng engine.Engine, ws *engine.Workspace, mod module.Module) (string, error)
}
