package convert

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"git.home.luguber.info/inful/apidocgen/internal/engine"
	"git.home.luguber.info/inful/apidocgen/internal/module"
)

// fakeConverter returns canned output or a canned error.
type fakeConverter struct {
	name   string
	output string
	err    error
	calls  int
}

func (f *fakeConverter) Name() string { return f.name }

func (f *fakeConverter) Convert(context.Context, engine.Engine, *engine.Workspace, module.Module) (string, error) {
	f.calls++
	return f.output, f.err
}

const substantialBody = "# m\n\nPara one.\n\nPara two.\n\nPara three.\n"

func TestChainFirstConverterWins(t *testing.T) {
	first := &fakeConverter{name: "first", output: substantialBody}
	second := &fakeConverter{name: "second", output: substantialBody}

	chain := NewChainWithConverters(nil, nil, 3, first, second)
	result, err := chain.Convert(context.Background(), module.Module{Name: "m"})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if result.Converter != "first" {
		t.Errorf("converter = %q, want first", result.Converter)
	}
	if second.calls != 0 {
		t.Error("second converter should not run when first succeeds")
	}
}

func TestChainFallsThroughOnError(t *testing.T) {
	first := &fakeConverter{name: "first", err: fmt.Errorf("builder missing")}
	second := &fakeConverter{name: "second", output: substantialBody}

	chain := NewChainWithConverters(nil, nil, 3, first, second)
	result, err := chain.Convert(context.Background(), module.Module{Name: "m"})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if result.Converter != "second" {
		t.Errorf("converter = %q, want second", result.Converter)
	}
}

func TestChainFallsThroughOnInsubstantialOutput(t *testing.T) {
	first := &fakeConverter{name: "first", output: "# heading only"}
	second := &fakeConverter{name: "second", output: substantialBody}

	chain := NewChainWithConverters(nil, nil, 3, first, second)
	result, err := chain.Convert(context.Background(), module.Module{Name: "m"})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if result.Converter != "second" {
		t.Errorf("converter = %q, want second", result.Converter)
	}
}

func TestChainAllFail(t *testing.T) {
	first := &fakeConverter{name: "first", err: fmt.Errorf("boom")}
	second := &fakeConverter{name: "second", output: "# nothing here"}

	chain := NewChainWithConverters(nil, nil, 3, first, second)
	_, err := chain.Convert(context.Background(), module.Module{Name: "m"})
	if err == nil {
		t.Fatal("expected error when all converters fail")
	}
	if !errors.Is(err, ErrInsubstantial) {
		t.Errorf("error should wrap ErrInsubstantial, got %v", err)
	}
}

func TestChainAllConvertersError(t *testing.T) {
	first := &fakeConverter{name: "first", err: fmt.Errorf("boom")}
	second := &fakeConverter{name: "second", err: fmt.Errorf("also boom")}

	chain := NewChainWithConverters(nil, nil, 3, first, second)
	_, err := chain.Convert(context.Background(), module.Module{Name: "m"})
	if err == nil {
		t.Fatal("expected error when every converter errors")
	}
	if errors.Is(err, ErrInsubstantial) {
		t.Errorf("converter errors must not report as insubstantial, got %v", err)
	}
}

func TestChainHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	first := &fakeConverter{name: "first", output: substantialBody}
	chain := NewChainWithConverters(nil, nil, 3, first)

	if _, err := chain.Convert(ctx, module.Module{Name: "m"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if first.calls != 0 {
		t.Error("converter should not run after cancellation")
	}
}

func TestNewChainOrder(t *testing.T) {
	chain := NewChain(
		configEngine(), configConvert(false), nil, nil,
	)
	wantOrder := []string{ConverterNative, ConverterPandoc, ConverterHTMLText, ConverterPlain}
	if len(chain.converters) != len(wantOrder) {
		t.Fatalf("converter count = %d, want %d", len(chain.converters), len(wantOrder))
	}
	for i, want := range wantOrder {
		if got := chain.converters[i].Name(); got != want {
			t.Errorf("converters[%d] = %q, want %q", i, got, want)
		}
	}
}

func TestNewChainPandocDisabled(t *testing.T) {
	chain := NewChain(configEngine(), configConvert(true), nil, nil)
	for _, conv := range chain.converters {
		if conv.Name() == ConverterPandoc {
			t.Error("pandoc converter present despite disable_pandoc")
		}
	}
}

func TestNewChainConverterToggles(t *testing.T) {
	cfg := configConvert(false)
	cfg.DisableNative = true
	cfg.DisablePlain = true

	chain := NewChain(configEngine(), cfg, nil, nil)
	wantOrder := []string{ConverterPandoc, ConverterHTMLText}
	if len(chain.converters) != len(wantOrder) {
		t.Fatalf("converter count = %d, want %d", len(chain.converters), len(wantOrder))
	}
	for i, want := range wantOrder {
		if got := chain.converters[i].Name(); got != want {
			t.Errorf("converters[%d] = %q, want %q", i, got, want)
		}
	}
}
