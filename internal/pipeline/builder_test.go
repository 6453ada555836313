package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	"git.home.luguber.info/inful/apidocgen/internal/engine"
	"git.home.luguber.info/inful/apidocgen/internal/report"
	"git.home.luguber.info/inful/apidocgen/internal/state"
)

const manifestFixture = `{
  "navigation": {
    "tabs": [
      {"tab": "API Reference", "groups": []}
    ]
  }
}`

// testSetup lays out a small package tree, an output directory and a
// manifest file, returning the matching configuration.
func testSetup(t *testing.T) *config.Config {
	t.Helper()

	root := t.TempDir()
	pkg := filepath.Join(root, "camel")
	require.NoError(t, os.MkdirAll(pkg, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "__init__.py"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "types.py"), []byte("X = 1\n"), 0o644))

	site := filepath.Join(t.TempDir(), "site")
	require.NoError(t, os.MkdirAll(site, 0o755))

	manifestPath := filepath.Join(site, "docs.json")
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifestFixture), 0o644))

	return &config.Config{
		Package: config.PackageConfig{
			Name:          "camel",
			Root:          root,
			Extension:     ".py",
			PackageMarker: "__init__.py",
		},
		Engine: config.EngineConfig{
			Binary:          "sphinx-build",
			MarkdownBuilder: "markdown",
			HTMLBuilder:     "html",
			Project:         "camel",
		},
		Convert: config.ConvertConfig{
			PandocBinary:  "pandoc",
			DisablePandoc: true,
			MinBlocks:     2,
		},
		Output: config.OutputConfig{
			Directory:     filepath.Join(site, "reference"),
			PageExtension: ".mdx",
			PathPrefix:    "reference",
		},
		Manifest: config.ManifestConfig{
			Path: manifestPath,
			Tab:  "API Reference",
		},
	}
}

const substantialDoc = `# Module

First paragraph with enough content to count.

Second paragraph with more content.
`

func stubEngine(modules ...string) *engine.StubEngine {
	content := map[string]string{}
	for _, name := range modules {
		content[name] = substantialDoc
	}
	return &engine.StubEngine{Content: map[string]map[string]string{"markdown": content}}
}

func TestBuilderFullRun(t *testing.T) {
	cfg := testSetup(t)
	cfg.Output.WriteReport = true
	b := NewBuilder(cfg).SetEngine(stubEngine("camel", "camel.types"))

	rep, err := b.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Count(report.OutcomeWritten))
	assert.Equal(t, 0, rep.Count(report.OutcomeFailed))

	for _, name := range []string{"camel.mdx", "camel.types.mdx"} {
		_, err := os.Stat(filepath.Join(cfg.Output.Directory, name))
		assert.NoError(t, err, name)
	}

	content, err := os.ReadFile(cfg.Manifest.Path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(content, &doc))
	groups := doc["navigation"].(map[string]any)["tabs"].([]any)[0].(map[string]any)["groups"].([]any)
	require.NotEmpty(t, groups)
	assert.Equal(t, "reference/camel", groups[0])

	_, err = os.Stat(filepath.Join(filepath.Dir(cfg.Output.Directory), report.ReportFilename))
	assert.NoError(t, err)
}

func TestBuilderSecondRunUnchanged(t *testing.T) {
	cfg := testSetup(t)
	b := NewBuilder(cfg).SetEngine(stubEngine("camel", "camel.types"))

	_, err := b.Run(context.Background(), Options{})
	require.NoError(t, err)

	rep, err := b.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Count(report.OutcomeWritten))
	assert.Equal(t, 2, rep.Count(report.OutcomeUnchanged))
}

func TestBuilderModuleFailureIsWarning(t *testing.T) {
	cfg := testSetup(t)
	// Only the root package has engine output; camel.types fails the
	// whole converter chain.
	b := NewBuilder(cfg).SetEngine(stubEngine("camel"))

	rep, err := b.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Count(report.OutcomeWritten))
	failures := rep.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "camel.types", failures[0].Module)
}

func TestBuilderInsubstantialModuleSkipped(t *testing.T) {
	cfg := testSetup(t)
	eng := stubEngine("camel")
	eng.Content["markdown"]["camel.types"] = "# camel.types\n"
	b := NewBuilder(cfg).SetEngine(eng)

	rep, err := b.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Count(report.OutcomeWritten))
	assert.Equal(t, 1, rep.Count(report.OutcomeSkipped))
	assert.Equal(t, 0, rep.Count(report.OutcomeFailed))
	assert.Empty(t, rep.Failures())

	_, statErr := os.Stat(filepath.Join(cfg.Output.Directory, "camel.types.mdx"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuilderCleanRemovesStalePages(t *testing.T) {
	cfg := testSetup(t)
	b := NewBuilder(cfg).SetEngine(stubEngine("camel", "camel.types"))

	// Plant a page for a module that no longer exists.
	require.NoError(t, os.MkdirAll(cfg.Output.Directory, 0o755))
	stale := filepath.Join(cfg.Output.Directory, "camel.gone.mdx")
	require.NoError(t, os.WriteFile(stale, []byte("---\ntitle: camel.gone\n---\n\nold\n"), 0o644))

	rep, err := b.Run(context.Background(), Options{Clean: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"camel.gone"}, rep.Removed)
	_, statErr := os.Stat(stale)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuilderManifestOnly(t *testing.T) {
	cfg := testSetup(t)
	b := NewBuilder(cfg).SetEngine(stubEngine("camel", "camel.types"))

	_, err := b.Run(context.Background(), Options{})
	require.NoError(t, err)

	// Reset the manifest and rebuild it from pages alone.
	require.NoError(t, os.WriteFile(cfg.Manifest.Path, []byte(manifestFixture), 0o644))

	rep, err := b.Run(context.Background(), Options{ManifestOnly: true})
	require.NoError(t, err)
	assert.Empty(t, rep.Results)

	content, err := os.ReadFile(cfg.Manifest.Path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "reference/camel.types")
}

func TestBuilderRecordsState(t *testing.T) {
	cfg := testSetup(t)
	store, err := state.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	b := NewBuilder(cfg).SetEngine(stubEngine("camel", "camel.types")).SetStore(store)

	rep, err := b.Run(context.Background(), Options{})
	require.NoError(t, err)

	last, found, err := store.LastRun(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, rep.RunID, last.ID)
	assert.Equal(t, "full", last.Mode)
	assert.Equal(t, "success", last.Status)
	assert.Equal(t, 2, last.PagesWritten)

	records, err := store.Pages(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestBuilderCanceledContext(t *testing.T) {
	cfg := testSetup(t)
	b := NewBuilder(cfg).SetEngine(stubEngine("camel", "camel.types"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Run(ctx, Options{})
	require.Error(t, err)

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageErrorCanceled, se.Kind)
}
