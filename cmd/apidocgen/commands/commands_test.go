package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
	"git.home.luguber.info/inful/apidocgen/internal/state"
)

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test"})
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return cli, ctx
}

func TestParseBuildFlags(t *testing.T) {
	cli, ctx := parseCLI(t, "build", "-o", "out", "--clean", "-i", "--since", "48h", "--package", "camel")
	assert.Equal(t, "build", ctx.Command())
	assert.Equal(t, "out", cli.Build.Output)
	assert.True(t, cli.Build.Clean)
	assert.True(t, cli.Build.Incremental)
	assert.Equal(t, "48h", cli.Build.Since)
	assert.Equal(t, "camel", cli.Build.Package)
}

func TestParseDefaults(t *testing.T) {
	cli, _ := parseCLI(t, "build")
	assert.Equal(t, "apidocgen.yaml", cli.Config)
	assert.Equal(t, "24h", cli.Build.Since)
	assert.False(t, cli.Build.ChangedOnly)
}

func TestParseAllCommands(t *testing.T) {
	for _, args := range [][]string{
		{"build"},
		{"build", "--manifest-only"},
		{"discover", "--changed-only"},
		{"manifest"},
		{"prune", "errors.log", "--dry-run"},
		{"doctor"},
		{"history", "--pages"},
		{"init", "--force"},
		{"watch", "--metrics-addr", ":9100"},
	} {
		_, ctx := parseCLI(t, args...)
		assert.NotEmpty(t, ctx.Command(), "args: %v", args)
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "apidocgen.yaml")

	cmd := &InitCmd{}
	root := &CLI{Config: configPath}
	require.NoError(t, cmd.Run(&Global{}, root))

	_, err := os.Stat(configPath)
	require.NoError(t, err)

	// Without --force a second init must refuse to overwrite.
	require.Error(t, cmd.Run(&Global{}, root))

	cmd.Force = true
	require.NoError(t, cmd.Run(&Global{}, root))
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	pkg := filepath.Join(dir, "camel")
	require.NoError(t, os.MkdirAll(pkg, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "__init__.py"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "types.py"), []byte("X = 1\n"), 0o644))

	configPath := filepath.Join(dir, "apidocgen.yaml")
	content := `package:
  name: camel
  root: ` + dir + `
output:
  directory: ` + filepath.Join(dir, "reference") + `
manifest:
  path: ` + filepath.Join(dir, "docs.json") + `
state:
  disabled: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return configPath
}

func TestDiscoverCommand(t *testing.T) {
	configPath := writeTestConfig(t)

	cmd := &DiscoverCmd{}
	root := &CLI{Config: configPath}
	require.NoError(t, cmd.Run(&Global{}, root))
}

func TestHistoryCommand(t *testing.T) {
	dir := t.TempDir()
	pkg := filepath.Join(dir, "camel")
	require.NoError(t, os.MkdirAll(pkg, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "__init__.py"), []byte(""), 0o644))

	stateDir := filepath.Join(dir, "state")
	configPath := filepath.Join(dir, "apidocgen.yaml")
	content := `package:
  name: camel
  root: ` + dir + `
output:
  directory: ` + filepath.Join(dir, "reference") + `
state:
  directory: ` + stateDir + `
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	store, err := state.Open(filepath.Join(stateDir, "state.db"))
	require.NoError(t, err)
	require.NoError(t, store.RecordRun(context.Background(), state.Run{
		ID: "run-1", StartedAt: time.Unix(1000, 0), FinishedAt: time.Unix(1060, 0),
		Mode: "full", Status: "success", ModulesTotal: 1, PagesWritten: 1,
	}))
	require.NoError(t, store.UpsertPage(context.Background(), state.PageRecord{
		Module: "camel", Fingerprint: "fp", Converter: "native",
		RunID: "run-1", UpdatedAt: time.Unix(1060, 0),
	}))
	require.NoError(t, store.Close())

	root := &CLI{Config: configPath}
	require.NoError(t, (&HistoryCmd{Pages: true}).Run(&Global{}, root))
	require.NoError(t, (&HistoryCmd{Module: "camel"}).Run(&Global{}, root))
	require.Error(t, (&HistoryCmd{Module: "camel.missing"}).Run(&Global{}, root))
}

func TestHistoryCommandStateDisabled(t *testing.T) {
	configPath := writeTestConfig(t)

	err := (&HistoryCmd{}).Run(&Global{}, &CLI{Config: configPath})
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryValidation))
}

func TestPruneDryRun(t *testing.T) {
	configPath := writeTestConfig(t)

	logPath := filepath.Join(t.TempDir(), "errors.log")
	require.NoError(t, os.WriteFile(logPath,
		[]byte("Parsing error: ./reference/camel.types.mdx: bad\n"), 0o644))

	cmd := &PruneCmd{ErrorLog: logPath, DryRun: true}
	root := &CLI{Config: configPath}
	require.NoError(t, cmd.Run(&Global{}, root))
}
