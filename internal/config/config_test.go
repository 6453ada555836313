package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
package:
  name: camel
output:
  directory: docs/reference
manifest:
  path: docs/docs.json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Package.Extension != ".py" {
		t.Errorf("extension default = %q, want .py", cfg.Package.Extension)
	}
	if cfg.Package.PackageMarker != "__init__.py" {
		t.Errorf("package_marker default = %q", cfg.Package.PackageMarker)
	}
	if cfg.Engine.Binary != "sphinx-build" {
		t.Errorf("engine binary default = %q", cfg.Engine.Binary)
	}
	if cfg.Engine.Project != "camel" {
		t.Errorf("engine project should default to package name, got %q", cfg.Engine.Project)
	}
	if cfg.Convert.MinBlocks != 3 {
		t.Errorf("min_blocks default = %d, want 3", cfg.Convert.MinBlocks)
	}
	if cfg.Output.PageExtension != ".mdx" {
		t.Errorf("page_extension default = %q, want .mdx", cfg.Output.PageExtension)
	}
	if cfg.Manifest.Tab != "API Reference" {
		t.Errorf("manifest tab default = %q", cfg.Manifest.Tab)
	}
	if cfg.Watch.NATSSubject != "apidocgen.builds" {
		t.Errorf("nats subject default = %q", cfg.Watch.NATSSubject)
	}
	if !cfg.Engine.QuietEnabled() {
		t.Error("engine should default to quiet")
	}
}

func TestEngineQuietDisabled(t *testing.T) {
	path := writeConfig(t, `
package:
  name: camel
engine:
  quiet: false
output:
  directory: docs/reference
manifest:
  path: docs/docs.json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.QuietEnabled() {
		t.Error("quiet: false should disable quiet mode")
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("DOCS_OUTPUT", "generated/reference")
	path := writeConfig(t, `
package:
  name: camel
output:
  directory: ${DOCS_OUTPUT}
manifest:
  path: docs/docs.json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Directory != "generated/reference" {
		t.Errorf("env expansion failed: %q", cfg.Output.Directory)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRejectsMissingPackageName(t *testing.T) {
	path := writeConfig(t, `
output:
  directory: docs/reference
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for missing package.name")
	}
}

func TestValidateRejectsBadPageExtension(t *testing.T) {
	cfg := &Config{
		Package: PackageConfig{Name: "camel"},
		Output:  OutputConfig{Directory: "docs", PageExtension: "mdx"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for extension without dot")
	}
}

func TestInitRefusesExistingWithoutForce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := Init(path, false); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if err := Init(path, false); err == nil {
		t.Fatal("expected error for existing config without --force")
	}
	if err := Init(path, true); err != nil {
		t.Fatalf("forced init: %v", err)
	}

	// The example must itself be loadable.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("example config does not load: %v", err)
	}
	if cfg.Package.Name == "" {
		t.Error("example config missing package name")
	}
}
