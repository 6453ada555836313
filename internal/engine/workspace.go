package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
	"git.home.luguber.info/inful/apidocgen/internal/module"
)

// confTemplate is the engine configuration rendered into the scratch
// workspace. The package root is prepended to the engine's import path so
// the autodoc extension can import the package under documentation.
const confTemplate = `# Configuration file generated by apidocgen. Do not edit.
import os
import sys
sys.path.insert(0, {{printf "%q" .PackageRoot}})

project = {{printf "%q" .Project}}
author = {{printf "%q" .Author}}
release = {{printf "%q" .Release}}

extensions = [
    'sphinx.ext.autodoc',
    'sphinx.ext.autosummary',
    'sphinx.ext.viewcode',
    'sphinx.ext.napoleon',
]

autodoc_default_options = {
    'members': True,
    'undoc-members': True,
    'private-members': False,
    'special-members': '__init__',
    'inherited-members': False,
    'show-inheritance': True,
}

autosummary_generate = True
napoleon_google_docstring = True
napoleon_numpy_docstring = True
napoleon_use_param = True
napoleon_use_rtype = True

master_doc = 'index'
exclude_patterns = ['_build']
`

// Workspace is a scratch directory holding the engine configuration and
// per-module markup stubs, plus the build output trees.
type Workspace struct {
	Dir       string // workspace root (removed by Close)
	SourceDir string // markup stubs and engine config
	BuildDir  string // per-builder output trees
}

type confValues struct {
	PackageRoot string
	Project     string
	Author      string
	Release     string
}

// NewWorkspace creates a temp workspace and renders the engine config into it.
func NewWorkspace(cfg config.EngineConfig, packageRoot string) (*Workspace, error) {
	dir, err := os.MkdirTemp("", "apidocgen-engine-*")
	if err != nil {
		return nil, derrors.WrapFileSystemError(err, "failed to create engine workspace")
	}

	ws := &Workspace{
		Dir:       dir,
		SourceDir: filepath.Join(dir, "source"),
		BuildDir:  filepath.Join(dir, "build"),
	}
	for _, d := range []string{ws.SourceDir, ws.BuildDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			_ = os.RemoveAll(dir)
			return nil, derrors.WrapFileSystemError(err, "failed to create engine workspace")
		}
	}

	absRoot, err := filepath.Abs(packageRoot)
	if err != nil {
		absRoot = packageRoot
	}

	tmpl := template.Must(template.New("conf").Parse(confTemplate))
	var rendered strings.Builder
	if err := tmpl.Execute(&rendered, confValues{
		PackageRoot: absRoot,
		Project:     cfg.Project,
		Author:      cfg.Author,
		Release:     cfg.Release,
	}); err != nil {
		_ = os.RemoveAll(dir)
		return nil, derrors.WrapEngineError(err, "failed to render engine configuration")
	}

	confPath := filepath.Join(ws.SourceDir, "conf.py")
	if err := os.WriteFile(confPath, []byte(rendered.String()), 0o644); err != nil {
		_ = os.RemoveAll(dir)
		return nil, derrors.WrapFileSystemError(err, "failed to write engine configuration")
	}

	// The engine wants a master document even when building single pages.
	indexPath := filepath.Join(ws.SourceDir, "index.rst")
	index := "API Reference\n=============\n"
	if err := os.WriteFile(indexPath, []byte(index), 0o644); err != nil {
		_ = os.RemoveAll(dir)
		return nil, derrors.WrapFileSystemError(err, "failed to write engine index document")
	}

	return ws, nil
}

// WriteStub writes the per-module markup stub that instructs the engine to
// extract the module's documentation.
func (w *Workspace) WriteStub(mod module.Module) error {
	underline := strings.Repeat("=", len(mod.Name))
	stub := fmt.Sprintf(`%s
%s

.. automodule:: %s
   :members:
   :undoc-members:
   :show-inheritance:
   :special-members: __init__
`, mod.Name, underline, mod.Name)

	path := filepath.Join(w.SourceDir, mod.Name+".rst")
	if err := os.WriteFile(path, []byte(stub), 0o644); err != nil {
		return derrors.WrapFileSystemError(err, "failed to write module stub").
			WithContext("module", mod.Name)
	}
	return nil
}

// OutputPath returns the expected engine output file for a module and builder.
func (w *Workspace) OutputPath(builder, moduleName string) string {
	ext := ".html"
	if builder != "html" {
		ext = ".md"
	}
	return filepath.Join(w.BuildDir, builder, moduleName+ext)
}

// Close removes the workspace directory.
func (w *Workspace) Close() error {
	if w.Dir == "" {
		return nil
	}
	return os.RemoveAll(w.Dir)
}
