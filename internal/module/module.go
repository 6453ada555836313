// Package module discovers the importable modules of a source package.
//
// A module is identified by its dotted import path (e.g. "camel.agents.chat").
// Discovery walks the package directory: every source file with the configured
// extension is a module, and every directory containing the package marker
// file is a package-module. The package root itself is always the first
// module of a full scan.
package module

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind distinguishes plain modules from packages.
type Kind string

const (
	KindModule  Kind = "module"
	KindPackage Kind = "package"
)

// Module represents a discovered importable module.
type Module struct {
	Name    string    // dotted import path
	Path    string    // absolute path of the backing file or directory
	Kind    Kind      // module or package
	ModTime time.Time // mtime of the backing file (zero for packages)
}

// Depth returns the number of path segments in the module name.
func (m Module) Depth() int {
	return strings.Count(m.Name, ".") + 1
}

// TopLevel returns the first segment below the package root, or the root
// name itself for the root module.
func (m Module) TopLevel() string {
	parts := strings.SplitN(m.Name, ".", 3)
	if len(parts) < 2 {
		return parts[0]
	}
	return parts[1]
}

var titleCaser = cases.Title(language.English)

// DisplayName returns the human-facing name for a top-level module segment.
// Explicit mappings win; otherwise snake_case is converted to Title Case
// (e.g. "data_collector" -> "Data Collector").
func DisplayName(segment string, overrides map[string]string) string {
	if name, ok := overrides[segment]; ok {
		return name
	}
	return titleCaser.String(strings.ReplaceAll(segment, "_", " "))
}
