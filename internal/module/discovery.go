package module

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
	"git.home.luguber.info/inful/apidocgen/internal/logfields"
)

// Discovery walks a package source tree and reports its modules.
type Discovery struct {
	cfg config.PackageConfig
}

// NewDiscovery creates a discovery instance for the configured package.
func NewDiscovery(cfg config.PackageConfig) *Discovery {
	return &Discovery{cfg: cfg}
}

// PackageDir returns the absolute path of the package directory.
func (d *Discovery) PackageDir() (string, error) {
	dir := filepath.Join(d.cfg.Root, d.cfg.Name)
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", derrors.WrapFileSystemError(err, "failed to resolve package directory")
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return "", derrors.New(derrors.CategoryDiscovery, derrors.SeverityError,
			"package directory not found: "+dir)
	}
	return abs, nil
}

// All returns every module of the package, sorted by name. The package root
// is included as the first module.
func (d *Discovery) All() ([]Module, error) {
	pkgDir, err := d.PackageDir()
	if err != nil {
		return nil, err
	}
	baseDir := filepath.Dir(pkgDir)

	root := Module{Name: d.cfg.Name, Path: pkgDir, Kind: KindPackage}
	if info, err := os.Stat(filepath.Join(pkgDir, d.cfg.PackageMarker)); err == nil {
		root.ModTime = info.ModTime()
	}
	seen := map[string]Module{d.cfg.Name: root}

	walkErr := filepath.WalkDir(pkgDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path == pkgDir {
				return nil
			}
			marker := filepath.Join(path, d.cfg.PackageMarker)
			info, err := os.Stat(marker)
			if err != nil {
				// Not a package; don't descend into unrelated directories.
				return filepath.SkipDir
			}
			if d.excluded(pkgDir, path) {
				return filepath.SkipDir
			}
			name := d.moduleName(baseDir, path)
			// The marker's mtime stands in for the package itself, so a
			// touched marker shows up in the incremental window.
			seen[name] = Module{Name: name, Path: path, Kind: KindPackage, ModTime: info.ModTime()}
			return nil
		}

		if !strings.HasSuffix(entry.Name(), d.cfg.Extension) || entry.Name() == d.cfg.PackageMarker {
			return nil
		}
		if d.excluded(pkgDir, path) {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		name := d.moduleName(baseDir, strings.TrimSuffix(path, d.cfg.Extension))
		seen[name] = Module{Name: name, Path: path, Kind: KindModule, ModTime: info.ModTime()}
		return nil
	})
	if walkErr != nil {
		return nil, derrors.Wrap(walkErr, derrors.CategoryDiscovery, derrors.SeverityError,
			"failed to walk package directory")
	}

	modules := make([]Module, 0, len(seen))
	for _, m := range seen {
		modules = append(modules, m)
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].Name < modules[j].Name })

	slog.Debug("Module discovery completed", slog.Int("modules", len(modules)), logfields.Path(pkgDir))
	return modules, nil
}

// moduleName converts an absolute path (without extension) to a dotted module name.
func (d *Discovery) moduleName(baseDir, path string) string {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		rel = path
	}
	return strings.ReplaceAll(rel, string(filepath.Separator), ".")
}

// excluded reports whether a path matches any configured exclude glob.
// Patterns are matched against the path relative to the package directory.
func (d *Discovery) excluded(pkgDir, path string) bool {
	if len(d.cfg.Exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(pkgDir, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range d.cfg.Exclude {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		// Allow matching any path segment for bare patterns like "tests".
		for _, seg := range strings.Split(rel, "/") {
			if ok, _ := filepath.Match(pattern, seg); ok {
				return true
			}
		}
	}
	return false
}
