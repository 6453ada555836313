package module

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"

	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
)

// ChangedInWorktree returns the modules whose source files are modified,
// added, or untracked in the git working tree enclosing the package
// directory. This is the "--changed-only" discovery mode.
func (d *Discovery) ChangedInWorktree() ([]Module, error) {
	pkgDir, err := d.PackageDir()
	if err != nil {
		return nil, err
	}
	baseDir := filepath.Dir(pkgDir)

	repo, err := git.PlainOpenWithOptions(pkgDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryDiscovery, derrors.SeverityError,
			"failed to open git repository enclosing package")
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryDiscovery, derrors.SeverityError,
			"failed to access git worktree")
	}

	status, err := worktree.Status()
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryDiscovery, derrors.SeverityError,
			"failed to read git worktree status")
	}

	repoRoot := worktree.Filesystem.Root()

	seen := map[string]Module{}
	for relPath, fileStatus := range status {
		if fileStatus.Worktree == git.Unmodified && fileStatus.Staging == git.Unmodified {
			continue
		}
		if fileStatus.Worktree == git.Deleted || fileStatus.Staging == git.Deleted {
			continue
		}

		absPath := filepath.Join(repoRoot, filepath.FromSlash(relPath))
		if !strings.HasPrefix(absPath, pkgDir+string(filepath.Separator)) {
			continue
		}
		base := filepath.Base(absPath)
		if !strings.HasSuffix(base, d.cfg.Extension) {
			continue
		}
		if d.excluded(pkgDir, absPath) {
			continue
		}

		if base == d.cfg.PackageMarker {
			// A changed marker regenerates the package page.
			dir := filepath.Dir(absPath)
			name := d.moduleName(baseDir, dir)
			seen[name] = Module{Name: name, Path: dir, Kind: KindPackage}
			continue
		}

		name := d.moduleName(baseDir, strings.TrimSuffix(absPath, d.cfg.Extension))
		seen[name] = Module{Name: name, Path: absPath, Kind: KindModule}
	}

	modules := make([]Module, 0, len(seen))
	for _, m := range seen {
		modules = append(modules, m)
	}

	slog.Debug("Git worktree changes mapped to modules",
		slog.Int("status_entries", len(status)),
		slog.Int("modules", len(modules)))
	return sortedByName(modules), nil
}
